package health

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for health endpoints.
type Handlers struct {
	health    *Service
	fsChecker *FilesystemChecker
	feedDir   string
}

// NewHandlers creates new health handlers. feedDir is re-checked on demand.
func NewHandlers(health *Service, fsChecker *FilesystemChecker, feedDir string) *Handlers {
	return &Handlers{
		health:    health,
		fsChecker: fsChecker,
		feedDir:   feedDir,
	}
}

// RegisterRoutes registers health routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetAll)
	g.GET("/summary", h.GetSummary)
	g.GET("/:category", h.GetByCategory)
	g.POST("/feedDirectory/test", h.TestFeedDirectory)
}

// GetAll returns all health items grouped by category.
// GET /api/v1/health
func (h *Handlers) GetAll(c echo.Context) error {
	return c.JSON(http.StatusOK, h.health.GetAll())
}

// GetSummary returns summary counts per category.
// GET /api/v1/health/summary
func (h *Handlers) GetSummary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.health.GetSummary())
}

// GetByCategory returns the items of one category.
// GET /api/v1/health/:category
func (h *Handlers) GetByCategory(c echo.Context) error {
	category, ok := ParseCategory(c.Param("category"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown health category")
	}
	return c.JSON(http.StatusOK, h.health.GetByCategory(category))
}

// TestFeedDirectory re-checks the feed directory and records the result.
// POST /api/v1/health/feedDirectory/test
func (h *Handlers) TestFeedDirectory(c echo.Context) error {
	h.health.RegisterItem(CategoryFeedDirectory, h.feedDir, h.feedDir)

	ok, message := h.fsChecker.CheckFolderHealth(h.feedDir)
	if ok {
		h.health.ClearStatus(CategoryFeedDirectory, h.feedDir)
	} else {
		h.health.SetError(CategoryFeedDirectory, h.feedDir, message)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": ok,
		"message": message,
	})
}
