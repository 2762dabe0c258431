package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/slipstream/showguide/internal/library/tv"
)

// SeriesDetail is the response for a single series.
type SeriesDetail struct {
	Slug string `json:"slug"`
	tv.Info
	Stats tv.Stats `json:"stats"`
}

// Handlers provides HTTP handlers for catalog queries.
type Handlers struct {
	service *Service
}

// NewHandlers creates new catalog handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the series routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListSeries)
	g.POST("/reload", h.Reload)
	g.GET("/:slug", h.GetSeries)
	g.GET("/:slug/stats", h.GetStats)
	g.GET("/:slug/premieres", h.ListPremieres)
	g.GET("/:slug/episodes", h.SearchEpisodes)
	g.GET("/:slug/seasons/:season", h.GetSeason)
	g.GET("/:slug/seasons/:season/episodes/:number", h.GetEpisode)
}

// ListSeries returns summaries of all loaded series.
// GET /api/v1/series
func (h *Handlers) ListSeries(c echo.Context) error {
	summaries, err := h.service.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, summaries)
}

// Reload rescans the feed directory.
// POST /api/v1/series/reload
func (h *Handlers) Reload(c echo.Context) error {
	n, err := h.service.Reload(c.Request().Context())
	resp := map[string]any{"loaded": n}
	if err != nil {
		resp["error"] = err.Error()
	}
	return c.JSON(http.StatusOK, resp)
}

// GetSeries returns the header and statistics of a series.
// GET /api/v1/series/:slug
func (h *Handlers) GetSeries(c echo.Context) error {
	series, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SeriesDetail{
		Slug:  c.Param("slug"),
		Info:  series.Info,
		Stats: series.Stats(),
	})
}

// GetStats returns episode statistics for a series.
// GET /api/v1/series/:slug/stats
func (h *Handlers) GetStats(c echo.Context) error {
	series, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, series.Stats())
}

// ListPremieres returns the first episode of every season.
// GET /api/v1/series/:slug/premieres
func (h *Handlers) ListPremieres(c echo.Context) error {
	series, err := h.lookup(c)
	if err != nil {
		return err
	}
	premieres, err := series.SeasonPremiereEpisodes()
	if err != nil {
		return queryError(err)
	}
	return c.JSON(http.StatusOK, premieres)
}

// GetSeason returns the full row of a season; empty slots are null.
// GET /api/v1/series/:slug/seasons/:season
func (h *Handlers) GetSeason(c echo.Context) error {
	series, err := h.lookup(c)
	if err != nil {
		return err
	}
	season, err := intParam(c, "season")
	if err != nil {
		return err
	}
	row, err := series.EpisodesInSeason(season)
	if err != nil {
		return queryError(err)
	}
	return c.JSON(http.StatusOK, row)
}

// GetEpisode returns the episode at a coordinate.
// GET /api/v1/series/:slug/seasons/:season/episodes/:number
func (h *Handlers) GetEpisode(c echo.Context) error {
	series, err := h.lookup(c)
	if err != nil {
		return err
	}
	season, err := intParam(c, "season")
	if err != nil {
		return err
	}
	number, err := intParam(c, "number")
	if err != nil {
		return err
	}
	ep, err := series.Episode(season, number)
	if err != nil {
		return queryError(err)
	}
	return c.JSON(http.StatusOK, ep)
}

// SearchEpisodes filters a series' episodes. Filters combine; with none the
// full flattened episode list is returned.
// GET /api/v1/series/:slug/episodes?name=&character=&date=&year=&maxRuntime=
func (h *Handlers) SearchEpisodes(c echo.Context) error {
	series, err := h.lookup(c)
	if err != nil {
		return err
	}

	episodes := series.Episodes()

	if name := c.QueryParam("name"); name != "" {
		episodes = tv.SearchByName(episodes, name)
	}
	if character := c.QueryParam("character"); character != "" {
		episodes = tv.SearchByCharacter(episodes, character)
	}
	if date := c.QueryParam("date"); date != "" {
		if !tv.ValidAirdate(date) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		}
		ep, ok := tv.EpisodeOnDate(episodes, date)
		episodes = []tv.Episode{}
		if ok {
			episodes = append(episodes, ep)
		}
	}
	if year := c.QueryParam("year"); year != "" {
		y, err := strconv.Atoi(year)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
		}
		episodes = tv.EpisodesInYear(episodes, y)
	}
	if maxRuntime := c.QueryParam("maxRuntime"); maxRuntime != "" {
		m, err := strconv.Atoi(maxRuntime)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid maxRuntime")
		}
		episodes = tv.SearchByMaxRuntime(episodes, m)
	}

	return c.JSON(http.StatusOK, episodes)
}

func (h *Handlers) lookup(c echo.Context) (*tv.Series, error) {
	series, err := h.service.Get(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrSeriesNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return series, nil
}

func intParam(c echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}

func queryError(err error) error {
	if errors.Is(err, tv.ErrCoordinateOutOfRange) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
