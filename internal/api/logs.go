package api

import (
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/slipstream/showguide/internal/logger"
)

// LogsProvider provides access to log data.
type LogsProvider interface {
	RecentLogs() []logger.LogEntry
	LogFilePath() string
}

// LogsHandlers handles log-related HTTP endpoints.
type LogsHandlers struct {
	provider LogsProvider
}

// NewLogsHandlers creates a new logs handlers instance.
func NewLogsHandlers(provider LogsProvider) *LogsHandlers {
	return &LogsHandlers{provider: provider}
}

// RegisterRoutes registers log routes on the given group.
func (h *LogsHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetRecentLogs)
	g.GET("/download", h.DownloadLogFile)
}

// GetRecentLogs returns buffered log entries, optionally filtered by level and
// trimmed to the newest limit entries.
// GET /api/v1/logs?level=&limit=
func (h *LogsHandlers) GetRecentLogs(c echo.Context) error {
	logs := h.provider.RecentLogs()

	if level := c.QueryParam("level"); level != "" {
		threshold := logger.ParseLevel(level)
		logs = lo.Filter(logs, func(e logger.LogEntry, _ int) bool {
			return logger.ParseLevel(e.Level) >= threshold
		})
	}

	if limit := c.QueryParam("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		if n < len(logs) {
			logs = logs[len(logs)-n:]
		}
	}

	if logs == nil {
		logs = []logger.LogEntry{}
	}
	return c.JSON(http.StatusOK, logs)
}

// DownloadLogFile serves the current log file for download.
// GET /api/v1/logs/download
func (h *LogsHandlers) DownloadLogFile(c echo.Context) error {
	logPath := h.provider.LogFilePath()
	if logPath == "" {
		return echo.NewHTTPError(http.StatusNotFound, "no log file configured")
	}

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		return echo.NewHTTPError(http.StatusNotFound, "log file not found")
	}

	return c.Attachment(logPath, logger.FileName)
}
