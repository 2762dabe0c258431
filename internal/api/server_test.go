package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/showguide/internal/catalog"
	"github.com/slipstream/showguide/internal/config"
	"github.com/slipstream/showguide/internal/health"
	"github.com/slipstream/showguide/internal/library/tv"
	"github.com/slipstream/showguide/internal/logger"
	"github.com/slipstream/showguide/internal/metadata"
	"github.com/slipstream/showguide/internal/scheduler"
)

const homelandDoc = `{
  "name": "Homeland",
  "language": "English",
  "premiered": "2011-10-02",
  "_embedded": {"episodes": [
    {"name": "Pilot", "season": 1, "number": 1, "airdate": "2011-10-02", "runtime": 60},
    {"name": "Grace", "season": 1, "number": 2, "airdate": "2011-10-09", "runtime": 55}
  ]}
}`

type testServer struct {
	*Server
	log *logger.Logger
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/feeds", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/feeds/homeland.json", []byte(homelandDoc), 0o644))

	log := logger.New(logger.Config{Level: "debug", Format: "json", RecentSize: 50, Console: &bytes.Buffer{}})

	cache := metadata.NewCache[*tv.Series](metadata.DefaultCacheConfig())
	t.Cleanup(cache.Close)

	hs := health.NewService(log.Logger)
	svc := catalog.NewService(fs, "/feeds", cache, log.Logger)
	svc.SetHealthReporter(hs)
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	sched, err := scheduler.New(zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, sched.RegisterTask(scheduler.TaskConfig{
		ID:       "noop",
		Name:     "No-op",
		Interval: time.Hour,
		Func:     func(context.Context) error { return nil },
	}))
	t.Cleanup(func() { _ = sched.Stop() })

	return &testServer{
		Server: NewServer(config.Default(), Services{
			Catalog:   svc,
			Scheduler: sched,
			Health:    hs,
			FSChecker: health.NewFilesystemChecker(fs),
			Logs:      log,
		}, log.Logger),
		log: log,
	}
}

func (s *testServer) do(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestServer_Status(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, config.Version, body["version"])
	assert.Equal(t, "/feeds", body["feedDir"])
}

func TestServer_SecurityHeaders(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/series")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestServer_Health(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp health.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Feeds, 1)
	assert.Equal(t, "homeland.json", resp.Feeds[0].Name)
	assert.Equal(t, health.StatusOK, resp.Feeds[0].Status)
	require.Len(t, resp.FeedDirectory, 1)
}

func TestServer_SeriesRoutes(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/series/homeland/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats tv.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Episodes)
	assert.Equal(t, 55, stats.MinRuntime)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/series/unknown").Code)
}

func TestServer_SchedulerRoutes(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/scheduler/tasks")
	require.Equal(t, http.StatusOK, rec.Code)

	var tasks []scheduler.TaskInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "noop", tasks[0].ID)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/scheduler/tasks/noop").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/scheduler/tasks/missing").Code)
	assert.Equal(t, http.StatusAccepted, s.do(http.MethodPost, "/api/v1/scheduler/tasks/noop/run").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/v1/scheduler/tasks/missing/run").Code)
}

func TestServer_Logs(t *testing.T) {
	s := setupTestServer(t)

	s.do(http.MethodGet, "/api/v1/series/unknown")

	rec := s.do(http.MethodGet, "/api/v1/logs?level=error")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []logger.LogEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Equal(t, "error", e.Level)
	}
	assert.Equal(t, "request", entries[len(entries)-1].Message)

	rec = s.do(http.MethodGet, "/api/v1/logs?limit=1")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 1)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/logs?limit=-1").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/logs/download").Code)
}
