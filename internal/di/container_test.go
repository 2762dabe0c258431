package di

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samber/do/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/showguide/internal/api"
	"github.com/slipstream/showguide/internal/catalog"
	"github.com/slipstream/showguide/internal/config"
	"github.com/slipstream/showguide/internal/health"
	"github.com/slipstream/showguide/internal/library/tv"
	"github.com/slipstream/showguide/internal/logger"
	"github.com/slipstream/showguide/internal/metadata"
)

func TestNewContainer(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/feeds", 0o755))

	log := logger.New(logger.Config{Format: "json", Console: &bytes.Buffer{}})
	cache := metadata.NewCache[*tv.Series](metadata.DefaultCacheConfig())
	t.Cleanup(cache.Close)
	cat := catalog.NewService(fs, "/feeds", cache, log.Logger)

	injector := NewContainer(config.Default(), log, fs, cat)
	t.Cleanup(func() { injector.Shutdown() })

	server, err := do.Invoke[*api.Server](injector)
	require.NoError(t, err)

	sched := do.MustInvoke[*SchedulerHandle](injector)
	task, err := sched.GetTask("catalog-reload")
	require.NoError(t, err)
	assert.Equal(t, "*/30 * * * *", task.Schedule)

	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/feeds", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	_, err = cat.Reload(t.Context())
	require.NoError(t, err)
	hs := do.MustInvoke[*health.Service](injector)
	assert.True(t, hs.IsHealthy(health.CategoryFeedDirectory, "/feeds"))
}
