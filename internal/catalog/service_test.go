package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/showguide/internal/health"
	"github.com/slipstream/showguide/internal/library/tv"
	"github.com/slipstream/showguide/internal/metadata"
)

const homelandDoc = `{
  "name": "Homeland",
  "language": "English",
  "genres": ["Drama", "Thriller", "Espionage"],
  "premiered": "2011-10-02",
  "rating": {"average": 8.2},
  "network": {"name": "Showtime"},
  "summary": "<p>Spy thriller.</p>",
  "_embedded": {"episodes": [
    {"name": "Pilot", "season": 1, "number": 1, "airdate": "2011-10-02", "runtime": 60, "summary": "<p>Carrie meets Brody.</p>"},
    {"name": "Grace", "season": 1, "number": 2, "airdate": "2011-10-09", "runtime": 60}
  ]}
}`

const thronesDoc = `{
  "name": "Game of Thrones",
  "language": "English",
  "genres": ["Drama", "Adventure", "Fantasy"],
  "premiered": "2011-04-17",
  "rating": {"average": 8.9},
  "network": {"name": "HBO"},
  "_embedded": {"episodes": [
    {"name": "Winter is Coming", "season": 1, "number": 1, "airdate": "2011-04-17", "runtime": 60},
    {"name": "The North Remembers", "season": 2, "number": 1, "airdate": "2012-04-01", "runtime": 60}
  ]}
}`

func newTestService(t *testing.T, files map[string]string) (*Service, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/feeds", 0o755))
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, "/feeds/"+name, []byte(body), 0o644))
	}

	cache := metadata.NewCache[*tv.Series](metadata.CacheConfig{TTL: time.Minute, MaxItems: 10})
	t.Cleanup(cache.Close)

	return NewService(fs, "/feeds", cache, zerolog.Nop()), fs
}

func TestService_Reload(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"homeland.json": homelandDoc,
		"got.json":      thronesDoc,
		"notes.txt":     "ignored",
	})

	n, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	summaries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "game-of-thrones", summaries[0].Slug)
	assert.Equal(t, 2, summaries[0].Seasons)
	assert.Equal(t, "homeland", summaries[1].Slug)
	assert.Equal(t, "Showtime", summaries[1].Network)
	assert.Equal(t, 2, summaries[1].Episodes)

	series, err := svc.Get(context.Background(), "homeland")
	require.NoError(t, err)
	ep, err := series.Episode(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Grace", ep.Name.OrEmpty())
}

func TestService_ReloadSkipsMalformed(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"homeland.json": homelandDoc,
		"broken.json":   `{"language": "English"}`,
	})

	n, err := svc.Reload(context.Background())
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, tv.ErrMalformedRecord)

	_, err = svc.Get(context.Background(), "homeland")
	assert.NoError(t, err)
}

func TestService_ReloadDropsRemovedFeeds(t *testing.T) {
	svc, fs := newTestService(t, map[string]string{
		"homeland.json": homelandDoc,
		"got.json":      thronesDoc,
	})

	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	require.NoError(t, fs.Remove("/feeds/got.json"))
	n, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = svc.Get(context.Background(), "game-of-thrones")
	assert.True(t, errors.Is(err, ErrSeriesNotFound))
}

func TestService_ReloadDuplicateSlug(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"a.json": homelandDoc,
		"b.json": homelandDoc,
	})

	n, err := svc.Reload(context.Background())
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestService_ReloadMissingDir(t *testing.T) {
	cache := metadata.NewCache[*tv.Series](metadata.DefaultCacheConfig())
	defer cache.Close()
	svc := NewService(afero.NewMemMapFs(), "/nowhere", cache, zerolog.Nop())

	_, err := svc.Reload(context.Background())
	assert.Error(t, err)
}

func TestService_GetRedecodesAfterExpiry(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/feeds", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/feeds/homeland.json", []byte(homelandDoc), 0o644))
	cache := metadata.NewCache[*tv.Series](metadata.CacheConfig{TTL: time.Minute, MaxItems: 10})
	defer cache.Close()
	svc := NewService(fs, "/feeds", cache, zerolog.Nop())

	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	cache.Clear()
	series, err := svc.Get(context.Background(), "homeland")
	require.NoError(t, err)
	assert.Equal(t, "Homeland", series.Name)
	assert.Equal(t, 1, cache.Len(), "re-decoded series is cached again")
}

func TestService_ReportsFeedHealth(t *testing.T) {
	svc, fs := newTestService(t, map[string]string{
		"homeland.json": homelandDoc,
		"broken.json":   `{"language": "English"}`,
		"copy.json":     homelandDoc,
	})
	hs := health.NewService(zerolog.Nop())
	svc.SetHealthReporter(hs)

	_, err := svc.Reload(context.Background())
	require.Error(t, err)

	assert.True(t, hs.IsHealthy(health.CategoryFeedDirectory, "/feeds"))

	feeds := hs.GetByCategory(health.CategoryFeeds)
	require.Len(t, feeds, 3)
	assert.Equal(t, "/feeds/broken.json", feeds[0].ID)
	assert.Equal(t, health.StatusError, feeds[0].Status)
	assert.Equal(t, health.StatusOK, feeds[1].Status)
	assert.Equal(t, health.StatusWarning, feeds[2].Status, "homeland.json repeats the slug of copy.json")

	require.NoError(t, fs.Remove("/feeds/broken.json"))
	require.NoError(t, fs.Remove("/feeds/copy.json"))
	_, err = svc.Reload(context.Background())
	require.NoError(t, err)

	feeds = hs.GetByCategory(health.CategoryFeeds)
	require.Len(t, feeds, 1)
	assert.Equal(t, "/feeds/homeland.json", feeds[0].ID)
	assert.False(t, hs.GetSummary().HasIssues)

	require.NoError(t, fs.RemoveAll("/feeds"))
	_, err = svc.Reload(context.Background())
	require.Error(t, err)
	assert.False(t, hs.IsHealthy(health.CategoryFeedDirectory, "/feeds"))
}

func TestService_Load(t *testing.T) {
	svc, fs := newTestService(t, nil)
	require.NoError(t, fs.MkdirAll("/elsewhere", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/elsewhere/homeland.json", []byte(homelandDoc), 0o644))

	series, err := svc.Load(context.Background(), "/elsewhere/homeland.json")
	require.NoError(t, err)
	assert.Equal(t, "Homeland", series.Name)

	got, err := svc.Get(context.Background(), "homeland")
	require.NoError(t, err)
	assert.Same(t, series, got)

	_, err = svc.Load(context.Background(), "/elsewhere/missing.json")
	assert.Error(t, err)
}

func TestService_CancelledContext(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{"homeland.json": homelandDoc})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Reload(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Homeland", "homeland"},
		{"Game of Thrones", "game-of-thrones"},
		{"  Marvel's Agents of S.H.I.E.L.D.  ", "marvel-s-agents-of-s-h-i-e-l-d"},
		{"24", "24"},
		{"進撃の巨人", "進撃の巨人"},
		{"Звёздный путь", "звёздный-путь"},
		{"Pokémon: Indigo League", "pokémon-indigo-league"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		if got := Slug(tt.name); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestService_Suggest(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"homeland.json": homelandDoc,
		"thrones.json":  thronesDoc,
	})
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	tests := []struct {
		ref  string
		want string
		ok   bool
	}{
		{"homland", "homeland", true},
		{"Thrones", "game-of-thrones", true},
		{"the wire", "", false},
	}

	for _, tt := range tests {
		got, ok := svc.Suggest(tt.ref).Get()
		assert.Equal(t, tt.ok, ok, tt.ref)
		assert.Equal(t, tt.want, got, tt.ref)
	}
}

func TestService_ReloadNonLatinNames(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"attack.json": `{"name": "進撃の巨人", "_embedded": {"episodes": [{"season": 1, "number": 1}]}}`,
		"trek.json":   `{"name": "Звёздный путь", "_embedded": {"episodes": [{"season": 1, "number": 1}]}}`,
		"punct.json":  `{"name": "???", "_embedded": {"episodes": [{"season": 1, "number": 1}]}}`,
	})

	n, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	summaries, err := svc.List(context.Background())
	require.NoError(t, err)
	slugs := make([]string, len(summaries))
	for i, s := range summaries {
		slugs[i] = s.Slug
	}
	assert.ElementsMatch(t, []string{"進撃の巨人", "звёздный-путь", "punct"}, slugs)

	series, err := svc.Get(context.Background(), "звёздный-путь")
	require.NoError(t, err)
	assert.Equal(t, "Звёздный путь", series.Name)

	series, err = svc.Get(context.Background(), "punct")
	require.NoError(t, err)
	assert.Equal(t, "???", series.Name)
}
