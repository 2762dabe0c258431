// Package catalog keeps the series decoded from a directory of feed documents.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog"
	"github.com/samber/mo"
	"github.com/spf13/afero"

	"github.com/slipstream/showguide/internal/library/tv"
	"github.com/slipstream/showguide/internal/metadata"
	"github.com/slipstream/showguide/internal/metadata/tvmaze"
)

var (
	ErrSeriesNotFound = errors.New("series not found")
	ErrDuplicateSlug  = errors.New("series with this slug already loaded")
)

// Summary is a short description of a catalog entry.
type Summary struct {
	Slug      string  `json:"slug"`
	Name      string  `json:"name"`
	Network   string  `json:"network,omitempty"`
	Premiered string  `json:"premiered,omitempty"`
	Rating    float64 `json:"rating"`
	Seasons   int     `json:"seasons"`
	Episodes  int     `json:"episodes"`
}

// HealthReporter receives the outcome of each feed document on reload.
type HealthReporter interface {
	RegisterItemStr(category, id, name string)
	UnregisterItemStr(category, id string)
	SetErrorStr(category, id, message string)
	SetWarningStr(category, id, message string)
	ClearStatusStr(category, id string)
}

const (
	healthCategoryDir   = "feedDirectory"
	healthCategoryFeeds = "feeds"
)

// Service loads feed documents and serves the decoded series by slug.
type Service struct {
	fs      afero.Fs
	dir     string
	decoder *tvmaze.Decoder
	cache   *metadata.Cache[*tv.Series]
	logger  zerolog.Logger
	health  HealthReporter

	mu       sync.RWMutex
	paths    map[string]string   // slug -> feed document path
	reported map[string]struct{} // feed documents known to the health reporter
}

// NewService creates a new catalog service reading feeds from dir.
func NewService(fs afero.Fs, dir string, cache *metadata.Cache[*tv.Series], logger zerolog.Logger) *Service {
	return &Service{
		fs:      fs,
		dir:     dir,
		decoder: tvmaze.NewDecoder(logger),
		cache:   cache,
		logger:  logger.With().Str("component", "catalog").Logger(),
		paths:   make(map[string]string),
	}
}

// SetHealthReporter sets the reporter notified of feed document outcomes.
func (s *Service) SetHealthReporter(r HealthReporter) {
	s.health = r
}

// Dir returns the feed directory.
func (s *Service) Dir() string {
	return s.dir
}

// Load decodes a single feed document and adds its series to the catalog.
func (s *Service) Load(ctx context.Context, path string) (*tv.Series, error) {
	series, err := s.decodeFile(ctx, path)
	if err != nil {
		return nil, err
	}

	slug := seriesSlug(series.Name, path)

	s.mu.Lock()
	if existing, ok := s.paths[slug]; ok && existing != path {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s (%s)", ErrDuplicateSlug, slug, existing)
	}
	s.paths[slug] = path
	s.mu.Unlock()

	s.cache.Set(slug, series)
	return series, nil
}

// Reload rescans the feed directory and replaces the catalog index.
// Documents that fail to decode are skipped; the last failure is returned
// together with the number of series loaded.
func (s *Service) Reload(ctx context.Context) (int, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	s.reportDir(err)
	if err != nil {
		return 0, fmt.Errorf("failed to read feed directory: %w", err)
	}

	paths := make(map[string]string)
	loaded := make(map[string]*tv.Series)
	seen := make(map[string]struct{})
	var lastErr error

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		seen[path] = struct{}{}
		series, err := s.decodeFile(ctx, path)
		if err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("Skipping feed document")
			s.reportFeed(path, err, false)
			lastErr = err
			continue
		}

		slug := seriesSlug(series.Name, path)
		if existing, ok := paths[slug]; ok {
			lastErr = fmt.Errorf("%w: %s (%s, %s)", ErrDuplicateSlug, slug, existing, path)
			s.logger.Warn().Str("slug", slug).Str("path", path).Str("existing", existing).Msg("Duplicate series slug")
			s.reportFeed(path, lastErr, true)
			continue
		}
		s.reportFeed(path, nil, false)
		paths[slug] = path
		loaded[slug] = series
	}
	s.forgetFeeds(seen)

	s.mu.Lock()
	for slug := range s.paths {
		if _, ok := paths[slug]; !ok {
			s.cache.Delete(slug)
		}
	}
	s.paths = paths
	s.mu.Unlock()

	for slug, series := range loaded {
		s.cache.Set(slug, series)
	}

	s.logger.Info().
		Str("dir", s.dir).
		Int("series", len(loaded)).
		Msg("Catalog reloaded")

	return len(loaded), lastErr
}

// Get returns the series for a slug, decoding it again if the cached copy expired.
func (s *Service) Get(ctx context.Context, slug string) (*tv.Series, error) {
	if series, ok := s.cache.Get(slug); ok {
		return series, nil
	}

	s.mu.RLock()
	path, ok := s.paths[slug]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSeriesNotFound
	}

	series, err := s.decodeFile(ctx, path)
	if err != nil {
		return nil, err
	}
	s.cache.Set(slug, series)
	return series, nil
}

// List returns summaries of every series in slug order.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	slugs := make([]string, 0, len(s.paths))
	for slug := range s.paths {
		slugs = append(slugs, slug)
	}
	s.mu.RUnlock()
	slices.Sort(slugs)

	summaries := make([]Summary, 0, len(slugs))
	for _, slug := range slugs {
		series, err := s.Get(ctx, slug)
		if err != nil {
			if errors.Is(err, ErrSeriesNotFound) {
				continue
			}
			return nil, err
		}
		summaries = append(summaries, Summarize(slug, series))
	}
	return summaries, nil
}

// Suggest returns the loaded slug closest to ref, if any slug fuzzily matches it.
func (s *Service) Suggest(ref string) mo.Option[string] {
	s.mu.RLock()
	slugs := make([]string, 0, len(s.paths))
	for slug := range s.paths {
		slugs = append(slugs, slug)
	}
	s.mu.RUnlock()

	ranks := fuzzy.RankFindNormalizedFold(Slug(ref), slugs)
	if len(ranks) == 0 {
		return mo.None[string]()
	}
	slices.SortFunc(ranks, func(a, b fuzzy.Rank) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return strings.Compare(a.Target, b.Target)
	})
	return mo.Some(ranks[0].Target)
}

// Summarize builds the summary of a series.
func Summarize(slug string, series *tv.Series) Summary {
	stats := series.Stats()
	return Summary{
		Slug:      slug,
		Name:      series.Name,
		Network:   series.Network,
		Premiered: series.Premiered,
		Rating:    series.Rating,
		Seasons:   stats.Seasons,
		Episodes:  stats.Episodes,
	}
}

func (s *Service) reportDir(err error) {
	if s.health == nil {
		return
	}
	s.health.RegisterItemStr(healthCategoryDir, s.dir, s.dir)
	if err != nil {
		s.health.SetErrorStr(healthCategoryDir, s.dir, err.Error())
		return
	}
	s.health.ClearStatusStr(healthCategoryDir, s.dir)
}

// reportFeed records the outcome of one document; a warning still leaves the
// document unloaded.
func (s *Service) reportFeed(path string, err error, warning bool) {
	if s.health == nil {
		return
	}
	s.mu.Lock()
	if s.reported == nil {
		s.reported = make(map[string]struct{})
	}
	s.reported[path] = struct{}{}
	s.mu.Unlock()

	s.health.RegisterItemStr(healthCategoryFeeds, path, filepath.Base(path))
	switch {
	case err == nil:
		s.health.ClearStatusStr(healthCategoryFeeds, path)
	case warning:
		s.health.SetWarningStr(healthCategoryFeeds, path, err.Error())
	default:
		s.health.SetErrorStr(healthCategoryFeeds, path, err.Error())
	}
}

// forgetFeeds unregisters documents that are no longer in the directory.
func (s *Service) forgetFeeds(seen map[string]struct{}) {
	if s.health == nil {
		return
	}
	s.mu.Lock()
	var gone []string
	for path := range s.reported {
		if _, ok := seen[path]; !ok {
			gone = append(gone, path)
			delete(s.reported, path)
		}
	}
	s.mu.Unlock()

	for _, path := range gone {
		s.health.UnregisterItemStr(healthCategoryFeeds, path)
	}
}

func (s *Service) decodeFile(ctx context.Context, path string) (*tv.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed document: %w", err)
	}
	defer f.Close()

	series, err := s.decoder.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return series, nil
}

var nonSlugChars = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Slug converts a series name into its catalog key, e.g. "Game of Thrones" -> "game-of-thrones".
// Letters and digits of any script are kept.
func Slug(name string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// seriesSlug is the slug of a series name, or of the feed file name when the
// series name has no letters or digits.
func seriesSlug(name, path string) string {
	if slug := Slug(name); slug != "" {
		return slug
	}
	return Slug(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}
