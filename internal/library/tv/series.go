package tv

import (
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Info holds the header fields of a TV series.
type Info struct {
	Name      string   `json:"name"`
	Language  string   `json:"language"`
	Genres    []string `json:"genres"`
	Premiered string   `json:"premiered,omitempty"`
	Rating    float64  `json:"rating"`
	Network   string   `json:"network,omitempty"`
	Summary   string   `json:"summary,omitempty"`
}

// Series is a TV series and the episodes it owns.
//
// The season structure is copy-on-write: mutations build a new Seasons value
// and swap it in, so a snapshot taken by a reader never changes.
type Series struct {
	Info

	mu      sync.RWMutex
	seasons Seasons
}

// Stats summarizes the episodes of a series.
type Stats struct {
	Seasons        int `json:"seasons"`
	Slots          int `json:"slots"`
	Episodes       int `json:"episodes"`
	AverageRuntime int `json:"averageRuntime"`
	MinRuntime     int `json:"minRuntime"`
	MaxRuntime     int `json:"maxRuntime"`
}

// NewSeries creates a series from its header and a flat episode collection.
// A nil collection creates a series without episodes.
func NewSeries(info Info, episodes []*Episode) (*Series, error) {
	if info.Rating < 0 {
		return nil, fmt.Errorf("%w: negative rating %v", ErrInvalidSeries, info.Rating)
	}
	if info.Premiered != "" && !ValidAirdate(info.Premiered) {
		return nil, fmt.Errorf("%w: premiere date %q", ErrInvalidSeries, info.Premiered)
	}

	seasons, err := Organize(episodes)
	if err != nil {
		return nil, err
	}

	info.Genres = slices.Clone(info.Genres)
	return &Series{Info: info, seasons: seasons}, nil
}

// Seasons returns the current season structure. It must not be modified.
func (s *Series) Seasons() Seasons {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seasons
}

// Episodes returns the populated episodes in season-major order.
func (s *Series) Episodes() []Episode {
	return Flatten(s.Seasons())
}

// HasEpisodes reports whether the series has an episode structure at all.
func (s *Series) HasEpisodes() bool {
	return s.Seasons() != nil
}

// SetEpisodes replaces all episodes. The current structure is kept on error.
func (s *Series) SetEpisodes(episodes []*Episode) error {
	seasons, err := Organize(episodes)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.seasons = seasons
	s.mu.Unlock()
	return nil
}

// AddOrReplaceEpisode inserts ep, replacing any episode at the same coordinate,
// and rebuilds the season structure.
func (s *Series) AddOrReplaceEpisode(ep Episode) error {
	if err := ep.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	flat := Flatten(s.seasons)
	if _, idx, found := lo.FindIndexOf(flat, func(existing Episode) bool {
		return existing.Season == ep.Season && existing.Number == ep.Number
	}); found {
		flat[idx] = ep
	} else {
		flat = append(flat, ep)
	}

	seasons, err := Organize(lo.ToSlicePtr(flat))
	if err != nil {
		return err
	}
	s.seasons = seasons
	return nil
}

// CreateEpisode returns a new empty episode that is not attached to the series.
func (s *Series) CreateEpisode() *Episode {
	return &Episode{}
}

// Episode returns the episode at a 1-indexed coordinate.
func (s *Series) Episode(season, number int) (Episode, error) {
	return s.Seasons().Episode(season, number)
}

// EpisodesInSeason returns the full row for a season, empty slots as nil.
func (s *Series) EpisodesInSeason(season int) ([]*Episode, error) {
	return s.Seasons().Season(season)
}

// EpisodeOnDate returns the first episode aired on date.
func (s *Series) EpisodeOnDate(date string) (Episode, bool) {
	return EpisodeOnDate(s.Episodes(), date)
}

// EpisodesInYear returns the episodes aired in year.
func (s *Series) EpisodesInYear(year int) []Episode {
	return EpisodesInYear(s.Episodes(), year)
}

// SearchEpisodesByName returns episodes whose name contains text.
func (s *Series) SearchEpisodesByName(text string) []Episode {
	return SearchByName(s.Episodes(), text)
}

// SearchEpisodesByCharacter returns episodes whose summary mentions text.
func (s *Series) SearchEpisodesByCharacter(text string) []Episode {
	return SearchByCharacter(s.Episodes(), text)
}

// SearchEpisodesByMaxRuntime returns episodes running at most minutes.
func (s *Series) SearchEpisodesByMaxRuntime(minutes int) []Episode {
	return SearchByMaxRuntime(s.Episodes(), minutes)
}

// TotalNumberOfEpisodes returns the number of allocated episode slots,
// including empty ones.
func (s *Series) TotalNumberOfEpisodes() int {
	return s.Seasons().TotalSlots()
}

// EpisodeCount returns the number of populated episodes.
func (s *Series) EpisodeCount() int {
	return len(s.Episodes())
}

// AverageRuntimeOfEpisodes returns the truncated mean runtime.
func (s *Series) AverageRuntimeOfEpisodes() int {
	return AverageRuntime(s.Episodes())
}

// MaxRuntimeOfEpisodes returns the longest runtime.
func (s *Series) MaxRuntimeOfEpisodes() int {
	return MaxRuntime(s.Episodes())
}

// MinRuntimeOfEpisodes returns the shortest runtime.
func (s *Series) MinRuntimeOfEpisodes() int {
	return MinRuntime(s.Episodes())
}

// SeasonPremiereEpisodes returns episode 1 of every season.
func (s *Series) SeasonPremiereEpisodes() ([]Episode, error) {
	return s.Seasons().Premieres()
}

// Stats computes episode statistics from a single snapshot.
func (s *Series) Stats() Stats {
	seasons := s.Seasons()
	flat := Flatten(seasons)
	return Stats{
		Seasons:        seasons.Count(),
		Slots:          seasons.TotalSlots(),
		Episodes:       len(flat),
		AverageRuntime: AverageRuntime(flat),
		MinRuntime:     MinRuntime(flat),
		MaxRuntime:     MaxRuntime(flat),
	}
}
