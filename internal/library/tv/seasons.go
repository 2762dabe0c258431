package tv

import (
	"fmt"

	"github.com/samber/lo"
)

// Seasons is the season-major episode structure built by Organize.
// Seasons[s-1][n-1] holds episode n of season s; a nil entry is an empty slot.
// A Seasons value is never modified once built.
type Seasons [][]*Episode

// Organize arranges a flat, unordered episode collection into seasons.
//
// A nil collection yields a nil structure. A nil entry, a coordinate outside
// 1..MaxSeason by 1..MaxEpisode, or a negative runtime fails with
// ErrInvalidEpisodeData before any structure is built. Episodes are copied
// into the structure; when two entries share a coordinate the later one wins.
func Organize(episodes []*Episode) (Seasons, error) {
	if episodes == nil {
		return nil, nil
	}

	for i, ep := range episodes {
		if ep == nil {
			return nil, fmt.Errorf("%w: entry %d is missing", ErrInvalidEpisodeData, i)
		}
		if err := ep.validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	seasonCount := lo.Max(append(lo.Map(episodes, func(ep *Episode, _ int) int {
		return ep.Season
	}), 1))

	lengths := make([]int, seasonCount)
	for _, ep := range episodes {
		lengths[ep.Season-1] = max(lengths[ep.Season-1], ep.Number)
	}

	seasons := make(Seasons, seasonCount)
	for i, n := range lengths {
		seasons[i] = make([]*Episode, n)
	}
	for _, ep := range episodes {
		cp := *ep
		seasons[ep.Season-1][ep.Number-1] = &cp
	}

	return seasons, nil
}

// Flatten returns the populated episodes in season-major, episode-number order.
func Flatten(seasons Seasons) []Episode {
	flat := make([]Episode, 0, seasons.TotalSlots())
	for _, row := range seasons {
		for _, ep := range row {
			if ep != nil {
				flat = append(flat, *ep)
			}
		}
	}
	return flat
}

// Count returns the number of seasons.
func (s Seasons) Count() int {
	return len(s)
}

// TotalSlots returns the number of allocated episode slots, empty ones included.
func (s Seasons) TotalSlots() int {
	return lo.SumBy(s, func(row []*Episode) int {
		return len(row)
	})
}

// Episode returns the episode at a 1-indexed coordinate.
// Coordinates outside the structure and empty slots fail with ErrCoordinateOutOfRange.
func (s Seasons) Episode(season, number int) (Episode, error) {
	if season < 1 || season > len(s) {
		return Episode{}, fmt.Errorf("%w: season %d of %d", ErrCoordinateOutOfRange, season, len(s))
	}
	row := s[season-1]
	if number < 1 || number > len(row) {
		return Episode{}, fmt.Errorf("%w: episode %d of %d in season %d", ErrCoordinateOutOfRange, number, len(row), season)
	}
	ep := row[number-1]
	if ep == nil {
		return Episode{}, fmt.Errorf("%w: S%02dE%02d is empty", ErrCoordinateOutOfRange, season, number)
	}
	return *ep, nil
}

// Season returns a copy of the full row for a season, empty slots as nil.
func (s Seasons) Season(season int) ([]*Episode, error) {
	if season < 1 || season > len(s) {
		return nil, fmt.Errorf("%w: season %d of %d", ErrCoordinateOutOfRange, season, len(s))
	}
	return lo.Map(s[season-1], func(ep *Episode, _ int) *Episode {
		if ep == nil {
			return nil
		}
		cp := *ep
		return &cp
	}), nil
}

// Premieres returns the first episode of every season in season order.
// A season whose first slot is empty fails with ErrCoordinateOutOfRange.
func (s Seasons) Premieres() ([]Episode, error) {
	premieres := make([]Episode, 0, len(s))
	for i := range s {
		ep, err := s.Episode(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("season %d has no premiere: %w", i+1, err)
		}
		premieres = append(premieres, ep)
	}
	return premieres, nil
}
