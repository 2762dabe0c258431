package tv

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// EpisodeOnDate returns the first episode whose airdate equals date exactly.
func EpisodeOnDate(episodes []Episode, date string) (Episode, bool) {
	if date == "" {
		return Episode{}, false
	}
	return lo.Find(episodes, func(ep Episode) bool {
		airdate, ok := ep.Airdate.Get()
		return ok && airdate == date
	})
}

// EpisodesInYear returns the episodes whose airdate starts with the given year.
// Episodes without a full year in their airdate are skipped.
func EpisodesInYear(episodes []Episode, year int) []Episode {
	prefix := strconv.Itoa(year)
	return lo.Filter(episodes, func(ep Episode, _ int) bool {
		airdate := ep.Airdate.OrEmpty()
		return len(airdate) >= 4 && airdate[:4] == prefix
	})
}

// SearchByName returns episodes whose name contains text, ignoring case.
func SearchByName(episodes []Episode, text string) []Episode {
	return searchField(episodes, text, func(ep Episode) string {
		return ep.Name.OrEmpty()
	})
}

// SearchByCharacter returns episodes whose summary mentions text, ignoring case.
// Summaries are the only place characters appear, so this is approximate.
func SearchByCharacter(episodes []Episode, text string) []Episode {
	return searchField(episodes, text, func(ep Episode) string {
		return ep.Summary.OrEmpty()
	})
}

// SearchByMaxRuntime returns episodes running at most the given minutes.
func SearchByMaxRuntime(episodes []Episode, minutes int) []Episode {
	return lo.Filter(episodes, func(ep Episode, _ int) bool {
		return ep.Runtime <= minutes
	})
}

// AverageRuntime returns the truncated mean runtime, or 0 for no episodes.
func AverageRuntime(episodes []Episode) int {
	if len(episodes) == 0 {
		return 0
	}
	return lo.SumBy(episodes, runtimeOf) / len(episodes)
}

// MaxRuntime returns the longest runtime, or 0 for no episodes.
func MaxRuntime(episodes []Episode) int {
	return lo.Max(lo.Map(episodes, func(ep Episode, _ int) int { return ep.Runtime }))
}

// MinRuntime returns the shortest runtime, or 0 for no episodes.
func MinRuntime(episodes []Episode) int {
	return lo.Min(lo.Map(episodes, func(ep Episode, _ int) int { return ep.Runtime }))
}

func runtimeOf(ep Episode) int {
	return ep.Runtime
}

func searchField(episodes []Episode, text string, field func(Episode) string) []Episode {
	if text == "" {
		return []Episode{}
	}
	needle := strings.ToLower(text)
	return lo.Filter(episodes, func(ep Episode, _ int) bool {
		return strings.Contains(strings.ToLower(field(ep)), needle)
	})
}
