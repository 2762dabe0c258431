package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/slipstream/showguide/internal/catalog"
	"github.com/slipstream/showguide/internal/library/tv"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var outputFormats = []string{formatText, formatJSON, formatYAML}

// episodeView is the serialized form of an episode; absent fields are omitted.
type episodeView struct {
	Code    string `json:"code" yaml:"code"`
	Season  int    `json:"season" yaml:"season"`
	Number  int    `json:"number" yaml:"number"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Airdate string `json:"airdate,omitempty" yaml:"airdate,omitempty"`
	Runtime int    `json:"runtime" yaml:"runtime"`
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

type seriesView struct {
	Name      string    `json:"name" yaml:"name"`
	Language  string    `json:"language,omitempty" yaml:"language,omitempty"`
	Genres    []string  `json:"genres,omitempty" yaml:"genres,omitempty"`
	Premiered string    `json:"premiered,omitempty" yaml:"premiered,omitempty"`
	Rating    float64   `json:"rating" yaml:"rating"`
	Network   string    `json:"network,omitempty" yaml:"network,omitempty"`
	Summary   string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	Stats     statsView `json:"stats" yaml:"stats"`
}

type statsView struct {
	Seasons        int `json:"seasons" yaml:"seasons"`
	Slots          int `json:"slots" yaml:"slots"`
	Episodes       int `json:"episodes" yaml:"episodes"`
	AverageRuntime int `json:"averageRuntime" yaml:"averageRuntime"`
	MinRuntime     int `json:"minRuntime" yaml:"minRuntime"`
	MaxRuntime     int `json:"maxRuntime" yaml:"maxRuntime"`
}

// slotView is one position of a season row; Episode is nil for an empty slot.
type slotView struct {
	Number  int          `json:"number" yaml:"number"`
	Episode *episodeView `json:"episode" yaml:"episode"`
}

func newEpisodeView(ep tv.Episode) episodeView {
	return episodeView{
		Code:    ep.Code(),
		Season:  ep.Season,
		Number:  ep.Number,
		Name:    ep.Name.OrEmpty(),
		Airdate: ep.Airdate.OrEmpty(),
		Runtime: ep.Runtime,
		Summary: ep.Summary.OrEmpty(),
	}
}

func newEpisodeViews(episodes []tv.Episode) []episodeView {
	return lo.Map(episodes, func(ep tv.Episode, _ int) episodeView {
		return newEpisodeView(ep)
	})
}

func newSeriesView(series *tv.Series) seriesView {
	return seriesView{
		Name:      series.Name,
		Language:  series.Language,
		Genres:    series.Genres,
		Premiered: series.Premiered,
		Rating:    series.Rating,
		Network:   series.Network,
		Summary:   series.Summary,
		Stats:     newStatsView(series.Stats()),
	}
}

func newStatsView(s tv.Stats) statsView {
	return statsView(s)
}

func newSlotViews(row []*tv.Episode) []slotView {
	return lo.Map(row, func(ep *tv.Episode, i int) slotView {
		slot := slotView{Number: i + 1}
		if ep != nil {
			v := newEpisodeView(*ep)
			slot.Episode = &v
		}
		return slot
	})
}

// render writes v in the selected format. text is used for the text format.
func render(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w)
	}
}

func writeEpisodeTable(w io.Writer, episodes []episodeView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tAIRDATE\tRUNTIME\tNAME")
	for _, ep := range episodes {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", ep.Code, orDash(ep.Airdate), ep.Runtime, orDash(ep.Name))
	}
	return tw.Flush()
}

func writeEpisode(w io.Writer, ep episodeView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Episode:\t%s\n", ep.Code)
	fmt.Fprintf(tw, "Name:\t%s\n", orDash(ep.Name))
	fmt.Fprintf(tw, "Airdate:\t%s\n", orDash(ep.Airdate))
	fmt.Fprintf(tw, "Runtime:\t%d min\n", ep.Runtime)
	if ep.Summary != "" {
		fmt.Fprintf(tw, "Summary:\t%s\n", ep.Summary)
	}
	return tw.Flush()
}

func writeStats(w io.Writer, s statsView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Seasons:\t%d\n", s.Seasons)
	fmt.Fprintf(tw, "Episode slots:\t%d\n", s.Slots)
	fmt.Fprintf(tw, "Episodes:\t%d\n", s.Episodes)
	fmt.Fprintf(tw, "Average runtime:\t%d min\n", s.AverageRuntime)
	fmt.Fprintf(tw, "Shortest:\t%d min\n", s.MinRuntime)
	fmt.Fprintf(tw, "Longest:\t%d min\n", s.MaxRuntime)
	return tw.Flush()
}

func writeSeries(w io.Writer, s seriesView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", s.Name)
	fmt.Fprintf(tw, "Network:\t%s\n", orDash(s.Network))
	fmt.Fprintf(tw, "Premiered:\t%s\n", orDash(s.Premiered))
	fmt.Fprintf(tw, "Language:\t%s\n", orDash(s.Language))
	fmt.Fprintf(tw, "Genres:\t%s\n", orDash(strings.Join(s.Genres, ", ")))
	fmt.Fprintf(tw, "Rating:\t%.1f\n", s.Rating)
	fmt.Fprintf(tw, "Seasons:\t%d\n", s.Stats.Seasons)
	fmt.Fprintf(tw, "Episodes:\t%d\n", s.Stats.Episodes)
	if err := tw.Flush(); err != nil {
		return err
	}
	if s.Summary != "" {
		_, err := fmt.Fprintf(w, "\n%s\n", s.Summary)
		return err
	}
	return nil
}

func writeSlots(w io.Writer, slots []slotView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tAIRDATE\tRUNTIME\tNAME")
	for _, slot := range slots {
		if slot.Episode == nil {
			fmt.Fprintf(tw, "%d\t-\t-\t(missing)\n", slot.Number)
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", slot.Number, orDash(slot.Episode.Airdate), slot.Episode.Runtime, orDash(slot.Episode.Name))
	}
	return tw.Flush()
}

func writeSummaries(w io.Writer, summaries []catalog.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tNAME\tNETWORK\tSEASONS\tEPISODES")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", s.Slug, s.Name, orDash(s.Network), s.Seasons, s.Episodes)
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
