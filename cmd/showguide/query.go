package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/slipstream/showguide/internal/library/tv"
)

const seriesArgHelp = "<series> is a feed document path or a catalog slug"

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <series>",
		Short: "Show the series header and episode totals",
		Long:  "Show the series header and episode totals.\n" + seriesArgHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := a.resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			view := newSeriesView(series)
			return render(cmd.OutOrStdout(), a.output, view, func(w io.Writer) error {
				return writeSeries(w, view)
			})
		},
	}
}

func newEpisodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "episode <series> <season> <number>",
		Short: "Show the episode at a season and episode number",
		Long:  "Show the episode at a season and episode number.\n" + seriesArgHelp,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := positiveArg("season", args[1])
			if err != nil {
				return err
			}
			number, err := positiveArg("number", args[2])
			if err != nil {
				return err
			}
			series, err := a.resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ep, err := series.Episode(season, number)
			if err != nil {
				return err
			}
			view := newEpisodeView(ep)
			return render(cmd.OutOrStdout(), a.output, view, func(w io.Writer) error {
				return writeEpisode(w, view)
			})
		},
	}
}

func newSeasonCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "season <series> <season>",
		Short: "List every slot of a season, including missing episodes",
		Long:  "List every slot of a season, including missing episodes.\n" + seriesArgHelp,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := positiveArg("season", args[1])
			if err != nil {
				return err
			}
			series, err := a.resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			row, err := series.EpisodesInSeason(season)
			if err != nil {
				return err
			}
			slots := newSlotViews(row)
			return render(cmd.OutOrStdout(), a.output, slots, func(w io.Writer) error {
				return writeSlots(w, slots)
			})
		},
	}
}

type searchOptions struct {
	name       string
	character  string
	date       string
	year       int
	maxRuntime int
}

func newSearchCmd(a *app) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <series>",
		Short: "Search episodes; filters combine",
		Long:  "Search episodes by name, character, airdate, year or runtime. Filters combine.\n" + seriesArgHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.date != "" && !tv.ValidAirdate(opts.date) {
				return fmt.Errorf("%w: %q", tv.ErrInvalidAirdate, opts.date)
			}
			series, err := a.resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			episodes := newEpisodeViews(opts.apply(cmd, series.Episodes()))
			return render(cmd.OutOrStdout(), a.output, episodes, func(w io.Writer) error {
				return writeEpisodeTable(w, episodes)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.name, "name", "", "Case-insensitive substring of the episode name")
	f.StringVar(&opts.character, "character", "", "Case-insensitive substring of the episode summary")
	f.StringVar(&opts.date, "date", "", "Exact airdate (YYYY-MM-DD)")
	f.IntVar(&opts.year, "year", 0, "Airdate year")
	f.IntVar(&opts.maxRuntime, "max-runtime", 0, "Maximum runtime in minutes")

	return cmd
}

func (o searchOptions) apply(cmd *cobra.Command, episodes []tv.Episode) []tv.Episode {
	if o.name != "" {
		episodes = tv.SearchByName(episodes, o.name)
	}
	if o.character != "" {
		episodes = tv.SearchByCharacter(episodes, o.character)
	}
	if o.date != "" {
		ep, ok := tv.EpisodeOnDate(episodes, o.date)
		episodes = []tv.Episode{}
		if ok {
			episodes = append(episodes, ep)
		}
	}
	if cmd.Flags().Changed("year") {
		episodes = tv.EpisodesInYear(episodes, o.year)
	}
	if cmd.Flags().Changed("max-runtime") {
		episodes = tv.SearchByMaxRuntime(episodes, o.maxRuntime)
	}
	return episodes
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <series>",
		Short: "Show season, episode and runtime statistics",
		Long:  "Show season, episode and runtime statistics.\n" + seriesArgHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := a.resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			view := newStatsView(series.Stats())
			return render(cmd.OutOrStdout(), a.output, view, func(w io.Writer) error {
				return writeStats(w, view)
			})
		},
	}
}

func newPremieresCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "premieres <series>",
		Short: "List the first episode of every season",
		Long:  "List the first episode of every season.\n" + seriesArgHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := a.resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			premieres, err := series.SeasonPremiereEpisodes()
			if err != nil {
				return err
			}
			episodes := newEpisodeViews(premieres)
			return render(cmd.OutOrStdout(), a.output, episodes, func(w io.Writer) error {
				return writeEpisodeTable(w, episodes)
			})
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the series in the feed directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.catalog.Reload(cmd.Context()); err != nil {
				a.log.Warn().Err(err).Msg("Some feed documents were skipped")
			}
			summaries, err := a.catalog.List(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, summaries, func(w io.Writer) error {
				return writeSummaries(w, summaries)
			})
		},
	}
}

func positiveArg(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s %q: want a number from 1", name, value)
	}
	return n, nil
}
