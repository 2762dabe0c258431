package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/slipstream/showguide/internal/catalog"
	"github.com/slipstream/showguide/internal/config"
	"github.com/slipstream/showguide/internal/library/tv"
	"github.com/slipstream/showguide/internal/logger"
	"github.com/slipstream/showguide/internal/metadata"
)

// app carries the state shared by every subcommand after PersistentPreRunE.
type app struct {
	configPath string
	feedDir    string
	output     string

	fs      afero.Fs
	cfg     *config.Config
	log     *logger.Logger
	cache   *metadata.Cache[*tv.Series]
	catalog *catalog.Service
}

func newRootCmd() *cobra.Command {
	a := &app{fs: afero.NewOsFs()}

	root := &cobra.Command{
		Use:           "showguide",
		Short:         "Organize TV series feeds into seasons and query their episodes",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to config file")
	root.PersistentFlags().StringVar(&a.feedDir, "feed-dir", "", "Directory of series feed documents (overrides config)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", formatText, "Output format: text, json or yaml")
	lo.Must0(root.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return outputFormats, cobra.ShellCompDirectiveNoFileComp
	}))

	root.AddCommand(
		newServeCmd(a),
		newShowCmd(a),
		newEpisodeCmd(a),
		newSeasonCmd(a),
		newSearchCmd(a),
		newStatsCmd(a),
		newPremieresCmd(a),
		newListCmd(a),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if !lo.Contains(outputFormats, a.output) {
		return fmt.Errorf("unknown output format %q (want %s)", a.output, strings.Join(outputFormats, ", "))
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.feedDir != "" {
		cfg.Catalog.Dir = a.feedDir
	}
	a.cfg = cfg

	a.log = logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
		RecentSize: 1000,
		Console:    cmd.ErrOrStderr(),
	})

	a.cache = metadata.NewCache[*tv.Series](metadata.CacheConfig{
		TTL:      cfg.Catalog.CacheTTL,
		MaxItems: cfg.Catalog.MaxItems,
	})
	a.catalog = catalog.NewService(a.fs, cfg.Catalog.Dir, a.cache, a.log.Logger)
	return nil
}

func (a *app) close() error {
	if a.cache != nil {
		a.cache.Close()
	}
	if a.log != nil {
		return a.log.Close()
	}
	return nil
}

// resolve finds a series by feed document path or by catalog slug.
func (a *app) resolve(ctx context.Context, ref string) (*tv.Series, error) {
	if isFile, _ := afero.Exists(a.fs, ref); isFile {
		return a.catalog.Load(ctx, ref)
	}

	_, reloadErr := a.catalog.Reload(ctx)
	series, err := a.catalog.Get(ctx, catalog.Slug(ref))
	if err != nil {
		if reloadErr != nil {
			return nil, fmt.Errorf("%w (catalog: %v)", err, reloadErr)
		}
		if hint, ok := a.catalog.Suggest(ref).Get(); ok && errors.Is(err, catalog.ErrSeriesNotFound) {
			return nil, fmt.Errorf("%q: %w (did you mean %q?)", ref, err, hint)
		}
		return nil, fmt.Errorf("%q: %w", ref, err)
	}
	return series, nil
}
