package tasks

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/slipstream/showguide/internal/catalog"
	"github.com/slipstream/showguide/internal/scheduler"
)

// CatalogReloader is the part of the catalog the reload task needs.
type CatalogReloader interface {
	Reload(ctx context.Context) (int, error)
}

// CatalogReloadTask rescans the feed directory on a schedule.
type CatalogReloadTask struct {
	catalog CatalogReloader
	logger  zerolog.Logger
}

// NewCatalogReloadTask creates a new catalog reload task.
func NewCatalogReloadTask(c CatalogReloader, logger zerolog.Logger) *CatalogReloadTask {
	return &CatalogReloadTask{
		catalog: c,
		logger:  logger.With().Str("task", "catalog-reload").Logger(),
	}
}

// Run reloads the catalog. A document that fails to decode is logged and
// reported, but the remaining series stay available.
func (t *CatalogReloadTask) Run(ctx context.Context) error {
	n, err := t.catalog.Reload(ctx)
	if err != nil {
		t.logger.Warn().Err(err).Int("series", n).Msg("Catalog reload finished with errors")
		return err
	}
	t.logger.Debug().Int("series", n).Msg("Catalog reload completed")
	return nil
}

// RegisterCatalogReloadTask registers the catalog reload task with the scheduler.
func RegisterCatalogReloadTask(sched *scheduler.Scheduler, svc *catalog.Service, cron string, logger zerolog.Logger) error {
	task := NewCatalogReloadTask(svc, logger)

	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          "catalog-reload",
		Name:        "Catalog Reload",
		Description: "Re-read feed documents from " + svc.Dir(),
		Cron:        cron,
		Func:        task.Run,
		RunOnStart:  true,
	})
}
