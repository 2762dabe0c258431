// Package di wires the long-running showguide services together.
package di

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/afero"

	"github.com/slipstream/showguide/internal/api"
	"github.com/slipstream/showguide/internal/catalog"
	"github.com/slipstream/showguide/internal/config"
	"github.com/slipstream/showguide/internal/health"
	"github.com/slipstream/showguide/internal/logger"
	"github.com/slipstream/showguide/internal/scheduler"
	"github.com/slipstream/showguide/internal/scheduler/tasks"
)

// NewContainer creates the container for the serve command. The catalog is
// built by the caller since the one-shot commands share it.
func NewContainer(cfg *config.Config, log *logger.Logger, fsys afero.Fs, cat *catalog.Service) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, log)
	do.ProvideValue(injector, fsys)
	do.ProvideValue(injector, cat)

	do.Provide(injector, ProvideHealth)
	do.Provide(injector, ProvideFilesystemChecker)
	do.Provide(injector, ProvideScheduler)
	do.Provide(injector, ProvideServer)

	return injector
}

// SchedulerHandle wraps the scheduler with Shutdownable.
type SchedulerHandle struct {
	*scheduler.Scheduler
}

// Shutdown implements do.Shutdownable.
func (h *SchedulerHandle) Shutdown() error {
	return h.Stop()
}

// ProvideHealth provides the health service and attaches it to the catalog.
func ProvideHealth(i do.Injector) (*health.Service, error) {
	log := do.MustInvoke[*logger.Logger](i)
	cat := do.MustInvoke[*catalog.Service](i)

	hs := health.NewService(log.Logger)
	cat.SetHealthReporter(hs)
	return hs, nil
}

// ProvideFilesystemChecker provides the feed directory checker.
func ProvideFilesystemChecker(i do.Injector) (*health.FilesystemChecker, error) {
	return health.NewFilesystemChecker(do.MustInvoke[afero.Fs](i)), nil
}

// ProvideScheduler provides the scheduler with the catalog reload task registered.
func ProvideScheduler(i do.Injector) (*SchedulerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	cat := do.MustInvoke[*catalog.Service](i)
	do.MustInvoke[*health.Service](i) // reloads report feed health from the first run

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		return nil, err
	}
	if err := tasks.RegisterCatalogReloadTask(sched, cat, cfg.Catalog.ReloadCron, log.Logger); err != nil {
		return nil, fmt.Errorf("catalog reload task: %w", err)
	}
	return &SchedulerHandle{Scheduler: sched}, nil
}

// ProvideServer provides the HTTP API server.
func ProvideServer(i do.Injector) (*api.Server, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sched := do.MustInvoke[*SchedulerHandle](i)

	return api.NewServer(cfg, api.Services{
		Catalog:   do.MustInvoke[*catalog.Service](i),
		Scheduler: sched.Scheduler,
		Health:    do.MustInvoke[*health.Service](i),
		FSChecker: do.MustInvoke[*health.FilesystemChecker](i),
		Logs:      log,
	}, log.Logger), nil
}
