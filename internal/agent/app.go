package agent

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/data-publish-agent/internal/adapter"
	"github.com/MKhiriev/data-publish-agent/internal/config"
	"github.com/MKhiriev/data-publish-agent/internal/handler"
	"github.com/MKhiriev/data-publish-agent/internal/logger"
	"github.com/MKhiriev/data-publish-agent/internal/server"
	"github.com/MKhiriev/data-publish-agent/internal/service"
	"github.com/MKhiriev/data-publish-agent/internal/store"
	"github.com/MKhiriev/data-publish-agent/internal/workers"
	"github.com/MKhiriev/data-publish-agent/models"
)

type App struct {
	cfg       *config.AgentConfig
	buildInfo models.AppBuildInfo
	out       io.Writer
	logger    *logger.Logger

	openStorages func(ctx context.Context) (*store.Storages, error)
	newAdapter   func() (adapterPair, error)
}

type adapterPair struct {
	auth adapter.AuthAdapter
	data adapter.DataPublishAdapter
}

// NewApp creates the agent. Run summaries are written to out.
func NewApp(cfg *config.AgentConfig, buildInfo models.AppBuildInfo, out io.Writer, logger *logger.Logger) *App {
	a := &App{cfg: cfg, buildInfo: buildInfo, out: out, logger: logger}

	a.openStorages = func(ctx context.Context) (*store.Storages, error) {
		return store.NewStorages(ctx, cfg.Storage, logger)
	}
	a.newAdapter = func() (adapterPair, error) {
		h, err := adapter.NewHTTPAdapter(cfg.Adapter, logger)
		if err != nil {
			return adapterPair{}, err
		}
		return adapterPair{auth: h, data: h}, nil
	}

	return a
}

func (a *App) Update(ctx context.Context) error {
	if err := a.cfg.ValidateAccount(); err != nil {
		return err
	}

	storages, err := a.openStorages(ctx)
	if err != nil {
		return err
	}
	defer a.close(storages)

	if err = checkSchema(storages.DB); err != nil {
		return err
	}

	adapters, err := a.newAdapter()
	if err != nil {
		return fmt.Errorf("create adapter: %w", err)
	}

	services, err := service.NewServices(adapters.auth, adapters.data, storages, a.cfg.Sync, a.logger)
	if err != nil {
		return fmt.Errorf("create services: %w", err)
	}

	srv, err := a.statusServer(services.SyncDriver)
	if err != nil {
		return err
	}

	creds := models.Credentials{UserID: a.cfg.Account.UserID, Password: a.cfg.Account.Password}
	login := workers.WorkerFunc(func(ctx context.Context) error {
		return services.AuthService.Login(ctx, creds)
	})
	update := workers.WorkerFunc(func(ctx context.Context) error {
		report, err := services.SyncDriver.Run(ctx)
		a.printReport(report)
		return err
	})
	repeater := workers.NewRepeater(workers.NewWorkers(login, update), a.cfg.Workers.RepeatInterval, a.logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	if srv != nil {
		g.Go(func() error { return srv.RunServer(gctx) })
	}
	g.Go(func() error {
		defer cancel()
		return repeater.Run(gctx)
	})

	err = g.Wait()
	if a.cfg.Workers.RepeatInterval > 0 && ctx.Err() != nil {
		a.logger.Info().Msg("update stopped")
		return nil
	}
	return err
}

// statusServer returns nil when no status address is configured.
func (a *App) statusServer(reports service.SyncDriver) (server.Server, error) {
	if a.cfg.Server.Address == "" {
		return nil, nil
	}

	handlers, err := handler.NewHandlers(reports, a.buildInfo, a.cfg.Server, a.logger)
	if err != nil {
		return nil, fmt.Errorf("create handlers: %w", err)
	}
	return server.NewServer(handlers, a.cfg.Server, a.logger)
}

func (a *App) SchemaUpdate(ctx context.Context) error {
	storages, err := a.openStorages(ctx)
	if err != nil {
		return err
	}
	defer a.close(storages)

	if err = storages.DB.Migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	current, _, err := storages.DB.SchemaVersion()
	if err != nil {
		return err
	}
	a.logger.Info().Int64("version", current).Msg("schema is up to date")
	_, _ = fmt.Fprintf(a.out, "Schema version: %d\n", current)
	return nil
}

func (a *App) SchemaCheck(ctx context.Context) error {
	storages, err := a.openStorages(ctx)
	if err != nil {
		return err
	}
	defer a.close(storages)

	if err = checkSchema(storages.DB); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.out, "Schema is up to date")
	return nil
}

func (a *App) SyncReset(ctx context.Context) error {
	storages, err := a.openStorages(ctx)
	if err != nil {
		return err
	}
	defer a.close(storages)

	if err = checkSchema(storages.DB); err != nil {
		return err
	}

	n, err := storages.CursorRepository.ResetCursors(ctx)
	if err != nil {
		return fmt.Errorf("reset cursors: %w", err)
	}
	a.logger.Info().Int64("cursors", n).Msg("sync state reset")
	_, _ = fmt.Fprintf(a.out, "Deleted %d cursors\n", n)
	return nil
}

type schemaVersioner interface {
	SchemaVersion() (current, latest int64, err error)
}

func checkSchema(db schemaVersioner) error {
	current, latest, err := db.SchemaVersion()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	switch {
	case current < latest:
		return fmt.Errorf("%w: have %d, want %d", ErrSchemaBehind, current, latest)
	case current > latest:
		return fmt.Errorf("%w: have %d, want %d", ErrSchemaAhead, current, latest)
	}
	return nil
}

func (a *App) close(storages *store.Storages) {
	if err := storages.Close(); err != nil {
		a.logger.Err(err).Msg("closing storages")
	}
}
