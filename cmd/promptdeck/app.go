package main

import (
	"context"
	"flag"
	"log/slog"

	"promptdeck/internal/adapter/audit"
	"promptdeck/internal/adapter/catalog"
	"promptdeck/internal/domain"
	"promptdeck/internal/infra/config"
	"promptdeck/internal/infra/logger"
	"promptdeck/internal/infra/tracer"
	"promptdeck/internal/usecase"
)

// commonFlags holds flags shared by every command.
type commonFlags struct {
	configPath string
	jsonOut    bool
}

func parseCommon(name string, args []string) (commonFlags, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	var cf commonFlags
	fs.StringVar(&cf.configPath, "config", "./config.yaml", "config file path")
	fs.BoolVar(&cf.jsonOut, "json", false, "print results as JSON")
	if err := fs.Parse(args); err != nil {
		return cf, nil, err
	}
	return cf, fs.Args(), nil
}

// app bundles the wired dependencies for one CLI invocation.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *usecase.Registry
	resolver *usecase.Resolver
	planner  *usecase.Planner
	provider *catalog.FileCatalogProvider
	auditLog *audit.SQLiteSelectionLog // nil when audit disabled

	closers []func() error
}

// newApp loads config, builds infrastructure, and loads the catalog into
// the registry.
func newApp(ctx context.Context, cf commonFlags) (*app, error) {
	cfg, err := config.Load(cf.configPath)
	if err != nil {
		return nil, err
	}

	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: log}
	a.closers = append(a.closers, closeLog)

	shutdownTracer, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		a.close()
		return nil, err
	}
	a.closers = append(a.closers, func() error { return shutdownTracer(context.Background()) })

	counter := usecase.NewTokenCounter(cfg.Tokenizer.Encoding, log)

	a.provider, err = catalog.NewFileCatalogProvider(cfg.Catalog.Dir, counter, cfg.Catalog.MaxFileSize)
	if err != nil {
		a.close()
		return nil, err
	}

	a.registry = usecase.NewRegistry(log)
	descs, err := a.provider.Load(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	if err := a.registry.ReplaceAll(descs); err != nil {
		a.close()
		return nil, err
	}

	var recorder domain.SelectionRecorder
	if cfg.Audit.Enabled {
		a.auditLog, err = audit.NewSQLiteSelectionLog(cfg.Audit.Path)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, a.auditLog.Close)
		recorder = a.auditLog
	}

	a.resolver = usecase.NewResolver(a.registry, recorder, log)
	a.planner = usecase.NewPlanner(a.registry, log)
	return a, nil
}

// reload re-reads the catalog and swaps the registry table.
func (a *app) reload(ctx context.Context) error {
	descs, err := a.provider.Load(ctx)
	if err != nil {
		return err
	}
	return a.registry.ReplaceAll(descs)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}
