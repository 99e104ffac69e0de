package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	appdb "github.com/yungbote/mapping-manager/internal/data/db"
	apphttp "github.com/yungbote/mapping-manager/internal/http"
	"github.com/yungbote/mapping-manager/internal/observability"
	"github.com/yungbote/mapping-manager/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Metrics  *observability.Metrics
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *apphttp.Server

	store        *appdb.Service
	shutdownOTel func(context.Context) error
}

func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	shutdownOTel := observability.InitOTel(ctx, log, cfg.Otel)

	store, err := appdb.NewService(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init store: %w", err)
	}
	theDB := store.DB()

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics, err = observability.New(0)
		if err != nil {
			_ = store.Close()
			log.Sync()
			return nil, fmt.Errorf("init metrics: %w", err)
		}
		if err := metrics.RegisterDBStats(theDB, store.Driver()); err != nil {
			log.Warn("db stats collector not registered", "error", err)
		}
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = store.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log, cfg, clients, metrics)
	serviceset, err := wireServices(theDB, log, reposet, metrics)
	if err != nil {
		clients.Close()
		_ = store.Close()
		log.Sync()
		return nil, fmt.Errorf("wire services: %w", err)
	}
	handlerset, err := wireHandlers(log, theDB, serviceset)
	if err != nil {
		clients.Close()
		_ = store.Close()
		log.Sync()
		return nil, fmt.Errorf("wire handlers: %w", err)
	}

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Metrics:      metrics,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Server:       wireServer(log, cfg, handlerset, metrics),
		store:        store,
		shutdownOTel: shutdownOTel,
	}, nil
}

// Migrate applies the registry schema. withVocabulary also creates the target terminology
// table, which only development databases own.
func (a *App) Migrate(ctx context.Context, withVocabulary bool) error {
	if a == nil || a.DB == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Applying migrations...", "with_vocabulary", withVocabulary)
	return appdb.Migrate(ctx, a.DB, appdb.MigrateOptions{
		WithVocabulary:  withVocabulary,
		VocabularyTable: a.Cfg.VocabularyTable,
	})
}

// Serve runs the HTTP server and background collectors until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Cfg.MigrateOnStart {
		if err := a.Migrate(ctx, a.store.Driver() == appdb.DriverSQLite); err != nil {
			return fmt.Errorf("migrate on start: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if a.Metrics != nil {
		a.Metrics.StartServer(gctx, a.Log, a.Cfg.MetricsAddr)
		if a.Clients.Redis != nil {
			a.Metrics.StartRedisCollector(gctx, a.Log, a.Clients.Redis)
		}
	}
	g.Go(func() error {
		return a.Server.Run(gctx)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.shutdownOTel != nil {
		if err := a.shutdownOTel(context.Background()); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Clients.Close()
	if a.store != nil {
		if err := a.store.Close(); err != nil && a.Log != nil {
			a.Log.Warn("store close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
