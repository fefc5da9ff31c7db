package main

import (
	"context"

	"fedjobs/internal/api"
	"fedjobs/internal/cache"
	cacheredis "fedjobs/internal/cache/redis"
	"fedjobs/internal/config"
	"fedjobs/internal/database"
	"fedjobs/internal/messaging"
	"fedjobs/internal/pipeline"
	"fedjobs/internal/report"
	"fedjobs/internal/store"
	"fedjobs/internal/telemetry"
	"fedjobs/internal/window"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

func newCache(cfg *config.Config) cache.Cache {
	return cacheredis.New(cache.Options{
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		DefaultTTL:    cfg.CacheTTL,
	})
}

func newDatabase(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*database.Database, error) {
	db, err := database.New(context.Background(), database.Options{
		Addr:            cfg.ClickHouseAddr,
		MaxOpenConns:    cfg.ClickHouseMaxOpenConns,
		MaxIdleConns:    cfg.ClickHouseMaxIdleConns,
		ConnMaxLifetime: cfg.ClickHouseConnMaxLife,
		Username:        cfg.ClickHouseUsername,
		Password:        cfg.ClickHousePassword,
		Database:        cfg.ClickHouseDatabase,
	}, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return db.Close()
		},
	})
	return db, nil
}

func newStore(db *database.Database, cfg *config.Config, logger *zap.Logger) *store.Store {
	return store.New(db.Conn(), logger, cfg.PositionsTable)
}

func newSearchClient(logger *zap.Logger, cfg *config.Config, c cache.Cache) api.SearchClient {
	return api.NewSearchClient(logger, cfg, c)
}

func newWindowCalculator(s *store.Store, logger *zap.Logger) *window.Calculator {
	return window.NewCalculator(s, logger)
}

func newPublisher(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (messaging.Publisher, error) {
	if !cfg.EventsEnabled {
		return messaging.NewNopPublisher(), nil
	}
	publisher, err := messaging.NewPublisher(logger, cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			publisher.Close()
			return nil
		},
	})
	return publisher, nil
}

func newDistributor(cfg *config.Config, logger *zap.Logger) *report.Distributor {
	return report.NewDistributor(report.NewSMTPSender(cfg), logger, cfg.ReportsPath, cfg.RecipientEmail)
}

func newIngest(client api.SearchClient, s *store.Store, calc *window.Calculator,
	publisher messaging.Publisher, logger *zap.Logger, cfg *config.Config) *pipeline.Ingest {
	return pipeline.NewIngest(client, s, calc, publisher, logger, cfg)
}

func newReport(s *store.Store, distributor *report.Distributor, logger *zap.Logger, cfg *config.Config) *pipeline.Report {
	return pipeline.NewReport(s, distributor, logger, cfg)
}

func run(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config,
	ingest *pipeline.Ingest, reporting *pipeline.Report, logger *zap.Logger) {
	if cfg.OTELCollectorURL != "" {
		shutdownTracer, err := telemetry.InitTracer(context.Background(), "fedjobs", cfg.OTELCollectorURL)
		if err != nil {
			logger.Warn("failed to init tracer", zap.Error(err))
		} else {
			lc.Append(fx.Hook{OnStop: shutdownTracer})
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ctx := context.Background()
				if err := ingest.Run(ctx); err != nil {
					logger.Error("ingest pipeline failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
					return
				}
				if err := reporting.Run(ctx); err != nil {
					logger.Error("reporting pipeline failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
					return
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.Load,
			newLogger,
			newCache,
			newDatabase,
			newStore,
			newSearchClient,
			newWindowCalculator,
			newPublisher,
			newDistributor,
			newIngest,
			newReport,
		),
		fx.Invoke(run),
	)

	app.Run()
}
