package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/polarbridge/modules/bridge"
	"github.com/dmitrymomot/polarbridge/pkg/billing"
	"github.com/dmitrymomot/polarbridge/pkg/config"
	"github.com/dmitrymomot/polarbridge/pkg/customer"
	"github.com/dmitrymomot/polarbridge/pkg/httpserver"
	"github.com/dmitrymomot/polarbridge/pkg/logger"
	"github.com/dmitrymomot/polarbridge/pkg/mongo"
	"github.com/dmitrymomot/polarbridge/pkg/redis"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
}

func main() {
	ctx := context.Background()

	var appCfg appConfig
	config.MustLoad(&appCfg)

	log := logger.New(logger.WithService("polarbridge", appCfg.Environment))
	logger.SetAsDefault(log)

	if err := run(ctx, log); err != nil {
		log.Error("service stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	var (
		bridgeCfg bridge.Config
		mongoCfg  mongo.Config
		redisCfg  redis.Config
		httpCfg   httpserver.Config
	)
	config.MustLoad(&bridgeCfg)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&httpCfg)

	db, err := mongo.NewWithDatabase(ctx, mongoCfg, mongoCfg.Database)
	if err != nil {
		return fmt.Errorf("mongo: %w", err)
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	store := customer.NewMongoStore(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("mongo indexes: %w", err)
	}

	customers := customer.NewService(store, log)
	healthchecks := []func(context.Context) error{mongo.Healthcheck(db.Client())}

	var customersAPI customer.Service = customers
	if redisCfg.ConnectionURL != "" {
		rdb, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer func() { _ = rdb.Close() }()
		customersAPI = customer.NewCachedService(customers, rdb, redisCfg.CacheTTL, log)
		healthchecks = append(healthchecks, redis.Healthcheck(rdb))
	}

	provider, err := newProvider(bridgeCfg)
	if err != nil {
		return fmt.Errorf("billing provider: %w", err)
	}

	catalog, err := billing.LoadCatalog(bridgeCfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("product catalog: %w", err)
	}

	var syncer bridge.Syncer
	if bridgeCfg.SyncBridgeURL != "" {
		syncer = bridge.NewBridgeClient(bridgeCfg.SyncBridgeURL)
		log.Info("webhook upserts routed through remote sync bridge",
			slog.String("url", bridgeCfg.SyncBridgeURL))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	module := bridge.New(bridge.ModuleOptions{
		Provider:   provider,
		Catalog:    catalog,
		Customers:  customersAPI,
		Syncer:     syncer,
		SuccessURL: bridgeCfg.SuccessURL(),
		Logger:     log,
		Metrics:    bridge.NewMetrics(registry),
	})

	router := chi.NewRouter()
	router.Mount("/", module.Router())
	router.Get("/health", httpserver.HealthCheckHandler(ctx, log, healthchecks...))
	router.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("http server started",
				slog.String("addr", httpCfg.Addr),
				slog.String("provider", bridgeCfg.Provider),
				slog.String("base_url", bridgeCfg.BaseURL()))
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			l.Info("http server stopped")
		}),
	)

	return srv.Run(ctx, router)
}

func newProvider(cfg bridge.Config) (billing.Provider, error) {
	switch cfg.Provider {
	case "polar", "":
		var polarCfg billing.PolarConfig
		if err := config.Load(&polarCfg); err != nil {
			return nil, err
		}
		return billing.NewPolarProvider(polarCfg)
	case "paddle":
		var paddleCfg billing.PaddleConfig
		if err := config.Load(&paddleCfg); err != nil {
			return nil, err
		}
		return billing.NewPaddleProvider(paddleCfg)
	default:
		return nil, fmt.Errorf("%w: %s", billing.ErrUnknownProvider, cfg.Provider)
	}
}
