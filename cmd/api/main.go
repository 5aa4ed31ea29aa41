package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rasilexpress/backoffice/api/routes"
	"github.com/rasilexpress/backoffice/internal/expenses"
	"github.com/rasilexpress/backoffice/internal/finance"
	"github.com/rasilexpress/backoffice/internal/ledger"
	"github.com/rasilexpress/backoffice/internal/orders"
	"github.com/rasilexpress/backoffice/internal/pricing"
	"github.com/rasilexpress/backoffice/internal/settlements"
	"github.com/rasilexpress/backoffice/pkg/config"
	"github.com/rasilexpress/backoffice/pkg/db"
	"github.com/rasilexpress/backoffice/pkg/logger"
	"github.com/rasilexpress/backoffice/pkg/metrics"
	"github.com/rasilexpress/backoffice/pkg/migrate"
	"github.com/rasilexpress/backoffice/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()
	pricingRepo := pricing.NewRepository(gormDB)
	ledgerRepo := ledger.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)
	settlementsRepo := settlements.NewRepository(gormDB)
	expensesRepo := expenses.NewRepository(gormDB)
	financeRepo := finance.NewRepository(gormDB)

	pricingResolver, err := pricing.NewResolver(pricingRepo, cfg.Pricing)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing resolver", err)
		os.Exit(1)
	}

	ledgerPoster, err := ledger.NewPoster(ledgerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger poster", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo, dbClient, pricingResolver, ledgerPoster)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	settlementsService, err := settlements.NewService(settlementsRepo, ledgerRepo, expensesRepo, pricingResolver, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create settlements service", err)
		os.Exit(1)
	}

	expensesService, err := expenses.NewService(expensesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create expenses service", err)
		os.Exit(1)
	}

	financeService, err := finance.NewService(financeRepo, ledgerRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create finance service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			httpMetrics,
			ordersService,
			settlementsService,
			financeService,
			expensesService,
			pricingResolver,
			pricingRepo,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
