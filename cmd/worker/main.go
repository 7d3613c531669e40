package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nordicgeo/geoshop-backend/internal/cron"
	"github.com/nordicgeo/geoshop-backend/internal/orders"
	"github.com/nordicgeo/geoshop-backend/internal/returns"
	"github.com/nordicgeo/geoshop-backend/internal/tracking"
	"github.com/nordicgeo/geoshop-backend/pkg/config"
	"github.com/nordicgeo/geoshop-backend/pkg/db"
	"github.com/nordicgeo/geoshop-backend/pkg/logger"
	"github.com/nordicgeo/geoshop-backend/pkg/metrics"
	"github.com/nordicgeo/geoshop-backend/pkg/migrate"
	"github.com/nordicgeo/geoshop-backend/pkg/redis"
)

// The worker runs the fulfillment simulation: dispatching paid orders,
// walking shipments through the tracking milestones, and advancing the
// return pipeline. A Redis lock keeps a single active instance.
func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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
	orderRepo := orders.NewRepository(gormDB)
	trackingRepo := tracking.NewRepository(gormDB)
	returnRepo := returns.NewRepository(gormDB)

	dispatchJob, err := cron.NewOrderDispatchJob(cron.OrderDispatchJobParams{
		Logger:        logg,
		DB:            dbClient,
		OrderRepo:     orderRepo,
		TrackingRepo:  trackingRepo,
		DispatchAfter: cfg.Simulation.DispatchAfter,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order dispatch job", err)
		os.Exit(1)
	}

	progressJob, err := cron.NewShipmentProgressJob(cron.ShipmentProgressJobParams{
		Logger:       logg,
		DB:           dbClient,
		OrderRepo:    orderRepo,
		TrackingRepo: trackingRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create shipment progress job", err)
		os.Exit(1)
	}

	returnJob, err := cron.NewReturnProgressJob(cron.ReturnProgressJobParams{
		Logger:       logg,
		DB:           dbClient,
		ReturnRepo:   returnRepo,
		OrderReader:  orderRepo,
		ApproveAfter: cfg.Simulation.ReturnApproveAfter,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create return progress job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("simulation"), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(dispatchJob, progressJob, returnJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Simulation.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting simulation worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "simulation worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "simulation worker shutting down gracefully")
}
