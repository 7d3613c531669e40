package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/nordicgeo/geoshop-backend/api/routes"
	"github.com/nordicgeo/geoshop-backend/internal/addresses"
	"github.com/nordicgeo/geoshop-backend/internal/auth"
	"github.com/nordicgeo/geoshop-backend/internal/banners"
	"github.com/nordicgeo/geoshop-backend/internal/cart"
	checkoutsvc "github.com/nordicgeo/geoshop-backend/internal/checkout"
	"github.com/nordicgeo/geoshop-backend/internal/orders"
	"github.com/nordicgeo/geoshop-backend/internal/paymentmethods"
	"github.com/nordicgeo/geoshop-backend/internal/payments"
	"github.com/nordicgeo/geoshop-backend/internal/posts"
	"github.com/nordicgeo/geoshop-backend/internal/products"
	"github.com/nordicgeo/geoshop-backend/internal/returns"
	"github.com/nordicgeo/geoshop-backend/internal/tracking"
	"github.com/nordicgeo/geoshop-backend/internal/users"
	"github.com/nordicgeo/geoshop-backend/internal/wishlist"
	"github.com/nordicgeo/geoshop-backend/pkg/auth/session"
	"github.com/nordicgeo/geoshop-backend/pkg/config"
	"github.com/nordicgeo/geoshop-backend/pkg/db"
	"github.com/nordicgeo/geoshop-backend/pkg/logger"
	"github.com/nordicgeo/geoshop-backend/pkg/migrate"
	"github.com/nordicgeo/geoshop-backend/pkg/redis"
	"github.com/nordicgeo/geoshop-backend/pkg/square"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	productRepo := products.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)
	trackingRepo := tracking.NewRepository(gormDB)
	returnRepo := returns.NewRepository(gormDB)
	checkoutRepo := checkoutsvc.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}
	bannerService, err := banners.NewService(banners.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create banner service", err)
		os.Exit(1)
	}
	postService, err := posts.NewService(posts.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create post service", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	orderService, err := orders.NewService(orderRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}
	trackingService, err := tracking.NewService(trackingRepo, orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create tracking service", err)
		os.Exit(1)
	}
	returnService, err := returns.NewService(returnRepo, orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create return service", err)
		os.Exit(1)
	}
	wishlistService, err := wishlist.NewService(wishlist.NewRepository(gormDB), productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}
	addressService, err := addresses.NewService(addresses.ServiceParams{
		Repo:              addresses.NewRepository(gormDB),
		TransactionRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	gateway, squareClient, err := buildGateway(cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment gateway", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Repo:              checkoutRepo,
		CartRepo:          cartRepo,
		OrderRepo:         orderRepo,
		TrackingRepo:      trackingRepo,
		Gateway:           gateway,
		TransactionRunner: dbClient,
		Checkout:          cfg.Checkout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	var paymentMethodService paymentmethods.Service
	if squareClient != nil {
		paymentMethodService, err = paymentmethods.NewService(paymentmethods.ServiceParams{
			Repo:              paymentmethods.NewRepository(gormDB),
			UserLoader:        userRepo,
			SquareClient:      squareClient,
			TransactionRunner: dbClient,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create payment method service", err)
			os.Exit(1)
		}
	}

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
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			SessionChecker: sessionManager,
			Idempotency:    redisClient,
			Auth:           authService,
			Products:       productService,
			Banners:        bannerService,
			Posts:          postService,
			Cart:           cartService,
			Checkout:       checkoutService,
			Orders:         orderService,
			Tracking:       trackingService,
			Returns:        returnService,
			Wishlist:       wishlistService,
			Addresses:      addressService,
			PaymentMethods: paymentMethodService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// buildGateway picks the simulated gateway when the flag is on, otherwise the
// real Square client. The Square client is also reused for card vaulting.
func buildGateway(cfg *config.Config, logg *logger.Logger) (payments.Gateway, *square.Client, error) {
	if cfg.FeatureFlags.SimulatedPayments {
		gateway, err := payments.NewSimulatedGateway(cfg.App)
		return gateway, nil, err
	}

	squareClient, err := square.NewClient(context.Background(), cfg.Square, logg)
	if err != nil {
		return nil, nil, err
	}
	gateway, err := payments.NewSquareGateway(squareClient)
	if err != nil {
		return nil, nil, err
	}
	return gateway, squareClient, nil
}
