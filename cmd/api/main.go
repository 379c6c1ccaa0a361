package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/routes"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/notifications"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	product "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/auth/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/instance"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/angelmondragon/storefront-backend/pkg/pubsub"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
	"github.com/angelmondragon/storefront-backend/pkg/security"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

type closer func() error

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	var closers []closer
	defer func() {
		// Close in reverse acquisition order.
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	closers = append(closers, redisClient.Close)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	hub := notifications.NewHub(cfg.Notifications.BufferSize)
	closers = append(closers, hub.Close)

	broker, err := notifications.NewBroker(redisClient, cfg.Notifications.RedisChannel, hub, logg)
	if err != nil {
		return err
	}
	brokerCtx, stopBroker := context.WithCancel(ctx)
	defer stopBroker()
	go func() {
		if err := broker.Run(brokerCtx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(brokerCtx, "notification broker stopped", err)
		}
	}()

	notifierParams := notifications.NotifierParams{Publisher: broker, Logger: logg}
	if cfg.ExportEnabled() {
		psClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			return err
		}
		exporter, err := pubsub.NewExporter(psClient, logg)
		if err != nil {
			_ = psClient.Close()
			return err
		}
		// The exporter drains in-flight publishes before the client goes away.
		closers = append(closers, psClient.Close, exporter.Close)
		notifierParams.Exporter = exporter
	}
	notifier, err := notifications.NewNotifier(notifierParams)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	orderMetrics := metrics.NewOrderMetrics(registry)

	policy, err := checkout.PolicyFromConfig(cfg.Checkout)
	if err != nil {
		return err
	}

	gdb := dbClient.DB()
	userRepo := users.NewRepository(gdb)
	productRepo := product.NewRepository(gdb)
	cartRepo := cart.NewRepository(gdb)
	orderRepo := orders.NewRepository(gdb)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		Hasher:         security.NewHasher(cfg.Password),
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return err
	}
	productService, err := product.NewService(productRepo)
	if err != nil {
		return err
	}
	cartService, err := cart.NewService(cartRepo, productRepo)
	if err != nil {
		return err
	}
	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Carts:    cartRepo,
		Products: productRepo,
		Orders:   orderRepo,
		Notifier: notifier,
		Policy:   &policy,
		Metrics:  orderMetrics,
		Logger:   logg,
	})
	if err != nil {
		return err
	}
	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:      orderRepo,
		Inventory: productRepo,
		Notifier:  notifier,
		Metrics:   orderMetrics,
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	handler := routes.NewRouter(routes.Dependencies{
		Config:      cfg,
		Logger:      logg,
		Sessions:    sessionManager,
		Redis:       redisClient,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
		Gatherer:    registry,
		Readiness: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
		Auth:     authService,
		Products: productService,
		Cart:     cartService,
		Checkout: checkoutService,
		Orders:   orderService,
		Hub:      hub,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     server.Addr,
		"instance": instance.ID(),
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	// Open event streams hold connections; end them before draining.
	stopBroker()
	_ = hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-serveErr
}
