// Package app wires configuration, storage, domain services, and the HTTP
// server into a running storefront.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/opryshko/bakehouse/internal/domain/order"
	"github.com/opryshko/bakehouse/internal/domain/user"
	"github.com/opryshko/bakehouse/internal/events"
	"github.com/opryshko/bakehouse/internal/handler"
	"github.com/opryshko/bakehouse/internal/session"
	"github.com/opryshko/bakehouse/internal/storage/postgres"
	"github.com/opryshko/bakehouse/pkg/health"
	"github.com/opryshko/bakehouse/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	// Session store: Redis when configured, in-process otherwise.
	var sessions session.Store
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return errors.Wrap(err, "parse redis url")
		}
		client := redis.NewClient(opt)
		defer func() { _ = client.Close() }()

		healthSvc.AddReadinessCheck("redis", 5*time.Second, func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		sessions = session.NewRedisStore(client, cfg.Session.TTL, cfg.Session.CartTTL)
		lg.Info("Using redis session store")
	} else {
		sessions = session.NewMemoryStore()
		lg.Info("Using in-process session store")
	}

	// Order events: best-effort NATS publishing when configured.
	var nc *nats.Conn
	if cfg.NatsURL != "" {
		nc, err = nats.Connect(cfg.NatsURL, nats.Name("bakehouse-api"))
		if err != nil {
			return errors.Wrap(err, "connect nats")
		}
		defer nc.Close()
		lg.Info("Publishing order events", zap.String("url", cfg.NatsURL))
	}
	publisher := events.NewPublisher(nc)

	healthSvc.Start(ctx, 10*time.Second)

	// Repositories.
	productRepo := postgres.NewProductRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)

	// Domain services.
	userService, err := user.NewService(ctx, userRepo)
	if err != nil {
		return errors.Wrap(err, "create user service")
	}
	orderService := order.NewService(orderRepo, publisher)

	if err := ensureBootstrapAdmin(ctx, lg, userRepo, cfg.Bootstrap); err != nil {
		return errors.Wrap(err, "bootstrap admin")
	}

	// HTTP handlers.
	h := handler.New(productRepo, userService, orderService, sessions, []byte(cfg.SessionPepper))

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", http.StripPrefix("/api", h.Routes()))

	instrumented := otelhttp.NewHandler(mux, "bakehouse-api",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(instrumented,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	healthSvc.SetReady(true)

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// ensureBootstrapAdmin creates the configured admin account if it does not
// exist yet. An existing account with the same phone is left untouched, even
// if it is not an admin.
func ensureBootstrapAdmin(ctx context.Context, lg *zap.Logger, users user.Repository, cfg BootstrapConfig) error {
	if cfg.AdminPhone == "" {
		return nil
	}

	_, err := users.GetByPhone(ctx, cfg.AdminPhone)
	if err == nil {
		return nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return errors.Wrap(err, "lookup admin")
	}

	u := &user.User{
		FirstName: cfg.AdminFirstName,
		LastName:  cfg.AdminLastName,
		Phone:     cfg.AdminPhone,
		Approved:  true,
		Admin:     true,
	}
	if err := users.Create(ctx, u); err != nil {
		return errors.Wrap(err, "create admin")
	}
	lg.Info("Created bootstrap admin", zap.Int64("id", u.ID), zap.String("phone", u.Phone))
	return nil
}
