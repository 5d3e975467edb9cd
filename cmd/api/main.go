package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/reelwire/dcpflow-backend/api/routes"
	"github.com/reelwire/dcpflow-backend/internal/auth"
	"github.com/reelwire/dcpflow-backend/internal/bookings"
	"github.com/reelwire/dcpflow-backend/internal/cpl"
	"github.com/reelwire/dcpflow-backend/internal/distributors"
	"github.com/reelwire/dcpflow-backend/internal/ingest"
	"github.com/reelwire/dcpflow-backend/internal/orders"
	"github.com/reelwire/dcpflow-backend/internal/users"
	"github.com/reelwire/dcpflow-backend/pkg/auth/session"
	"github.com/reelwire/dcpflow-backend/pkg/config"
	"github.com/reelwire/dcpflow-backend/pkg/db"
	"github.com/reelwire/dcpflow-backend/pkg/logger"
	"github.com/reelwire/dcpflow-backend/pkg/metrics"
	"github.com/reelwire/dcpflow-backend/pkg/migrate"
	"github.com/reelwire/dcpflow-backend/pkg/qubewire"
	"github.com/reelwire/dcpflow-backend/pkg/redis"
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

	wireClient, err := qubewire.NewClient(context.Background(), cfg.QubeWire, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create wire client", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	cplRepo := cpl.NewRepository(dbClient.DB())
	distributorsRepo := distributors.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		Limiter:        redisClient,
		JWTConfig:      cfg.JWT,
		RateLimit:      cfg.AuthRateLimit,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	roleCacheTTL := time.Duration(cfg.JWT.RoleCacheTTLSeconds) * time.Second
	roleCache := auth.NewRoleCache(redisClient, usersRepo, roleCacheTTL)

	opMetrics := metrics.NewOpMetrics(prometheus.DefaultRegisterer)

	cplService := cpl.NewService(cplRepo, logg)
	distributorService := distributors.NewService(distributorsRepo, ordersRepo, logg)
	bookingService := bookings.NewService(
		ordersRepo,
		cplService,
		distributorService,
		wireClient,
		cfg.QubeWire,
		opMetrics,
		logg,
	)

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
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Sessions:    sessionManager,
			Roles:       roleCache,
			RoleCache:   roleCache,
			AuthSvc:     authService,
			IngestSvc:   ingest.NewService(dbClient, ordersRepo, ingest.NewParser(cfg.Upload), opMetrics, logg),
			OrdersSvc:   orders.NewService(ordersRepo, logg),
			CplSvc:      cplService,
			Distributor: distributorService,
			BookingsSvc: bookingService,
			UsersSvc:    users.NewService(usersRepo, cfg.Password, logg),
			WireHealth:  wireClient,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
