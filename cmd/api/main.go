package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mateoguzman/skylens-backend/api/routes"
	"github.com/mateoguzman/skylens-backend/internal/auth"
	"github.com/mateoguzman/skylens-backend/internal/clusterperms"
	"github.com/mateoguzman/skylens-backend/internal/clusters"
	"github.com/mateoguzman/skylens-backend/internal/identities"
	"github.com/mateoguzman/skylens-backend/internal/principal"
	"github.com/mateoguzman/skylens-backend/internal/profiles"
	"github.com/mateoguzman/skylens-backend/internal/resources"
	"github.com/mateoguzman/skylens-backend/internal/users"
	"github.com/mateoguzman/skylens-backend/pkg/config"
	"github.com/mateoguzman/skylens-backend/pkg/db"
	"github.com/mateoguzman/skylens-backend/pkg/logger"
	"github.com/mateoguzman/skylens-backend/pkg/mailer"
	"github.com/mateoguzman/skylens-backend/pkg/metrics"
	"github.com/mateoguzman/skylens-backend/pkg/migrate"
	"github.com/mateoguzman/skylens-backend/pkg/redis"
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

	gormDB := dbClient.DB()
	identityRepo := identities.NewRepository(gormDB)
	profileRepo := profiles.NewRepository(gormDB)
	clusterRepo := clusters.NewRepository(gormDB)
	permissionRepo := clusterperms.NewRepository(gormDB)
	resourceRepo := resources.NewRepository(gormDB)

	resolver := principal.NewResolver(cfg.JWT, identityRepo, profileRepo)

	authService, err := auth.NewService(auth.ServiceParams{
		IdentityRepo: identityRepo,
		ProfileRepo:  profileRepo,
		JWTConfig:    cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
		Defaults:       cfg.Defaults,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	resetService, err := auth.NewResetService(auth.ResetServiceParams{
		TxRunner:       dbClient,
		SharedDB:       gormDB,
		Mailer:         mailer.NewLogMailer(logg),
		Logger:         logg,
		PasswordConfig: cfg.Password,
		ResetConfig:    cfg.Reset,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reset service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.ServiceParams{
		TxRunner:    dbClient,
		ProfileRepo: profileRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	clustersService, err := clusters.NewService(clusters.ServiceParams{
		ClusterRepo:    clusterRepo,
		PermissionRepo: permissionRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create clusters service", err)
		os.Exit(1)
	}

	resourcesService, err := resources.NewService(resources.ServiceParams{
		ResourceRepo: resourceRepo,
		Visibility:   clustersService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create resources service", err)
		os.Exit(1)
	}

	permissionsService, err := clusterperms.NewService(clusterperms.ServiceParams{
		PermissionRepo: permissionRepo,
		ProfileRepo:    profileRepo,
		ClusterRepo:    clusterRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create permissions service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)

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
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			HTTPMetrics:  httpMetrics,
			MetricsGath:  registry,
			Resolver:     resolver,
			AuthService:  authService,
			Register:     registerService,
			Reset:        resetService,
			Users:        usersService,
			Clusters:     clustersService,
			Resources:    resourcesService,
			ClusterPerms: permissionsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
