package main

import (
	"context"
	"errors"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drinks-service/internal/audit"
	"drinks-service/internal/auth"
	"drinks-service/internal/config"
	"drinks-service/internal/http"
	"drinks-service/internal/http/handler"
	"drinks-service/internal/infra/cache"
	"drinks-service/internal/repository/postgres"
	"drinks-service/pkg/metrics"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	envFilePath      = ".env"
	serverAddrPrefix = ":"
	signalBufferSize = 1
	redisKeyPrefix   = "drinks"
	jwksCacheKeyFmt  = "jwks:"
	redisPingTimeout = 2 * time.Second
	healthDatabase   = "database"
	healthRedis      = "redis"
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(envFilePath); err != nil {
		logger.Info(".env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, &cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("database connection established", "host", cfg.Database.Host, "database", cfg.Database.Database)

	drinkRepo := postgres.NewDrinkRepository(db)
	auditLogger := audit.NewLogger(db.Pool, logger)

	if err := seedDrinks(ctx, drinkRepo, auditLogger, logger); err != nil {
		logger.Error("failed to seed drinks", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	healthChecks := map[string]handler.HealthChecker{healthDatabase: db}

	var source auth.DocumentSource = auth.NewHTTPSource(cfg.Auth.JWKSURL, &stdhttp.Client{Timeout: cfg.Auth.JWKSFetchTimeout})

	if cfg.Redis.URL != "" {
		redisCache, redisClient, err := cache.NewRedisCacheFromURL(cfg.Redis.URL, cache.WithKeyPrefix(redisKeyPrefix))
		if err != nil {
			logger.Error("failed to configure redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		if err := redisCache.Ping(pingCtx); err != nil {
			// The shared cache is optional; lookups fall through to the identity provider.
			logger.Warn("redis unreachable at startup", "error", err)
		}
		cancel()

		source = auth.NewSharedSource(source, redisCache, jwksCacheKeyFmt+cfg.Auth.Domain, cfg.Redis.JWKSTTL, logger, m)
		healthChecks[healthRedis] = redisCache
		logger.Info("shared key set cache enabled", "ttl", cfg.Redis.JWKSTTL)
	}

	keys := auth.NewCachingKeyProvider(
		auth.NewRemoteKeyProvider(source),
		cfg.Auth.JWKSCacheTTL,
		cfg.Auth.JWKSFetchTimeout,
		auth.WithCacheLogger(logger),
		auth.WithCacheMetrics(m),
	)

	authorizer := auth.NewAuthorizer(auth.AuthorizerConfig{
		Audience:   cfg.Auth.Audience,
		Issuer:     cfg.Auth.Issuer(),
		Algorithms: cfg.Auth.Algorithms,
		Leeway:     cfg.Auth.ClockLeeway,
	}, keys, auth.WithMetrics(m))

	server := http.NewServer(&http.ServerDependencies{
		Config:          cfg,
		Logger:          logger,
		Drinks:          drinkRepo,
		AuditLogger:     auditLogger,
		AuthMiddleware:  auth.NewMiddleware(authorizer),
		Metrics:         m,
		MetricsGatherer: registry,
		HealthChecks:    healthChecks,
	})

	go func() {
		if err := server.Start(serverAddrPrefix + cfg.Server.Port); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, signalBufferSize)
	signal.Notify(quit, shutdownSignals...)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	auditLogger.Wait()

	logger.Info("server exited gracefully")
}

// seedDrinks inserts the demo drink into an empty table and records it.
func seedDrinks(ctx context.Context, repo *postgres.DrinkRepository, auditLogger *audit.Logger, logger *slog.Logger) error {
	seeded, err := repo.Seed(ctx)
	if err != nil {
		return err
	}
	if !seeded {
		return nil
	}

	logger.Info("seeded drinks table")
	if err := auditLogger.Log(ctx, &audit.Event{
		EventType:    string(audit.ActionSeed) + "_" + string(audit.ResourceTypeDrink),
		ActorType:    audit.ActorTypeSystem,
		ResourceType: audit.ResourceTypeDrink,
		Action:       audit.ActionSeed,
		Status:       audit.StatusSuccess,
	}); err != nil {
		logger.Warn("failed to audit seed", "error", err)
	}
	return nil
}
