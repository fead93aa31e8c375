package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"life-server/internal/auth"
	"life-server/internal/middleware"
	"life-server/internal/server"
	"life-server/internal/shared/config"
	"life-server/internal/shared/database"
	"life-server/internal/shared/logger"
	sharedredis "life-server/internal/shared/redis"
	"life-server/internal/store"
)

func main() {
	if err := config.Init(); err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	cfg := config.GlobalConfig

	logger.Init()

	db, err := database.Connect()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	redisClient, err := sharedredis.Connect()
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	var bus store.Bus
	switch {
	case cfg.Sync.Enabled && redisClient != nil:
		bus = store.NewRedisBus(redisClient, cfg.Sync.Channel, slog.Default())
	case cfg.Sync.Enabled:
		slog.Warn("Sync enabled but Redis is disabled, running single-node without peer notifications")
	default:
		slog.Info("Cross-node sync disabled")
	}

	ctx := context.Background()
	st, err := store.New(ctx, store.Options{
		Backend: store.NewSQLBackend(db),
		Bus:     bus,
		Logger:  slog.Default(),
	})
	if err != nil {
		log.Fatal("Failed to initialize store:", err)
	}

	authorizer := auth.NewPassphraseAuthorizer(cfg.Admin.Passphrase)

	routes := server.NewRoutes(db, st, authorizer, slog.Default())
	mux := routes.Setup()

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		Enabled:           cfg.RateLimit.Enabled,
	})
	corsMiddleware := middleware.NewCORS()

	handler := corsMiddleware.Middleware(rateLimiter.Middleware(mux))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	slog.Info("L.I.F.E. server starting",
		"port", cfg.Server.Port,
		"environment", cfg.Server.Environment,
		"database_driver", cfg.Database.Driver,
		"sync_enabled", cfg.Sync.Enabled,
	)

	if err := srv.ListenAndServe(); err != nil {
		log.Fatal("Server failed:", err)
	}
}
