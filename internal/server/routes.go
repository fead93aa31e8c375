package server

import (
	"log/slog"
	"net/http"

	"life-server/internal/auth"
	authHandlers "life-server/internal/auth/handlers"
	logHandlers "life-server/internal/explog/handlers"
	"life-server/internal/middleware"
	serverHandlers "life-server/internal/server/handlers"
	"life-server/internal/shared/database"
	stageHandlers "life-server/internal/stage/handlers"
	"life-server/internal/store"
)

type Routes struct {
	db         *database.DB
	store      *store.Store
	authorizer auth.Authorizer
	logger     *slog.Logger
}

func NewRoutes(db *database.DB, st *store.Store, authorizer auth.Authorizer, logger *slog.Logger) *Routes {
	return &Routes{
		db:         db,
		store:      st,
		authorizer: authorizer,
		logger:     logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db)
	loginHandler := authHandlers.NewLoginHandler(r.store, r.authorizer)
	logoutHandler := authHandlers.NewLogoutHandler(r.store)
	meHandler := authHandlers.NewMeHandler()
	stageHandler := stageHandlers.NewStageHandler(r.store)
	logHandler := logHandlers.NewLogHandler(r.store)

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)
	mux.Handle("/api/auth/login", loginHandler)
	mux.Handle("/api/auth/logout", logoutHandler)

	// Protected endpoints (authenticated users)
	mux.Handle("/api/auth/me", middleware.JWTMiddleware(meHandler))
	mux.Handle("GET /api/stages", middleware.JWTMiddleware(http.HandlerFunc(stageHandler.List)))
	mux.Handle("GET /api/stages/{id}", middleware.JWTMiddleware(http.HandlerFunc(stageHandler.Get)))
	mux.Handle("GET /api/stages/{id}/logs", middleware.JWTMiddleware(http.HandlerFunc(logHandler.ListForStage)))
	mux.Handle("POST /api/stages/{id}/logs", middleware.JWTMiddleware(http.HandlerFunc(logHandler.Create)))
	mux.Handle("PUT /api/logs/{id}", middleware.JWTMiddleware(http.HandlerFunc(logHandler.Edit)))
	mux.Handle("DELETE /api/logs/{id}", middleware.JWTMiddleware(http.HandlerFunc(logHandler.Delete)))
	mux.Handle("GET /api/me/logs", middleware.JWTMiddleware(http.HandlerFunc(logHandler.ListMine)))

	// Admin-only endpoints (authenticated + admin role)
	mux.Handle("PUT /api/stages", middleware.RequireAdmin(http.HandlerFunc(stageHandler.Replace)))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/auth/login", "/api/auth/logout"},
		"protected_endpoints", []string{"/api/auth/me", "/api/stages", "/api/stages/{id}", "/api/stages/{id}/logs", "/api/logs/{id}", "/api/me/logs"},
		"admin_endpoints", []string{"PUT /api/stages"},
	)

	return mux
}
