package main

import (
	"log"
	"net/http"

	httphandlers "github.com/bostrovsky/tastyreport02/internal/interfaces/http"
	"github.com/bostrovsky/tastyreport02/internal/shared/config"
	"github.com/bostrovsky/tastyreport02/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with
// middleware applied.
func SetupRoutes(cfg *config.Config, deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)

	mux.Handle("/api/users/me", authMiddleware(http.HandlerFunc(deps.UserHandler.HandleMe)))
	mux.Handle("POST /api/brokerage/accounts", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleCreateAccount)))
	mux.Handle("GET /api/brokerage/accounts", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleListAccounts)))
	mux.Handle("DELETE /api/brokerage/accounts/{id}", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleDeleteAccount)))
	mux.Handle("POST /api/brokerage/accounts/{id}/sync", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleSyncAccount)))
	mux.Handle("GET /api/brokerage/accounts/{id}/balances", authMiddleware(http.HandlerFunc(deps.SnapshotHandler.HandleListBalances)))
	mux.Handle("GET /api/brokerage/accounts/{id}/positions", authMiddleware(http.HandlerFunc(deps.SnapshotHandler.HandleListPositions)))
	mux.Handle("GET /api/brokerage/accounts/{id}/transactions", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleListTransactions)))

	// Apply global middleware
	handler := middleware.Tracing(middleware.Logging(middleware.CORS(mux)))

	// Apply security middleware when TLS terminates here or at the proxy
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
