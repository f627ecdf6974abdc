package main

import (
	"log"
	"net/http"

	httphandlers "paynex/internal/interfaces/http"
	"paynex/internal/shared/config"
	"paynex/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("/api/auth/sign-up", deps.AuthHandler.HandleSignUp)
	mux.HandleFunc("/api/auth/sign-in", deps.AuthHandler.HandleSignIn)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)

	// Answers null instead of 401 when nobody is logged in
	mux.HandleFunc("/api/users/me", deps.AuthHandler.HandleMe)

	// Protected routes
	authMiddleware := middleware.Auth(deps.Sessions, cfg.Session.CookieName)

	mux.Handle("/api/banks/link-token", authMiddleware(http.HandlerFunc(deps.BankHandler.HandleLinkToken)))
	mux.Handle("/api/banks/exchange", authMiddleware(http.HandlerFunc(deps.BankHandler.HandleExchange)))
	mux.Handle("/api/banks", authMiddleware(http.HandlerFunc(deps.BankHandler.HandleListBanks)))
	mux.Handle("/api/banks/{id}", authMiddleware(http.HandlerFunc(deps.BankHandler.HandleGetBank)))
	mux.Handle("/api/accounts", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleListAccounts)))
	mux.Handle("/api/accounts/{id}", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleGetAccount)))
	mux.Handle("/api/transfers", authMiddleware(http.HandlerFunc(deps.TransferHandler.HandleCreateTransfer)))

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(mux))
	handler = middleware.Telemetry(middleware.Tracing(handler))

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
