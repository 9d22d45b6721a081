package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/config"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/logger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
)

// Services groups the services the router exposes.
type Services struct {
	System       *service.SystemService
	Portfolios   *service.PortfolioService
	Assets       *service.AssetService
	Transactions *service.TransactionService
	Goals        *service.GoalService
	Reconcile    *service.ReconcileService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	auth := custommiddleware.NewAuthenticator(cfg.Auth.JWTSecret)
	limiter := custommiddleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log)

	portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolios, svc.Reconcile)
	assetHandler := handlers.NewAssetHandler(svc.Assets)
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions)
	goalHandler := handlers.NewGoalHandler(svc.Goals)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Use(auth.Middleware)
			r.Use(limiter.Middleware)

			r.Post("/", portfolioHandler.Initialize)
			r.Get("/me", portfolioHandler.Me)

			r.Route("/{address}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateAddressMiddleware)

				r.Get("/", portfolioHandler.Get)
				r.Get("/valuation", portfolioHandler.Valuation)
				r.Get("/reconcile", portfolioHandler.Reconcile)

				r.Route("/asset", func(r chi.Router) {
					r.Get("/", assetHandler.List)
					r.Post("/", assetHandler.Add)
					r.With(custommiddleware.ValidateUUIDMiddleware).Put("/{uuid}", assetHandler.Update)
				})

				r.Route("/transaction", func(r chi.Router) {
					r.Get("/", transactionHandler.List)
					r.Post("/", transactionHandler.Record)
				})

				r.Route("/goal", func(r chi.Router) {
					r.Get("/", goalHandler.List)
					r.Post("/", goalHandler.Create)
					r.Route("/{uuid}", func(r chi.Router) {
						r.Use(custommiddleware.ValidateUUIDMiddleware)
						r.Get("/progress", goalHandler.Progress)
						r.Put("/progress", goalHandler.UpdateProgress)
					})
				})
			})
		})
	})

	return r
}
