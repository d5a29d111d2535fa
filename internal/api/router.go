package api

import (
	"log/slog"
	"net/http"
	"time"

	"crm-service/internal/api/handler"
	mw "crm-service/internal/api/middleware"
	"crm-service/internal/config"
	"crm-service/internal/domain/customer"

	_ "crm-service/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func SetupRouter(customerService customer.CustomerService, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupAPIRoutes(router, cfg, customerService, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAPIRoutes(router *chi.Mux, cfg *config.Config, svc customer.CustomerService, logger *slog.Logger) {
	customerHandler := handler.NewCustomerHandler(svc, logger)
	authHandler := handler.NewAuthHandler(*cfg, logger)

	router.Route("/api", func(r chi.Router) {
		r.Post("/admin/login", authHandler.Login)

		r.Route("/customer", func(r chi.Router) {
			r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
			r.Get("/", customerHandler.ListCustomers)
			r.Post("/", customerHandler.CreateCustomer)
			r.Route("/{customerID}", func(r chi.Router) {
				r.Get("/", customerHandler.GetCustomer)
				r.Put("/", customerHandler.UpdateCustomer)
				r.Delete("/", customerHandler.DeleteCustomer)
			})
		})
	})
}
