// Package coffeeshop предоставляет маршруты для основного приложения.
package coffeeshop

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Sriragulcodez/leo-coffee-shop/internal/http/handlers/auth/login"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/http/handlers/auth/register"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/http/handlers/coffee/serve"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/http/handlers/health"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/http/handlers/pass/buy"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/http/handlers/pass/status"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/http/middlewarectx"
	authservice "github.com/Sriragulcodez/leo-coffee-shop/internal/services/auth"
	coffeeservice "github.com/Sriragulcodez/leo-coffee-shop/internal/services/coffee"
	passservice "github.com/Sriragulcodez/leo-coffee-shop/internal/services/pass"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.AuthService,
	passService *passservice.PassService, coffeeService *coffeeservice.CoffeeService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/pass", buy.New(logger, passService).ServeHTTP)
			r.Get("/pass", status.New(logger, passService).ServeHTTP)
			r.Post("/coffee", serve.New(logger, coffeeService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
