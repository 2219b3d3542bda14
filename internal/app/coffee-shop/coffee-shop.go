// Package coffeeshop собирает приложение кофейни: хранилище, кеш,
// сервисы и HTTP-сервер с graceful shutdown.
package coffeeshop

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/Sriragulcodez/leo-coffee-shop/internal/cache"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/config"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/lib/jwt"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/migrations"
	authservice "github.com/Sriragulcodez/leo-coffee-shop/internal/services/auth"
	coffeeservice "github.com/Sriragulcodez/leo-coffee-shop/internal/services/coffee"
	passservice "github.com/Sriragulcodez/leo-coffee-shop/internal/services/pass"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New собирает приложение из конфига: подключает PostgreSQL и redis,
// применяет миграции и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker)
	passService := passservice.NewPassService(db, cacheRedis, logger)
	coffeeService := coffeeservice.NewCoffeeService(passService, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, passService, coffeeService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
