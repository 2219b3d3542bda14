// Package services содержит бизнес-логику учёта месячных абонементов.
//
// PassService — единственный владелец жизненного цикла записи абонемента:
// покупка, продление, ленивое определение истечения и атомарное списание кофе.
// Вся последовательность «проверить и изменить» выполняется условными
// SQL-выражениями в хранилище, поэтому конкурентные запросы одного владельца
// сериализуются на строке его абонемента, а разные владельцы друг другу не мешают.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Sriragulcodez/leo-coffee-shop/internal/lib/window"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/models"
)

var (
	passesSoldTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coffee_shop_passes_sold_total",
		Help: "Количество купленных и продлённых абонементов.",
	})
	coffeesServedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coffee_shop_coffees_served_total",
		Help: "Количество выданных кофе.",
	})
)

// PassRepository определяет методы для работы с абонементами в хранилище.
type PassRepository interface {
	// CreateOrRenewPass вставляет новую запись либо перезаписывает истёкшую.
	CreateOrRenewPass(ctx context.Context, pass models.Pass) (inserted bool, renewed bool, err error)
	// DecrementPassUnits атомарно списывает один кофе с действующего абонемента.
	DecrementPassUnits(ctx context.Context, username string, now time.Time) (remaining int, decremented bool, err error)
	// GetPass возвращает запись абонемента владельца.
	GetPass(ctx context.Context, username string) (*models.Pass, error)
}

// Cache описывает методы для кэширования статусов абонементов.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// PassService реализует учёт абонементов поверх репозитория и кеша статусов.
type PassService struct {
	repo  PassRepository
	cache Cache
	log   *slog.Logger
}

// NewPassService создает новый экземпляр PassService.
func NewPassService(repo PassRepository, cache Cache, log *slog.Logger) *PassService {
	return &PassService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// PurchaseOrRenew покупает абонемент для владельца либо продлевает истёкший.
//
// Новая запись и продление получают окно в 30 дней от текущего момента
// и ровно 30 кофе: неиспользованный остаток истёкшего окна сгорает.
// Если абонемент ещё действует, вызов ничего не меняет и возвращает
// models.PurchaseAlreadyActive с текущим состоянием.
func (s *PassService) PurchaseOrRenew(ctx context.Context, username string) (*models.PurchaseResult, error) {
	start, end := window.Bounds(time.Now().UTC())
	pass := models.Pass{
		Username:       username,
		StartDate:      start,
		EndDate:        end,
		RemainingUnits: models.PassUnits,
	}

	inserted, renewed, err := s.repo.CreateOrRenewPass(ctx, pass)
	if err != nil {
		return nil, err
	}

	switch {
	case inserted, renewed:
		s.invalidateStatus(username)
		passesSoldTotal.Inc()
		outcome := models.PurchaseCreated
		if renewed {
			outcome = models.PurchaseRenewed
		}
		s.log.Info("pass window opened",
			slog.String("username", username),
			slog.String("outcome", string(outcome)),
			slog.Time("end_date", end))
		return &models.PurchaseResult{
			Outcome:        outcome,
			RemainingUnits: models.PassUnits,
			EndDate:        end,
		}, nil
	default:
		current, err := s.repo.GetPass(ctx, username)
		if err != nil {
			return nil, err
		}
		return &models.PurchaseResult{
			Outcome:        models.PurchaseAlreadyActive,
			RemainingUnits: current.RemainingUnits,
			EndDate:        current.EndDate,
		}, nil
	}
}

// ConsumeOne списывает один кофе с абонемента владельца и возвращает остаток.
//
// Если записи нет или окно истекло — models.ErrNoActivePass.
// Если окно действует, но кофе закончились — models.ErrQuotaExhausted.
// В обоих случаях состояние не меняется.
func (s *PassService) ConsumeOne(ctx context.Context, username string) (int, error) {
	now := time.Now().UTC()

	remaining, decremented, err := s.repo.DecrementPassUnits(ctx, username, now)
	if err != nil {
		return 0, err
	}
	if decremented {
		s.invalidateStatus(username)
		coffeesServedTotal.Inc()
		return remaining, nil
	}

	// Условное списание не прошло: выясняем, какой именно это отказ.
	pass, err := s.repo.GetPass(ctx, username)
	if errors.Is(err, models.ErrPassNotFound) {
		return 0, models.ErrNoActivePass
	}
	if err != nil {
		return 0, err
	}
	if !pass.IsActive(now) {
		return 0, models.ErrNoActivePass
	}
	return 0, models.ErrQuotaExhausted
}

// Status возвращает текущее состояние абонемента владельца для отображения.
// Чтение идёт через кеш и может отставать от последней записи.
func (s *PassService) Status(ctx context.Context, username string) (*models.Pass, error) {
	var result *models.Pass
	cacheKey := statusCacheKey(username)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read pass status from cache",
			slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetPass(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Minute); err != nil {
		s.log.Warn("failed to cache pass status",
			slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

func (s *PassService) invalidateStatus(username string) {
	cacheKey := statusCacheKey(username)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate pass status cache",
			slog.String("key", cacheKey), slog.Any("err", err))
	}
}

func statusCacheKey(username string) string {
	return fmt.Sprintf("pass:%s", username)
}
