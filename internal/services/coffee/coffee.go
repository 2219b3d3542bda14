// Package services содержит бизнес-логику выдачи кофе по абонементу.
package services

import (
	"context"
	"log/slog"

	"github.com/Sriragulcodez/leo-coffee-shop/internal/models"
)

// Ledger описывает единственную операцию учёта, нужную для выдачи кофе.
type Ledger interface {
	// ConsumeOne списывает один кофе с абонемента владельца и возвращает остаток.
	ConsumeOne(ctx context.Context, username string) (int, error)
}

// ServeResult описывает успешную выдачу кофе.
type ServeResult struct {
	Username       string // Кому выдан кофе
	RemainingUnits int    // Остаток кофе после выдачи
}

// CoffeeService выдаёт кофе аутентифицированному владельцу абонемента.
// Собственного состояния не держит: решение целиком делегируется учёту абонементов.
type CoffeeService struct {
	ledger Ledger
	log    *slog.Logger
}

// NewCoffeeService создает новый экземпляр CoffeeService.
func NewCoffeeService(ledger Ledger, log *slog.Logger) *CoffeeService {
	return &CoffeeService{
		ledger: ledger,
		log:    log,
	}
}

// Serve выдаёт один кофе владельцу username.
//
// Отказы учёта проходят насквозь: models.ErrNoActivePass и
// models.ErrQuotaExhausted означают отказ без изменения состояния.
func (s *CoffeeService) Serve(ctx context.Context, username string) (*ServeResult, error) {
	remaining, err := s.ledger.ConsumeOne(ctx, username)
	if err != nil {
		return nil, err
	}

	s.log.Info("coffee served",
		slog.String("username", username),
		slog.Int("remaining_units", remaining))

	return &ServeResult{
		Username:       username,
		RemainingUnits: remaining,
	}, nil
}
