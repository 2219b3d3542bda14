package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/Sriragulcodez/leo-coffee-shop/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) FindPassesExpiringToday(ctx context.Context) ([]*models.ReminderInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ReminderInfo), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestScheduler_RunFindExpiringPasses_RepoError(t *testing.T) {
	// При ошибке выборки проход завершается без публикаций,
	// поэтому nil-канал RabbitMQ здесь безопасен.
	repo := new(RepoMock)
	repo.On("FindPassesExpiringToday", mock.Anything).
		Return(nil, errors.New("connection reset")).Once()

	svc := NewSchedulerService(repo, newNoopLogger())
	svc.runFindExpiringPasses(context.Background(), nil)

	repo.AssertExpectations(t)
}

func TestScheduler_RunFindExpiringPasses_NoExpiringPasses(t *testing.T) {
	repo := new(RepoMock)
	repo.On("FindPassesExpiringToday", mock.Anything).
		Return([]*models.ReminderInfo{}, nil).Once()

	svc := NewSchedulerService(repo, newNoopLogger())
	svc.runFindExpiringPasses(context.Background(), nil)

	repo.AssertExpectations(t)
}

func TestScheduler_FindExpiringPasses_StopsOnContextCancel(t *testing.T) {
	repo := new(RepoMock)
	repo.On("FindPassesExpiringToday", mock.Anything).
		Return([]*models.ReminderInfo{}, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewSchedulerService(repo, newNoopLogger())
	svc.FindExpiringPasses(ctx, nil)

	repo.AssertExpectations(t)
}
