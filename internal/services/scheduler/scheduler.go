// Package services содержит воркер напоминаний об истекающих абонементах.
//
// Планировщик периодически находит абонементы, окно которых заканчивается
// сегодня, и публикует напоминания в RabbitMQ. На корректность учёта он
// не влияет: истечение абонемента определяется лениво при обращении.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/Sriragulcodez/leo-coffee-shop/internal/lib/rabbitmq"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/lib/sl"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/models"
)

// PassRepository определяет выборку абонементов для напоминаний.
type PassRepository interface {
	FindPassesExpiringToday(ctx context.Context) ([]*models.ReminderInfo, error)
}

// SchedulerService находит истекающие абонементы и публикует напоминания.
type SchedulerService struct {
	repo PassRepository
	log  *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo PassRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// FindExpiringPasses запускает цикл поиска истекающих абонементов:
// один проход сразу и далее раз в сутки, пока не отменён контекст.
func (s *SchedulerService) FindExpiringPasses(ctx context.Context, channel *amqp.Channel) {
	s.runFindExpiringPasses(ctx, channel)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runFindExpiringPasses(ctx, channel)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) runFindExpiringPasses(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting service to find passes expiring today")
	reminders, err := s.repo.FindPassesExpiringToday(ctx)
	if err != nil {
		s.log.Error("failed to find expiring passes", sl.Err(err))
		return
	}
	if len(reminders) == 0 {
		s.log.Info("no expiring passes found")
		return
	}
	s.log.Info("found expiring passes", "count", len(reminders))
	for _, reminder := range reminders {
		err = rabbitmq.PublishMessage(channel, "notifications", "expiring", reminder)
		if err != nil {
			s.log.Error("failed to publish reminder", sl.Err(err))
		}
	}
}
