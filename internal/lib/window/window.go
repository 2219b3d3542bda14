package window

import (
	"time"

	"github.com/Sriragulcodez/leo-coffee-shop/internal/models"
)

// Bounds возвращает границы окна абонемента, открываемого в момент start:
// [start, start + 30 дней).
func Bounds(start time.Time) (time.Time, time.Time) {
	return start, start.AddDate(0, 0, models.PassWindowDays)
}

// Expired сообщает, истекло ли окно с концом end к моменту now.
// Граница не входит в окно: в момент end абонемент уже не действует.
func Expired(end, now time.Time) bool {
	return !now.Before(end)
}

// DaysLeft считает количество полных дней до конца окна.
// Для истёкшего окна возвращает 0.
func DaysLeft(end, now time.Time) int {
	if Expired(end, now) {
		return 0
	}
	return int(end.Sub(now) / (24 * time.Hour))
}
