package models

import "time"

const (
	// PassWindowDays длительность действия абонемента в днях.
	PassWindowDays = 30
	// PassUnits количество кофе, доступных в рамках одного окна абонемента.
	PassUnits = 30
)

// Pass представляет месячный абонемент пользователя.
// На одного пользователя существует не более одной записи:
// продление перезаписывает окно и счётчик на месте.
type Pass struct {
	Username       string    // Владелец абонемента
	StartDate      time.Time // Начало текущего окна
	EndDate        time.Time // Конец текущего окна (StartDate + 30 дней)
	RemainingUnits int       // Остаток кофе в текущем окне, [0, 30]
}

// IsActive сообщает, действует ли абонемент в момент now.
// Активность определяется только окном, остаток кофе на неё не влияет.
func (p *Pass) IsActive(now time.Time) bool {
	return now.Before(p.EndDate)
}

// PurchaseOutcome результат операции покупки или продления абонемента.
type PurchaseOutcome string

const (
	// PurchaseCreated создан новый абонемент.
	PurchaseCreated PurchaseOutcome = "created"
	// PurchaseRenewed истёкший абонемент продлён с новым окном.
	PurchaseRenewed PurchaseOutcome = "renewed"
	// PurchaseAlreadyActive абонемент ещё действует, состояние не менялось.
	PurchaseAlreadyActive PurchaseOutcome = "already_active"
)

// PurchaseResult описывает состояние абонемента после покупки или продления.
type PurchaseResult struct {
	Outcome        PurchaseOutcome
	RemainingUnits int
	EndDate        time.Time
}

// ReminderInfo сообщение для воркера напоминаний об истекающем абонементе.
type ReminderInfo struct {
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	EndDate        time.Time `json:"end_date"`
	RemainingUnits int       `json:"remaining_units"`
}
