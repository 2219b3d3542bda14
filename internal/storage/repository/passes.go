package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Sriragulcodez/leo-coffee-shop/internal/models"
)

// CreateOrRenewPass выполняет условный upsert записи абонемента:
// вставляет новую запись либо перезаписывает истёкшую свежим окном и квотой.
// Действующий абонемент условие WHERE не подпускает к обновлению,
// поэтому такой вызов не трогает ни окно, ни остаток.
//
// Возвращаемые значения: (true, false) — создана новая запись,
// (false, true) — истёкшая запись продлена, (false, false) — абонемент
// ещё действует и ничего не изменилось.
func (s *Storage) CreateOrRenewPass(ctx context.Context, pass models.Pass) (bool, bool, error) {
	const op = "storage.CreateOrRenewPass"
	select {
	case <-ctx.Done():
		return false, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	// xmax = 0 только у свежевставленной строки, это отличает INSERT от UPDATE.
	query := `INSERT INTO passes (username, start_date, end_date, remaining_units)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (username) DO UPDATE
			  SET start_date = EXCLUDED.start_date,
			      end_date = EXCLUDED.end_date,
			      remaining_units = EXCLUDED.remaining_units
			  WHERE passes.end_date <= EXCLUDED.start_date
			  RETURNING (xmax = 0) AS inserted`
	var inserted bool
	err := s.DB.QueryRowContext(ctx, query,
		pass.Username, pass.StartDate, pass.EndDate, pass.RemainingUnits).Scan(&inserted)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("%s: %w", op, err)
	}
	return inserted, !inserted, nil
}

// DecrementPassUnits атомарно списывает один кофе с действующего абонемента.
// Проверка окна, проверка остатка и декремент выполняются одним выражением,
// поэтому конкурентные вызовы для одного владельца не могут увести счётчик
// в минус. Возвращает остаток после списания и признак того,
// что списание состоялось.
func (s *Storage) DecrementPassUnits(ctx context.Context, username string, now time.Time) (int, bool, error) {
	const op = "storage.DecrementPassUnits"
	select {
	case <-ctx.Done():
		return 0, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE passes
			  SET remaining_units = remaining_units - 1
			  WHERE username = $1 AND end_date > $2 AND remaining_units > 0
			  RETURNING remaining_units`
	var remaining int
	err := s.DB.QueryRowContext(ctx, query, username, now).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return remaining, true, nil
}

// GetPass возвращает запись абонемента по имени владельца.
// Если записи нет, возвращает models.ErrPassNotFound.
func (s *Storage) GetPass(ctx context.Context, username string) (*models.Pass, error) {
	const op = "storage.GetPass"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT username, start_date, end_date, remaining_units
			  FROM passes
			  WHERE username = $1`
	p := &models.Pass{}
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&p.Username, &p.StartDate, &p.EndDate, &p.RemainingUnits); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrPassNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// FindPassesExpiringToday находит абонементы, окно которых заканчивается сегодня,
// у владельцев с заполненной почтой. Используется воркером напоминаний.
func (s *Storage) FindPassesExpiringToday(ctx context.Context) ([]*models.ReminderInfo, error) {
	const op = "storage.FindPassesExpiringToday"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.username, u.email, p.end_date, p.remaining_units
			  FROM passes p
			  JOIN users u ON u.username = p.username
			  WHERE p.end_date::DATE = CURRENT_DATE AND u.email <> ''`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.ReminderInfo
	for rows.Next() {
		var info models.ReminderInfo
		if err = rows.Scan(&info.Username, &info.Email, &info.EndDate, &info.RemainingUnits); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &info)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
