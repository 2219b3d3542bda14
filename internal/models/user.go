// Package models содержит доменные структуры кофейни: пользователей,
// месячные абонементы и вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя кофейни.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Username     string    // Имя пользователя (уникальное)
	Email        string    // Электронная почта для напоминаний (может быть пустой)
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя, admin или user
	CreatedAt    time.Time // Дата регистрации
}

// Credentials используется для приёма данных регистрации и входа из JSON-запроса.
// Email необязателен и нужен только для напоминаний об окончании абонемента.
type Credentials struct {
	Username string `json:"username" validate:"required,alphanum"` // Имя пользователя
	Password string `json:"password" validate:"required,min=6"`    // Пароль (минимум 6 символов)
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}
