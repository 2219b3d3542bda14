package models

import "errors"

// Доменные ошибки, которые сервисы возвращают наружу. Каждая из них —
// ожидаемый отказ на границе запроса, состояние при этом не меняется.
var (
	// ErrOwnerExists пользователь с таким именем уже зарегистрирован.
	ErrOwnerExists = errors.New("username already exists")
	// ErrInvalidCredentials неверное имя пользователя или пароль.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNoActivePass нет абонемента или его окно истекло.
	ErrNoActivePass = errors.New("no active monthly pass")
	// ErrQuotaExhausted окно ещё действует, но кофе в нём закончились.
	ErrQuotaExhausted = errors.New("monthly coffee quota exhausted")
	// ErrPassNotFound запись абонемента отсутствует в хранилище.
	ErrPassNotFound = errors.New("pass not found")
)
