// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Sriragulcodez/leo-coffee-shop/internal/lib/jwt"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/lib/password"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью "user".
// Для занятого имени возвращает models.ErrOwnerExists без изменения состояния.
func (s *AuthService) Register(ctx context.Context, creds models.Credentials) (string, error) {
	hashed, err := password.GetHash(creds.Password)
	if err != nil {
		return "", err
	}
	user := models.User{
		UID:          uuid.New().String(),
		Username:     creds.Username,
		Email:        creds.Email,
		PasswordHash: hashed,
		Role:         "user", // дефолтная роль при регистрации
		CreatedAt:    time.Now().UTC(),
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и выпускает JWT токен доступа.
// Неизвестное имя и неверный пароль неразличимы для вызывающего:
// оба дают models.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", models.ErrInvalidCredentials
		}
		return "", err
	}
	if err := password.CompareHash(user.PasswordHash, creds.Password); err != nil {
		return "", models.ErrInvalidCredentials
	}
	return s.jwtMaker.GenerateToken(user.Username, user.Role)
}

// ValidateToken проверяет JWT и возвращает владельца токена и его роль.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.User{
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
