// Package jwt реализует выпуск и проверку JWT токенов доступа.
//
// Токен привязывает имя пользователя к окну действия: по валидному
// и не истёкшему токену можно восстановить владельца, по истёкшему — нет.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для выпуска и разбора JWT токенов.
type Maker interface {
	// GenerateToken выпускает токен для username с заданной ролью.
	GenerateToken(username, role string) (string, error)
	// ParseToken проверяет подпись и срок действия токена,
	// возвращает *CustomClaims с данными владельца.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
