package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
)

// Claims полезная нагрузка access-токена
type Claims struct {
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager выпускает и проверяет JWT access-токены и генерирует
// непрозрачные refresh-токены
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager создает менеджер токенов
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL возвращает время жизни access-токена
func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

// IssueAccessToken выпускает подписанный JWT для пользователя
func (m *TokenManager) IssueAccessToken(user *domain.User, now time.Time) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%w: IssueAccessToken - sign token: %v", ErrInternal, err)
	}

	return signed, nil
}

// ParseAccessToken проверяет подпись и срок действия JWT
func (m *TokenManager) ParseAccessToken(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// NewRefreshToken генерирует непрозрачный refresh-токен и его хэш для хранения
func (m *TokenManager) NewRefreshToken(userID int64, now time.Time) (plaintext string, record *domain.RefreshToken) {
	plaintext = uuid.NewString()

	record = &domain.RefreshToken{
		UserID:    userID,
		TokenHash: HashToken(plaintext),
		ExpiresAt: now.Add(m.refreshTTL),
	}

	return plaintext, record
}

// HashToken возвращает hex-представление SHA-256 хэша токена
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
