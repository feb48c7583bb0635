package models

import (
	"time"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
)

// Request модели

// SendOTPRequest запрос на отправку кода подтверждения
type SendOTPRequest struct {
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// VerifyOTPRequest запрос на проверку кода и вход
type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
	Role  string `json:"role"`
}

// RefreshRequest запрос на обновление пары токенов
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LogoutRequest запрос на завершение сессии
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Response модели

// UserResponse данные пользователя в ответе на вход
type UserResponse struct {
	ID            int64   `json:"id"`
	Phone         string  `json:"phone"`
	Role          string  `json:"role"`
	FirstName     *string `json:"firstName,omitempty"`
	LastName      *string `json:"lastName,omitempty"`
	Email         *string `json:"email,omitempty"`
	BusinessName  *string `json:"businessName,omitempty"`
	LicenseStatus string  `json:"licenseStatus"`

	CreatedAt time.Time `json:"createdAt"`
}

// TokenPairResponse пара токенов, выдаваемая после входа
type TokenPairResponse struct {
	AccessToken      string        `json:"accessToken"`
	RefreshToken     string        `json:"refreshToken"`
	ExpiresInSeconds int           `json:"expiresInSeconds"`
	User             *UserResponse `json:"user,omitempty"`
}

// FromDomainUser конвертирует domain модель в DTO
func FromDomainUser(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:            u.ID,
		Phone:         u.Phone,
		Role:          string(u.Role),
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		BusinessName:  u.BusinessName,
		LicenseStatus: string(u.LicenseStatus),
		CreatedAt:     u.CreatedAt,
	}
}
