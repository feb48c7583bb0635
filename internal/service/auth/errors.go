package auth

import "errors"

var (
	// ErrInvalidRole возвращается при роли вне множества renter/merchant
	ErrInvalidRole = errors.New("invalid role")

	// ErrRoleMismatch возвращается, когда телефон уже зарегистрирован
	// с другой ролью
	ErrRoleMismatch = errors.New("phone already registered with a different role")

	// ErrInvalidToken возвращается при неизвестном или испорченном токене
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired возвращается при просроченном refresh-токене
	ErrTokenExpired = errors.New("token expired")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
