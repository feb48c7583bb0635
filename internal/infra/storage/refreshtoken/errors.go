package refreshtoken

import "errors"

var (
	// ErrTokenNotFound возвращается, когда refresh-токен не найден
	ErrTokenNotFound = errors.New("refreshtoken.repository: token not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("refreshtoken.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("refreshtoken.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("refreshtoken.repository: failed to scan row")
)
