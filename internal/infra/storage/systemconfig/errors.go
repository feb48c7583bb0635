package systemconfig

import "errors"

var (
	// ErrKeyNotFound возвращается, когда ключ конфигурации не найден
	ErrKeyNotFound = errors.New("systemconfig.repository: key not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("systemconfig.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("systemconfig.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("systemconfig.repository: failed to scan row")
)
