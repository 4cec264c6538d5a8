package ground

import "errors"

var (
	// ErrGroundNotFound возвращается, когда площадка не найдена
	ErrGroundNotFound = errors.New("ground.repository: ground not found")

	// ErrDuplicateName возвращается при попытке создать площадку с существующим именем
	ErrDuplicateName = errors.New("ground.repository: duplicate ground name")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("ground.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("ground.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("ground.repository: failed to scan row")
)
