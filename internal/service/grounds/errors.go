package grounds

import "errors"

var (
	// ErrDuplicateName возвращается, если площадка с таким именем уже существует
	ErrDuplicateName = errors.New("ground with this name already exists")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidCategory возвращается при неизвестной категории площадки
	ErrInvalidCategory = errors.New("invalid ground category")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
