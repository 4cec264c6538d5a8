package identity

import "errors"

var (
	// ErrUserNotFound возвращается, когда провайдер не знает пользователя
	ErrUserNotFound = errors.New("identity: user not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("identity client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от провайдера
	ErrInvalidResponse = errors.New("identity client: invalid response")

	// ErrServiceDegraded возвращается, когда провайдер недоступен
	// и роль понижена до requester
	ErrServiceDegraded = errors.New("identity unavailable: graceful degradation applied")
)
