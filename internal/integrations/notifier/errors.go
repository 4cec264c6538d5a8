package notifier

import "errors"

var (
	// ErrConnect возвращается при ошибке подключения к брокеру
	ErrConnect = errors.New("notifier: failed to connect to broker")

	// ErrPublish возвращается при ошибке публикации события
	ErrPublish = errors.New("notifier: failed to publish event")

	// ErrNotConfirmed возвращается, если брокер не подтвердил публикацию
	ErrNotConfirmed = errors.New("notifier: publish not confirmed by broker")

	// ErrClosed возвращается при публикации через закрытый publisher
	ErrClosed = errors.New("notifier: publisher closed")
)
