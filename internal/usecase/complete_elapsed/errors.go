package complete_elapsed

import "errors"

// ErrInternal возвращается, если не удалось получить кандидатов
var ErrInternal = errors.New("complete_elapsed: internal error")
