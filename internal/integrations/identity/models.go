package identity

// User модель пользователя из провайдера идентификации
type User struct {
	ID   int64  `json:"id"`
	Role string `json:"role"` // requester | admin
}

// ErrorResponse модель ошибки от провайдера идентификации
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
