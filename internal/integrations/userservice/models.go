package userservice

// User модель пользователя из UserService
type User struct {
	ID          int64  `json:"id"`
	Role        string `json:"role"` // Роль пользователя (patient, therapist, admin)
	DisplayName string `json:"display_name"`
	IsActive    bool   `json:"is_active"`
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
