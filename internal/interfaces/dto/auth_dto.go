package dto

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName"`
	Email    string `json:"email" binding:"required"`
}

// LoginResponse carries both halves of the client session so the
// caller can store {user, token} atomically.
type LoginResponse struct {
	Token   string  `json:"token"`
	User    UserDto `json:"user"`
	Message string  `json:"message"`
}

type ValidateResponse struct {
	Valid bool    `json:"valid"`
	User  UserDto `json:"user"`
}
