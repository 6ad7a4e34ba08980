package dto

// SignupRequest is the JSON body for POST /auth/signup.
type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the signed token returned by signup and login.
type TokenResponse struct {
	Token string `json:"token"`
}
