package dto

// SignupRequest registers a user or re-delivers an existing
// confirmation code.
type SignupRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=254"`
}

// SignupResponse echoes the registered pair. The confirmation code only
// ever travels by mail.
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest exchanges a confirmation code for a bearer token.
type TokenRequest struct {
	Username         string `json:"username" binding:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" binding:"required,max=50"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
