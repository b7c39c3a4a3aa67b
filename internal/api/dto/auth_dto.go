package dto

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
	PIN    string `json:"pin"`
}

// LoginRequest payload for PIN login.
type LoginRequest struct {
	Email string `json:"email"`
	PIN   string `json:"pin"`
}

// LoginResponse mirrors the login contract: a success flag plus the session
// token on the happy path, a generic message otherwise.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

// MintTokenRequest payload for the service token endpoint.
type MintTokenRequest struct {
	Email string `json:"email"`
}

// MintTokenResponse carries the minted token.
type MintTokenResponse struct {
	Token string `json:"token"`
}

// PINResetRequest payload to start a reset.
type PINResetRequest struct {
	Email string `json:"email"`
}

// PINResetConfirm payload to redeem a reset token.
type PINResetConfirm struct {
	Token  string `json:"token"`
	NewPIN string `json:"new_pin"`
}
