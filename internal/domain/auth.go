package domain

import "time"

// TokenKind differentiates interactive session tokens from long-lived
// service-to-service tokens.
type TokenKind string

const (
	TokenKindSession TokenKind = "SESSION"
	TokenKindService TokenKind = "SERVICE"
)

// Token records metadata about an issued JWT. The server keeps no copy of
// issued tokens; this is the value returned to callers at mint time.
type Token struct {
	Value     string    `json:"token"`
	Kind      TokenKind `json:"kind"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
