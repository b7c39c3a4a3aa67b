package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered     EventType = "user_registered"
	EventLoginSucceeded     EventType = "user_login_succeeded"
	EventLoginFailed        EventType = "user_login_failed"
	EventServiceTokenMinted EventType = "service_token_minted"
	EventPINResetRequested  EventType = "pin_reset_requested"
	EventPINResetConfirmed  EventType = "pin_reset_confirmed"
)

// Event represents an auth-domain event emitted by services. Email rather
// than user id identifies the subject because login failures may involve
// emails with no account.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Email     string      `json:"email"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// LoginFailedPayload payload.
type LoginFailedPayload struct {
	Reason   string `json:"reason"`
	ClientIP string `json:"client_ip,omitempty"`
}

// ServiceTokenMintedPayload payload.
type ServiceTokenMintedPayload struct {
	ExpiresAt time.Time `json:"expires_at"`
}
