package domain

import "time"

// Role enumerates privilege levels for accounts.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive  UserStatus = "ACTIVE"
	UserStatusBlocked UserStatus = "BLOCKED"
)

// User is the domain model for account holders.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Mobile    string     `json:"mobile,omitempty"`
	PINHash   string     `json:"-"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	Balance   int64      `json:"balance"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
