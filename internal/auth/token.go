package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/paykash-service/internal/domain"
)

// Verification failure modes. Callers distinguish them with errors.Is.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenInvalid          = errors.New("token invalid")
)

// TokenManager issues and verifies JWT tokens. A single instance owns the
// process-wide signing secret; the secret is never rotated while running,
// since no revocation list exists to reconcile outstanding tokens.
type TokenManager struct {
	secret     []byte
	sessionTTL time.Duration
	serviceTTL time.Duration
}

// NewTokenManager builds a manager with one secret and two TTL policies:
// short-lived session tokens for interactive logins, long-lived service
// tokens for the mint endpoint.
func NewTokenManager(secret string, sessionTTL, serviceTTL time.Duration) *TokenManager {
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	if serviceTTL <= 0 {
		serviceTTL = 365 * 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), sessionTTL: sessionTTL, serviceTTL: serviceTTL}
}

// Claims describes the JWT payload. The role is a snapshot taken at issuance;
// role-gated routes must re-query the directory instead of trusting it.
type Claims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IssueSessionToken signs a short-lived token for a logged-in user.
func (tm *TokenManager) IssueSessionToken(user *domain.User) (string, time.Time, error) {
	return tm.issue(&Claims{Email: user.Email, Role: user.Role}, user.ID, tm.sessionTTL)
}

// IssueServiceToken signs a long-lived token carrying only an email claim.
func (tm *TokenManager) IssueServiceToken(email string) (string, time.Time, error) {
	return tm.issue(&Claims{Email: email}, email, tm.serviceTTL)
}

func (tm *TokenManager) issue(claims *Claims, subject string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks signature and expiry and returns the embedded claims.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenSignatureInvalid
		}
		return tm.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		default:
			return nil, ErrTokenInvalid
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
