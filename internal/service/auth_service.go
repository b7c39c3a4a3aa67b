package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/paykash-service/internal/auth"
	"github.com/spec-kit/paykash-service/internal/config"
	"github.com/spec-kit/paykash-service/internal/domain"
	"github.com/spec-kit/paykash-service/internal/events"
	"github.com/spec-kit/paykash-service/internal/repository"
)

// Login and registration failures reported to handlers. ErrInvalidCredentials
// covers both unknown email and wrong PIN so responses cannot be used to
// enumerate accounts.
var (
	ErrInvalidCredentials = errors.New("invalid email or PIN")
	ErrEmailTaken         = errors.New("email already registered")
	ErrResetTokenInvalid  = errors.New("reset token expired or used")
)

// AuthService coordinates registration, login, token minting, and PIN resets.
type AuthService struct {
	users      repository.UserRepository
	resets     repository.PINResetRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	PINReset   repository.PINResetRepository
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		resets:     deps.PINReset,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTokenTTL(), cfg.Auth.ServiceTokenTTL()),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   cfg.Auth.PINResetTTL(),
	}
}

// Register creates a new account. The PIN is hashed here, unconditionally;
// no caller path stores a plaintext PIN. Duplicate emails are rejected.
func (s *AuthService) Register(ctx context.Context, name, email, mobile, pin string) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPIN(pin, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:    name,
		Email:   email,
		Mobile:  mobile,
		PINHash: hash,
		Role:    domain.RoleUser,
		Status:  domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The pre-check races against concurrent registrations; the unique
		// index on email is the backstop.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, email, events.UserRegisteredPayload{UserID: user.ID, Name: user.Name})
	return user, nil
}

// Login authenticates by email and PIN and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, pin string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			s.publish(ctx, events.EventLoginFailed, email, events.LoginFailedPayload{Reason: "unknown email"})
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}

	match, err := auth.CheckPIN(user.PINHash, pin)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !match {
		s.publish(ctx, events.EventLoginFailed, email, events.LoginFailedPayload{Reason: "wrong pin"})
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.tokenMgr.IssueSessionToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventLoginSucceeded, email, nil)
	return user, token, exp, nil
}

// MintServiceToken issues a long-lived token for the given email claim.
func (s *AuthService) MintServiceToken(ctx context.Context, email string) (*domain.Token, error) {
	value, exp, err := s.tokenMgr.IssueServiceToken(email)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventServiceTokenMinted, email, events.ServiceTokenMintedPayload{ExpiresAt: exp})
	return &domain.Token{
		Value:     value,
		Kind:      domain.TokenKindService,
		Email:     email,
		IssuedAt:  time.Now(),
		ExpiresAt: exp,
	}, nil
}

// RequestPINReset persists a single-use reset token for the account. An
// unknown email yields no token and no error so the endpoint responds
// identically either way, matching the login path's enumeration defense.
func (s *AuthService) RequestPINReset(ctx context.Context, email string) (*repository.PINResetToken, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	token := &repository.PINResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventPINResetRequested, email, nil)
	return token, nil
}

// ConfirmPINReset redeems a reset token and stores the new PIN hash.
func (s *AuthService) ConfirmPINReset(ctx context.Context, tokenStr, newPIN string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrResetTokenInvalid
		}
		return err
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return ErrResetTokenInvalid
	}

	hash, err := auth.HashPIN(newPIN, s.bcryptCost)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return err
	}
	user.PINHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if err := s.resets.MarkUsed(ctx, token.ID); err != nil {
		return err
	}
	s.publish(ctx, events.EventPINResetConfirmed, user.Email, nil)
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, email string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Email:     email,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
