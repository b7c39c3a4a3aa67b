package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PINResetToken represents a stored single-use reset token.
type PINResetToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// PINResetRepository manages PIN reset token persistence.
type PINResetRepository interface {
	Create(ctx context.Context, token *PINResetToken) error
	GetByToken(ctx context.Context, token string) (*PINResetToken, error)
	MarkUsed(ctx context.Context, id string) error
}

type pinResetRepository struct {
	pool *pgxpool.Pool
}

// NewPINResetRepository constructs the repository.
func NewPINResetRepository(pool *pgxpool.Pool) PINResetRepository {
	return &pinResetRepository{pool: pool}
}

func (r *pinResetRepository) Create(ctx context.Context, token *PINResetToken) error {
	const query = `
        INSERT INTO pin_reset_tokens (user_id, token, expires_at)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		token.UserID,
		token.Token,
		token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)
}

func (r *pinResetRepository) GetByToken(ctx context.Context, tokenStr string) (*PINResetToken, error) {
	const query = `
        SELECT id, user_id, token, expires_at, used_at, created_at
        FROM pin_reset_tokens WHERE token=$1`
	var token PINResetToken
	if err := r.pool.QueryRow(ctx, query, tokenStr).Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.ExpiresAt,
		&token.UsedAt,
		&token.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *pinResetRepository) MarkUsed(ctx context.Context, id string) error {
	const query = `
        UPDATE pin_reset_tokens SET used_at=NOW()
        WHERE id=$1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
