package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"codetrek/internal/common"
	"codetrek/internal/domain/model"

	"github.com/google/uuid"
)

type TokenRepository interface {
	// Save stores t as the user's only token, replacing any previous one.
	Save(ctx context.Context, tx *sql.Tx, t *model.AuthToken) error
	FindByUserID(ctx context.Context, userID string) (*model.AuthToken, error)
	FindByKey(ctx context.Context, key string) (*model.AuthToken, error)
	DeleteByKey(ctx context.Context, key string) error
}

type pgTokenRepository struct {
	db *sql.DB
}

func NewPgTokenRepository(db *sql.DB) TokenRepository {
	return &pgTokenRepository{db: db}
}

func (r *pgTokenRepository) Save(ctx context.Context, tx *sql.Tx, t *model.AuthToken) error {
	query := `INSERT INTO auth_tokens (key, user_id, token, expires_at, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (user_id) DO UPDATE
	          SET key = EXCLUDED.key, token = EXCLUDED.token,
	              expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at`
	_, err := conn(r.db, tx).ExecContext(ctx, query, t.Key, t.UserID, t.Token, t.ExpiresAt, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgTokenRepository.Save: %w", err)
	}
	return nil
}

func (r *pgTokenRepository) FindByUserID(ctx context.Context, userID string) (*model.AuthToken, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, common.ErrNotFound
	}
	return r.findOne(ctx, "FindByUserID", `SELECT key, user_id, token, expires_at, created_at FROM auth_tokens WHERE user_id = $1`, userID)
}

func (r *pgTokenRepository) FindByKey(ctx context.Context, key string) (*model.AuthToken, error) {
	if _, err := uuid.Parse(key); err != nil {
		return nil, common.ErrNotFound
	}
	return r.findOne(ctx, "FindByKey", `SELECT key, user_id, token, expires_at, created_at FROM auth_tokens WHERE key = $1`, key)
}

func (r *pgTokenRepository) DeleteByKey(ctx context.Context, key string) error {
	if _, err := uuid.Parse(key); err != nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE key = $1`, key); err != nil {
		return fmt.Errorf("pgTokenRepository.DeleteByKey: %w", err)
	}
	return nil
}

func (r *pgTokenRepository) findOne(ctx context.Context, op, query string, arg any) (*model.AuthToken, error) {
	t := &model.AuthToken{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&t.Key, &t.UserID, &t.Token, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTokenRepository.%s: %w", op, err)
	}
	return t, nil
}
