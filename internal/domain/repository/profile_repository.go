package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"codetrek/internal/common"
	"codetrek/internal/domain/model"
)

type ProfileRepository interface {
	Create(ctx context.Context, tx *sql.Tx, profile *model.UserProfile) error
	FindByUserID(ctx context.Context, userID string) (*model.UserProfile, error)
	Update(ctx context.Context, profile *model.UserProfile) error
}

type pgProfileRepository struct {
	db *sql.DB
}

func NewPgProfileRepository(db *sql.DB) ProfileRepository {
	return &pgProfileRepository{db: db}
}

func (r *pgProfileRepository) Create(ctx context.Context, tx *sql.Tx, p *model.UserProfile) error {
	query := `INSERT INTO user_profiles (id, user_id, bio, preferred_language, preferred_topics)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := conn(r.db, tx).ExecContext(ctx, query, p.ID, p.UserID, p.Bio, p.PreferredLanguage, p.PreferredTopics)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("profile already exists for user: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProfileRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProfileRepository) FindByUserID(ctx context.Context, userID string) (*model.UserProfile, error) {
	query := `
        SELECT p.id, p.user_id, u.username, u.email, p.bio, p.preferred_language, p.preferred_topics
        FROM user_profiles p
        JOIN users u ON u.id = p.user_id
        WHERE p.user_id = $1`
	p := &model.UserProfile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Username, &p.Email, &p.Bio, &p.PreferredLanguage, &p.PreferredTopics,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProfileRepository.FindByUserID: %w", err)
	}
	return p, nil
}

func (r *pgProfileRepository) Update(ctx context.Context, p *model.UserProfile) error {
	query := `UPDATE user_profiles SET bio = $1, preferred_language = $2, preferred_topics = $3
	          WHERE user_id = $4`
	res, err := r.db.ExecContext(ctx, query, p.Bio, p.PreferredLanguage, p.PreferredTopics, p.UserID)
	if err != nil {
		return fmt.Errorf("pgProfileRepository.Update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
