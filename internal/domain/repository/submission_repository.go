package repository

import (
	"context"
	"database/sql"
	"fmt"

	"codetrek/internal/domain/model"
)

type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.CodeSubmission) error
	// ListByUser returns the user's submissions newest first.
	ListByUser(ctx context.Context, userID string) ([]model.CodeSubmission, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) Create(ctx context.Context, s *model.CodeSubmission) error {
	query := `INSERT INTO code_submissions
	          (id, user_id, problem_id, code, language, feedback, is_correct, evaluation_status, submitted_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.ProblemID, s.Code, s.Language, s.Feedback, s.IsCorrect, s.EvaluationStatus, s.SubmittedAt)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) ListByUser(ctx context.Context, userID string) ([]model.CodeSubmission, error) {
	query := `
        SELECT s.id, s.user_id, s.problem_id, p.title, s.code, s.language, s.feedback,
               s.is_correct, s.evaluation_status, s.submitted_at
        FROM code_submissions s
        JOIN problems p ON p.id = s.problem_id
        WHERE s.user_id = $1
        ORDER BY s.submitted_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	subs := []model.CodeSubmission{}
	for rows.Next() {
		var s model.CodeSubmission
		if err := rows.Scan(&s.ID, &s.UserID, &s.ProblemID, &s.ProblemTitle, &s.Code, &s.Language,
			&s.Feedback, &s.IsCorrect, &s.EvaluationStatus, &s.SubmittedAt); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListByUser scan: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByUser rows: %w", err)
	}
	return subs, nil
}
