package repository

import (
	"context"
	"database/sql"
	"fmt"

	"codetrek/internal/domain/model"
)

type FileRepository interface {
	Create(ctx context.Context, f *model.UploadedFile) error
}

type pgFileRepository struct {
	db *sql.DB
}

func NewPgFileRepository(db *sql.DB) FileRepository {
	return &pgFileRepository{db: db}
}

func (r *pgFileRepository) Create(ctx context.Context, f *model.UploadedFile) error {
	query := `INSERT INTO uploaded_files (id, user_id, file, file_name, file_type, uploaded_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, f.ID, f.UserID, f.File, f.FileName, f.FileType, f.UploadedAt); err != nil {
		return fmt.Errorf("pgFileRepository.Create: %w", err)
	}
	return nil
}
