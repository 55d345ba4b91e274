package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"codetrek/internal/common"
	"codetrek/internal/domain/model"

	"github.com/google/uuid"
)

type ProblemRepository interface {
	List(ctx context.Context, filter model.ProblemFilter) ([]model.Problem, error)
	FindByID(ctx context.Context, id string) (*model.Problem, error)
	FindByTitle(ctx context.Context, title string) (*model.Problem, error)
	// GetOrCreateByTitle inserts p unless a problem with the same title exists,
	// and returns the stored row. created reports whether p was inserted.
	GetOrCreateByTitle(ctx context.Context, p *model.Problem) (stored *model.Problem, created bool, err error)
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

const problemColumns = `id, title, slug, description, difficulty, related_topics, solution_hint, created_at`

func scanProblem(row interface{ Scan(...any) error }, p *model.Problem) error {
	return row.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.Difficulty, &p.RelatedTopics, &p.SolutionHint, &p.CreatedAt)
}

// buildProblemListQuery renders the List query with positional args; topic is
// a case-insensitive substring match with LIKE wildcards escaped.
func buildProblemListQuery(filter model.ProblemFilter) (string, []any) {
	var query strings.Builder
	query.WriteString(`SELECT ` + problemColumns + ` FROM problems`)

	var conditions []string
	var args []any
	argID := 1

	if filter.Topic != "" {
		conditions = append(conditions, fmt.Sprintf(`related_topics ILIKE $%d ESCAPE '\'`, argID))
		args = append(args, "%"+escapeLike(filter.Topic)+"%")
		argID++
	}
	if filter.Difficulty != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(difficulty) = LOWER($%d)", argID))
		args = append(args, filter.Difficulty)
		argID++
	}
	if len(conditions) > 0 {
		query.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	query.WriteString(" ORDER BY created_at, title")
	return query.String(), args
}

func (r *pgProblemRepository) List(ctx context.Context, filter model.ProblemFilter) ([]model.Problem, error) {
	query, args := buildProblemListQuery(filter)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.List: %w", err)
	}
	defer rows.Close()

	problems := []model.Problem{}
	for rows.Next() {
		var p model.Problem
		if err := scanProblem(rows, &p); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.List scan: %w", err)
		}
		problems = append(problems, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.List rows: %w", err)
	}
	return problems, nil
}

func (r *pgProblemRepository) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrNotFound
	}
	return r.findOne(ctx, "FindByID", `SELECT `+problemColumns+` FROM problems WHERE id = $1`, id)
}

func (r *pgProblemRepository) FindByTitle(ctx context.Context, title string) (*model.Problem, error) {
	return r.findOne(ctx, "FindByTitle", `SELECT `+problemColumns+` FROM problems WHERE title = $1`, title)
}

func (r *pgProblemRepository) GetOrCreateByTitle(ctx context.Context, p *model.Problem) (*model.Problem, bool, error) {
	query := `INSERT INTO problems (` + problemColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (title) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Slug, p.Description, p.Difficulty, p.RelatedTopics, p.SolutionHint, p.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("pgProblemRepository.GetOrCreateByTitle: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("pgProblemRepository.GetOrCreateByTitle: %w", err)
	}
	stored, err := r.FindByTitle(ctx, p.Title)
	if err != nil {
		return nil, false, err
	}
	return stored, n == 1, nil
}

func (r *pgProblemRepository) findOne(ctx context.Context, op, query string, arg any) (*model.Problem, error) {
	p := &model.Problem{}
	if err := scanProblem(r.db.QueryRowContext(ctx, query, arg), p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.%s: %w", op, err)
	}
	return p, nil
}
