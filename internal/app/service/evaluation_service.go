package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"codetrek/internal/common"
	"codetrek/internal/domain/model"
	"codetrek/internal/domain/repository"
	"codetrek/internal/platform/logger"

	"github.com/google/uuid"
)

type EvaluationService struct {
	problems    repository.ProblemRepository
	submissions repository.SubmissionRepository
	gen         Generator
	log         *logger.Logger
	now         func() time.Time
}

func NewEvaluationService(
	problems repository.ProblemRepository,
	submissions repository.SubmissionRepository,
	gen Generator,
	log *logger.Logger,
) *EvaluationService {
	if log == nil {
		log = logger.Nop()
	}
	return &EvaluationService{
		problems:    problems,
		submissions: submissions,
		gen:         gen,
		log:         log.With("service", "EvaluationService"),
		now:         time.Now,
	}
}

type EvaluateRequest struct {
	ProblemID string `json:"problem_id"`
	Code      string `json:"code"`
	Language  string `json:"language"`
}

type EvaluateResponse struct {
	Submission *model.CodeSubmission `json:"submission"`
	Feedback   string                `json:"feedback"`
}

// Evaluate asks the model for feedback on the code and records a submission.
// Correctness is not computed: IsCorrect is always false.
func (s *EvaluationService) Evaluate(ctx context.Context, userID string, req EvaluateRequest) (*EvaluateResponse, error) {
	if req.ProblemID == "" || req.Code == "" {
		return nil, common.NewError(common.ErrBadRequest, "Problem ID and code are required")
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Language)) > model.MaxLanguageLength {
		return nil, common.NewValidationError("language",
			fmt.Sprintf("Ensure this field has no more than %d characters.", model.MaxLanguageLength))
	}
	problem, err := s.problems.FindByID(ctx, strings.TrimSpace(req.ProblemID))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "Problem not found")
		}
		return nil, fmt.Errorf("failed to load problem: %w", err)
	}

	result := s.gen.Generate(ctx, EvaluationPrompt(problem.Title, problem.Description, req.Code))
	status := model.EvaluationEvaluated
	if !result.OK() {
		status = model.EvaluationFailed
	}

	sub := &model.CodeSubmission{
		ID:               uuid.NewString(),
		UserID:           userID,
		ProblemID:        problem.ID,
		ProblemTitle:     problem.Title,
		Code:             req.Code,
		Language:         model.NormalizeLanguage(req.Language),
		Feedback:         result.Content(),
		IsCorrect:        false,
		EvaluationStatus: status,
		SubmittedAt:      s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}
	s.log.Info("Code evaluated", "problem", problem.Title, "status", status)
	return &EvaluateResponse{Submission: sub, Feedback: sub.Feedback}, nil
}

func (s *EvaluationService) ListSubmissions(ctx context.Context, userID string) ([]model.CodeSubmission, error) {
	subs, err := s.submissions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}
