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
	"codetrek/internal/platform/dataset"
	"codetrek/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// MaxTopicQueryLength bounds the fuzzy match input, whose scoring cost grows with its length.
const MaxTopicQueryLength = 200

// TopicSource is the tabular problem dataset.
type TopicSource interface {
	BestTopic(query string) (string, bool)
	SampleRow(topic, difficulty string) (dataset.Row, bool)
}

type ProblemService struct {
	problems repository.ProblemRepository
	topics   TopicSource
	log      *logger.Logger
	now      func() time.Time
}

func NewProblemService(problems repository.ProblemRepository, topics TopicSource, log *logger.Logger) *ProblemService {
	if log == nil {
		log = logger.Nop()
	}
	return &ProblemService{
		problems: problems,
		topics:   topics,
		log:      log.With("service", "ProblemService"),
		now:      time.Now,
	}
}

func (s *ProblemService) List(ctx context.Context, topic, difficulty string) ([]model.Problem, error) {
	problems, err := s.problems.List(ctx, model.ProblemFilter{
		Topic:      strings.TrimSpace(topic),
		Difficulty: strings.TrimSpace(difficulty),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}
	return problems, nil
}

func (s *ProblemService) Get(ctx context.Context, id string) (*model.Problem, error) {
	p, err := s.problems.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "Problem not found")
		}
		return nil, fmt.Errorf("problem %s: %w", id, err)
	}
	return p, nil
}

// GetByTopic resolves topic against the dataset, samples a problem of the
// requested difficulty (Easy when blank) and stores it unless a problem with
// that title already exists. A difficulty no row carries is reported as not found.
func (s *ProblemService) GetByTopic(ctx context.Context, topic, difficulty string) (*model.Problem, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, common.NewError(common.ErrBadRequest, "Topic is required")
	}
	if utf8.RuneCountInString(topic) > MaxTopicQueryLength {
		return nil, common.NewValidationError("topic",
			fmt.Sprintf("Ensure this field has no more than %d characters.", MaxTopicQueryLength))
	}
	difficulty = strings.TrimSpace(difficulty)
	if difficulty == "" {
		difficulty = string(model.DifficultyEasy)
	}

	notFound := common.NewError(common.ErrNotFound, "No matching questions found")
	matched, ok := s.topics.BestTopic(topic)
	if !ok {
		return nil, notFound
	}
	row, ok := s.topics.SampleRow(matched, difficulty)
	if !ok {
		return nil, notFound
	}

	rowDiff, ok := model.ParseDifficulty(row.Difficulty)
	if !ok {
		rowDiff = model.ProblemDifficulty(row.Difficulty)
	}
	candidate := &model.Problem{
		ID:            uuid.NewString(),
		Title:         row.Title,
		Slug:          slug.Make(row.Title),
		Description:   row.Description,
		Difficulty:    rowDiff,
		RelatedTopics: row.RelatedTopics,
		CreatedAt:     s.now().UTC(),
	}
	stored, created, err := s.problems.GetOrCreateByTitle(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to store problem: %w", err)
	}
	if created {
		s.log.Info("Problem imported from dataset", "title", stored.Title, "topic", matched)
	}
	return stored, nil
}
