package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"codetrek/internal/common"
	"codetrek/internal/domain/model"
	"codetrek/internal/domain/repository/memory"
	"codetrek/internal/platform/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProblem(t *testing.T, store *memory.Store) *model.Problem {
	t.Helper()
	p, err := NewProblemService(store.Problems(), testDataset(), nil).
		GetByTopic(context.Background(), "dynamic programming", "Easy")
	require.NoError(t, err)
	return p
}

func TestEvaluateRecordsFeedback(t *testing.T) {
	store := memory.NewStore()
	user := registerUser(t, newAuth(t, store), "leo").User
	problem := seedProblem(t, store)
	client, mock := newClient(llm.MockResponse{Text: "Consider n = 0."})
	svc := NewEvaluationService(store.Problems(), store.Submissions(), client, nil)

	resp, err := svc.Evaluate(context.Background(), user.ID, EvaluateRequest{
		ProblemID: problem.ID, Code: "def f(n): return n",
	})

	require.NoError(t, err)
	assert.Equal(t, "Consider n = 0.", resp.Feedback)
	assert.Equal(t, resp.Feedback, resp.Submission.Feedback)
	assert.False(t, resp.Submission.IsCorrect)
	assert.Equal(t, model.EvaluationEvaluated, resp.Submission.EvaluationStatus)
	assert.Equal(t, model.DefaultLanguage, resp.Submission.Language)
	assert.Equal(t, problem.ID, resp.Submission.ProblemID)

	prompt := mock.Calls()[0]
	assert.Contains(t, prompt, "**Problem:** Climbing Stairs")
	assert.Contains(t, prompt, "def f(n): return n")
	assert.Equal(t, 1, store.Counts().Submissions)
}

func TestEvaluateModelFailureStillRecords(t *testing.T) {
	store := memory.NewStore()
	user := registerUser(t, newAuth(t, store), "mia").User
	problem := seedProblem(t, store)
	client, _ := newClient(llm.MockResponse{Err: errors.New("connection refused")})
	svc := NewEvaluationService(store.Problems(), store.Submissions(), client, nil)

	resp, err := svc.Evaluate(context.Background(), user.ID, EvaluateRequest{
		ProblemID: problem.ID, Code: "x", Language: " go ",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Feedback)
	assert.Contains(t, resp.Feedback, "Error connecting to Mock API")
	assert.False(t, resp.Submission.IsCorrect)
	assert.Equal(t, model.EvaluationFailed, resp.Submission.EvaluationStatus)
	assert.Equal(t, "go", resp.Submission.Language)
}

func TestEvaluateInputErrors(t *testing.T) {
	store := memory.NewStore()
	client, mock := newClient(llm.MockResponse{Text: "unused"})
	svc := NewEvaluationService(store.Problems(), store.Submissions(), client, nil)
	ctx := context.Background()

	_, err := svc.Evaluate(ctx, "u1", EvaluateRequest{Code: "x"})
	assert.ErrorIs(t, err, common.ErrBadRequest)

	_, err = svc.Evaluate(ctx, "u1", EvaluateRequest{ProblemID: "p1"})
	assert.ErrorIs(t, err, common.ErrBadRequest)
	assert.Equal(t, "Problem ID and code are required", err.Error())

	_, err = svc.Evaluate(ctx, "u1", EvaluateRequest{ProblemID: "missing", Code: "x"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.Zero(t, store.Counts().Submissions)
	assert.Empty(t, mock.Calls())
}

func TestEvaluateRejectsLongLanguage(t *testing.T) {
	store := memory.NewStore()
	problem := seedProblem(t, store)
	client, mock := newClient(llm.MockResponse{Text: "unused"})
	svc := NewEvaluationService(store.Problems(), store.Submissions(), client, nil)

	_, err := svc.Evaluate(context.Background(), "u1", EvaluateRequest{
		ProblemID: problem.ID, Code: "x", Language: strings.Repeat("l", model.MaxLanguageLength+1),
	})

	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "language")
	assert.Empty(t, mock.Calls())
	assert.Zero(t, store.Counts().Submissions)
}

func TestEvaluateAcceptsWhitespaceCode(t *testing.T) {
	store := memory.NewStore()
	user := registerUser(t, newAuth(t, store), "nora").User
	problem := seedProblem(t, store)
	client, mock := newClient(llm.MockResponse{Text: "There is no code yet."})
	svc := NewEvaluationService(store.Problems(), store.Submissions(), client, nil)

	resp, err := svc.Evaluate(context.Background(), user.ID, EvaluateRequest{ProblemID: problem.ID, Code: "   "})

	require.NoError(t, err)
	assert.Equal(t, "   ", resp.Submission.Code)
	assert.Len(t, mock.Calls(), 1)
	assert.Equal(t, 1, store.Counts().Submissions)
}

func TestListSubmissionsNewestFirst(t *testing.T) {
	store := memory.NewStore()
	user := registerUser(t, newAuth(t, store), "nina").User
	problem := seedProblem(t, store)
	client, _ := newClient(llm.MockResponse{Text: "fine"})
	svc := NewEvaluationService(store.Problems(), store.Submissions(), client, nil)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Minute) }

	for _, code := range []string{"first", "second"} {
		_, err := svc.Evaluate(context.Background(), user.ID, EvaluateRequest{ProblemID: problem.ID, Code: code})
		require.NoError(t, err)
	}

	subs, err := svc.ListSubmissions(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "second", subs[0].Code)
	assert.Equal(t, "first", subs[1].Code)
	assert.Equal(t, "Climbing Stairs", subs[0].ProblemTitle)
}
