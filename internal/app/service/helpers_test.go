package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"codetrek/internal/common/security"
	"codetrek/internal/domain/repository/memory"
	"codetrek/internal/platform/dataset"
	"codetrek/internal/platform/llm"
	"codetrek/internal/platform/vectorstore"

	"github.com/stretchr/testify/require"
)

type fixedStore struct {
	passages []vectorstore.Passage
	err      error
	queries  []string
}

func (f *fixedStore) Nearest(_ context.Context, text string, _ int) ([]vectorstore.Passage, error) {
	f.queries = append(f.queries, text)
	return f.passages, f.err
}

var errStoreDown = errors.New("qdrant: connection refused")

func newAuth(t *testing.T, store *memory.Store) *AuthService {
	t.Helper()
	return NewAuthService(
		store.Users(), store.Profiles(), store.Tokens(), store.TxManager(),
		security.NewTokenManager([]byte("test-secret"), time.Hour), nil, nil,
	)
}

func registerUser(t *testing.T, auth *AuthService, username string) *AuthResponse {
	t.Helper()
	resp, err := auth.Register(context.Background(), RegisterRequest{
		Username: username, Email: username + "@example.com", Password: "s3cret!", Password2: "s3cret!",
	})
	require.NoError(t, err)
	return resp
}

func newClient(responses ...llm.MockResponse) (*llm.Client, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	return llm.NewClient(mock, time.Second, nil), mock
}

func testDataset() *dataset.Dataset {
	return dataset.New([]dataset.Row{
		{Title: "Two Sum", Description: "Find two numbers.", Difficulty: "Easy", RelatedTopics: "Array, Hash Table"},
		{Title: "3Sum", Description: "Find triplets.", Difficulty: "Medium", RelatedTopics: "Array, Two Pointers"},
		{Title: "Climbing Stairs", Description: "Count ways.", Difficulty: "Easy", RelatedTopics: "Dynamic Programming"},
	}, dataset.WithRand(rand.New(rand.NewPCG(1, 2))))
}
