package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"codetrek/internal/common"
	"codetrek/internal/domain/model"
	"codetrek/internal/domain/repository/memory"
	"codetrek/internal/platform/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByTopicImportsOnce(t *testing.T) {
	store := memory.NewStore()
	svc := NewProblemService(store.Problems(), testDataset(), nil)

	first, err := svc.GetByTopic(context.Background(), "dynamic programming", "")
	require.NoError(t, err)
	assert.Equal(t, "Climbing Stairs", first.Title)
	assert.Equal(t, "climbing-stairs", first.Slug)
	assert.Equal(t, model.DifficultyEasy, first.Difficulty)

	second, err := svc.GetByTopic(context.Background(), "Dynamic Programming", "easy")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.Counts().Problems)
}

func TestGetByTopicErrors(t *testing.T) {
	store := memory.NewStore()
	svc := NewProblemService(store.Problems(), testDataset(), nil)
	ctx := context.Background()

	_, err := svc.GetByTopic(ctx, "  ", "Easy")
	assert.ErrorIs(t, err, common.ErrBadRequest)

	// unknown difficulties simply match no rows
	_, err = svc.GetByTopic(ctx, "array", "Expert")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.GetByTopic(ctx, "xyzzy", "Easy")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// topic matches but no Hard rows exist
	_, err = svc.GetByTopic(ctx, "dynamic programming", "Hard")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "No matching questions found", err.Error())

	assert.Zero(t, store.Counts().Problems)
}

type countingTopics struct {
	*dataset.Dataset
	lookups int
}

func (c *countingTopics) BestTopic(query string) (string, bool) {
	c.lookups++
	return c.Dataset.BestTopic(query)
}

func TestGetByTopicRejectsOversizedTopic(t *testing.T) {
	store := memory.NewStore()
	topics := &countingTopics{Dataset: testDataset()}
	svc := NewProblemService(store.Problems(), topics, nil)

	start := time.Now()
	_, err := svc.GetByTopic(context.Background(), strings.Repeat("dynamic programming ", 200), "Easy")

	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "topic")
	assert.Zero(t, topics.lookups)
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	// the limit itself is still accepted
	_, err = svc.GetByTopic(context.Background(), strings.Repeat("a", MaxTopicQueryLength), "Easy")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, 1, topics.lookups)
}

func TestGetByTopicDifficultyCaseInsensitive(t *testing.T) {
	store := memory.NewStore()
	svc := NewProblemService(store.Problems(), testDataset(), nil)

	p, err := svc.GetByTopic(context.Background(), "array two pointers", "mEdIuM")

	require.NoError(t, err)
	assert.Equal(t, "3Sum", p.Title)
	assert.Equal(t, model.DifficultyMedium, p.Difficulty)
}

func TestListAndGet(t *testing.T) {
	store := memory.NewStore()
	svc := NewProblemService(store.Problems(), testDataset(), nil)
	ctx := context.Background()

	p, err := svc.GetByTopic(ctx, "dynamic programming", "Easy")
	require.NoError(t, err)

	all, err := svc.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	filtered, err := svc.List(ctx, "dynamic", "easy")
	require.NoError(t, err)
	assert.Len(t, filtered, 1)

	none, err := svc.List(ctx, "graph", "")
	require.NoError(t, err)
	assert.Empty(t, none)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Title, got.Title)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
