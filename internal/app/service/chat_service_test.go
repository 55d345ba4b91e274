package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"codetrek/internal/common"
	"codetrek/internal/domain/model"
	"codetrek/internal/domain/repository/memory"
	"codetrek/internal/platform/llm"
	"codetrek/internal/platform/vectorstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSendUsesRetrievedConcept(t *testing.T) {
	store := memory.NewStore()
	user := registerUser(t, newAuth(t, store), "ivan").User
	concepts := &fixedStore{passages: []vectorstore.Passage{{Text: "Binary search halves the range.", Score: 0.9}}}
	client, mock := newClient(llm.MockResponse{Text: "Think about the midpoint."})
	svc := NewChatService(store.Chats(), concepts, client, nil)

	resp, err := svc.Send(context.Background(), user.ID, ChatRequest{Message: "How does binary search work?"})

	require.NoError(t, err)
	assert.Equal(t, model.MessageTypeUser, resp.UserMessage.MessageType)
	assert.Equal(t, model.MessageTypeBot, resp.BotResponse.MessageType)
	assert.Equal(t, "Think about the midpoint.", resp.BotResponse.Content)
	assert.True(t, resp.BotResponse.Timestamp.After(resp.UserMessage.Timestamp))

	prompts := mock.Calls()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "**User Query:** How does binary search work?")
	assert.Contains(t, prompts[0], "**Retrieved Concept:** Binary search halves the range.")
	assert.Equal(t, []string{"How does binary search work?"}, concepts.queries)
}

func TestChatSendDegradesOnAdapterFailure(t *testing.T) {
	store := memory.NewStore()
	user := registerUser(t, newAuth(t, store), "judy").User
	client, mock := newClient(llm.MockResponse{Err: &llm.ErrStatus{Code: 500, Err: errors.New("boom")}})
	svc := NewChatService(store.Chats(), &fixedStore{err: errStoreDown}, client, nil)

	resp, err := svc.Send(context.Background(), user.ID, ChatRequest{Message: "hi"})

	require.NoError(t, err)
	assert.Equal(t, "Error: API returned status code 500", resp.BotResponse.Content)
	assert.Contains(t, mock.Calls()[0], noConceptFound)
	assert.Equal(t, 2, store.Counts().Chats)
}

func TestChatSendRejectsEmptyMessage(t *testing.T) {
	store := memory.NewStore()
	client, mock := newClient(llm.MockResponse{Text: "unused"})
	svc := NewChatService(store.Chats(), nil, client, nil)

	_, err := svc.Send(context.Background(), "u1", ChatRequest{Message: ""})

	assert.ErrorIs(t, err, common.ErrBadRequest)
	assert.Zero(t, store.Counts().Chats)
	assert.Empty(t, mock.Calls())
}

func TestChatSendAcceptsWhitespaceMessage(t *testing.T) {
	store := memory.NewStore()
	user := registerUser(t, newAuth(t, store), "kate").User
	client, mock := newClient(llm.MockResponse{Text: "What would you like to know?"})
	svc := NewChatService(store.Chats(), &fixedStore{}, client, nil)

	resp, err := svc.Send(context.Background(), user.ID, ChatRequest{Message: " \n\t"})

	require.NoError(t, err)
	assert.Equal(t, " \n\t", resp.UserMessage.Content)
	assert.Equal(t, "What would you like to know?", resp.BotResponse.Content)
	assert.Len(t, mock.Calls(), 1)
	assert.Equal(t, 2, store.Counts().Chats)
}

func TestChatBotTimestampStrictlyLater(t *testing.T) {
	store := memory.NewStore()
	client, _ := newClient(llm.MockResponse{Text: "ok"})
	svc := NewChatService(store.Chats(), nil, client, nil)
	frozen := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return frozen }

	resp, err := svc.Send(context.Background(), "u1", ChatRequest{Message: "hello"})

	require.NoError(t, err)
	assert.Equal(t, frozen, resp.UserMessage.Timestamp)
	assert.Equal(t, frozen.Add(time.Microsecond), resp.BotResponse.Timestamp)
}

func TestChatHistoryAscending(t *testing.T) {
	store := memory.NewStore()
	user := registerUser(t, newAuth(t, store), "ken").User
	client, _ := newClient(llm.MockResponse{Text: "a1"}, llm.MockResponse{Text: "a2"})
	svc := NewChatService(store.Chats(), nil, client, nil)
	ctx := context.Background()

	_, err := svc.Send(ctx, user.ID, ChatRequest{Message: "q1"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, user.ID, ChatRequest{Message: "q2"})
	require.NoError(t, err)

	history, err := svc.History(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	var contents []string
	for i, m := range history {
		contents = append(contents, m.Content)
		assert.Equal(t, "ken", m.Username)
		if i > 0 {
			assert.False(t, m.Timestamp.Before(history[i-1].Timestamp))
		}
	}
	assert.Equal(t, []string{"q1", "a1", "q2", "a2"}, contents)

	other, err := svc.History(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, other)
}
