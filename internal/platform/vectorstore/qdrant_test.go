package vectorstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f fakeEmbedder) Embed(context.Context, string) ([]float32, error) { return f.vec, f.err }

func newTestStore(t *testing.T, handler http.HandlerFunc, emb Embedder) Store {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s, err := NewQdrantStore(nil, QdrantConfig{URL: server.URL + "/", Collection: "cp_concepts"}, emb)
	require.NoError(t, err)
	return s
}

func TestQdrantNearest(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":[
			{"id":1,"score":0.91,"payload":{"document":"Binary search halves the range."}},
			{"id":2,"score":0.50,"payload":{"title":"no text"}}
		],"status":"ok","time":0.001}`))
	}, fakeEmbedder{vec: []float32{0.1, 0.2}})

	got, err := s.Nearest(context.Background(), "how does binary search work", 2)

	require.NoError(t, err)
	assert.Equal(t, "/collections/cp_concepts/points/search", gotPath)
	assert.EqualValues(t, 2, gotBody["limit"])
	assert.Equal(t, true, gotBody["with_payload"])
	require.Len(t, got, 1)
	assert.Equal(t, "Binary search halves the range.", got[0].Text)
	assert.InDelta(t, 0.91, got[0].Score, 1e-9)
}

func TestQdrantNearestHTTPError(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":{"error":"Collection not found"}}`))
	}, fakeEmbedder{vec: []float32{1}})

	_, err := s.Nearest(context.Background(), "query", 1)

	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, OperationErrorQueryFailed, opErr.Code)
	assert.Equal(t, http.StatusNotFound, opErr.StatusCode)
}

func TestQdrantNearestEmbedFailure(t *testing.T) {
	called := false
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) { called = true }, fakeEmbedder{err: errors.New("no model")})

	_, err := s.Nearest(context.Background(), "query", 1)

	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, OperationErrorEmbedFailed, opErr.Code)
	assert.False(t, called)
}

func TestParseEnvelopeStatus(t *testing.T) {
	assert.Equal(t, "", parseEnvelopeStatus(json.RawMessage(`"ok"`)))
	assert.Equal(t, "boom", parseEnvelopeStatus(json.RawMessage(`{"error":"boom"}`)))
	assert.Equal(t, "", parseEnvelopeStatus(nil))
}

func TestNewQdrantStoreValidatesConfig(t *testing.T) {
	_, err := NewQdrantStore(nil, QdrantConfig{Collection: "c"}, fakeEmbedder{})
	assert.Error(t, err)
	_, err = NewQdrantStore(nil, QdrantConfig{URL: "http://x"}, fakeEmbedder{})
	assert.Error(t, err)
	_, err = NewQdrantStore(nil, QdrantConfig{URL: "http://x", Collection: "c"}, nil)
	assert.Error(t, err)
}

func TestQdrantNearestTimeoutCoversEmbedding(t *testing.T) {
	embedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	t.Cleanup(embedServer.Close)
	searched := false
	qdrantServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { searched = true }))
	t.Cleanup(qdrantServer.Close)

	s, err := NewQdrantStore(nil, QdrantConfig{
		URL:        qdrantServer.URL,
		Collection: "cp_concepts",
		Timeout:    100 * time.Millisecond,
	}, NewOpenAIEmbedder(embedServer.URL, "", "nomic-embed-text"))
	require.NoError(t, err)

	start := time.Now()
	_, err = s.Nearest(context.Background(), "what is a heap", 1)

	assert.Less(t, time.Since(start), time.Second)
	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, OperationErrorTimeout, opErr.Code)
	assert.False(t, searched)
}
