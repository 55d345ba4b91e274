package vectorstore

import "context"

// Passage is a stored document returned by a similarity query.
type Passage struct {
	Text  string
	Score float64
}

// Store maps a query text to its most similar stored passages, best first.
type Store interface {
	Nearest(ctx context.Context, text string, k int) ([]Passage, error)
}

// Embedder turns text into the vector space the store was indexed with.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NopStore never finds anything; used when no similarity store is configured.
type NopStore struct{}

func (NopStore) Nearest(context.Context, string, int) ([]Passage, error) { return nil, nil }
