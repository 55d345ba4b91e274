package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codetrek/internal/platform/logger"
)

const maxErrorBodyBytes = 1024

type QdrantConfig struct {
	URL        string
	Collection string
	// TextField is the payload key holding the passage text.
	TextField string
	Timeout   time.Duration
}

type qdrantStore struct {
	log      *logger.Logger
	cfg      QdrantConfig
	baseURL  string
	embedder Embedder
	http     *http.Client
}

type qdrantEnvelope struct {
	Result json.RawMessage `json:"result"`
	Status json.RawMessage `json:"status"`
}

type qdrantSearchResultItem struct {
	ID      json.RawMessage `json:"id"`
	Score   float64         `json:"score"`
	Payload map[string]any  `json:"payload"`
}

func NewQdrantStore(log *logger.Logger, cfg QdrantConfig, embedder Embedder) (Store, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("qdrant url required")
	}
	if strings.TrimSpace(cfg.Collection) == "" {
		return nil, fmt.Errorf("qdrant collection required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if cfg.TextField == "" {
		cfg.TextField = "document"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &qdrantStore{
		log:      log.With("service", "QdrantStore", "collection", cfg.Collection),
		cfg:      cfg,
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		embedder: embedder,
		http:     &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (s *qdrantStore) Nearest(ctx context.Context, text string, k int) ([]Passage, error) {
	const op = "search"
	if strings.TrimSpace(text) == "" {
		return nil, opErr(op, OperationErrorValidation, "query text is empty", nil)
	}
	if k <= 0 {
		k = 1
	}

	// Timeout covers the embedding call as well as the search.
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, opErr(op, OperationErrorTimeout, "embed query timed out", err)
		}
		return nil, opErr(op, OperationErrorEmbedFailed, "embed query failed", err)
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	var items []qdrantSearchResultItem
	path := "/collections/" + url.PathEscape(s.cfg.Collection) + "/points/search"
	if err := s.doJSON(ctx, op, http.MethodPost, path, req, &items); err != nil {
		return nil, err
	}

	out := make([]Passage, 0, len(items))
	for _, it := range items {
		passage, ok := it.Payload[s.cfg.TextField].(string)
		if !ok || passage == "" {
			s.log.Debug("Search hit without text payload", "id", string(it.ID))
			continue
		}
		out = append(out, Passage{Text: passage, Score: it.Score})
	}
	return out, nil
}

func (s *qdrantStore) doJSON(ctx context.Context, op, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return opErr(op, OperationErrorEncodeFailed, "encode request failed", err)
		}
		body = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return opErr(op, OperationErrorTransportFailed, "build request failed", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return classifyHTTPCallError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return opErr(op, OperationErrorDecodeFailed, "read response failed", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &OperationError{
			Code:       OperationErrorQueryFailed,
			Operation:  op,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("qdrant http status=%d body=%q", resp.StatusCode, truncateBody(raw)),
		}
	}

	var envelope qdrantEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return opErr(op, OperationErrorDecodeFailed, "decode qdrant envelope failed", err)
	}
	if msg := parseEnvelopeStatus(envelope.Status); msg != "" {
		return &OperationError{Code: OperationErrorQueryFailed, Operation: op, StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil || len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return opErr(op, OperationErrorDecodeFailed, "decode qdrant result failed", err)
	}
	return nil
}

func classifyHTTPCallError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return opErr(op, OperationErrorTimeout, "qdrant request timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return opErr(op, OperationErrorTimeout, "qdrant request timed out", err)
	}
	return opErr(op, OperationErrorTransportFailed, "qdrant request failed", err)
}

// parseEnvelopeStatus returns a non-empty message when Qdrant reported an error.
// Status is either the string "ok" or an object like {"error": "..."}.
func parseEnvelopeStatus(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" || strings.EqualFold(s, "ok") {
			return ""
		}
		return s
	}
	var obj struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Error != "" {
		return obj.Error
	}
	return ""
}

func truncateBody(raw []byte) string {
	if len(raw) > maxErrorBodyBytes {
		return string(raw[:maxErrorBodyBytes]) + "..."
	}
	return string(raw)
}
