package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"sync"

	"codetrek/internal/platform/logger"
)

// MatchThreshold is the score a topic must exceed to count as a match.
const MatchThreshold = 60

// Row is one practice problem from the tabular dataset.
type Row struct {
	Title         string
	Description   string
	Difficulty    string
	RelatedTopics string
}

// Dataset is read-only after construction and safe for concurrent use.
type Dataset struct {
	rows   []Row
	topics []string

	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Dataset)

// WithRand fixes the sampling source, mainly for tests.
func WithRand(r *rand.Rand) Option {
	return func(d *Dataset) { d.rng = r }
}

func New(rows []Row, opts ...Option) *Dataset {
	d := &Dataset{rows: rows}
	seen := make(map[string]bool)
	for _, r := range rows {
		if r.RelatedTopics == "" || seen[r.RelatedTopics] {
			continue
		}
		seen[r.RelatedTopics] = true
		d.topics = append(d.topics, r.RelatedTopics)
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.rng == nil {
		d.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return d
}

// Load reads the CSV at path. A missing or malformed file yields an empty
// dataset, so topic lookups simply find nothing.
func Load(path string, log *logger.Logger, opts ...Option) *Dataset {
	if log == nil {
		log = logger.Nop()
	}
	f, err := os.Open(path)
	if err != nil {
		log.Warn("Error loading dataset, continuing with an empty one", "path", path, "error", err)
		return New(nil, opts...)
	}
	defer f.Close()

	rows, err := Parse(f)
	if err != nil {
		log.Warn("Error parsing dataset, continuing with an empty one", "path", path, "error", err)
		return New(nil, opts...)
	}
	log.Info("Dataset loaded", "path", path, "rows", len(rows))
	return New(rows, opts...)
}

// Parse reads a CSV with a header row naming at least title, description,
// difficulty and related_topics. Extra columns are ignored.
func Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range []string{"title", "description", "difficulty", "related_topics"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	field := func(rec []string, col string) string {
		i := idx[col]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		rows = append(rows, Row{
			Title:         field(rec, "title"),
			Description:   field(rec, "description"),
			Difficulty:    field(rec, "difficulty"),
			RelatedTopics: field(rec, "related_topics"),
		})
	}
	return rows, nil
}

func (d *Dataset) Len() int { return len(d.rows) }

// Topics lists the distinct non-empty related_topics values in file order.
func (d *Dataset) Topics() []string {
	return append([]string(nil), d.topics...)
}

// BestTopic returns the related_topics value closest to query when its
// score exceeds MatchThreshold.
func (d *Dataset) BestTopic(query string) (string, bool) {
	if len(d.topics) == 0 {
		return "", false
	}
	best, score, ok := ExtractOne(strings.ToLower(query), d.topics)
	if !ok || score <= MatchThreshold {
		return "", false
	}
	return best, true
}

// SampleRow picks a random row whose related_topics equals topic and whose
// difficulty matches case-insensitively.
func (d *Dataset) SampleRow(topic, difficulty string) (Row, bool) {
	var candidates []int
	for i, r := range d.rows {
		if r.RelatedTopics == topic && strings.EqualFold(r.Difficulty, difficulty) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return Row{}, false
	}
	d.mu.Lock()
	pick := candidates[d.rng.IntN(len(candidates))]
	d.mu.Unlock()
	return d.rows[pick], true
}
