package model

import (
	"strings"
	"time"
)

type ProblemDifficulty string

const (
	DifficultyEasy   ProblemDifficulty = "Easy"
	DifficultyMedium ProblemDifficulty = "Medium"
	DifficultyHard   ProblemDifficulty = "Hard"
)

// ParseDifficulty accepts any casing of Easy, Medium or Hard.
func ParseDifficulty(s string) (ProblemDifficulty, bool) {
	for _, d := range []ProblemDifficulty{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, true
		}
	}
	return "", false
}

type Problem struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Slug          string            `json:"slug"`
	Description   string            `json:"description"`
	Difficulty    ProblemDifficulty `json:"difficulty"`
	RelatedTopics string            `json:"related_topics"`
	SolutionHint  *string           `json:"solution_hint"`
	CreatedAt     time.Time         `json:"created_at"`
}

// ProblemFilter narrows List. Empty fields do not filter.
type ProblemFilter struct {
	Topic      string // case-insensitive substring of related_topics
	Difficulty string // case-insensitive exact match
}
