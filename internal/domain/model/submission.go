package model

import "time"

type EvaluationStatus string

const (
	EvaluationEvaluated EvaluationStatus = "evaluated"
	EvaluationFailed    EvaluationStatus = "evaluation_failed"
)

// CodeSubmission records model feedback on a user's code. IsCorrect is never
// computed and stays false.
type CodeSubmission struct {
	ID               string           `json:"id"`
	UserID           string           `json:"-"`
	ProblemID        string           `json:"problem"`
	ProblemTitle     string           `json:"problem_title"`
	Code             string           `json:"code"`
	Language         string           `json:"language"`
	Feedback         string           `json:"feedback"`
	IsCorrect        bool             `json:"is_correct"`
	EvaluationStatus EvaluationStatus `json:"evaluation_status"`
	SubmittedAt      time.Time        `json:"submitted_at"`
}
