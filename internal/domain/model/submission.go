package model

import "time"

// Submission status names as seeded in the submission_statuses reference
// table. A submission is inserted as Pending; later transitions belong to
// the external judge.
const (
	StatusPending  = "Pending"
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
)

type Submission struct {
	ID              int       `json:"id"`
	SourceCode      string    `json:"source_code"`
	SubmittedAt     time.Time `json:"submitted_at"`
	Score           int       `json:"score"`
	ExecutionTimeMs *int      `json:"execution_time_ms,omitempty"`
	PersonID        int       `json:"person_id"`
	ChallengeID     int       `json:"challenge_id"`
	LanguageID      int       `json:"language_id"`
	StatusID        int       `json:"status_id"`
}
