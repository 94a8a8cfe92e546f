// Package queue defines the messages exchanged over the broker and the
// consumer that turns them into an audit log file.
package queue

// AssessmentCompletedEvent is published after an assessment is durably
// stored. It carries enough for downstream consumers to log or aggregate
// without querying the primary database. Response contents are deliberately
// excluded; the event is metadata only.
type AssessmentCompletedEvent struct {
	AssessmentID string `json:"assessment_id"`
	UserID       string `json:"user_id"`
	Category     string `json:"category"`
	RiskLevel    string `json:"risk_level"`
	Score        int    `json:"score"`
	AIAnalyzed   bool   `json:"ai_analyzed"`
	CompletedAt  string `json:"completed_at"`
}
