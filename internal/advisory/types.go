// Package advisory wraps the external language-model endpoint that produces
// risk analyses, chat replies and health tips. Every call is attempted
// exactly once; network errors, non-success provider statuses and
// unparseable replies all collapse into ErrAnalysisFailed so callers only
// ever decide between "surface it" (chat) and "fall back silently"
// (assessments).
package advisory

import "encoding/json"

// RiskLevel is the fixed four-value severity enumeration attached to an
// assessment result.
const (
	RiskLow      = "low"
	RiskModerate = "moderate"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// ValidRiskLevel reports whether s is one of the four allowed values.
func ValidRiskLevel(s string) bool {
	switch s {
	case RiskLow, RiskModerate, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// QuestionResponse is one answered questionnaire item. Answer keeps its
// submitted JSON form (string, number, bool or string array).
type QuestionResponse struct {
	QuestionID string          `json:"questionId"`
	Question   string          `json:"question"`
	Answer     json.RawMessage `json:"answer"`
	Category   string          `json:"category"`
}

// Context carries the demographics and answers embedded into the analysis
// prompt.
type Context struct {
	UserAge    int
	UserGender string
	Category   string
	Responses  []QuestionResponse
}

// Resource is a reference suggested by the model alongside an analysis.
type Resource struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	Type        string `json:"type,omitempty"`
}

// Result is a parsed structured analysis. RiskLevel is always one of the
// four fixed values and Score always lies in [0,100]; the client defaults
// both when the provider's reply omits or corrupts them.
type Result struct {
	Analysis        string     `json:"analysis"`
	RiskLevel       string     `json:"riskLevel"`
	Score           int        `json:"score"`
	Recommendations []string   `json:"recommendations"`
	Resources       []Resource `json:"resources"`
}

// Message is one chat turn forwarded to the provider.
type Message struct {
	Role    string `json:"role"` // system | user | assistant
	Content string `json:"content"`
}
