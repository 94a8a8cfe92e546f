package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// ErrAnalysisFailed is the single failure signal of this adapter. Callers
// never learn whether the cause was a transport error, a provider error
// status or a malformed reply, and no call is ever retried.
var ErrAnalysisFailed = errors.New("advisory analysis failed")

const defaultBaseURL = "https://api.deepseek.com/v1/chat/completions"

// Client talks to the DeepSeek chat-completions endpoint. A missing or
// placeholder credential is a non-fatal configuration state: the client
// still constructs, every call fails, and the assessment workflow degrades
// into its fallback result.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient builds a Client. Short or empty keys are treated as the
// placeholder and logged once at startup.
func NewClient(apiKey, baseURL string, log *zap.Logger) *Client {
	if len(apiKey) < 20 {
		log.Warn("advisory credential missing or placeholder; AI features will be limited")
		apiKey = "placeholder"
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{apiKey: apiKey, baseURL: baseURL, http: http.DefaultClient, log: log}
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []Message      `json:"messages"`
	Temperature    float64        `json:"temperature,omitempty"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	ResponseFormat *responseShape `json:"response_format,omitempty"`
}

type responseShape struct {
	Type string `json:"type"`
}

type chatReply struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AnalyzeAssessment requests a structured risk analysis and parses the JSON
// reply, defaulting any missing or invalid field.
func (c *Client) AnalyzeAssessment(ctx context.Context, actx Context) (Result, error) {
	messages := []Message{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: buildAnalysisPrompt(actx)},
	}
	reply, err := c.call(ctx, messages, true)
	if err != nil {
		return Result{}, err
	}
	return parseResult(reply)
}

// Chat forwards a user message plus prior turns and returns the raw text
// reply.
func (c *Client) Chat(ctx context.Context, message string, history []Message) (string, error) {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: chatSystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: message})
	return c.call(ctx, messages, false)
}

// HealthTips generates a short list of per-profile tips. Failures resolve
// to an empty list rather than an error; tips are decoration, not a core
// result.
func (c *Client) HealthTips(ctx context.Context, age int, gender string) []string {
	messages := []Message{
		{Role: "system", Content: "You are a health education expert."},
		{Role: "user", Content: buildTipsPrompt(age, gender)},
	}
	reply, err := c.call(ctx, messages, true)
	if err != nil {
		c.log.Warn("health tips generation failed", zap.Error(err))
		return []string{}
	}
	var tips []string
	if err := json.Unmarshal([]byte(reply), &tips); err == nil {
		return tips
	}
	// Some replies wrap the array in an object.
	var wrapped struct {
		Tips []string `json:"tips"`
	}
	if err := json.Unmarshal([]byte(reply), &wrapped); err == nil && wrapped.Tips != nil {
		return wrapped.Tips
	}
	return []string{}
}

// call issues one chat-completions request. jsonMode asks the provider to
// constrain its reply to a JSON object.
func (c *Client) call(ctx context.Context, messages []Message, jsonMode bool) (string, error) {
	body := chatRequest{
		Model:       "deepseek-chat",
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   2000,
	}
	if jsonMode {
		body.ResponseFormat = &responseShape{Type: "json_object"}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("advisory request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("advisory provider error", zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("%w: provider status %d", ErrAnalysisFailed, resp.StatusCode)
	}

	var reply chatReply
	if err := json.Unmarshal(raw, &reply); err != nil || len(reply.Choices) == 0 {
		return "", fmt.Errorf("%w: malformed provider reply", ErrAnalysisFailed)
	}
	return reply.Choices[0].Message.Content, nil
}

// parseResult decodes the model's JSON object and normalizes it: missing
// riskLevel/score default, invalid riskLevel becomes moderate, score clamps
// to [0,100], nil slices become empty.
func parseResult(raw string) (Result, error) {
	var parsed struct {
		Analysis        string      `json:"analysis"`
		RiskLevel       string      `json:"riskLevel"`
		Score           json.Number `json:"score"`
		Recommendations []string    `json:"recommendations"`
		Resources       []Resource  `json:"resources"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Result{}, fmt.Errorf("%w: unparseable analysis JSON", ErrAnalysisFailed)
	}

	res := Result{
		Analysis:        parsed.Analysis,
		RiskLevel:       parsed.RiskLevel,
		Recommendations: parsed.Recommendations,
		Resources:       parsed.Resources,
	}
	if !ValidRiskLevel(res.RiskLevel) {
		res.RiskLevel = RiskModerate
	}
	score := 50.0
	if f, err := parsed.Score.Float64(); err == nil && parsed.Score != "" {
		score = f
	}
	res.Score = clampScore(int(score))
	if res.Recommendations == nil {
		res.Recommendations = []string{}
	}
	if res.Resources == nil {
		res.Resources = []Resource{}
	}
	return res, nil
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
