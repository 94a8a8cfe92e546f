package advisory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// newTestClient points a Client at a stub chat-completions endpoint.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key-long-enough-to-be-real", srv.URL, zaptest.NewLogger(t))
}

// completion wraps content in a provider-shaped reply body.
func completion(content string) []byte {
	body := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	b, _ := json.Marshal(body)
	return b
}

func TestAnalyzeAssessment(t *testing.T) {
	actx := Context{
		UserAge:  21,
		Category: "sti-risk",
		Responses: []QuestionResponse{
			{QuestionID: "q1", Question: "Tested recently?", Answer: json.RawMessage(`"no"`)},
		},
	}

	t.Run("well-formed reply", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer test-key-long-enough-to-be-real", r.Header.Get("Authorization"))
			_, _ = w.Write(completion(`{"analysis":"Low concern overall.","riskLevel":"low","score":22,"recommendations":["Schedule a routine screening"],"resources":[{"title":"Campus clinic","type":"clinic","description":"Free testing"}]}`))
		})

		res, err := c.AnalyzeAssessment(context.Background(), actx)
		require.NoError(t, err)
		assert.Equal(t, "Low concern overall.", res.Analysis)
		assert.Equal(t, RiskLow, res.RiskLevel)
		assert.Equal(t, 22, res.Score)
		assert.Len(t, res.Recommendations, 1)
		assert.Len(t, res.Resources, 1)
	})

	t.Run("provider error status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
		_, err := c.AnalyzeAssessment(context.Background(), actx)
		assert.ErrorIs(t, err, ErrAnalysisFailed)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		srv := httptest.NewServer(nil)
		srv.Close()
		c := NewClient("test-key-long-enough-to-be-real", srv.URL, zaptest.NewLogger(t))
		_, err := c.AnalyzeAssessment(context.Background(), actx)
		assert.ErrorIs(t, err, ErrAnalysisFailed)
	})

	t.Run("non-JSON analysis content", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(completion("I am sorry, I cannot produce JSON today."))
		})
		_, err := c.AnalyzeAssessment(context.Background(), actx)
		assert.ErrorIs(t, err, ErrAnalysisFailed)
	})

	t.Run("empty choices", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})
		_, err := c.AnalyzeAssessment(context.Background(), actx)
		assert.ErrorIs(t, err, ErrAnalysisFailed)
	})

	t.Run("invalid riskLevel defaults to moderate", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(completion(`{"analysis":"x","riskLevel":"catastrophic","score":10}`))
		})
		res, err := c.AnalyzeAssessment(context.Background(), actx)
		require.NoError(t, err)
		assert.Equal(t, RiskModerate, res.RiskLevel)
	})

	t.Run("score clamped and defaulted", func(t *testing.T) {
		cases := map[string]int{
			`{"riskLevel":"low","score":150}`: 100,
			`{"riskLevel":"low","score":-4}`:  0,
			`{"riskLevel":"low"}`:             50,
		}
		for content, want := range cases {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write(completion(content))
			})
			res, err := c.AnalyzeAssessment(context.Background(), actx)
			require.NoError(t, err)
			assert.Equal(t, want, res.Score, content)
		}
	})

	t.Run("nil slices become empty", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(completion(`{"analysis":"x","riskLevel":"high","score":80}`))
		})
		res, err := c.AnalyzeAssessment(context.Background(), actx)
		require.NoError(t, err)
		assert.NotNil(t, res.Recommendations)
		assert.NotNil(t, res.Resources)
		assert.Empty(t, res.Recommendations)
		assert.Empty(t, res.Resources)
	})
}

func TestNewClient_Defaults(t *testing.T) {
	t.Run("empty base URL falls back to the provider endpoint", func(t *testing.T) {
		c := NewClient("test-key-long-enough-to-be-real", "", zaptest.NewLogger(t))
		assert.Equal(t, defaultBaseURL, c.baseURL)
	})

	t.Run("short key becomes the placeholder", func(t *testing.T) {
		c := NewClient("tiny", "", zaptest.NewLogger(t))
		assert.Equal(t, "placeholder", c.apiKey)
	})
}

func TestChat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages       []Message `json:"messages"`
			ResponseFormat any       `json:"response_format"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		// system prompt + one history turn + the new message
		require.Len(t, req.Messages, 3)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "What is PrEP?", req.Messages[2].Content)
		assert.Nil(t, req.ResponseFormat, "free-text chat must not force JSON mode")
		_, _ = w.Write(completion("PrEP is a daily medication that prevents HIV."))
	})

	reply, err := c.Chat(context.Background(), "What is PrEP?", []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "PrEP is a daily medication that prevents HIV.", reply)
}

func TestHealthTips(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(completion(`["Sleep more","Hydrate"]`))
		})
		assert.Equal(t, []string{"Sleep more", "Hydrate"}, c.HealthTips(context.Background(), 21, "female"))
	})

	t.Run("object-wrapped array", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(completion(`{"tips":["Sleep more"]}`))
		})
		assert.Equal(t, []string{"Sleep more"}, c.HealthTips(context.Background(), 21, "female"))
	})

	t.Run("failure yields empty list", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		tips := c.HealthTips(context.Background(), 21, "female")
		assert.NotNil(t, tips)
		assert.Empty(t, tips)
	})
}
