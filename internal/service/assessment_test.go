package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/staysafe/stay-safe-api/internal/advisory"
	"github.com/staysafe/stay-safe-api/internal/repository"
)

// fakeStore keeps inserted assessments in memory.
type fakeStore struct {
	byID      map[string]repository.Assessment
	nextID    string
	insertErr error
	deleted   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: map[string]repository.Assessment{}, nextID: "a-1"}
}

func (f *fakeStore) Insert(ctx context.Context, a repository.Assessment) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	a.ID = f.nextID
	f.byID[a.ID] = a
	return a.ID, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (repository.Assessment, error) {
	a, ok := f.byID[id]
	if !ok {
		return repository.Assessment{}, repository.ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) History(ctx context.Context, userID string, limit int) ([]repository.AssessmentSummary, int, error) {
	return []repository.AssessmentSummary{}, len(f.byID), nil
}

func (f *fakeStore) ListByCategory(ctx context.Context, userID, category string) ([]repository.Assessment, error) {
	out := []repository.Assessment{}
	for _, a := range f.byID {
		if a.UserID == userID && a.Category == category {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) Stats(ctx context.Context, userID string) ([]repository.CategoryStats, error) {
	return []repository.CategoryStats{}, nil
}

type fakeDirectory struct {
	users map[string]repository.User
}

func (f *fakeDirectory) GetByID(ctx context.Context, id string) (repository.User, error) {
	u, ok := f.users[id]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return u, nil
}

type fakeAnalyzer struct {
	result advisory.Result
	err    error
	calls  int
	gotCtx advisory.Context
}

func (f *fakeAnalyzer) AnalyzeAssessment(ctx context.Context, actx advisory.Context) (advisory.Result, error) {
	f.calls++
	f.gotCtx = actx
	return f.result, f.err
}

type fakeInteractions struct {
	entries []string
}

func (f *fakeInteractions) Log(ctx context.Context, userID, interactionType, resourceID string) error {
	f.entries = append(f.entries, interactionType)
	return nil
}

func testResponses() []advisory.QuestionResponse {
	return []advisory.QuestionResponse{
		{QuestionID: "q1", Question: "Do you use protection?", Answer: json.RawMessage(`"sometimes"`)},
	}
}

func newService(store *fakeStore, ai *fakeAnalyzer) (*AssessmentService, *fakeInteractions) {
	interactions := &fakeInteractions{}
	svc := &AssessmentService{
		Users: &fakeDirectory{users: map[string]repository.User{
			"u-1": {ID: "u-1", Username: "amina", Age: 21, Gender: sql.NullString{String: "female", Valid: true}},
		}},
		Store:        store,
		Interactions: interactions,
		Advisor:      ai,
		Logger:       zap.NewNop(),
	}
	return svc, interactions
}

func TestSubmit_AISuccess(t *testing.T) {
	store := newFakeStore()
	ai := &fakeAnalyzer{result: advisory.Result{
		Analysis:        "Your risk appears low.",
		RiskLevel:       advisory.RiskLow,
		Score:           15,
		Recommendations: []string{"Keep using protection"},
		Resources:       []advisory.Resource{{Title: "Campus clinic"}},
	}}
	svc, interactions := newService(store, ai)

	got, err := svc.Submit(context.Background(), "u-1", "sti-risk", testResponses())
	require.NoError(t, err)

	assert.Equal(t, "a-1", got.ID)
	assert.Equal(t, advisory.RiskLow, got.RiskLevel)
	assert.Equal(t, 15, got.Score)
	require.True(t, got.AIAnalysis.Valid)
	assert.Equal(t, "Your risk appears low.", got.AIAnalysis.String)
	assert.Equal(t, []string{"Keep using protection"}, got.Recommendations)

	// demographics flow into the analysis context
	assert.Equal(t, 21, ai.gotCtx.UserAge)
	assert.Equal(t, "female", ai.gotCtx.UserGender)
	assert.Equal(t, "sti-risk", ai.gotCtx.Category)

	assert.Equal(t, []string{"assessment"}, interactions.entries)
}

func TestSubmit_AIFailureFallsBack(t *testing.T) {
	store := newFakeStore()
	ai := &fakeAnalyzer{err: advisory.ErrAnalysisFailed}
	svc, _ := newService(store, ai)

	got, err := svc.Submit(context.Background(), "u-1", "contraception", testResponses())
	require.NoError(t, err, "advisory failure must not fail the submission")

	assert.Equal(t, 1, ai.calls, "no retries")
	assert.Equal(t, advisory.RiskModerate, got.RiskLevel)
	assert.Equal(t, 50, got.Score)
	assert.False(t, got.AIAnalysis.Valid, "no analysis text is stored on fallback")
	assert.Len(t, got.Recommendations, 3)
	assert.JSONEq(t, "[]", string(got.Resources))
}

func TestSubmit_Expiry(t *testing.T) {
	store := newFakeStore()
	svc, _ := newService(store, &fakeAnalyzer{result: advisory.Result{RiskLevel: advisory.RiskLow}})

	got, err := svc.Submit(context.Background(), "u-1", "general-wellness", testResponses())
	require.NoError(t, err)
	assert.Equal(t, got.CreatedAt.Add(30*24*time.Hour), got.ExpiresAt)
}

func TestSubmit_Rejections(t *testing.T) {
	t.Run("invalid category checked before any I/O", func(t *testing.T) {
		ai := &fakeAnalyzer{}
		svc, _ := newService(newFakeStore(), ai)
		_, err := svc.Submit(context.Background(), "u-1", "astrology", testResponses())
		assert.ErrorIs(t, err, ErrInvalidCategory)
		assert.Zero(t, ai.calls)
	})

	t.Run("empty responses", func(t *testing.T) {
		svc, _ := newService(newFakeStore(), &fakeAnalyzer{})
		_, err := svc.Submit(context.Background(), "u-1", "sti-risk", nil)
		assert.ErrorIs(t, err, ErrEmptyResponses)
	})

	t.Run("unknown user aborts", func(t *testing.T) {
		ai := &fakeAnalyzer{}
		svc, _ := newService(newFakeStore(), ai)
		_, err := svc.Submit(context.Background(), "nobody", "sti-risk", testResponses())
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Zero(t, ai.calls)
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		store := newFakeStore()
		store.insertErr = errors.New("disk full")
		svc, _ := newService(store, &fakeAnalyzer{result: advisory.Result{RiskLevel: advisory.RiskLow}})
		_, err := svc.Submit(context.Background(), "u-1", "sti-risk", testResponses())
		assert.Error(t, err)
	})
}

func TestSubmit_PublishIsBestEffort(t *testing.T) {
	store := newFakeStore()
	svc, _ := newService(store, &fakeAnalyzer{result: advisory.Result{RiskLevel: advisory.RiskLow}})
	var published repository.Assessment
	svc.Publish = func(ctx context.Context, a repository.Assessment) error {
		published = a
		return errors.New("broker down")
	}

	got, err := svc.Submit(context.Background(), "u-1", "sti-risk", testResponses())
	require.NoError(t, err, "publish failure must not fail the submission")
	assert.Equal(t, got.ID, published.ID)
}

func TestGetByID_Ownership(t *testing.T) {
	store := newFakeStore()
	store.byID["a-9"] = repository.Assessment{ID: "a-9", UserID: "u-1"}
	svc, _ := newService(store, &fakeAnalyzer{})

	t.Run("owner reads", func(t *testing.T) {
		got, err := svc.GetByID(context.Background(), "u-1", "a-9")
		require.NoError(t, err)
		assert.Equal(t, "a-9", got.ID)
	})

	t.Run("other caller forbidden", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), "u-2", "a-9")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), "u-1", "a-404")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestDelete_Ownership(t *testing.T) {
	store := newFakeStore()
	store.byID["a-9"] = repository.Assessment{ID: "a-9", UserID: "u-1"}
	svc, _ := newService(store, &fakeAnalyzer{})

	assert.ErrorIs(t, svc.Delete(context.Background(), "u-2", "a-9"), ErrForbidden)
	assert.Empty(t, store.deleted)

	require.NoError(t, svc.Delete(context.Background(), "u-1", "a-9"))
	assert.Equal(t, []string{"a-9"}, store.deleted)
}

func TestByCategory_ValidatesCategory(t *testing.T) {
	svc, _ := newService(newFakeStore(), &fakeAnalyzer{})
	_, err := svc.ByCategory(context.Background(), "u-1", "astrology")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}
