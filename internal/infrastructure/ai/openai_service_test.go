package ai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/infrastructure/ai"
)

func newServer(t *testing.T, status int, content string) (*httptest.Server, *string) {
	t.Helper()
	var lastModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		lastModel = body.Model

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 400 {
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &lastModel
}

func TestOpenAIService_SuggestTags(t *testing.T) {
	srv, model := newServer(t, http.StatusOK, "Go, #backend, \"api\"")
	svc := ai.NewOpenAIService(srv.URL, "test-key", "", 5*time.Second)

	tags, err := svc.SuggestTags(context.Background(), "Помогите с Go", "нужен REST API")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "backend", "api"}, tags)
	assert.Equal(t, "gpt-4o-mini", *model)
}

func TestOpenAIService_QualityScoreFromMarkdown(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, "Вот оценка:\n```json\n{\"clarity\": 7, \"completeness\": 5, \"friendliness\": 9}\n```")
	svc := ai.NewOpenAIService(srv.URL, "test-key", "local-model", 5*time.Second)

	score, err := svc.QualityScore(context.Background(), "t", "d")
	require.NoError(t, err)
	assert.Equal(t, entity.QualityScore{Clarity: 7, Completeness: 5, Friendliness: 9}, score)
}

func TestOpenAIService_ServerError(t *testing.T) {
	srv, _ := newServer(t, http.StatusServiceUnavailable, "")
	svc := ai.NewOpenAIService(srv.URL, "test-key", "", 5*time.Second)

	_, err := svc.ClarityTips(context.Background(), "t", "d")
	assert.Error(t, err)
}

func TestOpenAIService_EmptyContent(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, "   ")
	svc := ai.NewOpenAIService(srv.URL, "test-key", "", 5*time.Second)

	_, err := svc.EnhanceDescription(context.Background(), "t", "d")
	assert.Error(t, err)
}

func TestParseQualityScore_Garbage(t *testing.T) {
	_, err := ai.ParseQualityScore("не знаю")
	assert.Error(t, err)
}

func TestParseTagList(t *testing.T) {
	assert.Equal(t, []string{"python", "data science", "ml"}, ai.ParseTagList("python,\n- data science\n• ml"))
	assert.Empty(t, ai.ParseTagList(" , ,"))
}
