package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *GroqClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewGroqClient("test-key", "llama-3.3-70b-versatile", time.Second)
	c.baseURL = srv.URL
	return c
}

func TestGroqClient_Complete(t *testing.T) {
	var gotReq groqChatReq
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(chatResponse("  cloudstack_instance\n"))
	})

	got, err := c.Complete(context.Background(), "pick a resource")
	require.NoError(t, err)

	assert.Equal(t, "cloudstack_instance", got)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "llama-3.3-70b-versatile", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "pick a resource", gotReq.Messages[0].Content)
	assert.Zero(t, gotReq.Temperature)
}

func TestGroqClient_EmptyCompletion(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := c.Complete(context.Background(), "anything")
	require.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestGroqClient_ErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	})

	_, err := c.Complete(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestNewGroqClient_EnvFallback(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "env-key")
	c := NewGroqClient("", "m", 0)
	assert.Equal(t, "env-key", c.apiKey)
	assert.Equal(t, "Groq:m", c.Name())
}
