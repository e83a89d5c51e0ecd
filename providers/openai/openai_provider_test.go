package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codexplain/codexplain/providers/contracts"
)

func testMessages() []contracts.Message {
	return []contracts.Message{
		{Role: "system", Content: "you explain code"},
		{Role: "user", Content: "explain main.go"},
	}
}

func TestOpenAIProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "an explanation"}},
			},
			"usage": map[string]int{
				"prompt_tokens":     12,
				"completion_tokens": 7,
				"total_tokens":      19,
			},
		})
	}))
	defer server.Close()

	provider := NewOpenAIChatProvider(Config{BaseURL: server.URL, Model: "gpt-4o-mini", APIKey: "sk-test"})

	completion, err := provider.Complete(context.Background(), testMessages())
	require.NoError(t, err)
	assert.Equal(t, "an explanation", completion.Content)
	require.NotNil(t, completion.Usage)
	assert.Equal(t, 12, completion.Usage.PromptTokens)
	assert.Equal(t, 7, completion.Usage.CompletionTokens)
	assert.Equal(t, 19, completion.Usage.TotalTokens)
}

func TestOpenAIProvider_APIErrorSurfacesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit exceeded"}}`))
	}))
	defer server.Close()

	provider := NewOpenAIChatProvider(Config{BaseURL: server.URL, Model: "gpt-4o-mini", APIKey: "sk-test"})

	_, err := provider.Complete(context.Background(), testMessages())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestOpenAIProvider_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	provider := NewOpenAIChatProvider(Config{BaseURL: server.URL, Model: "gpt-4o-mini", APIKey: "sk-test"})

	_, err := provider.Complete(context.Background(), testMessages())
	assert.Error(t, err)
}

func TestNewOpenAIChatProvider_Defaults(t *testing.T) {
	provider := NewOpenAIChatProvider(Config{Model: "gpt-4o"})
	assert.Equal(t, defaultBaseURL, provider.config.BaseURL)
	assert.Equal(t, "openai", provider.Name())
	assert.Equal(t, "gpt-4o", provider.Model())
}
