package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *GeminiClient) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewGeminiClient(GeminiConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	return server, client
}

func TestGeminiClient_Complete(t *testing.T) {
	t.Run("successful completion", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Contains(t, r.URL.Path, "gemini-1.5-flash")
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))

			var req geminiRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Contents, 1)
			assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"world"}]},"finishReason":"STOP"}]}`))
		})

		text, err := client.Complete(context.Background(), "hello")
		require.NoError(t, err)
		assert.Equal(t, "world", text)
	})

	t.Run("no candidates means empty text, not error", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		})

		text, err := client.Complete(context.Background(), "hello")
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("API error body", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
		})

		_, err := client.Complete(context.Background(), "hello")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RESOURCE_EXHAUSTED")
	})

	t.Run("non-200 status", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
		})

		_, err := client.Complete(context.Background(), "hello")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})
}

func TestNewGeminiClient(t *testing.T) {
	t.Run("uses default model", func(t *testing.T) {
		client := NewGeminiClient(GeminiConfig{APIKey: "k"})
		assert.Equal(t, defaultModel, client.Model())
	})

	t.Run("uses custom model", func(t *testing.T) {
		client := NewGeminiClient(GeminiConfig{APIKey: "k", Model: "gemini-1.5-pro"})
		assert.Equal(t, "gemini-1.5-pro", client.Model())
	})
}
