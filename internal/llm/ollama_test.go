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

func TestOllamaCompleteSendsJSONConstrainedRequest(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"response": `{"medications": []}`})
	}))
	defer ts.Close()

	c := NewOllamaClient(OllamaConfig{BaseURL: ts.URL, Model: "meditron:7b"})
	out, err := c.Complete(context.Background(), "prompt text")
	require.NoError(t, err)
	assert.Equal(t, `{"medications": []}`, out)

	assert.Equal(t, "meditron:7b", got["model"])
	assert.Equal(t, "prompt text", got["prompt"])
	assert.Equal(t, "json", got["format"])
	assert.Equal(t, false, got["stream"])
}

func TestOllamaCompleteServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewOllamaClient(OllamaConfig{BaseURL: ts.URL})
	_, err := c.Complete(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestOllamaCompleteHonorsTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "late"})
	}))
	defer ts.Close()

	c := NewOllamaClient(OllamaConfig{BaseURL: ts.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Complete(ctx, "prompt")
	assert.Error(t, err)
}

func TestOllamaDefaults(t *testing.T) {
	c := NewOllamaClient(OllamaConfig{})
	assert.Equal(t, "ollama", c.Name())
	assert.Equal(t, "http://localhost:11434", c.baseURL)
	assert.Equal(t, "meditron:7b", c.model)
	assert.Equal(t, 0.1, c.temperature)
}
