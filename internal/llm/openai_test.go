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

func TestOpenAICompleteRequestsJSONMode(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"medications\": []}"}}]}`))
	}))
	defer ts.Close()

	t.Setenv("OPENAI_API_KEY", "test-key")
	c, err := NewOpenAIClient(OpenAIConfig{BaseURL: ts.URL, Model: "gpt-4o-mini"})
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "prompt text")
	require.NoError(t, err)
	assert.Equal(t, `{"medications": []}`, out)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	rf, ok := got["response_format"].(map[string]any)
	require.True(t, ok, "request must carry response_format")
	assert.Equal(t, "json_object", rf["type"])
}

func TestNewOpenAIClientMissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewOpenAIClient(OpenAIConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}
