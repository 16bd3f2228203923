package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing endpoint", cfg: Config{Model: "gpt-4.1-mini", APIKey: "k"}},
		{name: "missing model", cfg: Config{Endpoint: "https://api.openai.com/v1", APIKey: "k"}},
		{name: "missing api key", cfg: Config{Endpoint: "https://api.openai.com/v1", Model: "gpt-4.1-mini"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(&tt.cfg, zap.NewNop())
			assert.Error(t, err)
		})
	}
}

func TestGenerateResponse_SearchAugmentationDoesNotAlterRequest(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		body = string(raw)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"titulo\": \"Trilha\"}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	client, err := NewClient(&Config{
		Endpoint: server.URL,
		Model:    "gpt-4.1-mini",
		APIKey:   "test-key",
	}, zap.NewNop())
	require.NoError(t, err)

	content, err := client.GenerateResponse(context.Background(),
		"Organize essas skills", "system", GenerateOptions{SearchAugmentation: true})
	require.NoError(t, err)
	assert.Equal(t, `{"titulo": "Trilha"}`, content)

	// Function tools are the only tool type the endpoint accepts, so the
	// flag must not add a tools parameter to the wire request
	assert.NotContains(t, body, `"tools"`)
	assert.True(t, strings.Contains(body, `"model":"gpt-4.1-mini"`))
}
