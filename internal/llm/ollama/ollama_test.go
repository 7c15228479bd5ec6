package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yschughes/llmsvc/internal/llm"
	"github.com/yschughes/llmsvc/internal/llm/ollama"
)

func TestGenerateBatchRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var req struct {
			Model   string         `json:"model"`
			Prompt  string         `json:"prompt"`
			Options map[string]any `json:"options"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "gemma3:latest", req.Model)
		require.Equal(t, 0.1, req.Options["temperature"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model":    req.Model,
			"response": req.Prompt,
			"done":     true,
		})
	}))
	t.Cleanup(srv.Close)

	svc, err := ollama.New(context.Background(), ollama.WithHost(srv.URL))
	require.NoError(t, err)

	cli, err := svc.Client("gemma3:latest", llm.ModelKwargs{"temperature": 0.1})
	require.NoError(t, err)

	outputs, err := cli.GenerateBatch(context.Background(),
		llm.BatchInput{"prompt": {"prompt1", "prompt2"}})
	require.NoError(t, err)
	require.Equal(t, []string{"prompt1", "prompt2"}, outputs)
}

func TestIncompleteResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"response": "partial",
			"done":     false,
		})
	}))
	t.Cleanup(srv.Close)

	svc, err := ollama.New(context.Background(), ollama.WithHost(srv.URL))
	require.NoError(t, err)

	cli, err := svc.Client("gemma3:latest", nil)
	require.NoError(t, err)

	_, err = cli.Generate(context.Background(), "test_prompt")
	require.ErrorIs(t, err, ollama.ErrIncompleteResponse)
}

func TestRegistered(t *testing.T) {
	require.Contains(t, llm.Available(), "ollama")
}
