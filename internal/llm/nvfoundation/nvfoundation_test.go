package nvfoundation_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/v2"
	"github.com/stretchr/testify/require"
	"github.com/yschughes/llmsvc/internal/llm"
	"github.com/yschughes/llmsvc/internal/llm/nvfoundation"
)

func TestConstructor(t *testing.T) {
	env := map[string]string{"NVIDIA_API_KEY": "test_env_api_key"}
	withEnv := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
	withoutEnv := func(string) (string, bool) { return "", false }

	tcs := []struct {
		name     string
		apiKey   string
		lookup   llm.EnvLookup
		expected string
	}{
		{"explicit key, env set", "test_api_key", withEnv, "test_api_key"},
		{"explicit key, env unset", "test_api_key", withoutEnv, "test_api_key"},
		{"no key, env set", "", withEnv, "test_env_api_key"},
		{"no key, env unset", "", withoutEnv, ""},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			opts := []nvfoundation.Option{nvfoundation.WithEnvLookup(tc.lookup)}
			if tc.apiKey != "" {
				opts = append(opts, nvfoundation.WithAPIKey(tc.apiKey))
			}
			svc, err := nvfoundation.New(context.Background(), opts...)
			require.NoError(t, err)
			require.Equal(t, tc.expected, svc.APIKey())
		})
	}
}

func TestConstructorProcessEnv(t *testing.T) {
	t.Setenv("NVIDIA_API_KEY", "test_env_api_key")

	svc, err := nvfoundation.New(context.Background())
	require.NoError(t, err)
	require.Equal(t, "test_env_api_key", svc.APIKey())

	svc, err = nvfoundation.New(context.Background(),
		nvfoundation.WithAPIKey("test_api_key"))
	require.NoError(t, err)
	require.Equal(t, "test_api_key", svc.APIKey())
}

func TestGetClient(t *testing.T) {
	svc, err := nvfoundation.New(context.Background(),
		nvfoundation.WithAPIKey("test_api_key"))
	require.NoError(t, err)

	cli, err := svc.Client("test_model", nil)
	require.NoError(t, err)
	require.NotNil(t, cli)
	require.Equal(t, "test_model", cli.ModelName())
}

func TestModelKwargs(t *testing.T) {
	svc, err := nvfoundation.New(context.Background(),
		nvfoundation.WithAPIKey("nvapi-..."),
		nvfoundation.WithDefaultKwargs(llm.ModelKwargs{
			"arg1": "default_value1",
			"arg2": "default_value2",
		}))
	require.NoError(t, err)

	cli, err := svc.Client("model_name", llm.ModelKwargs{"arg2": "value2"})
	require.NoError(t, err)

	require.Equal(t, "default_value1", cli.Kwargs()["arg1"])
	require.Equal(t, "value2", cli.Kwargs()["arg2"])
}

func TestGetInputNames(t *testing.T) {
	svc, err := nvfoundation.New(context.Background(),
		nvfoundation.WithAPIKey("nvapi-..."))
	require.NoError(t, err)

	cli, err := svc.Client("test_model", llm.ModelKwargs{"additional_arg": "test_arg"})
	require.NoError(t, err)
	require.Equal(t, []string{"prompt"}, cli.InputNames())
}

// completionRequest is the subset of the chat-completion wire format the
// echo server needs.
type completionRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature *float64 `json:"temperature"`
}

// newEchoServer answers every chat completion with the user prompt as the
// assistant message, recording each decoded request.
func newEchoServer(t *testing.T) (*httptest.Server, *[]completionRequest) {
	t.Helper()
	seen := &[]completionRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		*seen = append(*seen, req)

		require.Len(t, req.Messages, 1)
		require.Equal(t, "user", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"id": "cmpl-%03d",
			"object": "chat.completion",
			"created": 0,
			"model": %q,
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": %q},
				"finish_reason": "stop"
			}]
		}`, len(*seen), req.Model, req.Messages[0].Content)
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func TestGenerate(t *testing.T) {
	srv, _ := newEchoServer(t)

	svc, err := nvfoundation.New(context.Background(),
		nvfoundation.WithAPIKey("nvapi-..."),
		nvfoundation.WithBaseURL(srv.URL))
	require.NoError(t, err)

	cli, err := svc.Client("test_model", nil)
	require.NoError(t, err)

	out, err := cli.Generate(context.Background(), "test_prompt")
	require.NoError(t, err)
	require.Equal(t, "test_prompt", out)
}

func TestGenerateBatch(t *testing.T) {
	srv, seen := newEchoServer(t)

	svc, err := nvfoundation.New(context.Background(),
		nvfoundation.WithAPIKey("nvapi-..."),
		nvfoundation.WithBaseURL(srv.URL))
	require.NoError(t, err)

	cli, err := svc.Client("test_model", nil)
	require.NoError(t, err)

	outputs, err := cli.GenerateBatch(context.Background(),
		llm.BatchInput{"prompt": {"prompt1", "prompt2"}})
	require.NoError(t, err)
	require.Equal(t, []string{"prompt1", "prompt2"}, outputs)

	require.Len(t, *seen, 2)
	require.Equal(t, "test_model", (*seen)[0].Model)
}

func TestGenerateForwardsKwargs(t *testing.T) {
	srv, seen := newEchoServer(t)

	svc, err := nvfoundation.New(context.Background(),
		nvfoundation.WithAPIKey("nvapi-..."),
		nvfoundation.WithBaseURL(srv.URL),
		nvfoundation.WithDefaultKwargs(llm.ModelKwargs{"temperature": 0.25}))
	require.NoError(t, err)

	cli, err := svc.Client("test_model", nil)
	require.NoError(t, err)

	_, err = cli.Generate(context.Background(), "test_prompt")
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	require.NotNil(t, (*seen)[0].Temperature)
	require.InDelta(t, 0.25, *(*seen)[0].Temperature, 1e-9)
}

func TestGenerateAsync(t *testing.T) {
	srv, _ := newEchoServer(t)

	svc, err := nvfoundation.New(context.Background(),
		nvfoundation.WithAPIKey("nvapi-..."),
		nvfoundation.WithBaseURL(srv.URL))
	require.NoError(t, err)

	cli, err := svc.Client("test_model", nil)
	require.NoError(t, err)

	outputs, err := cli.GenerateBatchAsync(context.Background(),
		llm.BatchInput{"prompt": {"prompt1", "prompt2"}}).
		Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"prompt1", "prompt2"}, outputs)
}

func TestGenerateErrorPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "invalid api key", "type": "authentication_error"}}`)
	}))
	t.Cleanup(srv.Close)

	svc, err := nvfoundation.New(context.Background(),
		nvfoundation.WithAPIKey("bad-key"),
		nvfoundation.WithBaseURL(srv.URL),
		nvfoundation.WithMaxRetries(1))
	require.NoError(t, err)

	cli, err := svc.Client("test_model", nil)
	require.NoError(t, err)

	_, err = cli.Generate(context.Background(), "test_prompt")
	require.Error(t, err)

	var apiErr *openai.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestRegistryConstruction(t *testing.T) {
	svc, err := llm.NewService(context.Background(), "nvfoundation", llm.ServiceConfig{
		APIKey:        "test_api_key",
		DefaultKwargs: llm.ModelKwargs{"arg1": "default_value1"},
	})
	require.NoError(t, err)

	nv, ok := svc.(*nvfoundation.Service)
	require.True(t, ok)
	require.Equal(t, "test_api_key", nv.APIKey())
	require.Equal(t, "default_value1", nv.DefaultKwargs()["arg1"])
}
