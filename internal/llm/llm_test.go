package llm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yschughes/llmsvc/internal/llm"
)

// echoGenerator returns each prompt as its own generation.
var echoGenerator = llm.PromptGeneratorFunc(
	func(ctx context.Context, prompts []string) ([]string, error) {
		outputs := make([]string, len(prompts))
		copy(outputs, prompts)
		return outputs, nil
	})

func TestResolveAPIKey(t *testing.T) {
	env := map[string]string{"NVIDIA_API_KEY": "test_env_api_key"}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
	noEnv := func(string) (string, bool) { return "", false }

	tcs := []struct {
		name     string
		explicit string
		lookup   llm.EnvLookup
		expected string
	}{
		{"explicit wins over env", "test_api_key", lookup, "test_api_key"},
		{"env fallback", "", lookup, "test_env_api_key"},
		{"explicit without env", "test_api_key", noEnv, "test_api_key"},
		{"absent", "", noEnv, ""},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			key := llm.ResolveAPIKey(tc.explicit, "NVIDIA_API_KEY", tc.lookup)
			require.Equal(t, tc.expected, key)
		})
	}
}

func TestResolveAPIKeyRealEnv(t *testing.T) {
	t.Setenv("NVIDIA_API_KEY", "test_env_api_key")
	require.Equal(t, "test_env_api_key", llm.ResolveAPIKey("", "NVIDIA_API_KEY", nil))
	require.Equal(t, "test_api_key", llm.ResolveAPIKey("test_api_key", "NVIDIA_API_KEY", nil))
}

func TestModelKwargsMerge(t *testing.T) {
	defaults := llm.ModelKwargs{"arg1": "default_value1", "arg2": "default_value2"}
	merged := defaults.Merge(llm.ModelKwargs{"arg2": "value2"})

	require.Equal(t, "default_value1", merged["arg1"])
	require.Equal(t, "value2", merged["arg2"])

	// inputs stay untouched
	require.Equal(t, "default_value2", defaults["arg2"])
}

func TestInputNames(t *testing.T) {
	cli, err := llm.NewClient("test_model", nil, echoGenerator)
	require.NoError(t, err)
	require.Equal(t, []string{"prompt"}, cli.InputNames())
}

func TestNewClientNilGenerator(t *testing.T) {
	_, err := llm.NewClient("test_model", nil, nil)
	require.ErrorIs(t, err, llm.ErrNilGenerator)
}

func TestGenerate(t *testing.T) {
	cli, err := llm.NewClient("test_model", nil, echoGenerator)
	require.NoError(t, err)

	out, err := cli.Generate(context.Background(), "test_prompt")
	require.NoError(t, err)
	require.Equal(t, "test_prompt", out)
}

func TestGenerateBatch(t *testing.T) {
	cli, err := llm.NewClient("test_model", nil, echoGenerator)
	require.NoError(t, err)

	outputs, err := cli.GenerateBatch(context.Background(),
		llm.BatchInput{"prompt": {"prompt1", "prompt2"}})
	require.NoError(t, err)
	require.Equal(t, []string{"prompt1", "prompt2"}, outputs)
}

func TestGenerateBatchMissingPromptKey(t *testing.T) {
	cli, err := llm.NewClient("test_model", nil, echoGenerator)
	require.NoError(t, err)

	_, err = cli.GenerateBatch(context.Background(),
		llm.BatchInput{"question": {"prompt1"}})
	require.ErrorIs(t, err, llm.ErrMissingPromptInput)
}

func TestGenerateOutputCountMismatch(t *testing.T) {
	truncating := llm.PromptGeneratorFunc(
		func(ctx context.Context, prompts []string) ([]string, error) {
			return prompts[:len(prompts)-1], nil
		})
	cli, err := llm.NewClient("test_model", nil, truncating)
	require.NoError(t, err)

	_, err = cli.GenerateBatch(context.Background(),
		llm.BatchInput{"prompt": {"prompt1", "prompt2"}})
	require.ErrorIs(t, err, llm.ErrOutputCountMismatch)
}

func TestGenerateAsync(t *testing.T) {
	cli, err := llm.NewClient("test_model", nil, echoGenerator)
	require.NoError(t, err)

	out, err := cli.GenerateAsync(context.Background(), "test_prompt").
		Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, "test_prompt", out)
}

func TestGenerateBatchAsync(t *testing.T) {
	cli, err := llm.NewClient("test_model", nil, echoGenerator)
	require.NoError(t, err)

	outputs, err := cli.GenerateBatchAsync(context.Background(),
		llm.BatchInput{"prompt": {"prompt1", "prompt2"}}).
		Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"prompt1", "prompt2"}, outputs)
}

func TestGenerateBatchAsyncError(t *testing.T) {
	failure := errors.New("unittest: simulated provider failure")
	failing := llm.PromptGeneratorFunc(
		func(ctx context.Context, prompts []string) ([]string, error) {
			return nil, failure
		})
	cli, err := llm.NewClient("test_model", nil, failing)
	require.NoError(t, err)

	_, err = cli.GenerateBatchAsync(context.Background(),
		llm.BatchInput{"prompt": {"prompt1", "prompt2"}}).
		Await(context.Background())
	require.ErrorIs(t, err, failure)
	require.Contains(t, err.Error(), "unittest")
}

func TestAwaitHonorsContext(t *testing.T) {
	blocked := llm.PromptGeneratorFunc(
		func(ctx context.Context, prompts []string) ([]string, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
	cli, err := llm.NewClient("test_model", nil, blocked)
	require.NoError(t, err)

	callCtx, cancelCall := context.WithCancel(context.Background())
	defer cancelCall()

	waitCtx, cancelWait := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancelWait()

	_, err = cli.GenerateAsync(callCtx, "test_prompt").Await(waitCtx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientConfigIsImmutable(t *testing.T) {
	kwargs := llm.ModelKwargs{"temperature": 0.2}
	cli, err := llm.NewClient("test_model", kwargs, echoGenerator)
	require.NoError(t, err)

	kwargs["temperature"] = 0.9
	require.Equal(t, 0.2, cli.Kwargs()["temperature"])

	cli.Kwargs()["temperature"] = 0.5
	require.Equal(t, 0.2, cli.Kwargs()["temperature"])
}

func TestRegistryUnknownProvider(t *testing.T) {
	_, err := llm.NewService(context.Background(), "no-such-provider", llm.ServiceConfig{})
	require.ErrorIs(t, err, llm.ErrUnknownProvider)
}
