// Package llm normalizes chat-completion style text generation behind a
// small service/client abstraction. A Service binds provider credentials and
// default model options; it hands out Clients bound to a single model. All
// transport, auth, and retry behavior belongs to the wrapped provider SDKs.
package llm

import (
	"context"
	"os"
)

// PromptKey is the only recognized key of a batch input mapping.
const PromptKey = "prompt"

// Service produces clients bound to a specific model. Per-client kwargs are
// merged over the service defaults key by key; model names are not validated
// here and surface as whatever error the provider SDK returns.
type Service interface {
	Client(modelName string, kwargs ModelKwargs) (*Client, error)
}

// PromptGenerator is the collaborator contract every provider binds to its
// SDK. It must return exactly one output per input prompt, in input order.
// Tests substitute a stub.
type PromptGenerator interface {
	GeneratePrompt(ctx context.Context, prompts []string) ([]string, error)
}

// PromptGeneratorFunc adapts a function to the PromptGenerator interface.
type PromptGeneratorFunc func(ctx context.Context, prompts []string) ([]string, error)

func (f PromptGeneratorFunc) GeneratePrompt(ctx context.Context, prompts []string) ([]string, error) {
	return f(ctx, prompts)
}

// EnvLookup resolves an environment variable. Injectable for tests.
type EnvLookup func(name string) (string, bool)

// ResolveAPIKey returns the effective API key: the explicit argument when
// provided, otherwise the named environment variable, otherwise empty.
// A nil lookup falls back to os.LookupEnv.
func ResolveAPIKey(explicit, envName string, lookup EnvLookup) string {
	if explicit != "" {
		return explicit
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(envName); ok {
		return v
	}
	return ""
}
