// Package nvfoundation adapts NVIDIA foundation-model endpoints to the llm
// contract. The hosted API is OpenAI-compatible, so the binding goes through
// the openai-go SDK pointed at integrate.api.nvidia.com; the SDK owns
// transport, auth, and retries.
package nvfoundation

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/yschughes/llmsvc/internal/llm"
)

const (
	// APIKeyEnv is the fallback credential source when no explicit key is
	// given.
	APIKeyEnv = "NVIDIA_API_KEY"

	// DefaultBaseURL is the hosted NVIDIA endpoint.
	DefaultBaseURL = "https://integrate.api.nvidia.com/v1"
)

var ErrEmptyCompletion = errors.New("completion response contains no choices")

// Service hands out clients bound to one NVIDIA-hosted model. The API key
// and default kwargs are resolved once at construction and never change.
type Service struct {
	apiKey   string
	defaults llm.ModelKwargs
	openAI   openai.Client
}

// New constructs a Service. The effective API key is the WithAPIKey value if
// provided, otherwise NVIDIA_API_KEY, otherwise absent; an absent key is not
// an error here, it surfaces as whatever the endpoint returns.
func New(ctx context.Context, opts ...Option) (*Service, error) {
	b := &builder{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	apiKey := llm.ResolveAPIKey(b.apiKey, APIKeyEnv, b.lookup)

	cliOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(b.baseURL),
	}
	if b.timeout > 0 {
		cliOpts = append(cliOpts, option.WithRequestTimeout(b.timeout))
	}
	if b.maxRetries > 0 {
		cliOpts = append(cliOpts, option.WithMaxRetries(b.maxRetries))
	}
	if b.httpClient != nil {
		cliOpts = append(cliOpts, option.WithHTTPClient(b.httpClient))
	}

	return &Service{
		apiKey:   apiKey,
		defaults: b.defaults.Clone(),
		openAI:   openai.NewClient(cliOpts...),
	}, nil
}

// APIKey returns the resolved credential.
func (s *Service) APIKey() string {
	return s.apiKey
}

// DefaultKwargs returns a copy of the service-level default kwargs.
func (s *Service) DefaultKwargs() llm.ModelKwargs {
	return s.defaults.Clone()
}

// Client binds a model name. kwargs override the service defaults key by
// key. The model name is not validated here.
func (s *Service) Client(modelName string, kwargs llm.ModelKwargs) (*llm.Client, error) {
	merged := s.defaults.Merge(kwargs)
	return llm.NewClient(modelName, merged, &generator{
		openAI: s.openAI,
		model:  modelName,
		kwargs: merged,
	})
}

// generator issues one chat completion per prompt, in input order. Model
// kwargs are injected into the request body as-is; the endpoint decides
// whether they are meaningful.
type generator struct {
	openAI openai.Client
	model  string
	kwargs llm.ModelKwargs
}

func (g *generator) GeneratePrompt(ctx context.Context, prompts []string) ([]string, error) {
	opts := make([]option.RequestOption, 0, len(g.kwargs))
	for k, v := range g.kwargs {
		opts = append(opts, option.WithJSONSet(k, v))
	}

	outputs := make([]string, len(prompts))
	for i, prompt := range prompts {
		resp, err := g.openAI.Chat.Completions.New(
			ctx,
			openai.ChatCompletionNewParams{
				Model: g.model,
				Messages: []openai.ChatCompletionMessageParamUnion{
					openai.UserMessage(prompt),
				},
			},
			opts...,
		)
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, ErrEmptyCompletion
		}
		outputs[i] = resp.Choices[0].Message.Content
	}
	return outputs, nil
}
