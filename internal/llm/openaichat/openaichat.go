// Package openaichat is the OpenAI-hosted sibling of nvfoundation: the same
// service/client contract bound to api.openai.com.
package openaichat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/yschughes/llmsvc/internal/llm"
)

const APIKeyEnv = "OPENAI_API_KEY"

var ErrEmptyCompletion = errors.New("completion response contains no choices")

type Service struct {
	apiKey   string
	defaults llm.ModelKwargs
	openAI   openai.Client
}

type builder struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	maxRetries int
	httpClient *http.Client
	defaults   llm.ModelKwargs
	lookup     llm.EnvLookup
}

type Option func(*builder) error

func WithAPIKey(key string) Option {
	return func(b *builder) error {
		b.apiKey = key
		return nil
	}
}

func WithBaseURL(u string) Option {
	return func(b *builder) error {
		if _, err := url.Parse(u); err != nil {
			return fmt.Errorf("malformed URL: %s", err)
		}
		b.baseURL = u
		return nil
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(b *builder) error {
		b.timeout = timeout
		return nil
	}
}

func WithMaxRetries(retries int) Option {
	return func(b *builder) error {
		if retries <= 0 {
			return fmt.Errorf("max retries must be a positive integer, got %d", retries)
		}
		b.maxRetries = retries
		return nil
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(b *builder) error {
		if c == nil {
			return fmt.Errorf("client cannot be nil")
		}
		b.httpClient = c
		return nil
	}
}

func WithDefaultKwargs(kwargs llm.ModelKwargs) Option {
	return func(b *builder) error {
		b.defaults = b.defaults.Merge(kwargs)
		return nil
	}
}

func WithEnvLookup(lookup llm.EnvLookup) Option {
	return func(b *builder) error {
		b.lookup = lookup
		return nil
	}
}

func New(ctx context.Context, opts ...Option) (*Service, error) {
	b := &builder{}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	apiKey := llm.ResolveAPIKey(b.apiKey, APIKeyEnv, b.lookup)

	cliOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if b.baseURL != "" {
		cliOpts = append(cliOpts, option.WithBaseURL(b.baseURL))
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

func (s *Service) APIKey() string {
	return s.apiKey
}

func (s *Service) Client(modelName string, kwargs llm.ModelKwargs) (*llm.Client, error) {
	merged := s.defaults.Merge(kwargs)
	return llm.NewClient(modelName, merged, &generator{
		openAI: s.openAI,
		model:  modelName,
		kwargs: merged,
	})
}

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
