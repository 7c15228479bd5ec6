// Package gemini binds the llm contract to the Gemini API via the
// google.golang.org/genai SDK.
//
// The SDK exposes a typed generation config, so only the kwargs it can
// express are forwarded; unrecognized kwargs are ignored by this provider.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yschughes/llmsvc/internal/llm"
	"google.golang.org/genai"
)

const (
	APIKeyEnv = "GEMINI_API_KEY"

	GeminiAPIVersion = "v1beta"
)

var ErrAPIKeyMissing = errors.New("missing Gemini API key")

type Service struct {
	apiKey   string
	defaults llm.ModelKwargs
	genAI    *genai.Client
}

type builder struct {
	apiKey   string
	apiVer   string
	timeout  *time.Duration
	defaults llm.ModelKwargs
	lookup   llm.EnvLookup
}

type Option func(*builder) error

func WithAPIKey(key string) Option {
	return func(b *builder) error {
		b.apiKey = key
		return nil
	}
}

func WithAPIVersion(ver string) Option {
	return func(b *builder) error {
		b.apiVer = ver
		return nil
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(b *builder) error {
		b.timeout = &timeout
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

// New constructs the service. Unlike the hosted OpenAI-compatible bindings,
// the genai SDK refuses to build a client without a credential, so a missing
// key fails here rather than on the first call.
func New(ctx context.Context, opts ...Option) (*Service, error) {
	b := &builder{apiVer: GeminiAPIVersion}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	apiKey := llm.ResolveAPIKey(b.apiKey, APIKeyEnv, b.lookup)
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			APIVersion: b.apiVer,
			Timeout:    b.timeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Gemini API client: %w", err)
	}

	return &Service{
		apiKey:   apiKey,
		defaults: b.defaults.Clone(),
		genAI:    cli,
	}, nil
}

func (s *Service) APIKey() string {
	return s.apiKey
}

func (s *Service) Client(modelName string, kwargs llm.ModelKwargs) (*llm.Client, error) {
	merged := s.defaults.Merge(kwargs)
	return llm.NewClient(modelName, merged, &generator{
		genAI:  s.genAI,
		model:  modelName,
		config: toGenerateContentConfig(merged),
	})
}

type generator struct {
	genAI  *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

func (g *generator) GeneratePrompt(ctx context.Context, prompts []string) ([]string, error) {
	outputs := make([]string, len(prompts))
	for i, prompt := range prompts {
		resp, err := g.genAI.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
		if err != nil {
			return nil, err
		}
		outputs[i] = resp.Text()
	}
	return outputs, nil
}

// toGenerateContentConfig maps the kwargs the typed SDK config can carry.
func toGenerateContentConfig(kwargs llm.ModelKwargs) *genai.GenerateContentConfig {
	if len(kwargs) == 0 {
		return nil
	}

	cfg := &genai.GenerateContentConfig{}
	if v, ok := toFloat32(kwargs["temperature"]); ok {
		cfg.Temperature = genai.Ptr(v)
	}
	if v, ok := toFloat32(kwargs["top_p"]); ok {
		cfg.TopP = genai.Ptr(v)
	}
	if v, ok := toFloat32(kwargs["top_k"]); ok {
		cfg.TopK = genai.Ptr(v)
	}
	if v, ok := toInt32(kwargs["max_output_tokens"]); ok {
		cfg.MaxOutputTokens = v
	}
	if v, ok := toInt32(kwargs["seed"]); ok {
		cfg.Seed = genai.Ptr(v)
	}
	if v, ok := kwargs["stop_sequences"].([]string); ok {
		cfg.StopSequences = v
	}
	return cfg
}

func toFloat32(v any) (float32, bool) {
	switch n := v.(type) {
	case float32:
		return n, true
	case float64:
		return float32(n), true
	case int:
		return float32(n), true
	default:
		return 0, false
	}
}

func toInt32(v any) (int32, bool) {
	switch n := v.(type) {
	case int:
		return int32(n), true
	case int32:
		return n, true
	case int64:
		return int32(n), true
	case float64:
		return int32(n), true
	default:
		return 0, false
	}
}
