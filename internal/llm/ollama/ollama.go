// Package ollama serves the llm contract from a local Ollama instance. No
// API key is involved; the host URL is the only credential-like setting.
// Model kwargs map directly onto Ollama's options bag.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
	"github.com/yschughes/llmsvc/internal/llm"
)

const DefaultHost = "http://localhost:11434"

var (
	ErrIncompleteResponse = errors.New("ollama request failed: response was incomplete")
	ErrOptMalformedURL    = errors.New("malformed URL")
	ErrOptNilClient       = errors.New("client cannot be nil")
)

type Service struct {
	defaults  llm.ModelKwargs
	ollamaAPI *api.Client
}

type builder struct {
	url        *url.URL
	httpClient *http.Client
	defaults   llm.ModelKwargs
}

type Option func(*builder) error

// WithHost sets the Ollama server address, e.g. "http://localhost:11434".
func WithHost(host string) Option {
	return func(b *builder) error {
		u, err := url.Parse(host)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrOptMalformedURL, err)
		}
		b.url = u
		return nil
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(b *builder) error {
		if c == nil {
			return ErrOptNilClient
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

func New(ctx context.Context, opts ...Option) (*Service, error) {
	b := &builder{}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	if b.url == nil {
		u, _ := url.Parse(DefaultHost)
		b.url = u
	}
	if b.httpClient == nil {
		b.httpClient = http.DefaultClient
	}

	return &Service{
		defaults:  b.defaults.Clone(),
		ollamaAPI: api.NewClient(b.url, b.httpClient),
	}, nil
}

func (s *Service) Client(modelName string, kwargs llm.ModelKwargs) (*llm.Client, error) {
	merged := s.defaults.Merge(kwargs)
	return llm.NewClient(modelName, merged, &generator{
		ollamaAPI: s.ollamaAPI,
		model:     modelName,
		kwargs:    merged,
	})
}

type generator struct {
	ollamaAPI *api.Client
	model     string
	kwargs    llm.ModelKwargs
}

func (g *generator) GeneratePrompt(ctx context.Context, prompts []string) ([]string, error) {
	isStreaming := false
	outputs := make([]string, len(prompts))
	for i, prompt := range prompts {
		var apiResp api.GenerateResponse
		if err := g.ollamaAPI.Generate(ctx, &api.GenerateRequest{
			Model:   g.model,
			Prompt:  prompt,
			Options: g.kwargs,
			Stream:  &isStreaming,
		}, func(resp api.GenerateResponse) error {
			apiResp = resp
			return nil
		}); err != nil {
			return nil, fmt.Errorf("ollama generate failed: %w", err)
		}

		if !apiResp.Done {
			return nil, ErrIncompleteResponse
		}
		outputs[i] = apiResp.Response
	}
	return outputs, nil
}
