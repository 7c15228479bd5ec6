package nvfoundation

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/yschughes/llmsvc/internal/llm"
)

var (
	ErrOptMalformedURL = fmt.Errorf("malformed URL")
	ErrOptNilClient    = fmt.Errorf("client cannot be nil")
)

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

// WithAPIKey sets the explicit API key, taking precedence over NVIDIA_API_KEY.
func WithAPIKey(key string) Option {
	return func(b *builder) error {
		b.apiKey = key
		return nil
	}
}

// WithBaseURL points the service at a different OpenAI-compatible endpoint,
// e.g. a local NIM deployment.
func WithBaseURL(u string) Option {
	return func(b *builder) error {
		if _, err := url.Parse(u); err != nil {
			return fmt.Errorf("%w: %s", ErrOptMalformedURL, err)
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

// WithDefaultKwargs stores service-level model kwargs as-is. They are merged
// under per-client kwargs, never validated.
func WithDefaultKwargs(kwargs llm.ModelKwargs) Option {
	return func(b *builder) error {
		b.defaults = b.defaults.Merge(kwargs)
		return nil
	}
}

// WithEnvLookup injects the environment lookup used for the API key
// fallback. Tests use this to avoid touching the process environment.
func WithEnvLookup(lookup llm.EnvLookup) Option {
	return func(b *builder) error {
		b.lookup = lookup
		return nil
	}
}
