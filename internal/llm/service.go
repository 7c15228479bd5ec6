package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

var ErrUnknownProvider = errors.New("unknown provider")

// ServiceConfig holds the provider-independent construction parameters.
// Provider packages map these onto their own functional options.
type ServiceConfig struct {
	// APIKey is the explicit credential. When empty, the provider falls
	// back to its environment variable.
	APIKey string `json:"api_key"        mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint, e.g. for self-hosted
	// OpenAI-compatible servers.
	BaseURL string `json:"base_url"       mapstructure:"base_url"`

	Timeout    time.Duration `json:"timeout"     mapstructure:"timeout"`
	MaxRetries int           `json:"max_retries" mapstructure:"max_retries"`

	// DefaultKwargs are stored as-is and merged under per-client kwargs.
	DefaultKwargs ModelKwargs `json:"default_kwargs" mapstructure:"default_kwargs"`
}

// Factory constructs a Service from a ServiceConfig. Each provider package
// registers its own factory in init().
type Factory func(ctx context.Context, cfg ServiceConfig) (Service, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a provider factory. Panics on duplicate names; registration
// happens once per process, from provider init() functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("llm provider %q already registered", name))
	}
	registry[name] = factory
}

// NewService creates a Service using the named provider.
func NewService(ctx context.Context, name string, cfg ServiceConfig) (Service, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return factory(ctx, cfg)
}

// Available lists registered provider names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
