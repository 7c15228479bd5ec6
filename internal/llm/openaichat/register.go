package openaichat

import (
	"context"

	"github.com/yschughes/llmsvc/internal/llm"
)

func init() {
	llm.Register("openai", fromServiceConfig)
}

func fromServiceConfig(ctx context.Context, cfg llm.ServiceConfig) (llm.Service, error) {
	opts := make([]Option, 0, 8)
	if cfg.APIKey != "" {
		opts = append(opts, WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, WithTimeout(cfg.Timeout))
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, WithMaxRetries(cfg.MaxRetries))
	}
	if len(cfg.DefaultKwargs) > 0 {
		opts = append(opts, WithDefaultKwargs(cfg.DefaultKwargs))
	}
	return New(ctx, opts...)
}
