package ollama

import (
	"context"

	"github.com/yschughes/llmsvc/internal/llm"
)

func init() {
	llm.Register("ollama", fromServiceConfig)
}

func fromServiceConfig(ctx context.Context, cfg llm.ServiceConfig) (llm.Service, error) {
	opts := make([]Option, 0, 2)
	if cfg.BaseURL != "" {
		opts = append(opts, WithHost(cfg.BaseURL))
	}
	if len(cfg.DefaultKwargs) > 0 {
		opts = append(opts, WithDefaultKwargs(cfg.DefaultKwargs))
	}
	return New(ctx, opts...)
}
