package gemini

import (
	"context"

	"github.com/yschughes/llmsvc/internal/llm"
)

func init() {
	llm.Register("gemini", fromServiceConfig)
}

func fromServiceConfig(ctx context.Context, cfg llm.ServiceConfig) (llm.Service, error) {
	opts := make([]Option, 0, 4)
	if cfg.APIKey != "" {
		opts = append(opts, WithAPIKey(cfg.APIKey))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, WithTimeout(cfg.Timeout))
	}
	if len(cfg.DefaultKwargs) > 0 {
		opts = append(opts, WithDefaultKwargs(cfg.DefaultKwargs))
	}
	return New(ctx, opts...)
}
