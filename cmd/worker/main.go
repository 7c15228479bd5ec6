package main

import (
	"context"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/yschughes/llmsvc/internal/global"
	"github.com/yschughes/llmsvc/internal/llm"
	_ "github.com/yschughes/llmsvc/internal/llm/providers"
	"github.com/yschughes/llmsvc/internal/workers"
	"github.com/yschughes/llmsvc/internal/workers/subscribers"
	"go.opentelemetry.io/otel"
)

func main() {
	var configName, configType string
	var configPaths []string
	flag.StringVarP(&configName, "config", "c", "worker", "Name of the configuration file (without extension)")
	flag.StringVarP(&configType, "type", "t", "json", "Type of the configuration file")
	flag.StringSliceVarP(&configPaths, "path", "p", []string{".", "./configs"}, "Paths to search for the configuration file")
	flag.Parse()

	global.InitBaseLogger()

	if err := global.LoadConfigs(configName, configType, configPaths); err != nil {
		global.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	cfg := global.Config()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Otel.CollectorEndpoint != "" {
		shutdown, err := global.InitTraceProvider(cfg.Otel, ctx)
		if err != nil {
			global.Logger.Fatal().Err(err).Msg("Failed to initialize trace provider")
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				global.Logger.Error().Err(err).Msg("Failed to shut down trace provider")
			}
		}()
	}
	tracer := otel.Tracer("llmsvc/worker")

	nc := global.NATS()
	defer global.CleanUp()

	svc, err := llm.NewService(ctx, cfg.LLM.Provider, cfg.LLM.ServiceConfig())
	if err != nil {
		global.Logger.Fatal().
			Err(err).
			Str("provider", cfg.LLM.Provider).
			Strs("available", llm.Available()).
			Msg("Failed to construct LLM service")
	}

	worker, err := subscribers.NewGenerateWorker(
		nc,
		global.Logger,
		tracer,
		cfg.LLM.Provider,
		cfg.LLM.Model,
		svc,
	)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("Failed to create generate worker")
	}

	runner, err := workers.NewRunner(
		nc,
		global.Logger,
		tracer,
		worker,
		workers.WithTimeout(cfg.Worker.Timeout),
		workers.WithHealthCheckPort(cfg.Worker.HealthCheckPort),
		workers.WithHealthCheckHost(cfg.Worker.HealthCheckHost),
	)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("Failed to create worker runner")
	}

	global.Logger.Info().
		Str("provider", cfg.LLM.Provider).
		Str("model", cfg.LLM.Model).
		Msg("Starting generate worker...")
	if err := runner.Run(ctx); err != nil && err != context.Canceled {
		global.Logger.Error().Err(err).Msg("Generate worker stopped with error")
	}

	global.Logger.Info().Msg("Generate worker shut down gracefully.")
}
