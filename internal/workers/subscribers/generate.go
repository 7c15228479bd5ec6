package subscribers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yschughes/llmsvc/internal/llm"
	"github.com/yschughes/llmsvc/internal/tasks"
	"github.com/yschughes/llmsvc/internal/workers"
	"github.com/yschughes/llmsvc/internal/workers/publishers"
	ec "github.com/yschughes/llmsvc/pkgs/errors"
)

const (
	GenerateWorkerStreamName  = "TASK"
	GenerateWorkerDurableName = "generate-worker"
	GenerateWorkerSubject     = tasks.Generate
)

// ResultPublisher is the slice of publishers.Publisher the worker needs.
// It exists so tests can swap in an in-memory recorder.
type ResultPublisher interface {
	PublishNATSMessage(ctx context.Context, subject string, payload any,
		attrs ...attribute.KeyValue) error
}

// GenerateWorker consumes generation tasks, runs them through the configured
// LLM service, and publishes results or failures.
type GenerateWorker struct {
	workers.BaseWorker
	Provider     string
	DefaultModel string
	Service      llm.Service
	Pub          ResultPublisher
}

func NewGenerateWorker(nc *nats.Conn, logger zerolog.Logger, tracer trace.Tracer,
	provider, defaultModel string, svc llm.Service) (*GenerateWorker, error) {
	baseWorker, err := workers.NewBaseWorker(nc, logger, tracer)
	if err != nil {
		return nil, err
	}
	return &GenerateWorker{
		BaseWorker:   *baseWorker,
		Provider:     provider,
		DefaultModel: defaultModel,
		Service:      svc,
		Pub: publishers.Publisher{
			Conn:   nc,
			Js:     baseWorker.JetStream,
			Tracer: tracer,
		},
	}, nil
}

func (w *GenerateWorker) Subject() string {
	return GenerateWorkerSubject
}

func (w *GenerateWorker) Stream() string {
	return GenerateWorkerStreamName
}

func (w *GenerateWorker) Durable() string {
	return GenerateWorkerDurableName
}

func (w *GenerateWorker) Handle(ctx context.Context, msg *nats.Msg) error {
	var task tasks.GenerateTask
	if err := json.Unmarshal(msg.Data, &task); err != nil {
		// A payload that does not parse will never parse. Log and ACK so it
		// is not redelivered forever.
		w.Logger.Error().
			Err(err).
			Str("subject", msg.Subject).
			Msg("discarding malformed generation task")
		return nil
	}

	model := task.Model
	if model == "" {
		model = w.DefaultModel
	}

	logger := w.Logger.With().
		Str("task_id", task.TaskID.String()).
		Str("model", model).
		Int("prompts", len(task.Prompts)).
		Logger()

	client, err := w.Service.Client(model, llm.ModelKwargs(task.Kwargs))
	if err != nil {
		return w.fail(ctx, logger, task, model, err)
	}

	start := time.Now()
	outputs, err := client.GenerateBatch(ctx, llm.BatchInput{
		llm.PromptKey: task.Prompts,
	})
	workers.GenerationDuration.
		WithLabelValues(w.Provider).
		Observe(time.Since(start).Seconds())
	workers.GenerationPrompts.
		WithLabelValues(w.Provider).
		Observe(float64(len(task.Prompts)))

	if err != nil {
		return w.fail(ctx, logger, task, model, err)
	}

	result := tasks.GenerateResult{
		TaskID:  task.TaskID,
		Model:   model,
		Outputs: outputs,
	}
	if err := w.Pub.PublishNATSMessage(ctx, tasks.Done, result,
		attribute.String("task_id", task.TaskID.String())); err != nil {
		return ec.ErrNATSJsPublishFailed.Clone().
			WithDetails("failed to publish generation result").
			Wrap(err)
	}

	workers.GenerationTotal.WithLabelValues(w.Provider, "success").Inc()
	logger.Info().
		Dur("elapsed", time.Since(start)).
		Msg("generation task completed")
	return nil
}

// fail publishes a failure notification and returns the original error so the
// runner NAKs the message.
func (w *GenerateWorker) fail(ctx context.Context, logger zerolog.Logger,
	task tasks.GenerateTask, model string, cause error) error {
	workers.GenerationTotal.WithLabelValues(w.Provider, "error").Inc()
	logger.Error().Err(cause).Msg("generation task failed")

	failure := tasks.GenerateFailure{
		TaskID: task.TaskID,
		Model:  model,
		Error:  cause.Error(),
	}
	if pubErr := w.Pub.PublishNATSMessage(ctx, tasks.Failed, failure,
		attribute.String("task_id", task.TaskID.String())); pubErr != nil {
		logger.Error().Err(pubErr).Msg("failed to publish failure notification")
	}

	return ec.ErrGenerationFailed.Clone().
		WithDetails("model " + model).
		Wrap(cause)
}
