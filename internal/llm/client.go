package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNilGenerator        = errors.New("prompt generator should not be nil")
	ErrNoInput             = errors.New("no input provided in request")
	ErrMissingPromptInput  = errors.New("batch input is missing the \"prompt\" key")
	ErrOutputCountMismatch = errors.New("generator returned a different number of outputs than prompts")
)

// BatchInput is the input mapping of a batch generation call. The only
// recognized key is PromptKey, holding an ordered sequence of prompts.
type BatchInput map[string][]string

// Prompts extracts the ordered prompt sequence from the mapping.
func (in BatchInput) Prompts() ([]string, error) {
	prompts, ok := in[PromptKey]
	if !ok {
		return nil, ErrMissingPromptInput
	}
	return prompts, nil
}

// Client wraps a single bound model handle. Configuration is immutable for
// the client's lifetime; every call is independent and stateless.
type Client struct {
	modelName string
	kwargs    ModelKwargs
	generator PromptGenerator
}

// NewClient binds a generator to a model name and merged kwargs. Services
// call this from their Client method; tests may call it with a stub.
func NewClient(modelName string, kwargs ModelKwargs, generator PromptGenerator) (*Client, error) {
	if generator == nil {
		return nil, ErrNilGenerator
	}
	return &Client{
		modelName: modelName,
		kwargs:    kwargs.Clone(),
		generator: generator,
	}, nil
}

// ModelName returns the model this client is bound to.
func (cli *Client) ModelName() string {
	return cli.modelName
}

// Kwargs returns a copy of the merged model kwargs.
func (cli *Client) Kwargs() ModelKwargs {
	return cli.kwargs.Clone()
}

// InputNames declares the expected keys of a batch input mapping.
func (cli *Client) InputNames() []string {
	return []string{PromptKey}
}

// Generate sends a single prompt and returns the single response text.
// Generator failures propagate unchanged.
func (cli *Client) Generate(ctx context.Context, prompt string) (string, error) {
	outputs, err := cli.generate(ctx, []string{prompt})
	if err != nil {
		return "", err
	}
	return outputs[0], nil
}

// GenerateBatch sends inputs[PromptKey] in one call and returns the response
// texts in input order, one per prompt.
func (cli *Client) GenerateBatch(ctx context.Context, inputs BatchInput) ([]string, error) {
	prompts, err := inputs.Prompts()
	if err != nil {
		return nil, err
	}
	return cli.generate(ctx, prompts)
}

// GenerateAsync runs Generate on its own goroutine. The caller resumes via
// the returned future with the same result or the same error.
func (cli *Client) GenerateAsync(ctx context.Context, prompt string) *Future[string] {
	f := newFuture[string]()
	go func() {
		f.complete(cli.Generate(ctx, prompt))
	}()
	return f
}

// GenerateBatchAsync is the asynchronous counterpart of GenerateBatch.
func (cli *Client) GenerateBatchAsync(ctx context.Context, inputs BatchInput) *Future[[]string] {
	f := newFuture[[]string]()
	go func() {
		f.complete(cli.GenerateBatch(ctx, inputs))
	}()
	return f
}

func (cli *Client) generate(ctx context.Context, prompts []string) ([]string, error) {
	if len(prompts) == 0 {
		return nil, ErrNoInput
	}

	outputs, err := cli.generator.GeneratePrompt(ctx, prompts)
	if err != nil {
		return nil, err
	}

	if len(outputs) != len(prompts) {
		return nil, fmt.Errorf("%w: got %d, want %d",
			ErrOutputCountMismatch, len(outputs), len(prompts))
	}
	return outputs, nil
}
