// Package tasks defines the NATS subjects and payloads of the generation
// task flow.
package tasks

import (
	"github.com/google/uuid"
)

const Prefix = "task."

const (
	Generate = Prefix + "generate"
	Done     = Prefix + "done"
	Failed   = Prefix + "failed"
	Log      = Prefix + "log"
)

// GenerateTask asks a worker to run a batch of prompts against a model.
// Kwargs override the service defaults for this task only.
type GenerateTask struct {
	TaskID  uuid.UUID      `json:"task_id"`
	Model   string         `json:"model,omitempty"`
	Prompts []string       `json:"prompts"`
	Kwargs  map[string]any `json:"kwargs,omitempty"`
}

// GenerateResult carries one output per prompt, in prompt order.
type GenerateResult struct {
	TaskID  uuid.UUID `json:"task_id"`
	Model   string    `json:"model"`
	Outputs []string  `json:"outputs"`
}

// GenerateFailure reports a task whose generation call failed.
type GenerateFailure struct {
	TaskID uuid.UUID `json:"task_id"`
	Model  string    `json:"model"`
	Error  string    `json:"error"`
}
