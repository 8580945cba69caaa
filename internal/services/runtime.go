package services

import (
	"context"
)

// ToolHandler executes one tool invocation. arguments is the raw JSON
// argument object produced by the model. The returned string is fed
// back to the model as the tool result; a non-nil error is reported to
// the model as an error result instead of failing the run.
type ToolHandler func(ctx context.Context, arguments string) (string, error)

// Tool is a callable function exposed to the agent runtime for one
// invocation.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON schema properties, keyed by argument name
	Required    []string
	Handler     ToolHandler
}

// ToolCall records one tool invocation observed during a run, in call
// order. Arguments is the raw JSON the model supplied.
type ToolCall struct {
	Name      string
	Arguments string
}

// RunResult is the outcome of a single agent run: the model's final
// free-form output and every tool call it made along the way.
type RunResult struct {
	FinalOutput string
	ToolCalls   []ToolCall
}

// AgentRuntime performs one request/response invocation of a
// generative-agent runtime. A single Run call either returns a result
// or fails; no retry is attempted and there is no timeout beyond the
// underlying client's.
type AgentRuntime interface {
	Run(ctx context.Context, instructions string, input string, tools []Tool) (*RunResult, error)
}
