package services

import (
	"context"
	"sync"
)

// MockAgentRuntime is a mock implementation of AgentRuntime for
// testing. Test cases drive it through RunFunc, which receives the real
// tools so a test can simulate the model invoking them.
type MockAgentRuntime struct {
	RunFunc func(ctx context.Context, instructions string, input string, tools []Tool) (*RunResult, error)

	// Track calls for testing
	RunCalls []RunCall

	mu sync.Mutex // protects all fields above
}

type RunCall struct {
	Instructions string
	Input        string
	ToolNames    []string
}

// Ensure MockAgentRuntime implements AgentRuntime interface
var _ AgentRuntime = (*MockAgentRuntime)(nil)

// NewMockAgentRuntime creates a new mock agent runtime
func NewMockAgentRuntime() *MockAgentRuntime {
	return &MockAgentRuntime{
		RunCalls: make([]RunCall, 0),
	}
}

func (m *MockAgentRuntime) Run(ctx context.Context, instructions string, input string, tools []Tool) (*RunResult, error) {
	m.mu.Lock()
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	m.RunCalls = append(m.RunCalls, RunCall{
		Instructions: instructions,
		Input:        input,
		ToolNames:    names,
	})
	runFunc := m.RunFunc
	m.mu.Unlock()

	if runFunc != nil {
		return runFunc(ctx, instructions, input, tools)
	}

	return &RunResult{FinalOutput: "mock response"}, nil
}

// FindTool returns the named tool from a tool set, or nil.
func FindTool(tools []Tool, name string) *Tool {
	for i := range tools {
		if tools[i].Name == name {
			return &tools[i]
		}
	}
	return nil
}
