package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const DefaultOpenAIModel = "gpt-4o"

// maxToolRounds bounds the runtime's internal call/execute loop for one
// Run. Well-behaved turns use a single tool round; the bound keeps a
// model stuck re-calling tools from looping forever.
const maxToolRounds = 5

// OpenAIRuntime implements AgentRuntime on the OpenAI chat completions
// API with function tools.
type OpenAIRuntime struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

// Ensure OpenAIRuntime implements AgentRuntime interface
var _ AgentRuntime = (*OpenAIRuntime)(nil)

// NewOpenAIRuntime creates a new OpenAI-backed agent runtime.
func NewOpenAIRuntime(apiKey string, model string, logger *slog.Logger) *OpenAIRuntime {
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIRuntime{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		logger: logger,
	}
}

// Run performs one agent invocation. Tool calls requested by the model
// are executed locally and their results fed back until the model
// answers without tools or the round bound is hit. Every tool call is
// recorded in the result for later inspection.
func (r *OpenAIRuntime) Run(ctx context.Context, instructions string, input string, tools []Tool) (*RunResult, error) {
	handlers := make(map[string]ToolHandler, len(tools))
	for _, t := range tools {
		handlers[t.Name] = t.Handler
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(r.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instructions),
			openai.UserMessage(input),
		},
		Tools: buildToolParams(tools),
	}

	result := &RunResult{}

	for round := 0; round < maxToolRounds; round++ {
		completion, err := r.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("chat completion failed: %w", err)
		}
		if len(completion.Choices) == 0 {
			return nil, fmt.Errorf("chat completion returned no choices")
		}

		msg := completion.Choices[0].Message
		result.FinalOutput = msg.Content

		if len(msg.ToolCalls) == 0 {
			return result, nil
		}

		params.Messages = append(params.Messages, msg.ToParam())

		for _, call := range msg.ToolCalls {
			result.ToolCalls = append(result.ToolCalls, ToolCall{
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			})

			toolResult := r.executeTool(ctx, handlers, call.Function.Name, call.Function.Arguments)
			params.Messages = append(params.Messages, openai.ToolMessage(toolResult, call.ID))
		}
	}

	r.logger.Warn("Agent run hit tool round limit", "model", r.model, "rounds", maxToolRounds)
	return result, nil
}

func (r *OpenAIRuntime) executeTool(ctx context.Context, handlers map[string]ToolHandler, name string, arguments string) string {
	handler, ok := handlers[name]
	if !ok {
		r.logger.Warn("Model called unknown tool", "tool", name)
		return fmt.Sprintf("Error: unknown tool %q", name)
	}

	out, err := handler(ctx, arguments)
	if err != nil {
		r.logger.Warn("Tool handler rejected call", "tool", name, "error", err)
		return "Error: " + err.Error()
	}
	return out
}

func buildToolParams(tools []Tool) []openai.ChatCompletionToolParam {
	params := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		schema := shared.FunctionParameters{
			"type":       "object",
			"properties": t.Parameters,
		}
		if len(t.Required) > 0 {
			schema["required"] = t.Required
		}

		params = append(params, openai.ChatCompletionToolParam{
			Type: "function",
			Function: shared.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  schema,
			},
		})
	}
	return params
}
