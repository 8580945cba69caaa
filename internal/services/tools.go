package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/local-legends/npc-engine/pkg/npc"
	"github.com/local-legends/npc-engine/pkg/session"
)

const (
	// ToolEmitResponse is the structured-response tool: the only
	// sanctioned output channel for an NPC reply.
	ToolEmitResponse = "emit_response"

	// ToolRecallHistory lets the agent re-read the recent transcript.
	ToolRecallHistory = "recall_history"
)

// runContext is the request-scoped record for one agent invocation.
// It is passed to the tool handlers by closure and owns the result
// slot: emit_response writes here and the extractor consumes it, so
// nothing outlives the invocation.
type runContext struct {
	correlationID     uuid.UUID
	npcName           string
	history           []session.ConversationMessage
	userMessage       string
	responseGenerated bool
	result            *npc.Response
}

func newRunContext(npcName string, userMessage string, history []session.ConversationMessage) *runContext {
	return &runContext{
		correlationID: uuid.New(),
		npcName:       npcName,
		userMessage:   userMessage,
		history:       history,
	}
}

// buildTools returns the two tools exposed to the runtime for one
// invocation, bound to its run context.
func (s *NPCAgentService) buildTools(rc *runContext) []Tool {
	return []Tool{
		s.emitResponseTool(rc),
		s.recallHistoryTool(rc),
	}
}

type emitResponseArgs struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

func (s *NPCAgentService) emitResponseTool(rc *runContext) Tool {
	return Tool{
		Name:        ToolEmitResponse,
		Description: "Deliver the NPC's conversational reply together with 2-3 natural response options the visitor can give back.",
		Parameters: map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "The NPC's conversational response",
			},
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2-3 natural responses the visitor might give back",
			},
		},
		Required: []string{"text", "options"},
		Handler: func(ctx context.Context, arguments string) (string, error) {
			var args emitResponseArgs
			if err := json.Unmarshal([]byte(arguments), &args); err != nil {
				return "", fmt.Errorf("invalid emit_response arguments: %w", err)
			}

			if len(args.Options) < 2 {
				return "", fmt.Errorf("must provide at least 2 conversation options")
			}
			if len(args.Options) > 3 {
				args.Options = args.Options[:3]
			}

			rc.responseGenerated = true
			rc.result = &npc.Response{
				Text:    args.Text,
				Options: args.Options,
			}

			s.logger.Info("NPC generated structured response",
				"npc", rc.npcName,
				"correlation_id", rc.correlationID,
				"options", len(args.Options))

			return fmt.Sprintf("Response generated successfully with %d conversation options.", len(args.Options)), nil
		},
	}
}

func (s *NPCAgentService) recallHistoryTool(rc *runContext) Tool {
	return Tool{
		Name:        ToolRecallHistory,
		Description: "Recall the recent conversation with this visitor to maintain context.",
		Parameters:  map[string]any{},
		Handler: func(ctx context.Context, arguments string) (string, error) {
			if len(rc.history) == 0 {
				return "This is the start of your conversation with this person.", nil
			}

			recent := rc.history
			if len(recent) > session.HistoryWindow {
				recent = recent[len(recent)-session.HistoryWindow:]
			}

			s.logger.Debug("NPC recalled conversation history",
				"npc", rc.npcName,
				"correlation_id", rc.correlationID,
				"messages", len(recent))

			return "Previous conversation:\n" + strings.Join(session.FormatForNPC(recent), "\n"), nil
		},
	}
}
