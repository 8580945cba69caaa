package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/local-legends/npc-engine/internal/registry"
	"github.com/local-legends/npc-engine/internal/storage"
	"github.com/local-legends/npc-engine/pkg/npc"
	"github.com/local-legends/npc-engine/pkg/prompts"
	"github.com/local-legends/npc-engine/pkg/session"
)

// ConfusedOptions accompany the in-character fallback reply used when
// nothing could be recovered from an agent run.
var ConfusedOptions = []string{"Try again", "Ask something else", "Say hello"}

// AgentConfig is the pre-built, immutable agent setup for one NPC.
type AgentConfig struct {
	NPCName      string
	Instructions string
}

// NPCAgentService orchestrates NPC conversations: it resolves
// personas, builds per-turn context, invokes the agent runtime and
// persists the resulting turn. The per-NPC agent configs are built once
// at construction and never mutated afterwards.
type NPCAgentService struct {
	registry *registry.Registry
	store    storage.SessionStore
	runtime  AgentRuntime
	agents   map[string]*AgentConfig // lower-cased NPC name -> config
	logger   *slog.Logger
}

// NewNPCAgentService builds agent configs for every registered NPC.
// NPCs whose persona cannot be rendered are skipped with a logged
// error; they will resolve to the no-result sentinel at interaction
// time.
func NewNPCAgentService(reg *registry.Registry, store storage.SessionStore, runtime AgentRuntime, logger *slog.Logger) *NPCAgentService {
	s := &NPCAgentService{
		registry: reg,
		store:    store,
		runtime:  runtime,
		agents:   make(map[string]*AgentConfig),
		logger:   logger,
	}

	npcs := reg.List()
	for i := range npcs {
		instructions, err := prompts.New().WithNPC(&npcs[i]).Instructions()
		if err != nil {
			logger.Error("Failed to build agent for NPC", "npc", npcs[i].Name, "error", err)
			continue
		}
		s.agents[strings.ToLower(npcs[i].Name)] = &AgentConfig{
			NPCName:      npcs[i].Name,
			Instructions: instructions,
		}
	}

	logger.Info("NPC agent service initialized", "npcs", reg.Count(), "agents", len(s.agents))
	return s
}

// GetAllNPCs returns every registered NPC in load order.
func (s *NPCAgentService) GetAllNPCs() []npc.NPC {
	return s.registry.List()
}

// GetNPCByName resolves an NPC case-insensitively. Returns nil when
// the NPC does not exist.
func (s *NPCAgentService) GetNPCByName(name string) *npc.NPC {
	return s.registry.Get(name)
}

// GenerateResponse produces one NPC reply for the visitor's message.
// It returns nil when the NPC or its agent config cannot be resolved
// and on upstream failure; those are logged, never propagated. An agent
// run that yields no recoverable payload degrades to an in-character
// confused reply instead.
func (s *NPCAgentService) GenerateResponse(ctx context.Context, npcName string, userMessage string, history []session.ConversationMessage) *npc.Response {
	n := s.registry.Get(npcName)
	if n == nil {
		s.logger.Error("NPC not found", "npc", npcName)
		return nil
	}

	agent, ok := s.agents[strings.ToLower(npcName)]
	if !ok {
		s.logger.Error("Agent not found for NPC", "npc", npcName)
		return nil
	}

	rc := newRunContext(n.Name, userMessage, history)

	prompt, err := prompts.New().
		WithNPC(n).
		WithHistory(history).
		WithUserMessage(userMessage).
		TurnPrompt()
	if err != nil {
		s.logger.Error("Failed to build turn prompt", "npc", n.Name, "error", err)
		return nil
	}

	result, err := s.runtime.Run(ctx, agent.Instructions, prompt, s.buildTools(rc))
	if err != nil {
		s.logger.Error("Agent run failed",
			"npc", n.Name,
			"correlation_id", rc.correlationID,
			"error", err)
		return nil
	}

	extraction := extractResponse(rc, result)
	switch extraction.Tier {
	case TierStructuredReply, TierRecoveredFromToolLog, TierRawTextFallback:
		s.logger.Debug("Extracted NPC response",
			"npc", n.Name,
			"correlation_id", rc.correlationID,
			"tier", extraction.Tier.String())
		return extraction.Response

	default:
		s.logger.Warn("No response recovered from agent run, using fallback",
			"npc", n.Name,
			"correlation_id", rc.correlationID)
		return &npc.Response{
			Text:    fmt.Sprintf("*%s seems a bit confused and doesn't know what to say*", n.Name),
			Options: append([]string(nil), ConfusedOptions...),
		}
	}
}

// Interact runs one full conversation turn against a loaded session:
// generate a reply, append the user and assistant messages in that
// order, and persist the session. Nothing is persisted when no reply
// could be generated.
func (s *NPCAgentService) Interact(ctx context.Context, sess *session.GameSession, npcName string, message string) (*npc.Response, error) {
	n := s.registry.Get(npcName)
	if n == nil {
		return nil, fmt.Errorf("npc not found: %s", npcName)
	}

	history := sess.ConversationHistory(n.Name)

	resp := s.GenerateResponse(ctx, n.Name, message, history)
	if resp == nil {
		return nil, fmt.Errorf("failed to generate response for %s", n.Name)
	}

	sess.AddMessage(n.Name, session.ConversationMessage{
		Role:    session.RoleUser,
		Content: message,
	})
	sess.AddMessage(n.Name, session.ConversationMessage{
		Role:    session.RoleAssistant,
		Content: resp.Text,
		Options: resp.Options,
	})

	if err := s.store.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return resp, nil
}
