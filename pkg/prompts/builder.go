package prompts

import (
	"fmt"
	"strings"

	"github.com/local-legends/npc-engine/pkg/npc"
	"github.com/local-legends/npc-engine/pkg/session"
)

// Builder constructs the two pieces of per-turn agent context: the
// persona instructions and the turn prompt. It separates prompt
// assembly from session management.
type Builder struct {
	npc          *npc.NPC
	history      []session.ConversationMessage
	userMessage  string
	historyLimit int
}

// New creates a prompt builder with the default history window.
func New() *Builder {
	return &Builder{
		historyLimit: session.HistoryWindow,
	}
}

// WithNPC sets the persona the prompt is built for.
func (b *Builder) WithNPC(n *npc.NPC) *Builder {
	b.npc = n
	return b
}

// WithHistory sets the prior conversation with this NPC. Only the
// trailing window is included in the turn prompt.
func (b *Builder) WithHistory(history []session.ConversationMessage) *Builder {
	b.history = history
	return b
}

// WithUserMessage sets the visitor's new utterance.
func (b *Builder) WithUserMessage(message string) *Builder {
	b.userMessage = message
	return b
}

// WithHistoryLimit overrides the history window size.
func (b *Builder) WithHistoryLimit(limit int) *Builder {
	b.historyLimit = limit
	return b
}

// Instructions renders the persona system prompt for the NPC.
func (b *Builder) Instructions() (string, error) {
	if b.npc == nil {
		return "", fmt.Errorf("npc is required")
	}
	return fmt.Sprintf(PersonaSystemPrompt,
		b.npc.Name,
		b.npc.NeighborhoodDisplay(),
		b.npc.CharDescription,
		b.npc.StyleOfCommunication,
	), nil
}

// TurnPrompt renders the per-turn input: the windowed transcript, the
// new visitor message, and the directive to answer through the
// structured-response tool.
func (b *Builder) TurnPrompt() (string, error) {
	if b.npc == nil {
		return "", fmt.Errorf("npc is required")
	}
	if b.userMessage == "" {
		return "", fmt.Errorf("user message is required")
	}

	var parts []string

	history := b.history
	if b.historyLimit > 0 && len(history) > b.historyLimit {
		history = history[len(history)-b.historyLimit:]
	}

	if len(history) > 0 {
		parts = append(parts, HistoryHeader)
		parts = append(parts, session.FormatForNPC(history)...)
		parts = append(parts, "")
	} else {
		parts = append(parts, ConversationStartLine, "")
	}

	parts = append(parts, "Visitor: "+b.userMessage, "")
	parts = append(parts, fmt.Sprintf(TurnDirective, b.npc.Name))

	return strings.Join(parts, "\n"), nil
}
