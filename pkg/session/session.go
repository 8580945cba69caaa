package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"      // the visitor
	RoleAssistant = "assistant" // the NPC
)

// HistoryWindow is the number of trailing messages included when
// building agent context for a turn.
const HistoryWindow = 10

// ConversationMessage is one entry in a per-NPC conversation.
// Messages are immutable once appended.
type ConversationMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Options   []string  `json:"options,omitempty"` // assistant messages via the structured channel only
	Timestamp time.Time `json:"timestamp"`
}

// GameSession is a visitor's durable conversation state across all NPCs,
// keyed by an opaque session identifier. A loaded instance is a
// request-scoped copy; the store owns the durable representation.
type GameSession struct {
	SessionID     string                           `json:"session_id"`
	CreatedAt     time.Time                        `json:"created_at"`
	LastActive    time.Time                        `json:"last_active"`
	Conversations map[string][]ConversationMessage `json:"conversations"`
}

// NewGameSession creates a session with the given id, generating one
// when id is empty.
func NewGameSession(id string) *GameSession {
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	return &GameSession{
		SessionID:     id,
		CreatedAt:     now,
		LastActive:    now,
		Conversations: make(map[string][]ConversationMessage),
	}
}

// AddMessage appends a message to the named NPC's conversation and
// bumps LastActive to the message timestamp. Conversations only grow;
// there is no removal or edit path.
func (s *GameSession) AddMessage(npcName string, msg ConversationMessage) {
	if s.Conversations == nil {
		s.Conversations = make(map[string][]ConversationMessage)
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	s.Conversations[npcName] = append(s.Conversations[npcName], msg)
	if msg.Timestamp.After(s.LastActive) {
		s.LastActive = msg.Timestamp
	}
}

// ConversationHistory returns the full ordered history with one NPC.
// Returns an empty slice when the visitor has not spoken to them yet.
func (s *GameSession) ConversationHistory(npcName string) []ConversationMessage {
	return s.Conversations[npcName]
}

// RecentHistory returns at most the last HistoryWindow messages with
// the named NPC.
func (s *GameSession) RecentHistory(npcName string) []ConversationMessage {
	history := s.Conversations[npcName]
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}
	return history
}

func (s *GameSession) Validate() error {
	if s.SessionID == "" {
		return fmt.Errorf("session_id cannot be empty")
	}
	if s.CreatedAt.IsZero() {
		return fmt.Errorf("created_at cannot be zero")
	}
	return nil
}
