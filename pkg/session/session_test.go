package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameSession(t *testing.T) {
	t.Run("generates id when empty", func(t *testing.T) {
		sess := NewGameSession("")
		assert.NotEmpty(t, sess.SessionID)
		assert.Equal(t, sess.CreatedAt, sess.LastActive)
		assert.NotNil(t, sess.Conversations)
	})

	t.Run("keeps supplied id", func(t *testing.T) {
		sess := NewGameSession("visitor-42")
		assert.Equal(t, "visitor-42", sess.SessionID)
	})
}

func TestGameSession_AddMessage(t *testing.T) {
	sess := NewGameSession("test-session")

	sess.AddMessage("Maria", ConversationMessage{Role: RoleUser, Content: "Hello!"})
	sess.AddMessage("Maria", ConversationMessage{Role: RoleAssistant, Content: "Hola!", Options: []string{"Hi", "Hey"}})

	history := sess.ConversationHistory("Maria")
	require.Len(t, history, 2)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, "Hello!", history[0].Content)
	assert.Equal(t, RoleAssistant, history[1].Role)
	assert.Equal(t, []string{"Hi", "Hey"}, history[1].Options)

	// Timestamps are stamped on append
	assert.False(t, history[0].Timestamp.IsZero())
	assert.False(t, history[1].Timestamp.IsZero())
}

func TestGameSession_LastActiveMonotonic(t *testing.T) {
	sess := NewGameSession("test-session")
	created := sess.LastActive

	sess.AddMessage("Maria", ConversationMessage{Role: RoleUser, Content: "first"})
	afterFirst := sess.LastActive
	assert.False(t, afterFirst.Before(created), "last_active must not decrease")
	assert.Equal(t, sess.Conversations["Maria"][0].Timestamp, afterFirst,
		"last_active updates to the append time")

	// A message carrying an old timestamp must not move last_active backwards
	old := ConversationMessage{
		Role:      RoleUser,
		Content:   "stale",
		Timestamp: afterFirst.Add(-time.Hour),
	}
	sess.AddMessage("Maria", old)
	assert.Equal(t, afterFirst, sess.LastActive)

	sess.AddMessage("Maria", ConversationMessage{Role: RoleAssistant, Content: "latest"})
	assert.False(t, sess.LastActive.Before(afterFirst))
}

func TestGameSession_ConversationsGrowOnly(t *testing.T) {
	sess := NewGameSession("test-session")

	for i := 0; i < 5; i++ {
		sess.AddMessage("Dexter", ConversationMessage{Role: RoleUser, Content: "msg"})
		assert.Len(t, sess.ConversationHistory("Dexter"), i+1)
	}

	// Conversations with other NPCs are untouched
	assert.Empty(t, sess.ConversationHistory("Maria"))
}

func TestGameSession_RecentHistory(t *testing.T) {
	sess := NewGameSession("test-session")

	for i := 0; i < 25; i++ {
		sess.AddMessage("Rosa", ConversationMessage{Role: RoleUser, Content: "msg"})
	}

	recent := sess.RecentHistory("Rosa")
	assert.Len(t, recent, HistoryWindow)

	full := sess.ConversationHistory("Rosa")
	assert.Equal(t, full[len(full)-HistoryWindow:], recent)

	assert.Empty(t, sess.RecentHistory("nobody"))
}

func TestGameSession_JSONRoundTrip(t *testing.T) {
	sess := NewGameSession("round-trip")
	sess.AddMessage("Maria", ConversationMessage{Role: RoleUser, Content: "Where are you from?"})
	sess.AddMessage("Maria", ConversationMessage{
		Role:    RoleAssistant,
		Content: "Born and raised right here in Barrio Logan!",
		Options: []string{"Tell me more", "What's good to eat here?", "I should visit"},
	})
	sess.AddMessage("Troy", ConversationMessage{Role: RoleUser, Content: "How's the surf?"})

	data, err := json.Marshal(sess)
	require.NoError(t, err)

	var loaded GameSession
	require.NoError(t, json.Unmarshal(data, &loaded))

	assert.Equal(t, sess.SessionID, loaded.SessionID)
	assert.True(t, sess.CreatedAt.Equal(loaded.CreatedAt))
	assert.True(t, sess.LastActive.Equal(loaded.LastActive))
	require.Len(t, loaded.Conversations, 2)

	maria := loaded.ConversationHistory("Maria")
	require.Len(t, maria, 2)
	assert.Equal(t, "Where are you from?", maria[0].Content)
	assert.Nil(t, maria[0].Options, "user messages carry no options")
	assert.Equal(t, []string{"Tell me more", "What's good to eat here?", "I should visit"}, maria[1].Options)
	assert.True(t, sess.Conversations["Maria"][1].Timestamp.Equal(maria[1].Timestamp))
}

func TestGameSession_Validate(t *testing.T) {
	sess := NewGameSession("")
	assert.NoError(t, sess.Validate())

	assert.Error(t, (&GameSession{}).Validate())
	assert.Error(t, (&GameSession{SessionID: "x"}).Validate())
}
