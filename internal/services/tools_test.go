package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local-legends/npc-engine/internal/registry"
	"github.com/local-legends/npc-engine/internal/storage"
	"github.com/local-legends/npc-engine/pkg/session"
)

const testNPCData = `[
  {
    "name": "Maria",
    "image": "barrio_logan.png",
    "area_color": "#E8A13D",
    "position": {"x": 420, "y": 610},
    "char_description": "A muralist who has lived in Barrio Logan her whole life and knows every wall in Chicano Park.",
    "style_of_communication": "Warm and direct, slips Spanish phrases into conversation."
  },
  {
    "name": "Dexter",
    "image": "north_park.png",
    "area_color": "#4C7A5E",
    "position": {"x": 180, "y": 95},
    "char_description": "A record store owner who can talk vinyl pressings for hours.",
    "style_of_communication": "Laid back, dry humor, name-drops obscure bands."
  }
]`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testService(t *testing.T, runtime AgentRuntime) (*NPCAgentService, *storage.MockSessionStore) {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "npcs.json"), []byte(testNPCData), 0644); err != nil {
		t.Fatalf("Failed to write NPC data: %v", err)
	}

	store := storage.NewMockSessionStore()
	reg := registry.Load(dir, testLogger())
	return NewNPCAgentService(reg, store, runtime, testLogger()), store
}

func TestEmitResponseTool(t *testing.T) {
	svc, _ := testService(t, NewMockAgentRuntime())
	ctx := context.Background()

	t.Run("valid arguments", func(t *testing.T) {
		rc := newRunContext("Maria", "hello", nil)
		tool := FindTool(svc.buildTools(rc), ToolEmitResponse)
		require.NotNil(t, tool)

		out, err := tool.Handler(ctx, `{"text":"Hola!","options":["Tell me more","What's good to eat here?"]}`)
		require.NoError(t, err)
		assert.Equal(t, "Response generated successfully with 2 conversation options.", out)

		assert.True(t, rc.responseGenerated)
		require.NotNil(t, rc.result)
		assert.Equal(t, "Hola!", rc.result.Text)
		assert.Len(t, rc.result.Options, 2)
	})

	t.Run("rejects a single option", func(t *testing.T) {
		rc := newRunContext("Maria", "hello", nil)
		tool := FindTool(svc.buildTools(rc), ToolEmitResponse)

		_, err := tool.Handler(ctx, `{"text":"Hola!","options":["Tell me more"]}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 2 conversation options")

		assert.False(t, rc.responseGenerated)
		assert.Nil(t, rc.result)
	})

	t.Run("rejects empty options", func(t *testing.T) {
		rc := newRunContext("Maria", "hello", nil)
		tool := FindTool(svc.buildTools(rc), ToolEmitResponse)

		_, err := tool.Handler(ctx, `{"text":"Hola!","options":[]}`)
		assert.Error(t, err)
		assert.Nil(t, rc.result)
	})

	t.Run("truncates to three options", func(t *testing.T) {
		rc := newRunContext("Maria", "hello", nil)
		tool := FindTool(svc.buildTools(rc), ToolEmitResponse)

		out, err := tool.Handler(ctx, `{"text":"Hola!","options":["a","b","c","d","e"]}`)
		require.NoError(t, err)
		assert.Equal(t, "Response generated successfully with 3 conversation options.", out)

		require.NotNil(t, rc.result)
		assert.Equal(t, []string{"a", "b", "c"}, rc.result.Options)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		rc := newRunContext("Maria", "hello", nil)
		tool := FindTool(svc.buildTools(rc), ToolEmitResponse)

		_, err := tool.Handler(ctx, `{"text":`)
		assert.Error(t, err)
		assert.Nil(t, rc.result)
	})
}

func TestRecallHistoryTool(t *testing.T) {
	svc, _ := testService(t, NewMockAgentRuntime())
	ctx := context.Background()

	t.Run("empty history", func(t *testing.T) {
		rc := newRunContext("Maria", "hello", nil)
		tool := FindTool(svc.buildTools(rc), ToolRecallHistory)
		require.NotNil(t, tool)

		out, err := tool.Handler(ctx, "{}")
		require.NoError(t, err)
		assert.Equal(t, "This is the start of your conversation with this person.", out)
	})

	t.Run("formats history as transcript", func(t *testing.T) {
		history := []session.ConversationMessage{
			{Role: session.RoleUser, Content: "Where are you from?", Timestamp: time.Now().UTC()},
			{Role: session.RoleAssistant, Content: "Born and raised right here in Barrio Logan!", Timestamp: time.Now().UTC()},
		}
		rc := newRunContext("Maria", "hello", history)
		tool := FindTool(svc.buildTools(rc), ToolRecallHistory)

		out, err := tool.Handler(ctx, "{}")
		require.NoError(t, err)
		assert.Contains(t, out, "Previous conversation:")
		assert.Contains(t, out, "Visitor: Where are you from?")
		assert.Contains(t, out, "You: Born and raised right here in Barrio Logan!")
	})

	t.Run("windows long history", func(t *testing.T) {
		history := make([]session.ConversationMessage, 0, 25)
		for i := 0; i < 25; i++ {
			history = append(history, session.ConversationMessage{
				Role:    session.RoleUser,
				Content: "message " + string(rune('a'+i)),
			})
		}
		rc := newRunContext("Maria", "hello", history)
		tool := FindTool(svc.buildTools(rc), ToolRecallHistory)

		out, err := tool.Handler(ctx, "{}")
		require.NoError(t, err)
		assert.NotContains(t, out, "message a")
		assert.NotContains(t, out, "message o")
		assert.Contains(t, out, "message p") // first of the trailing ten
		assert.Contains(t, out, "message y")
	})
}

func TestBuildTools(t *testing.T) {
	svc, _ := testService(t, NewMockAgentRuntime())

	rc := newRunContext("Maria", "hello", nil)
	tools := svc.buildTools(rc)

	require.Len(t, tools, 2)
	assert.Equal(t, ToolEmitResponse, tools[0].Name)
	assert.Equal(t, ToolRecallHistory, tools[1].Name)
	assert.Equal(t, []string{"text", "options"}, tools[0].Required)
}
