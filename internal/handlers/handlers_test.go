package handlers

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/local-legends/npc-engine/internal/registry"
	"github.com/local-legends/npc-engine/internal/services"
	"github.com/local-legends/npc-engine/internal/storage"
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

// setupTestService builds a service backed by a mock store and a mock
// runtime whose emit_response tool always produces a structured reply.
func setupTestService(t *testing.T) (*services.NPCAgentService, *storage.MockSessionStore) {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "npcs.json"), []byte(testNPCData), 0644); err != nil {
		t.Fatalf("Failed to write NPC data: %v", err)
	}

	runtime := services.NewMockAgentRuntime()
	runtime.RunFunc = func(ctx context.Context, instructions string, input string, tools []services.Tool) (*services.RunResult, error) {
		emit := services.FindTool(tools, services.ToolEmitResponse)
		if emit == nil {
			t.Fatal("emit_response tool not offered to runtime")
		}
		if _, err := emit.Handler(ctx, `{"text":"Born and raised right here in Barrio Logan!","options":["Tell me more","What's good to eat here?","I should visit"]}`); err != nil {
			t.Fatalf("emit_response handler failed: %v", err)
		}
		return &services.RunResult{}, nil
	}

	store := storage.NewMockSessionStore()
	reg := registry.Load(dir, testLogger())
	return services.NewNPCAgentService(reg, store, runtime, testLogger()), store
}
