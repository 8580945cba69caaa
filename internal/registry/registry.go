package registry

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/local-legends/npc-engine/pkg/npc"
)

// Registry is the immutable NPC lookup table, loaded once at process
// start. It is shared by reference and never mutated after construction.
type Registry struct {
	npcs   []npc.NPC
	byName map[string]*npc.NPC // lower-cased name -> record
	logger *slog.Logger
}

// Load reads the NPC definitions file under dataDir. A missing or
// malformed file degrades to an empty registry with a logged error;
// startup is never blocked on bad static data.
func Load(dataDir string, logger *slog.Logger) *Registry {
	r := &Registry{
		byName: make(map[string]*npc.NPC),
		logger: logger,
	}

	path := filepath.Join(dataDir, "npcs.json")
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("Failed to read NPC definitions", "path", path, "error", err)
		return r
	}

	var npcs []npc.NPC
	if err := json.Unmarshal(data, &npcs); err != nil {
		logger.Error("Failed to unmarshal NPC definitions", "path", path, "error", err)
		return r
	}

	r.npcs = npcs
	for i := range r.npcs {
		r.byName[strings.ToLower(r.npcs[i].Name)] = &r.npcs[i]
	}

	logger.Info("Loaded NPC definitions", "path", path, "count", len(r.npcs))
	return r
}

// Get returns the NPC with the given name, matched case-insensitively.
// Returns nil when no such NPC exists.
func (r *Registry) Get(name string) *npc.NPC {
	return r.byName[strings.ToLower(name)]
}

// List returns all NPCs in load order. Callers must not modify the
// returned slice.
func (r *Registry) List() []npc.NPC {
	return r.npcs
}

// Count returns the number of loaded NPCs.
func (r *Registry) Count() int {
	return len(r.npcs)
}
