package registry

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func writeNPCFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "npcs.json"), []byte(content), 0o644))
	return dir
}

const testNPCs = `[
  {
    "name": "Maria",
    "image": "barrio_logan.png",
    "neighborhood": "Barrio Logan",
    "area_color": "#E4572E",
    "position": {"x": 12, "y": 28},
    "char_description": "Runs a taco stand.",
    "style_of_communication": "Warm and proud."
  },
  {
    "name": "Dexter",
    "image": "north_park.png",
    "neighborhood": "North Park",
    "area_color": "#4C9F70",
    "position": {"x": 31, "y": 14},
    "char_description": "Barista and vinyl collector.",
    "style_of_communication": "Laid-back."
  }
]`

func TestRegistry_Load(t *testing.T) {
	reg := Load(writeNPCFile(t, testNPCs), testLogger())

	assert.Equal(t, 2, reg.Count())

	names := make([]string, 0, 2)
	for _, n := range reg.List() {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"Maria", "Dexter"}, names, "load order is preserved")
}

func TestRegistry_GetCaseInsensitive(t *testing.T) {
	reg := Load(writeNPCFile(t, testNPCs), testLogger())

	canonical := reg.Get("Maria")
	require.NotNil(t, canonical)

	for _, name := range []string{"maria", "MARIA", "mArIa"} {
		got := reg.Get(name)
		require.NotNil(t, got, "lookup %q", name)
		assert.Equal(t, canonical, got, "all casings resolve to the canonical record")
	}

	assert.Equal(t, "Barrio Logan", canonical.Neighborhood)
}

func TestRegistry_GetUnknown(t *testing.T) {
	reg := Load(writeNPCFile(t, testNPCs), testLogger())
	assert.Nil(t, reg.Get("Nobody"))
}

func TestRegistry_MissingFile(t *testing.T) {
	reg := Load(t.TempDir(), testLogger())
	assert.Equal(t, 0, reg.Count())
	assert.Empty(t, reg.List())
	assert.Nil(t, reg.Get("Maria"))
}

func TestRegistry_MalformedFile(t *testing.T) {
	reg := Load(writeNPCFile(t, "{not json"), testLogger())
	assert.Equal(t, 0, reg.Count())
	assert.Empty(t, reg.List())
}
