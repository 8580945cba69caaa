package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/local-legends/npc-engine/pkg/npc"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <npcs.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &NPCFileValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("NPC definitions file is valid!")
}

type NPCFileValidator struct {
	errors []string
}

func (v *NPCFileValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var npcs []npc.NPC
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&npcs); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	if len(npcs) == 0 {
		v.errors = append(v.errors, "  - file defines no NPCs")
	}

	seen := make(map[string]bool)
	for i := range npcs {
		if err := npcs[i].Validate(); err != nil {
			v.errors = append(v.errors, fmt.Sprintf("  - npc %d: %v", i, err))
			continue
		}

		key := strings.ToLower(npcs[i].Name)
		if seen[key] {
			v.errors = append(v.errors, fmt.Sprintf("  - duplicate npc name (case-insensitive): %s", npcs[i].Name))
		}
		seen[key] = true

		if npcs[i].StyleOfCommunication == "" {
			v.errors = append(v.errors, fmt.Sprintf("  - npc %q has no style_of_communication", npcs[i].Name))
		}
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	fmt.Printf("Validated %d NPCs\n", len(npcs))
	return nil
}
