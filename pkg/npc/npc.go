package npc

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Position is the NPC's location on the city map, in tile coordinates.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NPC is a static persona bound to one neighborhood of expertise.
// Records are loaded once at startup and never mutated at runtime.
type NPC struct {
	Name                 string   `json:"name"`
	Image                string   `json:"image"`
	Neighborhood         string   `json:"neighborhood"`
	AreaColor            string   `json:"area_color"`
	Position             Position `json:"position"`
	CharDescription      string   `json:"char_description"`
	StyleOfCommunication string   `json:"style_of_communication"`
}

var titleCaser = cases.Title(language.AmericanEnglish)

// NeighborhoodDisplay returns the neighborhood name used in prompts.
// When the neighborhood field is empty it falls back to the image
// filename, e.g. "barrio_logan.png" becomes "Barrio Logan".
func (n *NPC) NeighborhoodDisplay() string {
	if n.Neighborhood != "" {
		return n.Neighborhood
	}
	name := strings.TrimSuffix(n.Image, ".png")
	name = strings.ReplaceAll(name, "_", " ")
	return titleCaser.String(name)
}

func (n *NPC) Validate() error {
	if n.Name == "" {
		return fmt.Errorf("npc name cannot be empty")
	}
	if n.CharDescription == "" {
		return fmt.Errorf("npc %q has no character description", n.Name)
	}
	if n.Neighborhood == "" && n.Image == "" {
		return fmt.Errorf("npc %q has no neighborhood or image to derive one from", n.Name)
	}
	return nil
}

// Response is a structured NPC reply: the spoken text plus 2-3
// suggested follow-ups the visitor can pick from.
type Response struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}
