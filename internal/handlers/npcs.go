package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/local-legends/npc-engine/internal/services"
	"github.com/local-legends/npc-engine/pkg/npc"
)

// NPCSummary is the list-view shape of an NPC: full character
// descriptions are long prompt material, so the list truncates them.
type NPCSummary struct {
	Name         string       `json:"name"`
	Image        string       `json:"image"`
	Neighborhood string       `json:"neighborhood"`
	AreaColor    string       `json:"area_color"`
	Position     npc.Position `json:"position"`
	Description  string       `json:"description"`
}

type NPCListResponse struct {
	NPCs  []NPCSummary `json:"npcs"`
	Total int          `json:"total"`
}

const summaryDescriptionLimit = 200

type NPCHandler struct {
	service *services.NPCAgentService
	logger  *slog.Logger
}

func NewNPCHandler(service *services.NPCAgentService, logger *slog.Logger) *NPCHandler {
	return &NPCHandler{
		service: service,
		logger:  logger,
	}
}

// ServeHTTP handles NPC lookups:
// GET /v1/npcs        - list all NPCs
// GET /v1/npcs/{name} - read one NPC by name (case-insensitive)
func (h *NPCHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		h.logger.Warn("Method not allowed for NPC endpoint", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		response := ErrorResponse{
			Error: "Method not allowed. Only GET is supported.",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/npcs"), "/")
	if name == "" {
		h.handleList(w)
		return
	}
	h.handleRead(w, name)
}

func (h *NPCHandler) handleList(w http.ResponseWriter) {
	npcs := h.service.GetAllNPCs()

	summaries := make([]NPCSummary, 0, len(npcs))
	for i := range npcs {
		summaries = append(summaries, summarize(&npcs[i]))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(NPCListResponse{NPCs: summaries, Total: len(summaries)}); err != nil {
		h.logger.Error("Failed to encode NPC list response", "error", err)
	}
}

func (h *NPCHandler) handleRead(w http.ResponseWriter, name string) {
	n := h.service.GetNPCByName(name)
	if n == nil {
		h.logger.Warn("NPC not found", "npc", name)
		w.WriteHeader(http.StatusNotFound)
		response := ErrorResponse{
			Error: "NPC '" + name + "' not found",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(n); err != nil {
		h.logger.Error("Failed to encode NPC response", "error", err)
	}
}

func summarize(n *npc.NPC) NPCSummary {
	description := n.CharDescription
	if len(description) > summaryDescriptionLimit {
		description = description[:summaryDescriptionLimit] + "..."
	}
	return NPCSummary{
		Name:         n.Name,
		Image:        n.Image,
		Neighborhood: n.NeighborhoodDisplay(),
		AreaColor:    n.AreaColor,
		Position:     n.Position,
		Description:  description,
	}
}
