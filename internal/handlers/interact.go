package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/local-legends/npc-engine/internal/services"
	"github.com/local-legends/npc-engine/internal/storage"
	"github.com/local-legends/npc-engine/pkg/npc"
)

type InteractHandler struct {
	service *services.NPCAgentService
	store   storage.SessionStore
	logger  *slog.Logger
}

func NewInteractHandler(service *services.NPCAgentService, store storage.SessionStore, logger *slog.Logger) *InteractHandler {
	return &InteractHandler{
		service: service,
		store:   store,
		logger:  logger,
	}
}

// ServeHTTP handles POST /v1/npc/{name}/interact
func (h *InteractHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for interact endpoint", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		response := ErrorResponse{
			Error: "Method not allowed. Only POST is supported.",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	npcName := parseInteractPath(r.URL.Path)
	if npcName == "" {
		w.WriteHeader(http.StatusBadRequest)
		response := ErrorResponse{
			Error: "NPC name is required",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	var request npc.InteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		response := ErrorResponse{
			Error: "Invalid request body. Expected JSON with 'session_id' and 'message' fields.",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	if err := request.Validate(); err != nil {
		h.logger.Warn("Invalid interaction request", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		response := ErrorResponse{
			Error: "Invalid request: " + err.Error(),
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	n := h.service.GetNPCByName(npcName)
	if n == nil {
		h.logger.Warn("NPC not found", "npc", npcName)
		w.WriteHeader(http.StatusNotFound)
		response := ErrorResponse{
			Error: "NPC '" + npcName + "' not found",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	sess, err := h.store.LoadSession(r.Context(), request.SessionID)
	if err != nil {
		h.logger.Error("Failed to load session", "session_id", request.SessionID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		response := ErrorResponse{
			Error: "Failed to load session",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}
	if sess == nil {
		w.WriteHeader(http.StatusNotFound)
		response := ErrorResponse{
			Error: "Session not found",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	resp, err := h.service.Interact(r.Context(), sess, n.Name, request.Message)
	if err != nil {
		h.logger.Error("Interaction failed", "npc", n.Name, "session_id", sess.SessionID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		response := ErrorResponse{
			Error: "Failed to generate NPC response",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	result := npc.InteractionResponse{
		NPCName:   n.Name,
		Response:  *resp,
		SessionID: sess.SessionID,
	}
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("Failed to encode interaction response", "error", err)
	}
}

// parseInteractPath extracts the NPC name from /v1/npc/{name}/interact.
func parseInteractPath(path string) string {
	path = strings.TrimPrefix(path, "/v1/npc/")
	name, ok := strings.CutSuffix(path, "/interact")
	if !ok {
		return ""
	}
	return strings.Trim(name, "/")
}
