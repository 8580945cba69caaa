package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/local-legends/npc-engine/internal/storage"
)

type SessionInitResponse struct {
	SessionID  string    `json:"session_id"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

type SessionHandler struct {
	store  storage.SessionStore
	logger *slog.Logger
}

func NewSessionHandler(store storage.SessionStore, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		store:  store,
		logger: logger,
	}
}

// ServeHTTP handles session lifecycle:
// POST /v1/session       - initialize or resume a session (optional ?session_id=)
// GET  /v1/session/{id}  - read a session by id
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/session"), "/")

	switch r.Method {
	case http.MethodPost:
		h.handleInit(w, r)

	case http.MethodGet:
		if id == "" {
			w.WriteHeader(http.StatusBadRequest)
			response := ErrorResponse{
				Error: "Session ID is required for GET requests",
			}
			if err := json.NewEncoder(w).Encode(response); err != nil {
				h.logger.Error("Failed to encode error response", "error", err)
			}
			return
		}
		h.handleRead(w, r, id)

	default:
		h.logger.Warn("Method not allowed for session endpoint", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		response := ErrorResponse{
			Error: "Method not allowed. Supported methods: POST, GET",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
	}
}

func (h *SessionHandler) handleInit(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")

	sess, err := h.store.GetOrCreateSession(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to initialize session", "session_id", sessionID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		response := ErrorResponse{
			Error: "Failed to initialize session",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	response := SessionInitResponse{
		SessionID:  sess.SessionID,
		CreatedAt:  sess.CreatedAt,
		LastActive: sess.LastActive,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode session response", "error", err)
	}
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, id string) {
	sess, err := h.store.LoadSession(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session", "session_id", id, "error", err)
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

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(sess); err != nil {
		h.logger.Error("Failed to encode session response", "error", err)
	}
}
