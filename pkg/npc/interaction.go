package npc

import "fmt"

// InteractionRequest is a visitor message addressed to one NPC within
// an existing session.
type InteractionRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (r *InteractionRequest) Validate() error {
	if r.SessionID == "" {
		return fmt.Errorf("session_id cannot be empty")
	}
	if r.Message == "" {
		return fmt.Errorf("message cannot be empty")
	}
	return nil
}

// InteractionResponse carries the NPC's structured reply back to the
// caller.
type InteractionResponse struct {
	NPCName   string   `json:"npc_name"`
	Response  Response `json:"response"`
	SessionID string   `json:"session_id"`
}
