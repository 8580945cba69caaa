package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/local-legends/npc-engine/pkg/npc"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type npcListResponse struct {
	NPCs []npcSummary `json:"npcs"`
}

type npcSummary struct {
	Name         string `json:"name"`
	Neighborhood string `json:"neighborhood"`
}

type sessionInitResponse struct {
	SessionID string `json:"session_id"`
}

func listNPCs(client *http.Client, baseURL string) ([]npcSummary, error) {
	resp, err := client.Get(baseURL + "/v1/npcs")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body)
	}

	var list npcListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to parse NPC list response: %w", err)
	}
	return list.NPCs, nil
}

func initSession(client *http.Client, baseURL string, sessionID string) (string, error) {
	endpoint := baseURL + "/v1/session"
	if sessionID != "" {
		endpoint += "?session_id=" + url.QueryEscape(sessionID)
	}

	resp, err := client.Post(endpoint, "application/json", nil)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp.StatusCode, body)
	}

	var created sessionInitResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("failed to parse session response: %w", err)
	}
	return created.SessionID, nil
}

func interact(client *http.Client, baseURL string, sessionID string, npcName string, message string) (*npc.InteractionResponse, error) {
	request := npc.InteractionRequest{
		SessionID: sessionID,
		Message:   message,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/npc/%s/interact", baseURL, url.PathEscape(npcName)),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body)
	}

	var result npc.InteractionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse interaction response: %w", err)
	}
	return &result, nil
}

func apiError(status int, body []byte) error {
	var errorResp ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error == "" {
		return fmt.Errorf("API returned status %d: %s", status, string(body))
	}
	return fmt.Errorf("%s", errorResp.Error)
}
