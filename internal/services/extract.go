package services

import (
	"encoding/json"

	"github.com/local-legends/npc-engine/pkg/npc"
)

// ExtractionTier identifies which recovery strategy produced a reply.
// The tiers are ordered: the runtime cannot be forced to call a
// specific tool, so extraction degrades step by step instead of failing
// the whole interaction.
type ExtractionTier int

const (
	// TierStructuredReply: emit_response wrote the result into the run
	// context. The sanctioned path.
	TierStructuredReply ExtractionTier = iota

	// TierRecoveredFromToolLog: the result slot was empty but a valid
	// emit_response call was found in the run's recorded tool calls.
	TierRecoveredFromToolLog

	// TierRawTextFallback: no structured data anywhere; the model's
	// free-form output is used with a fixed generic option set.
	TierRawTextFallback

	// TierNoResponse: the run produced nothing usable.
	TierNoResponse
)

func (t ExtractionTier) String() string {
	switch t {
	case TierStructuredReply:
		return "structured_reply"
	case TierRecoveredFromToolLog:
		return "recovered_from_tool_log"
	case TierRawTextFallback:
		return "raw_text_fallback"
	default:
		return "no_response"
	}
}

// GenericOptions are attached when the agent answered in free-form text
// instead of calling emit_response.
var GenericOptions = []string{"Tell me more", "That's interesting", "I see"}

// Extraction is the tagged outcome of response recovery.
type Extraction struct {
	Tier     ExtractionTier
	Response *npc.Response
}

// extractResponse recovers a structured reply from an agent run via
// the ordered fallback tiers. The tier 1 result slot is consumed on
// read so a stale value can never leak into a later extraction.
func extractResponse(rc *runContext, result *RunResult) Extraction {
	// Tier 1: result slot written by emit_response.
	if rc.result != nil {
		resp := rc.result
		rc.result = nil
		return Extraction{Tier: TierStructuredReply, Response: resp}
	}

	if result == nil {
		return Extraction{Tier: TierNoResponse}
	}

	// Tier 2: scan the recorded tool calls for a usable emit_response.
	for _, call := range result.ToolCalls {
		if call.Name != ToolEmitResponse {
			continue
		}
		var args emitResponseArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			continue
		}
		if len(args.Options) < 2 {
			continue
		}
		if len(args.Options) > 3 {
			args.Options = args.Options[:3]
		}
		return Extraction{
			Tier:     TierRecoveredFromToolLog,
			Response: &npc.Response{Text: args.Text, Options: args.Options},
		}
	}

	// Tier 3: free-form final output with generic options.
	if result.FinalOutput != "" {
		return Extraction{
			Tier: TierRawTextFallback,
			Response: &npc.Response{
				Text:    result.FinalOutput,
				Options: append([]string(nil), GenericOptions...),
			},
		}
	}

	return Extraction{Tier: TierNoResponse}
}
