package session

// FormatForNPC renders conversation lines from the NPC's point of view:
// "Visitor: ..." for user messages and "You: ..." for the NPC's own
// lines. Both the turn prompt and the recall_history tool use this
// rendering so the agent sees one consistent transcript format.
func FormatForNPC(history []ConversationMessage) []string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		if msg.Role == RoleUser {
			lines = append(lines, "Visitor: "+msg.Content)
		} else {
			lines = append(lines, "You: "+msg.Content)
		}
	}
	return lines
}
