package chat

import "strings"

const assistantCue = "Assistant:"

// BuildPrompt flattens a conversation into one "<Label>: <content>" line per
// message followed by a bare "Assistant:" cue for the model to complete.
func BuildPrompt(messages []Message) string {
	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(msg.Role.Label())
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	b.WriteString(assistantCue)
	return b.String()
}
