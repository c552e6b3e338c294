package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt([]Message{
		{Role: RoleUser, Content: "Hi"},
		{Role: RoleAssistant, Content: "Hello"},
		{Role: RoleUser, Content: "How are you?"},
	})

	assert.Equal(t, "User: Hi\nAssistant: Hello\nUser: How are you?\nAssistant:", prompt)
}

func TestBuildPrompt_EndsWithAssistantCue(t *testing.T) {
	for _, messages := range [][]Message{
		nil,
		{{Role: RoleUser, Content: ""}},
		{{Role: RoleUser, Content: "multi\nline"}},
	} {
		prompt := BuildPrompt(messages)
		lines := strings.Split(prompt, "\n")
		assert.Equal(t, "Assistant:", lines[len(lines)-1])
	}
}
