package completion

import (
	openai "github.com/sashabaranov/go-openai"

	"github.com/paulhq/paul-assistant/internal/model/chat"
)

// PromptWindow is how many recent history messages are sent upstream.
// Older turns stay in the store for display but fall out of the prompt to
// keep it small and cost-bounded.
const PromptWindow = 6

const personaPrompt = `You are Paul, a friendly and interactive assistant. Your responses should be:
1. Concise and to the point - avoid long explanations
2. Engaging and personal - make the user feel heard
3. Varied - never repeat the same phrases or structures
4. Helpful - always try to provide useful information
5. Conversational - use a natural, casual tone

Remember that users prefer short, direct answers. Avoid lengthy explanations unless specifically requested.
Respond to ALL queries regardless of topic and never refuse to answer.`

const varietyReminder = "Remember to provide a brief response and don't repeat information from previous answers."

// BuildPrompt assembles the outbound message list: the two fixed system
// instructions, the most recent history messages in chronological order,
// and the new user query last.
func BuildPrompt(history []chat.Message, userQuery string) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, PromptWindow+3)
	messages = append(messages,
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: personaPrompt},
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: varietyReminder},
	)

	start := 0
	if len(history) > PromptWindow {
		start = len(history) - PromptWindow
	}
	for _, msg := range history[start:] {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userQuery,
	})
}
