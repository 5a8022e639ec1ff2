package store

import (
	"time"

	"github.com/paulhq/paul-assistant/internal/model/chat"
)

// Store persists per-conversation message logs. Operations never fail from
// the caller's perspective: an unknown conversation reads as empty, and
// durability problems degrade to in-process storage rather than surfacing.
type Store interface {
	// History returns the stored messages for the conversation, oldest
	// first, creating an empty record if the identifier is unknown.
	History(conversationID string) []chat.Message

	// Append records a new message with the current timestamp, evicting
	// the oldest entries beyond the history limit.
	Append(conversationID string, role chat.Role, content string)

	// Clear removes the conversation entirely; clearing an unknown
	// identifier is a no-op.
	Clear(conversationID string)
}

func newMessage(role chat.Role, content string) chat.Message {
	return chat.Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// trim keeps only the most recent entries within the history limit.
func trim(messages []chat.Message) []chat.Message {
	if len(messages) <= chat.HistoryLimit {
		return messages
	}
	return messages[len(messages)-chat.HistoryLimit:]
}

func copyMessages(messages []chat.Message) []chat.Message {
	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied
}
