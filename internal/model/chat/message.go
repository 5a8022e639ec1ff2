package chat

import "time"

// Role identifies the author of a message within a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
)

// HistoryLimit bounds how many messages a conversation retains; older
// entries are evicted oldest-first.
const HistoryLimit = 15

// Message is a single turn in a conversation, oldest-first in storage.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
