// Package models defines data structures for the freight conversation engine.
package models

import "time"

// Message roles within a conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single utterance in a conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// UserMessages returns the user-authored messages from history, oldest first.
func UserMessages(history []Message) []Message {
	out := make([]Message, 0, len(history))
	for _, m := range history {
		if m.Role == RoleUser {
			out = append(out, m)
		}
	}
	return out
}

// LastN returns at most the last n messages of history.
func LastN(history []Message, n int) []Message {
	if n <= 0 || len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
