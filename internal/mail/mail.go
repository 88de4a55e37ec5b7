// Package mail dispatches templated email to carriers and customers through a
// pluggable transport, with a recording implementation for development and
// tests.
package mail

import "context"

// Priority signals how a dispatch should be queued by the transport.
type Priority string

// Dispatch priorities.
const (
	PriorityRoutine Priority = "routine"
	PriorityUrgent  Priority = "urgent"
)

// Message is one outbound email, described by template name and variables
// rather than rendered content so transports can track which template was
// used.
type Message struct {
	To          string            `json:"to"`
	Template    string            `json:"template"`
	Vars        map[string]string `json:"vars"`
	Priority    Priority          `json:"priority"`
	ReferenceID string            `json:"reference_id,omitempty"`
}

// Result reports a completed dispatch.
type Result struct {
	MessageID string `json:"message_id"`
}

// Transport sends rendered email.
type Transport interface {
	Send(ctx context.Context, msg Message) (Result, error)
}
