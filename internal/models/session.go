package models

import "time"

// SessionContext is the durable per-conversation state carried across turns.
type SessionContext struct {
	SessionID        string     `json:"session_id"`
	UserID           string     `json:"user_id,omitempty"`
	Intent           Intent     `json:"intent"`
	IntentConfidence float64    `json:"intent_confidence"`
	Entities         EntitySet  `json:"entities"`
	CurrentShipment  *Shipment  `json:"current_shipment,omitempty"`
	PreviousQueries  []string   `json:"previous_queries,omitempty"`
	CarrierContacted bool       `json:"carrier_contacted"`
	EmailSent        bool       `json:"email_sent"`
	Escalated        bool       `json:"escalated"`
	StartedAt        time.Time  `json:"started_at"`
}

// DispatchRecord captures one outbound carrier message.
type DispatchRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	Carrier     string    `json:"carrier"`
	Recipient   string    `json:"recipient"`
	Template    string    `json:"template"`
	ReferenceID string    `json:"reference_id"`
	MessageID   string    `json:"message_id,omitempty"`
	Success     bool      `json:"success"`
}

// LastDispatchSucceeded reports whether the most recent dispatch, if any,
// was delivered.
func LastDispatchSucceeded(dispatches []DispatchRecord) bool {
	if len(dispatches) == 0 {
		return false
	}
	return dispatches[len(dispatches)-1].Success
}

// Checkpoint is the persisted snapshot of a session between turns.
type Checkpoint struct {
	Context    SessionContext   `json:"context"`
	Messages   []Message        `json:"messages"`
	Dispatches []DispatchRecord `json:"dispatches,omitempty"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
