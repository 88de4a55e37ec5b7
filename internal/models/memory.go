package models

import "time"

// Fact is a semantic memory: a subject-predicate-object triple with a
// confidence score, accumulated from conversations.
type Fact struct {
	ID          string    `json:"id,omitempty"`
	Subject     string    `json:"subject"`
	Predicate   string    `json:"predicate"`
	Object      string    `json:"object"`
	Confidence  float64   `json:"confidence"`
	Source      string    `json:"source,omitempty"`
	Created     time.Time `json:"created,omitempty"`
	Accessed    time.Time `json:"accessed,omitempty"`
	AccessCount int       `json:"access_count,omitempty"`
}

// Content renders the triple as searchable text.
func (f Fact) Content() string {
	return f.Subject + " " + f.Predicate + " " + f.Object
}

// Episode is an episodic memory: a summary of one handled conversation turn
// with its outcome.
type Episode struct {
	ID                string    `json:"id,omitempty"`
	SessionID         string    `json:"session_id"`
	UserQuery         string    `json:"user_query"`
	Intent            Intent    `json:"intent"`
	ActionsTaken      []Action  `json:"actions_taken"`
	Successful        bool      `json:"successful"`
	ResolutionMinutes float64   `json:"resolution_minutes"`
	Satisfaction      int       `json:"satisfaction"`
	Lessons           string    `json:"lessons,omitempty"`
	ProNumber         string    `json:"pro_number,omitempty"`
	Carrier           string    `json:"carrier,omitempty"`
	Created           time.Time `json:"created,omitempty"`
}

// Strategy is a procedural memory: a versioned prompt with a tracked
// success rate.
type Strategy struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name"`
	Text         string    `json:"text"`
	UsageContext string    `json:"usage_context,omitempty"`
	SuccessRate  float64   `json:"success_rate"`
	Version      int       `json:"version"`
	Updated      time.Time `json:"updated,omitempty"`
}

// ActionCount pairs an action with how often it appeared in successful
// episodes.
type ActionCount struct {
	Action Action `json:"action"`
	Count  int    `json:"count"`
}

// SuccessPatterns summarizes what worked for a given intent across past
// episodes.
type SuccessPatterns struct {
	Intent               Intent        `json:"intent"`
	TotalEpisodes        int           `json:"total_episodes"`
	SuccessRate          float64       `json:"success_rate"`
	CommonActions        []ActionCount `json:"common_actions,omitempty"`
	AvgResolutionMinutes float64       `json:"avg_resolution_minutes"`
}
