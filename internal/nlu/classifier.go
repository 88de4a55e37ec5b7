package nlu

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wwexlabs/freightagent/internal/llm"
	"github.com/wwexlabs/freightagent/internal/memory"
	"github.com/wwexlabs/freightagent/internal/models"
)

const (
	// classificationHistoryWindow is how many recent messages accompany the
	// utterance in the classification prompt.
	classificationHistoryWindow = 6

	// guidanceEpisodes is how many similar past episodes inform the
	// classification prompt.
	guidanceEpisodes = 3
)

// Classification is the classifier's verdict on one utterance.
type Classification struct {
	Intent     models.Intent
	Confidence float64
	Reasoning  string
}

// Classifier determines the customer's intent using the classification
// strategy, recent history, and similar past episodes as guidance.
type Classifier struct {
	completion llm.Completion
	stores     *memory.Stores
	logger     *slog.Logger
}

// NewClassifier creates a classifier.
func NewClassifier(completion llm.Completion, stores *memory.Stores, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{completion: completion, stores: stores, logger: logger}
}

// classificationWire is the JSON shape the classification strategy asks for.
type classificationWire struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Classify determines the intent of an utterance. A malformed model reply is
// returned as an error wrapping llm.ErrMalformedOutput; the caller decides
// how the turn degrades.
func (c *Classifier) Classify(ctx context.Context, utterance string, history []models.Message) (*Classification, error) {
	system := c.stores.StrategyText(ctx, memory.StrategyIntentClassification)

	if guidance := c.episodeGuidance(ctx, utterance); guidance != "" {
		system += "\n\nSimilar past conversations:\n" + guidance
	}

	user := buildClassificationPrompt(utterance, history)

	raw, err := c.completion.GenerateWithSystem(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("classification completion: %w", err)
	}

	var wire classificationWire
	if err := llm.DecodeJSON(raw, &wire); err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	confidence := wire.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	result := &Classification{
		Intent:     models.ParseIntent(wire.Intent),
		Confidence: confidence,
		Reasoning:  wire.Reasoning,
	}
	c.logger.Debug("classified utterance", "intent", result.Intent, "confidence", result.Confidence)
	return result, nil
}

// episodeGuidance summarizes similar past episodes for the prompt. Episodic
// memory being unavailable is not a reason to fail classification.
func (c *Classifier) episodeGuidance(ctx context.Context, utterance string) string {
	episodes, err := c.stores.Episodes.SimilarEpisodes(ctx, utterance, models.IntentUnknown, guidanceEpisodes)
	if err != nil {
		c.logger.Warn("episode guidance unavailable", "error", err)
		return ""
	}

	var b strings.Builder
	for _, ep := range episodes {
		outcome := "unresolved"
		if ep.Successful {
			outcome = "resolved"
		}
		fmt.Fprintf(&b, "- %q was classified as %s (%s)\n", ep.UserQuery, ep.Intent, outcome)
	}
	return b.String()
}

func buildClassificationPrompt(utterance string, history []models.Message) string {
	var b strings.Builder
	recent := models.LastN(history, classificationHistoryWindow)
	if len(recent) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, m := range recent {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Classify this message: %s", utterance)
	return b.String()
}
