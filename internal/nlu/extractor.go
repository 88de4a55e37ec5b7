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

// accumulationWindow is the total number of utterances mined for entities
// on a turn: the current message plus the most recent prior user messages.
// The current message counts against the window, so a window of 4 reaches
// back three user turns.
const accumulationWindow = 4

// Extractor combines deterministic pattern matching with an LLM extraction
// pass. The deterministic pass always runs; the LLM pass refines and adds
// entities the patterns miss (free-form locations, carrier mentions).
type Extractor struct {
	completion llm.Completion
	stores     *memory.Stores
	logger     *slog.Logger
}

// NewExtractor creates an extractor. completion may be nil, in which case
// only the deterministic pass runs.
func NewExtractor(completion llm.Completion, stores *memory.Stores, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{completion: completion, stores: stores, logger: logger}
}

// llmEntities is the wire shape the extraction strategy asks the model for.
type llmEntities struct {
	ProNumbers       []string `json:"pro_numbers"`
	Locations        []string `json:"locations"`
	Dates            []string `json:"dates"`
	Carriers         []string `json:"carriers"`
	Weights          []string `json:"weights"`
	ReferenceNumbers []string `json:"reference_numbers"`
}

// Extract runs both extraction passes over one utterance and merges the
// results. LLM failures are swallowed: extraction degrades to the
// deterministic pass rather than failing the turn.
func (e *Extractor) Extract(ctx context.Context, utterance string) models.EntitySet {
	set := ExtractPatterns(utterance)

	if e.completion == nil {
		return set
	}

	llmSet, err := e.extractLLM(ctx, utterance)
	if err != nil {
		e.logger.Warn("LLM extraction failed, using pattern results only", "error", err)
		return set
	}
	set.Merge(llmSet)
	return set
}

func (e *Extractor) extractLLM(ctx context.Context, utterance string) (models.EntitySet, error) {
	system := e.stores.StrategyText(ctx, memory.StrategyEntityExtraction)

	raw, err := e.completion.GenerateWithSystem(ctx, system, utterance)
	if err != nil {
		return models.EntitySet{}, fmt.Errorf("extraction completion: %w", err)
	}

	var wire llmEntities
	if err := llm.DecodeJSON(raw, &wire); err != nil {
		return models.EntitySet{}, err
	}

	set := models.EntitySet{
		Locations:        cleanValues(wire.Locations),
		Dates:            cleanValues(wire.Dates),
		Carriers:         cleanValues(wire.Carriers),
		Weights:          cleanValues(wire.Weights),
		ReferenceNumbers: cleanValues(wire.ReferenceNumbers),
	}
	// LLM-proposed PRO numbers still go through format validation; models
	// happily promote order numbers and phone digits to tracking numbers.
	for _, pro := range wire.ProNumbers {
		if ValidatePro(pro) {
			set.Merge(models.EntitySet{ProNumbers: []string{strings.TrimSpace(pro)}})
		}
	}
	return set, nil
}

// Accumulate extracts entities from the current utterance plus the recent
// user messages in history, merged oldest-first so the newest mention of a
// category still appears after earlier ones. Per-utterance extraction
// failures never fail accumulation.
func (e *Extractor) Accumulate(ctx context.Context, history []models.Message, current string) models.EntitySet {
	window := models.UserMessages(history)
	if len(window) > accumulationWindow-1 {
		window = window[len(window)-(accumulationWindow-1):]
	}

	var set models.EntitySet
	for _, msg := range window {
		set.Merge(e.Extract(ctx, msg.Content))
	}
	set.Merge(e.Extract(ctx, current))
	return set
}

func cleanValues(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
