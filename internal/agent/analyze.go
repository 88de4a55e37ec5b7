package agent

import (
	"context"

	"github.com/wwexlabs/freightagent/internal/metrics"
	"github.com/wwexlabs/freightagent/internal/models"
	"github.com/wwexlabs/freightagent/internal/nlu"
)

// analyze is the AnalyzeInput state: accumulate entities across the recent
// window, classify intent, persist extraction facts, and decide whether the
// turn needs clarification. A classification failure marks the turn degraded
// instead of failing it; the responder falls back to a rephrase request.
func (o *Orchestrator) analyze(ctx context.Context, cp *models.Checkpoint, turn *turnState) {
	extractStart := o.now()
	accumulated := o.extractor.Accumulate(ctx, cp.Messages, turn.utterance)
	o.timeOp(metrics.OpLLMExtract, extractStart, nil)
	cp.Context.Entities.Merge(accumulated)

	classifyStart := o.now()
	classification, err := o.classifier.Classify(ctx, turn.utterance, cp.Messages)
	o.timeOp(metrics.OpLLMClassify, classifyStart, err)
	if err != nil {
		o.logger.Warn("classification failed, degrading turn",
			"session_id", cp.Context.SessionID, "error", err)
		turn.classifyFailed = true
		turn.addAction(models.ActionRequestMoreInfo)
		return
	}
	turn.classification = classification
	cp.Context.Intent = classification.Intent
	cp.Context.IntentConfidence = classification.Confidence

	o.storeExtractionFacts(ctx, cp.Context.SessionID, cp.Context.Entities)

	if question, needed := nlu.Clarify(classification.Intent, classification.Confidence, cp.Context.Entities); needed {
		turn.clarification = question
		turn.addAction(models.ActionRequestMoreInfo)
	}
}

// storeExtractionFacts writes what the customer mentioned into semantic
// memory. Fact-store trouble never fails a turn.
func (o *Orchestrator) storeExtractionFacts(ctx context.Context, sessionID string, entities models.EntitySet) {
	store := func(predicate, object string, confidence float64) {
		fact := models.Fact{
			Subject:    sessionID,
			Predicate:  predicate,
			Object:     object,
			Confidence: confidence,
			Source:     "nlu_extraction",
		}
		if _, err := o.stores.Facts.StoreFact(ctx, fact); err != nil {
			o.logger.Warn("store fact failed",
				"subject", sessionID, "predicate", predicate, "error", err)
		}
	}

	for _, pro := range entities.ProNumbers {
		store("mentioned_pro_number", pro, 0.9)
		store("has_pro_number", pro, 0.9)
	}
	for _, carrier := range entities.Carriers {
		store("mentioned_carrier", carrier, 0.8)
	}
	if len(entities.UrgencyIndicators) > 0 {
		level := "medium"
		if len(entities.UrgencyIndicators) > 1 {
			level = "high"
		}
		store("urgency_level", level, 0.7)
	}
}
