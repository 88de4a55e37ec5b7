package agent

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/wwexlabs/freightagent/internal/memory"
	"github.com/wwexlabs/freightagent/internal/models"
	"github.com/wwexlabs/freightagent/internal/nlu"
)

// consolidate is the UpdateMemory state: evaluate the turn, write one episode,
// and feed the outcome back into strategy success rates. Memory trouble is
// logged, never surfaced to the customer.
func (o *Orchestrator) consolidate(ctx context.Context, cp *models.Checkpoint, turn *turnState) {
	success := o.evaluateSuccess(cp)

	episode := models.Episode{
		ID:                uuid.NewString(),
		SessionID:         cp.Context.SessionID,
		UserQuery:         turn.utterance,
		Intent:            turn.intent(),
		ActionsTaken:      turn.actions,
		Successful:        success,
		ResolutionMinutes: o.now().Sub(cp.Context.StartedAt).Minutes(),
		Satisfaction:      o.estimateSatisfaction(cp, turn),
		Lessons:           o.lessons(cp, turn),
		Created:           o.now(),
	}
	if cp.Context.CurrentShipment != nil {
		episode.ProNumber = cp.Context.CurrentShipment.ProNumber
		episode.Carrier = cp.Context.CurrentShipment.Carrier
	}

	if _, err := o.stores.Episodes.RecordEpisode(ctx, episode); err != nil {
		o.logger.Warn("record episode failed",
			"session_id", cp.Context.SessionID, "error", err)
	}

	o.recordStrategyOutcomes(ctx, turn, success)
}

// evaluateSuccess mirrors the success heuristic episodic memory is mined
// with: a located shipment, a delivered carrier message, or a general inquiry
// all count as success. A general inquiry counts even when the customer got
// unwelcome news; the satisfaction estimate carries that nuance instead.
func (o *Orchestrator) evaluateSuccess(cp *models.Checkpoint) bool {
	if cp.Context.CurrentShipment != nil {
		return true
	}
	if models.LastDispatchSucceeded(cp.Dispatches) {
		return true
	}
	return cp.Context.Intent == models.IntentGeneralInquiry
}

func (o *Orchestrator) estimateSatisfaction(cp *models.Checkpoint, turn *turnState) int {
	switch {
	case cp.Context.CurrentShipment != nil:
		return 5
	case models.LastDispatchSucceeded(cp.Dispatches):
		return 4
	case turn.clarification != "":
		return 3
	default:
		return 2
	}
}

func (o *Orchestrator) lessons(cp *models.Checkpoint, turn *turnState) string {
	var lessons []string

	if turn.classifyFailed {
		lessons = append(lessons, "Intent classification returned malformed output - turn degraded to rephrase request")
	} else if turn.classification != nil && turn.classification.Confidence < nlu.ConfidenceThreshold {
		lessons = append(lessons, "Low confidence in intent classification - may need better NLU training")
	}

	if turn.intent() == models.IntentTrackShipment && !cp.Context.Entities.HasIdentifier() {
		lessons = append(lessons, "Customer wanted to track but didn't provide PRO number - need to ask more clearly")
	}

	if turn.dispatch != nil && !turn.dispatch.Success {
		lessons = append(lessons, "Carrier dispatch failed - check mail transport configuration")
	}

	if len(lessons) == 0 {
		return "Standard successful interaction"
	}
	return strings.Join(lessons, "; ")
}

// recordStrategyOutcomes nudges the success rate of each strategy the turn
// exercised.
func (o *Orchestrator) recordStrategyOutcomes(ctx context.Context, turn *turnState, success bool) {
	record := func(name string) {
		if err := o.stores.Strategies.RecordOutcome(ctx, name, success); err != nil {
			o.logger.Warn("record strategy outcome failed", "strategy", name, "error", err)
		}
	}
	if !turn.classifyFailed {
		record(memory.StrategyIntentClassification)
	}
	if o.completion != nil {
		record(memory.StrategyCustomerCommunication)
	}
}
