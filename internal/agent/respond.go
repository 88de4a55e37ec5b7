package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wwexlabs/freightagent/internal/memory"
	"github.com/wwexlabs/freightagent/internal/metrics"
	"github.com/wwexlabs/freightagent/internal/models"
)

const (
	// responseFactLimit and responseEpisodeLimit bound how much recalled
	// memory goes into the generation prompt.
	responseFactLimit    = 3
	responseEpisodeLimit = 2

	// maxSurfacedCandidates caps how many matches a reply lists when a
	// detail search is ambiguous.
	maxSurfacedCandidates = 3
)

const rephraseReply = "I want to make sure I help with the right thing. Could you rephrase your request with a bit more detail?"

// respond is the GenerateResponse state. The reply is always built
// deterministically from the turn's outcome; when a completion collaborator
// is available it rephrases that material in a conversational tone, and any
// generation failure falls back to the deterministic text.
func (o *Orchestrator) respond(ctx context.Context, cp *models.Checkpoint, turn *turnState) {
	if turn.classifyFailed {
		turn.reply = rephraseReply
		return
	}
	if turn.clarification != "" {
		turn.reply = turn.clarification
		return
	}

	deterministic := o.buildReply(cp, turn)
	turn.reply = deterministic

	if o.completion == nil {
		return
	}

	system := o.responseContext(ctx, cp, turn, deterministic)
	generateStart := o.now()
	generated, err := o.completion.GenerateWithSystem(ctx, system, turn.utterance)
	o.timeOp(metrics.OpLLMGenerate, generateStart, err)
	if err != nil || strings.TrimSpace(generated) == "" {
		if err != nil {
			o.logger.Warn("response generation failed, using deterministic reply",
				"session_id", cp.Context.SessionID, "error", err)
		}
		return
	}
	turn.reply = strings.TrimSpace(generated)
}

// buildReply renders the turn outcome as user-facing text. Every fact stated
// here is backed by the turn state; in particular a failed dispatch is never
// reported as sent.
func (o *Orchestrator) buildReply(cp *models.Checkpoint, turn *turnState) string {
	switch turn.searchStatus {
	case searchFound:
		return shipmentReply(turn.shipment, turn.intent())
	case searchMultipleFound:
		return candidatesReply(turn.candidates)
	case searchNeedInfo:
		return "I'd be happy to help track your shipment. Could you provide the PRO number, or the origin city, destination city, and carrier?"
	}

	if turn.dispatch != nil {
		return dispatchReply(turn.dispatch, turn.intent())
	}

	switch turn.intent() {
	case models.IntentTrackShipment, models.IntentShipmentDelay:
		return "I'd be happy to help track your shipment. Could you provide the PRO number, or the origin city, destination city, and carrier?"
	case models.IntentProvideFeedback:
		return "Thank you for the feedback. I've noted it, and it helps us improve how we handle shipments."
	case models.IntentGeneralInquiry:
		return "I can help you track freight shipments, look into delays, or reach out to a carrier on your behalf. You can give me a PRO number, or describe the shipment and I'll help you find it."
	default:
		return "I'm here to help with your freight shipments. You can provide a PRO number, or describe the shipment and I'll help you find it."
	}
}

func shipmentReply(s *models.Shipment, intent models.Intent) string {
	var b strings.Builder
	if intent == models.IntentMissingShipment {
		b.WriteString("Good news: I located your shipment.\n\n")
	} else {
		b.WriteString("Here's the latest on your shipment:\n\n")
	}
	fmt.Fprintf(&b, "PRO number: %s\n", s.ProNumber)
	fmt.Fprintf(&b, "Carrier: %s\n", s.Carrier)
	fmt.Fprintf(&b, "Status: %s\n", statusPhrase(s.Status))
	fmt.Fprintf(&b, "Origin: %s\n", s.Origin)
	fmt.Fprintf(&b, "Destination: %s\n", s.Destination)
	if s.Status == models.StatusDelivered && s.DeliveredAt != nil {
		fmt.Fprintf(&b, "Delivered: %s\n", s.DeliveredAt.Format("January 2, 2006"))
	} else if s.EstimatedDelivery != nil {
		fmt.Fprintf(&b, "Estimated delivery: %s\n", s.EstimatedDelivery.Format("January 2, 2006"))
	}
	if len(s.Events) > 0 {
		last := s.Events[len(s.Events)-1]
		fmt.Fprintf(&b, "Last scan: %s at %s\n", last.Description, last.Location)
	}
	return strings.TrimRight(b.String(), "\n")
}

func candidatesReply(candidates []models.Shipment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I found %d shipments matching those details. Which one is yours?\n\n", len(candidates))
	for i, c := range candidates {
		if i >= maxSurfacedCandidates {
			break
		}
		fmt.Fprintf(&b, "%d. PRO %s — %s, %s to %s (%s)\n",
			i+1, c.ProNumber, c.Carrier, c.Origin, c.Destination, statusPhrase(c.Status))
	}
	b.WriteString("\nReply with the PRO number and I'll pull up the full status.")
	return b.String()
}

func dispatchReply(d *models.DispatchRecord, intent models.Intent) string {
	if !d.Success {
		return fmt.Sprintf("I tried to reach %s about your shipment but the message could not be delivered. I'll keep retrying; your reference number is %s.", d.Carrier, d.ReferenceID)
	}
	if intent == models.IntentMissingShipment {
		return fmt.Sprintf("I'm sorry your shipment has gone missing. I've escalated this to %s with urgent priority; your reference number is %s. You'll hear back as soon as the carrier responds.", d.Carrier, d.ReferenceID)
	}
	return fmt.Sprintf("I couldn't find that shipment in the tracking system, so I've reached out to %s directly for an update. Your reference number is %s.", d.Carrier, d.ReferenceID)
}

func statusPhrase(s models.ShipmentStatus) string {
	switch s {
	case models.StatusPickupScheduled:
		return "pickup scheduled"
	case models.StatusInTransit:
		return "in transit"
	case models.StatusOutForDelivery:
		return "out for delivery"
	case models.StatusDelivered:
		return "delivered"
	case models.StatusDelayed:
		return "delayed"
	case models.StatusException:
		return "exception"
	default:
		return "unknown"
	}
}

// responseContext assembles the system prompt for conversational rephrasing:
// the communication strategy, recalled memory, and the turn's verified facts.
func (o *Orchestrator) responseContext(ctx context.Context, cp *models.Checkpoint, turn *turnState, deterministic string) string {
	var b strings.Builder
	b.WriteString(o.stores.StrategyText(ctx, memory.StrategyCustomerCommunication))

	if facts, err := o.stores.Facts.SearchFacts(ctx, turn.utterance, responseFactLimit); err == nil && len(facts) > 0 {
		b.WriteString("\n\nKnown facts:\n")
		for _, f := range facts {
			fmt.Fprintf(&b, "- %s\n", f.Content())
		}
	}
	if episodes, err := o.stores.Episodes.SimilarEpisodes(ctx, turn.utterance, turn.intent(), responseEpisodeLimit); err == nil && len(episodes) > 0 {
		b.WriteString("\nSimilar past conversations:\n")
		for _, ep := range episodes {
			outcome := "unresolved"
			if ep.Successful {
				outcome = "resolved"
			}
			fmt.Fprintf(&b, "- %q (%s, %s)\n", ep.UserQuery, ep.Intent, outcome)
		}
	}

	if patterns, err := o.stores.Episodes.SuccessPatterns(ctx, turn.intent()); err == nil {
		if suggested := memory.SuggestActions(turn.intent(), patterns); len(suggested) > 0 {
			b.WriteString("\nApproaches that typically resolve this kind of request: ")
			for i, a := range suggested {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(string(a))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nRespond to the customer using only the verified information below. ")
	b.WriteString("Do not invent tracking details, and do not claim a message was sent unless it says so.\n\n")
	b.WriteString(deterministic)

	if elapsed := o.now().Sub(cp.Context.StartedAt); elapsed > 10*time.Minute {
		b.WriteString("\n\nThis conversation has been going on a while; acknowledge the customer's patience.")
	}
	return b.String()
}
