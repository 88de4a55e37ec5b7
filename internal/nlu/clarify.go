package nlu

import "github.com/wwexlabs/freightagent/internal/models"

// ConfidenceThreshold is the classification confidence below which the
// engine asks the customer to rephrase instead of acting.
const ConfidenceThreshold = 0.70

// Clarify decides whether the turn needs a clarification question before any
// action is taken. Rules, in order:
//
//  1. A shipment-scoped intent with a PRO number never needs clarification.
//  2. Tracking and delay inquiries without a PRO need an origin and
//     destination plus a carrier; otherwise ask for them in intent-specific
//     wording. Missing-shipment reports are exempt: without details the
//     engine escalates to the carrier instead of interrogating an already
//     frustrated customer.
//  3. Anything else classified below the confidence threshold, whatever the
//     intent, gets a rephrase request.
func Clarify(intent models.Intent, confidence float64, entities models.EntitySet) (string, bool) {
	if intent.ShipmentScoped() && entities.HasIdentifier() {
		return "", false
	}

	if intent.ShipmentScoped() && intent != models.IntentMissingShipment {
		if len(entities.Locations) < 2 || len(entities.Carriers) == 0 {
			return detailsAsk(intent), true
		}
	}

	if confidence < ConfidenceThreshold {
		return "I want to make sure I help with the right thing. Could you rephrase your request with a bit more detail?", true
	}
	return "", false
}

func detailsAsk(intent models.Intent) string {
	if intent == models.IntentShipmentDelay {
		return "I can look into the delay. Could you share the PRO number, or the pickup and delivery cities along with the carrier?"
	}
	return "I'd be happy to help track your shipment. Could you provide the PRO number, or the origin city, destination city, and carrier?"
}
