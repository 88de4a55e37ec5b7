package models

// Intent classifies what the customer is trying to accomplish.
type Intent string

// Known conversation intents.
const (
	IntentTrackShipment   Intent = "track_shipment"
	IntentShipmentDelay   Intent = "shipment_delay"
	IntentMissingShipment Intent = "missing_shipment"
	IntentGeneralInquiry  Intent = "general_inquiry"
	IntentProvideFeedback Intent = "provide_feedback"
	IntentUnknown         Intent = "unknown"
)

// ParseIntent normalizes a raw intent string, returning IntentUnknown for
// anything unrecognized.
func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentTrackShipment, IntentShipmentDelay, IntentMissingShipment,
		IntentGeneralInquiry, IntentProvideFeedback:
		return Intent(s)
	default:
		return IntentUnknown
	}
}

// ShipmentScoped reports whether the intent concerns a specific shipment
// (and therefore benefits from an identifier or route details).
func (i Intent) ShipmentScoped() bool {
	switch i {
	case IntentTrackShipment, IntentShipmentDelay, IntentMissingShipment:
		return true
	default:
		return false
	}
}

// Action is a step the engine took while handling a turn.
type Action string

// Actions recorded in episodic memory.
const (
	ActionSearchByPro     Action = "search_by_pro"
	ActionSearchByDetails Action = "search_by_details"
	ActionContactCarrier  Action = "contact_carrier"
	ActionSendEmail       Action = "send_email"
	ActionRequestMoreInfo Action = "request_more_info"
	ActionProvideStatus   Action = "provide_status"
	ActionEscalate        Action = "escalate"
)
