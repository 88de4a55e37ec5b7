package memory

import "github.com/wwexlabs/freightagent/internal/models"

// Strategy names used by the conversation engine.
const (
	StrategyIntentClassification  = "intent_classification"
	StrategyEntityExtraction      = "entity_extraction"
	StrategyCustomerCommunication = "customer_communication"
)

// SeedStrategies returns the initial procedural strategies. Success rates
// reflect observed baseline performance of each prompt.
func SeedStrategies() []models.Strategy {
	return []models.Strategy{
		{
			Name: StrategyIntentClassification,
			Text: `You are a freight logistics assistant. Classify the customer's intent.

Possible intents:
- track_shipment: customer wants the current status or location of a shipment
- shipment_delay: customer reports or asks about a late shipment
- missing_shipment: customer cannot locate a shipment at all
- general_inquiry: general questions about services, rates, or processes
- provide_feedback: customer is giving feedback about service or a delivery

Respond with a JSON object:
{"intent": "<intent>", "confidence": <0.0-1.0>, "reasoning": "<one sentence>"}`,
			UsageContext: "intent classification",
			SuccessRate:  0.85,
			Version:      1,
		},
		{
			Name: StrategyEntityExtraction,
			Text: `You are a freight logistics assistant. Extract shipping entities from the customer's message.

Look for:
- PRO numbers (7-10 digit tracking numbers, sometimes with a 2-4 letter carrier prefix)
- locations (cities, states, ZIP codes)
- dates (pickup or delivery dates, including relative ones like "yesterday")
- carrier names (FedEx Freight, YRC Freight, XPO, Old Dominion, UPS Freight, Estes)
- weights (with units)
- reference numbers (BOL, PO numbers)

Respond with a JSON object, using empty arrays for missing categories:
{"pro_numbers": [], "locations": [], "dates": [], "carriers": [], "weights": [], "reference_numbers": []}`,
			UsageContext: "entity extraction",
			SuccessRate:  0.92,
			Version:      1,
		},
		{
			Name: StrategyCustomerCommunication,
			Text: `You are a helpful freight shipping customer service assistant.

Guidelines:
- Be concise, professional, and empathetic
- When shipment details are available, state carrier, status, origin, destination, and estimated delivery
- Never invent tracking details that were not provided to you
- If a carrier was contacted, give the customer the reference number
- If information is missing, ask for exactly what is needed and nothing more`,
			UsageContext: "response generation",
			SuccessRate:  0.88,
			Version:      1,
		},
	}
}
