package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wwexlabs/freightagent/internal/mail"
	"github.com/wwexlabs/freightagent/internal/models"
)

// fallbackCarrier is contacted when the customer never named one.
const fallbackCarrier = "FedEx Freight"

// contact is the ContactCarrier state: compose and dispatch a carrier-facing
// message. Missing-shipment reports escalate with urgent priority; everything
// else sends a routine status or identifier request. The dispatch attempt is
// recorded and carrier_contacted set whether or not the transport succeeds.
func (o *Orchestrator) contact(ctx context.Context, cp *models.Checkpoint, turn *turnState) {
	entities := cp.Context.Entities

	carrier := entities.Carrier()
	if carrier == "" {
		carrier = fallbackCarrier
	}
	referenceID := o.referenceID()
	origin, destination := entities.Route()

	vars := map[string]string{
		"carrier":      carrier,
		"reference_id": referenceID,
		"origin":       orUnknown(origin),
		"destination":  orUnknown(destination),
		"pickup_date":  strings.Join(entities.Dates, ", "),
	}

	var template string
	priority := mail.PriorityRoutine
	switch {
	case turn.intent() == models.IntentMissingShipment:
		template = mail.TemplateEscalation
		priority = mail.PriorityUrgent
		vars["pro_number"] = orUnknown(entities.Identifier())
		vars["issue"] = "Customer reports shipment as missing or delayed"
		turn.addAction(models.ActionEscalate)
		cp.Context.Escalated = true
	case entities.HasIdentifier():
		template = mail.TemplateStatusUpdate
		vars["pro_number"] = entities.Identifier()
		if cp.Context.CurrentShipment != nil {
			vars["last_status"] = string(cp.Context.CurrentShipment.Status)
		}
	default:
		template = mail.TemplateIdentifierRequest
	}

	turn.addAction(models.ActionContactCarrier)
	turn.addAction(models.ActionSendEmail)

	result, err := o.mailer.Send(ctx, mail.Message{
		To:          o.directory.Contact(carrier),
		Template:    template,
		Vars:        vars,
		Priority:    priority,
		ReferenceID: referenceID,
	})

	record := models.DispatchRecord{
		Timestamp:   o.now(),
		Carrier:     carrier,
		Recipient:   o.directory.Contact(carrier),
		Template:    template,
		ReferenceID: referenceID,
		MessageID:   result.MessageID,
		Success:     err == nil,
	}
	if err != nil {
		o.logger.Warn("carrier dispatch failed",
			"session_id", cp.Context.SessionID, "carrier", carrier, "error", err)
	}

	cp.Dispatches = append(cp.Dispatches, record)
	cp.Context.CarrierContacted = true
	if record.Success {
		cp.Context.EmailSent = true
	}
	turn.dispatch = &record
}

// referenceID builds a correlation id for carrier messages, unique enough to
// match replies back to the session.
func (o *Orchestrator) referenceID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("WW%d%s", o.now().Unix(), suffix)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
