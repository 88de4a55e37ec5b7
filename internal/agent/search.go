package agent

import (
	"context"
	"errors"

	"github.com/wwexlabs/freightagent/internal/models"
	"github.com/wwexlabs/freightagent/internal/tracking"
)

// search is the SearchShipment state: resolve by identifier first, then by
// descriptive details. Provider errors are routed as not-found rather than
// failing the turn; the contact coordinator picks those up.
func (o *Orchestrator) search(ctx context.Context, cp *models.Checkpoint, turn *turnState) {
	entities := cp.Context.Entities

	if pro := entities.Identifier(); pro != "" {
		turn.addAction(models.ActionSearchByPro)
		shipment, err := o.tracker.Track(ctx, pro, entities.Carrier())
		if err != nil {
			if !errors.Is(err, tracking.ErrNotFound) {
				o.logger.Warn("tracking lookup failed",
					"session_id", cp.Context.SessionID, "pro", pro, "error", err)
			}
			turn.searchStatus = searchNotFound
			return
		}
		o.found(cp, turn, shipment)
		return
	}

	if len(entities.Locations) == 0 && len(entities.Carriers) == 0 {
		turn.searchStatus = searchNeedInfo
		return
	}

	turn.addAction(models.ActionSearchByDetails)
	origin, destination := entities.Route()
	matches, err := o.tracker.SearchByDetails(ctx, origin, destination, entities.Carrier())
	if err != nil {
		if !errors.Is(err, tracking.ErrNotFound) {
			o.logger.Warn("detail search failed",
				"session_id", cp.Context.SessionID, "error", err)
		}
		turn.searchStatus = searchNotFound
		return
	}

	switch len(matches) {
	case 0:
		turn.searchStatus = searchNotFound
	case 1:
		o.found(cp, turn, &matches[0])
	default:
		turn.searchStatus = searchMultipleFound
		turn.candidates = matches
	}
}

func (o *Orchestrator) found(cp *models.Checkpoint, turn *turnState, shipment *models.Shipment) {
	turn.searchStatus = searchFound
	turn.shipment = shipment
	turn.addAction(models.ActionProvideStatus)
	cp.Context.CurrentShipment = shipment
}
