// Package tracking looks up freight shipments by PRO number or by shipment
// details against a carrier tracking API, with a fixture-backed implementation
// for development and tests.
package tracking

import (
	"context"
	"errors"

	"github.com/wwexlabs/freightagent/internal/models"
)

// ErrNotFound is returned when no shipment matches the lookup.
var ErrNotFound = errors.New("shipment not found")

// Tracker resolves customer queries to shipments.
type Tracker interface {
	// Track looks up a shipment by PRO number. carrierHint narrows the
	// lookup when the customer named a carrier; it may be empty.
	Track(ctx context.Context, pro, carrierHint string) (*models.Shipment, error)

	// SearchByDetails finds shipments matching the given origin,
	// destination, and carrier. Any argument may be empty; empty arguments
	// match everything.
	SearchByDetails(ctx context.Context, origin, destination, carrier string) ([]models.Shipment, error)
}
