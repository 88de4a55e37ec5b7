package tracking

import (
	"context"
	"strings"
	"time"

	"github.com/wwexlabs/freightagent/internal/models"
)

// Mock serves shipments from an in-memory fixture set. It backs local
// development and the demo mode when no tracking API is configured.
type Mock struct {
	shipments []models.Shipment
}

var _ Tracker = (*Mock)(nil)

// NewMock creates a mock tracker with the default fixture set.
func NewMock() *Mock {
	return &Mock{shipments: fixtureShipments()}
}

// NewMockWith creates a mock tracker serving the given shipments.
func NewMockWith(shipments []models.Shipment) *Mock {
	return &Mock{shipments: shipments}
}

// Track looks up a fixture by PRO number, case-insensitively. A carrier hint
// that names a different carrier than the fixture's is treated as no match.
func (m *Mock) Track(_ context.Context, pro, carrierHint string) (*models.Shipment, error) {
	for i := range m.shipments {
		s := m.shipments[i]
		if !strings.EqualFold(s.ProNumber, pro) {
			continue
		}
		if carrierHint != "" && !carrierMatches(s.Carrier, carrierHint) {
			continue
		}
		return &s, nil
	}
	return nil, ErrNotFound
}

// SearchByDetails matches fixtures by case-insensitive substring on origin,
// destination, and carrier. Empty arguments match everything.
func (m *Mock) SearchByDetails(_ context.Context, origin, destination, carrier string) ([]models.Shipment, error) {
	var matches []models.Shipment
	for _, s := range m.shipments {
		if origin != "" && !containsFold(s.Origin, origin) {
			continue
		}
		if destination != "" && !containsFold(s.Destination, destination) {
			continue
		}
		if carrier != "" && !carrierMatches(s.Carrier, carrier) {
			continue
		}
		matches = append(matches, s)
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return matches, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// carrierMatches accepts partial carrier names in either direction, so
// "FedEx" matches "FedEx Freight" and vice versa.
func carrierMatches(carrier, hint string) bool {
	return containsFold(carrier, hint) || containsFold(hint, carrier)
}

func fixtureShipments() []models.Shipment {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	pickup1 := base
	eta1 := base.Add(4 * 24 * time.Hour)
	pickup2 := base.Add(-5 * 24 * time.Hour)
	delivered2 := base.Add(-2 * 24 * time.Hour)
	pickup3 := base.Add(-3 * 24 * time.Hour)
	eta3 := base.Add(2 * 24 * time.Hour)

	return []models.Shipment{
		{
			ProNumber:         "WE123456789",
			Carrier:           "FedEx Freight",
			Origin:            "Atlanta, GA",
			Destination:       "Miami, FL",
			Status:            models.StatusInTransit,
			PickupDate:        &pickup1,
			EstimatedDelivery: &eta1,
			WeightLbs:         1200,
			Events: []models.TrackingEvent{
				{Timestamp: base, Location: "Atlanta, GA", Description: "Picked up"},
				{Timestamp: base.Add(12 * time.Hour), Location: "Macon, GA", Description: "Departed terminal"},
			},
		},
		{
			ProNumber:   "WE987654321",
			Carrier:     "YRC Freight",
			Origin:      "Dallas, TX",
			Destination: "Houston, TX",
			Status:      models.StatusDelivered,
			PickupDate:  &pickup2,
			DeliveredAt: &delivered2,
			WeightLbs:   800,
			Events: []models.TrackingEvent{
				{Timestamp: pickup2, Location: "Dallas, TX", Description: "Picked up"},
				{Timestamp: delivered2, Location: "Houston, TX", Description: "Delivered, signed by R. ALVAREZ"},
			},
		},
		{
			ProNumber:         "WE555444333",
			Carrier:           "UPS Freight",
			Origin:            "Memphis, TN",
			Destination:       "Nashville, TN",
			Status:            models.StatusDelayed,
			PickupDate:        &pickup3,
			EstimatedDelivery: &eta3,
			WeightLbs:         450.5,
			Events: []models.TrackingEvent{
				{Timestamp: pickup3, Location: "Memphis, TN", Description: "Picked up"},
				{Timestamp: pickup3.Add(24 * time.Hour), Location: "Jackson, TN", Description: "Delayed: mechanical issue"},
			},
		},
		{
			ProNumber:         "1234567",
			Carrier:           "Old Dominion",
			Origin:            "Chicago, IL",
			Destination:       "Denver, CO",
			Status:            models.StatusOutForDelivery,
			PickupDate:        &pickup3,
			EstimatedDelivery: &base,
			WeightLbs:         2100,
			Events: []models.TrackingEvent{
				{Timestamp: pickup3, Location: "Chicago, IL", Description: "Picked up"},
				{Timestamp: base, Location: "Denver, CO", Description: "Out for delivery"},
			},
		},
	}
}
