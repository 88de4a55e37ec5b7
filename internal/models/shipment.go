package models

import "time"

// ShipmentStatus is the lifecycle state of a freight shipment.
type ShipmentStatus string

// Shipment lifecycle states.
const (
	StatusPickupScheduled ShipmentStatus = "pickup_scheduled"
	StatusInTransit       ShipmentStatus = "in_transit"
	StatusOutForDelivery  ShipmentStatus = "out_for_delivery"
	StatusDelivered       ShipmentStatus = "delivered"
	StatusDelayed         ShipmentStatus = "delayed"
	StatusException       ShipmentStatus = "exception"
	StatusUnknown         ShipmentStatus = "unknown"
)

// ParseShipmentStatus normalizes a raw status string.
func ParseShipmentStatus(s string) ShipmentStatus {
	switch ShipmentStatus(s) {
	case StatusPickupScheduled, StatusInTransit, StatusOutForDelivery,
		StatusDelivered, StatusDelayed, StatusException:
		return ShipmentStatus(s)
	default:
		return StatusUnknown
	}
}

// TrackingEvent is a single scan/status event on a shipment.
type TrackingEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
}

// Shipment is a tracked freight shipment as reported by a carrier.
type Shipment struct {
	ProNumber         string          `json:"pro_number"`
	Carrier           string          `json:"carrier"`
	Origin            string          `json:"origin"`
	Destination       string          `json:"destination"`
	Status            ShipmentStatus  `json:"status"`
	PickupDate        *time.Time      `json:"pickup_date,omitempty"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery,omitempty"`
	DeliveredAt       *time.Time      `json:"delivered_at,omitempty"`
	WeightLbs         float64         `json:"weight_lbs,omitempty"`
	Events            []TrackingEvent `json:"events,omitempty"`
}
