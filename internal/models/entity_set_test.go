package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntitySetMerge(t *testing.T) {
	s := EntitySet{
		ProNumbers: []string{"1234567"},
		Locations:  []string{"Atlanta, GA"},
	}
	s.Merge(EntitySet{
		ProNumbers: []string{"1234567", "7654321"},
		Locations:  []string{"Miami, FL"},
		Carriers:   []string{"FedEx Freight"},
	})

	assert.Equal(t, []string{"1234567", "7654321"}, s.ProNumbers)
	assert.Equal(t, []string{"Atlanta, GA", "Miami, FL"}, s.Locations)
	assert.Equal(t, []string{"FedEx Freight"}, s.Carriers)
}

func TestEntitySetMergeSkipsEmptyValues(t *testing.T) {
	var s EntitySet
	s.Merge(EntitySet{Carriers: []string{"", "YRC Freight"}})
	assert.Equal(t, []string{"YRC Freight"}, s.Carriers)
}

func TestEntitySetIdentifier(t *testing.T) {
	var s EntitySet
	assert.False(t, s.HasIdentifier())
	assert.Equal(t, "", s.Identifier())

	s.Merge(EntitySet{ProNumbers: []string{"9876543", "1112223"}})
	assert.True(t, s.HasIdentifier())
	assert.Equal(t, "9876543", s.Identifier())
}

func TestEntitySetRoute(t *testing.T) {
	s := EntitySet{Locations: []string{"Dallas, TX", "Houston, TX"}}
	origin, dest := s.Route()
	assert.Equal(t, "Dallas, TX", origin)
	assert.Equal(t, "Houston, TX", dest)

	one := EntitySet{Locations: []string{"Memphis, TN"}}
	origin, dest = one.Route()
	assert.Equal(t, "Memphis, TN", origin)
	assert.Equal(t, "", dest)
}

func TestEntitySetEmpty(t *testing.T) {
	var s EntitySet
	assert.True(t, s.Empty())
	s.Merge(EntitySet{UrgencyIndicators: []string{"urgent"}})
	assert.False(t, s.Empty())
	assert.True(t, s.Urgent())
}

func TestParseIntent(t *testing.T) {
	tests := []struct {
		in   string
		want Intent
	}{
		{"track_shipment", IntentTrackShipment},
		{"shipment_delay", IntentShipmentDelay},
		{"missing_shipment", IntentMissingShipment},
		{"general_inquiry", IntentGeneralInquiry},
		{"provide_feedback", IntentProvideFeedback},
		{"", IntentUnknown},
		{"gibberish", IntentUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseIntent(tt.in), "input %q", tt.in)
	}
}

func TestIntentShipmentScoped(t *testing.T) {
	assert.True(t, IntentTrackShipment.ShipmentScoped())
	assert.True(t, IntentShipmentDelay.ShipmentScoped())
	assert.True(t, IntentMissingShipment.ShipmentScoped())
	assert.False(t, IntentGeneralInquiry.ShipmentScoped())
	assert.False(t, IntentProvideFeedback.ShipmentScoped())
	assert.False(t, IntentUnknown.ShipmentScoped())
}

func TestParseShipmentStatus(t *testing.T) {
	assert.Equal(t, StatusInTransit, ParseShipmentStatus("in_transit"))
	assert.Equal(t, StatusUnknown, ParseShipmentStatus("teleported"))
}
