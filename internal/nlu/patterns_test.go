package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPatternsProNumbers(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      []string
	}{
		{"explicit pro", "Track PRO 1234567 please", []string{"1234567"}},
		{"pro with hash", "PRO#9876543210", []string{"9876543210"}},
		{"tracking keyword", "tracking: 7654321", []string{"7654321"}},
		{"bare digits", "Any update on 12345678?", []string{"12345678"}},
		{"carrier prefixed", "shipment WE123456789 from Atlanta", []string{"WE123456789"}},
		{"carrier prefixed ten digits", "update on WE1234567890?", []string{"WE1234567890"}},
		{"explicit ten digits", "Track PRO 9876543210", []string{"9876543210"}},
		{"too short", "order 123456", nil},
		{"too long bare", "confirmation 123456789012345", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := ExtractPatterns(tt.utterance)
			assert.Equal(t, tt.want, set.ProNumbers)
		})
	}
}

func TestExtractPatternsPhoneSuppression(t *testing.T) {
	// A phone number must not surface as a tracking number.
	set := ExtractPatterns("call me at 555-123-4567")
	assert.Empty(t, set.ProNumbers)

	set = ExtractPatterns("call (404) 555-0123 about PRO 1234567")
	assert.Equal(t, []string{"1234567"}, set.ProNumbers)

	// A bare ten-digit run with no PRO context reads as a phone number.
	set = ExtractPatterns("reach me at 5551234567")
	assert.Empty(t, set.ProNumbers)

	// Suppression is by exact span: a carrier-prefixed id sharing digits
	// with a phone number in the same message still comes through.
	set = ExtractPatterns("call 404-555-0123 about WE4045550123")
	assert.Equal(t, []string{"WE4045550123"}, set.ProNumbers)
}

func TestExtractPatternsLocations(t *testing.T) {
	set := ExtractPatterns("shipment from Atlanta, GA to Miami, FL")
	assert.Equal(t, []string{"Atlanta, GA", "Miami, FL"}, set.Locations)

	set = ExtractPatterns("deliver to 30301")
	assert.Equal(t, []string{"30301"}, set.Locations)
}

func TestExtractPatternsCarriers(t *testing.T) {
	set := ExtractPatterns("it shipped with fedex yesterday")
	assert.Equal(t, []string{"FedEx Freight"}, set.Carriers)
	assert.Equal(t, []string{"yesterday"}, set.Dates)

	set = ExtractPatterns("Old Dominion or ODFL, same thing")
	assert.Equal(t, []string{"Old Dominion"}, set.Carriers)
}

func TestExtractPatternsWeightsAndDates(t *testing.T) {
	set := ExtractPatterns("pallet is 450.5 lbs, pickup 3/15/2025")
	assert.Equal(t, []string{"450.5 lbs"}, set.Weights)
	assert.Equal(t, []string{"3/15/2025"}, set.Dates)
}

func TestExtractPatternsUrgency(t *testing.T) {
	set := ExtractPatterns("This is URGENT, where is my freight? Still waiting!")
	assert.Contains(t, set.UrgencyIndicators, "urgent")
	assert.Contains(t, set.UrgencyIndicators, "where is")
	assert.Contains(t, set.UrgencyIndicators, "still waiting")
}

func TestExtractPatternsEmptyUtterance(t *testing.T) {
	set := ExtractPatterns("hello there")
	assert.True(t, set.Empty())
}

func TestValidatePro(t *testing.T) {
	assert.True(t, ValidatePro("1234567"))
	assert.True(t, ValidatePro("WE123456789"))
	assert.True(t, ValidatePro("123-456-7890"))
	assert.False(t, ValidatePro("123456"))
	assert.False(t, ValidatePro("1234567890123"))
	assert.False(t, ValidatePro(""))
}
