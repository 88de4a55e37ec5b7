package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wwexlabs/freightagent/internal/models"
)

func TestClarify(t *testing.T) {
	tests := []struct {
		name       string
		intent     models.Intent
		confidence float64
		entities   models.EntitySet
		wantAsk    bool
	}{
		{
			name:       "tracking with pro needs nothing",
			intent:     models.IntentTrackShipment,
			confidence: 0.95,
			entities:   models.EntitySet{ProNumbers: []string{"1234567"}},
			wantAsk:    false,
		},
		{
			name:       "tracking without identifiers asks for details",
			intent:     models.IntentTrackShipment,
			confidence: 0.95,
			entities:   models.EntitySet{},
			wantAsk:    true,
		},
		{
			name:       "tracking with route and carrier proceeds",
			intent:     models.IntentTrackShipment,
			confidence: 0.95,
			entities: models.EntitySet{
				Locations: []string{"Atlanta, GA", "Miami, FL"},
				Carriers:  []string{"FedEx Freight"},
			},
			wantAsk: false,
		},
		{
			name:       "tracking with one location asks",
			intent:     models.IntentTrackShipment,
			confidence: 0.95,
			entities: models.EntitySet{
				Locations: []string{"Atlanta, GA"},
				Carriers:  []string{"FedEx Freight"},
			},
			wantAsk: true,
		},
		{
			name:       "missing shipment without details escalates instead of asking",
			intent:     models.IntentMissingShipment,
			confidence: 0.95,
			entities:   models.EntitySet{},
			wantAsk:    false,
		},
		{
			name:       "low confidence tracking still asks for details not rephrase",
			intent:     models.IntentShipmentDelay,
			confidence: 0.40,
			entities:   models.EntitySet{ProNumbers: []string{"1234567"}},
			wantAsk:    false,
		},
		{
			name:       "low confidence tracking with full details asks for rephrase",
			intent:     models.IntentTrackShipment,
			confidence: 0.40,
			entities: models.EntitySet{
				Locations: []string{"Atlanta, GA", "Miami, FL"},
				Carriers:  []string{"FedEx Freight"},
			},
			wantAsk: true,
		},
		{
			name:       "low confidence general asks for rephrase",
			intent:     models.IntentGeneralInquiry,
			confidence: 0.55,
			entities:   models.EntitySet{},
			wantAsk:    true,
		},
		{
			name:       "confident general inquiry proceeds",
			intent:     models.IntentGeneralInquiry,
			confidence: 0.85,
			entities:   models.EntitySet{},
			wantAsk:    false,
		},
		{
			name:       "unknown intent below threshold asks",
			intent:     models.IntentUnknown,
			confidence: 0.30,
			entities:   models.EntitySet{},
			wantAsk:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			question, ask := Clarify(tt.intent, tt.confidence, tt.entities)
			assert.Equal(t, tt.wantAsk, ask)
			if ask {
				assert.NotEmpty(t, question)
			} else {
				assert.Empty(t, question)
			}
		})
	}
}

func TestClarifyIntentSpecificWording(t *testing.T) {
	q, ask := Clarify(models.IntentShipmentDelay, 0.9, models.EntitySet{})
	assert.True(t, ask)
	assert.Contains(t, q, "delay")

	q, ask = Clarify(models.IntentTrackShipment, 0.9, models.EntitySet{})
	assert.True(t, ask)
	assert.Contains(t, q, "track")
}
