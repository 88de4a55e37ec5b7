package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wwexlabs/freightagent/internal/models"
)

func TestMinePatternsEmpty(t *testing.T) {
	p := MinePatterns(models.IntentTrackShipment, nil)
	assert.Equal(t, 0, p.TotalEpisodes)
	assert.Equal(t, 0.0, p.SuccessRate)
	assert.Empty(t, p.CommonActions)
}

func TestMinePatterns(t *testing.T) {
	episodes := []models.Episode{
		{
			Intent: models.IntentTrackShipment, Successful: true, ResolutionMinutes: 2,
			ActionsTaken: []models.Action{models.ActionSearchByPro, models.ActionProvideStatus},
		},
		{
			Intent: models.IntentTrackShipment, Successful: true, ResolutionMinutes: 4,
			ActionsTaken: []models.Action{models.ActionSearchByPro, models.ActionProvideStatus},
		},
		{
			Intent: models.IntentTrackShipment, Successful: false, ResolutionMinutes: 10,
			ActionsTaken: []models.Action{models.ActionRequestMoreInfo},
		},
		{
			Intent: models.IntentTrackShipment, Successful: true, ResolutionMinutes: 3,
			ActionsTaken: []models.Action{models.ActionSearchByPro, models.ActionContactCarrier},
		},
	}

	p := MinePatterns(models.IntentTrackShipment, episodes)
	assert.Equal(t, 4, p.TotalEpisodes)
	assert.InDelta(t, 0.75, p.SuccessRate, 0.001)
	assert.InDelta(t, 3.0, p.AvgResolutionMinutes, 0.001)

	// search_by_pro appears in all 3 successful episodes and ranks first;
	// the failed episode's request_more_info is not counted.
	require.NotEmpty(t, p.CommonActions)
	assert.Equal(t, models.ActionSearchByPro, p.CommonActions[0].Action)
	assert.Equal(t, 3, p.CommonActions[0].Count)
	for _, ac := range p.CommonActions {
		assert.NotEqual(t, models.ActionRequestMoreInfo, ac.Action)
	}
}

func TestSuggestActionsFromPatterns(t *testing.T) {
	patterns := &models.SuccessPatterns{
		Intent: models.IntentTrackShipment,
		CommonActions: []models.ActionCount{
			{Action: models.ActionSearchByPro, Count: 3},
			{Action: models.ActionProvideStatus, Count: 2},
		},
	}
	actions := SuggestActions(models.IntentTrackShipment, patterns)
	assert.Equal(t, []models.Action{models.ActionSearchByPro, models.ActionProvideStatus}, actions)
}

func TestSuggestActionsDefaults(t *testing.T) {
	tests := []struct {
		intent models.Intent
		first  models.Action
	}{
		{models.IntentTrackShipment, models.ActionSearchByPro},
		{models.IntentShipmentDelay, models.ActionSearchByPro},
		{models.IntentMissingShipment, models.ActionSearchByPro},
		{models.IntentProvideFeedback, models.ActionEscalate},
		{models.IntentGeneralInquiry, models.ActionProvideStatus},
	}
	for _, tt := range tests {
		actions := SuggestActions(tt.intent, nil)
		require.NotEmpty(t, actions, "intent %s", tt.intent)
		assert.Equal(t, tt.first, actions[0], "intent %s", tt.intent)
	}
}
