package nlu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wwexlabs/freightagent/internal/llm"
	"github.com/wwexlabs/freightagent/internal/models"
)

func TestClassifyParsesVerdict(t *testing.T) {
	completion := &fakeCompletion{
		response: `{"intent": "track_shipment", "confidence": 0.93, "reasoning": "asks where a shipment is"}`,
	}
	c := NewClassifier(completion, testStores(t), nil)

	got, err := c.Classify(context.Background(), "where is my shipment?", nil)
	require.NoError(t, err)
	assert.Equal(t, models.IntentTrackShipment, got.Intent)
	assert.InDelta(t, 0.93, got.Confidence, 1e-9)
	assert.Equal(t, "asks where a shipment is", got.Reasoning)
}

func TestClassifyUnknownIntentLabel(t *testing.T) {
	completion := &fakeCompletion{
		response: `{"intent": "order_pizza", "confidence": 0.9, "reasoning": ""}`,
	}
	c := NewClassifier(completion, testStores(t), nil)

	got, err := c.Classify(context.Background(), "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, models.IntentUnknown, got.Intent)
}

func TestClassifyClampsConfidence(t *testing.T) {
	completion := &fakeCompletion{
		response: `{"intent": "provide_feedback", "confidence": 1.7, "reasoning": ""}`,
	}
	c := NewClassifier(completion, testStores(t), nil)

	got, err := c.Classify(context.Background(), "this is unacceptable", nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Confidence)

	completion.response = `{"intent": "provide_feedback", "confidence": -0.2, "reasoning": ""}`
	got, err = c.Classify(context.Background(), "this is unacceptable", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Confidence)
}

func TestClassifyMalformedOutput(t *testing.T) {
	completion := &fakeCompletion{response: "sure, that looks like a tracking question"}
	c := NewClassifier(completion, testStores(t), nil)

	_, err := c.Classify(context.Background(), "where is it", nil)
	require.ErrorIs(t, err, llm.ErrMalformedOutput)
}

func TestClassifyPromptCarriesHistoryAndGuidance(t *testing.T) {
	stores := testStores(t)
	_, err := stores.Episodes.RecordEpisode(context.Background(), models.Episode{
		ID:         "ep-1",
		SessionID:  "s-1",
		UserQuery:  "where is my freight shipment",
		Intent:     models.IntentTrackShipment,
		Successful: true,
	})
	require.NoError(t, err)

	completion := &fakeCompletion{
		response: `{"intent": "track_shipment", "confidence": 0.9, "reasoning": ""}`,
	}
	c := NewClassifier(completion, stores, nil)

	history := []models.Message{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "how can I help?"},
	}
	_, err = c.Classify(context.Background(), "where is my freight", history)
	require.NoError(t, err)

	assert.Contains(t, completion.lastUser, "Conversation so far:")
	assert.Contains(t, completion.lastUser, "how can I help?")
	assert.Contains(t, completion.lastUser, "Classify this message: where is my freight")
	assert.Contains(t, completion.lastSystem, "Similar past conversations:")
	assert.Contains(t, completion.lastSystem, "track_shipment (resolved)")
}
