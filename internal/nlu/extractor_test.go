package nlu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wwexlabs/freightagent/internal/memory"
	"github.com/wwexlabs/freightagent/internal/models"
)

// fakeCompletion returns canned responses, recording the prompts it saw.
type fakeCompletion struct {
	response   string
	err        error
	lastSystem string
	lastUser   string
	calls      int
}

func (f *fakeCompletion) GenerateWithSystem(_ context.Context, system, user string) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastUser = user
	return f.response, f.err
}

func testStores(t *testing.T) *memory.Stores {
	t.Helper()
	stores := memory.NewInMemoryStores()
	if err := stores.Seed(context.Background()); err != nil {
		t.Fatalf("seed stores: %v", err)
	}
	return stores
}

func TestExtractMergesPatternAndLLMResults(t *testing.T) {
	completion := &fakeCompletion{
		response: `{"pro_numbers": [], "locations": ["Chicago, IL"], "dates": [], "carriers": ["Estes Express"], "weights": [], "reference_numbers": ["BOL-4411"]}`,
	}
	e := NewExtractor(completion, testStores(t), nil)

	set := e.Extract(context.Background(), "PRO 1234567 out of Chicago with Estes, BOL-4411")

	assert.Equal(t, []string{"1234567"}, set.ProNumbers)
	assert.Contains(t, set.Locations, "Chicago, IL")
	assert.Equal(t, []string{"Estes Express"}, set.Carriers)
	assert.Equal(t, []string{"BOL-4411"}, set.ReferenceNumbers)
}

func TestExtractSwallowsLLMFailure(t *testing.T) {
	completion := &fakeCompletion{err: errors.New("model unreachable")}
	e := NewExtractor(completion, testStores(t), nil)

	set := e.Extract(context.Background(), "track PRO 7654321")
	assert.Equal(t, []string{"7654321"}, set.ProNumbers)
}

func TestExtractSwallowsMalformedLLMOutput(t *testing.T) {
	completion := &fakeCompletion{response: "I cannot produce JSON today"}
	e := NewExtractor(completion, testStores(t), nil)

	set := e.Extract(context.Background(), "track PRO 7654321")
	assert.Equal(t, []string{"7654321"}, set.ProNumbers)
}

func TestExtractValidatesLLMProposedProNumbers(t *testing.T) {
	completion := &fakeCompletion{
		response: `{"pro_numbers": ["123", "9998887776"], "locations": [], "dates": [], "carriers": [], "weights": [], "reference_numbers": []}`,
	}
	e := NewExtractor(completion, testStores(t), nil)

	set := e.Extract(context.Background(), "any news?")
	assert.Equal(t, []string{"9998887776"}, set.ProNumbers)
}

func TestExtractNilCompletionUsesPatternsOnly(t *testing.T) {
	e := NewExtractor(nil, testStores(t), nil)
	set := e.Extract(context.Background(), "urgent: track PRO 1234567")
	assert.Equal(t, []string{"1234567"}, set.ProNumbers)
	assert.Contains(t, set.UrgencyIndicators, "urgent")
}

func TestAccumulateWindowsUserMessages(t *testing.T) {
	e := NewExtractor(nil, testStores(t), nil)

	history := []models.Message{
		{Role: models.RoleUser, Content: "old message mentioning XPO"},                // outside window
		{Role: models.RoleUser, Content: "shipment from Dallas, TX"},
		{Role: models.RoleAssistant, Content: "PRO 9999999 noted"},                   // assistant: ignored
		{Role: models.RoleUser, Content: "going to Houston, TX"},
		{Role: models.RoleUser, Content: "carrier is YRC"},
	}

	set := e.Accumulate(context.Background(), history, "the PRO is 1234567")

	assert.Equal(t, []string{"1234567"}, set.ProNumbers)
	assert.Equal(t, []string{"Dallas, TX", "Houston, TX"}, set.Locations)
	assert.Equal(t, []string{"YRC Freight"}, set.Carriers)
	// The oldest user message fell outside the 4-message window.
	assert.NotContains(t, set.Carriers, "XPO Logistics")
}
