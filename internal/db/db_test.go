// Package db provides integration tests for SurrealDB operations.
package db

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/wwexlabs/freightagent/internal/models"
)

var testDB *Client
var testContainer testcontainers.Container

// TestMain sets up and tears down the SurrealDB container for all tests.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	// Start SurrealDB container
	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0-beta.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start SurrealDB container: %v", err)
	}

	// Get container host and port
	host, err := testContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// Workaround: testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	mappedPort, err := testContainer.MappedPort(ctx, "8000")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}

	// Connect to test database
	testDB, err = NewClient(ctx, Config{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
		Namespace: "test",
		Database:  "test",
		Username:  "root",
		Password:  "root",
		AuthLevel: "root",
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	// Initialize schema
	if err := testDB.InitSchema(ctx, 384); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Run tests
	code := m.Run()

	// Cleanup
	_ = testDB.Close(ctx)
	_ = testContainer.Terminate(ctx)

	os.Exit(code)
}

// dummyEmbedding returns a dummy embedding vector for testing.
// Uses 384 dimensions to match the default all-minilm:l6-v2 model.
func dummyEmbedding() []float32 {
	embedding := make([]float32, 384)
	for i := range embedding {
		embedding[i] = float32(i) / 384.0
	}
	return embedding
}

func skipShort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

// =============================================================================
// FACT TESTS
// =============================================================================

func TestUpsertAndSearchFacts(t *testing.T) {
	skipShort(t)
	ctx := context.Background()

	fact, err := testDB.QueryUpsertFact(ctx, "fact-test-1", models.Fact{
		Subject:    "session_abc",
		Predicate:  "mentioned_pro_number",
		Object:     "1234567",
		Confidence: 0.9,
		Source:     "nlu_extraction",
	}, dummyEmbedding())
	if err != nil {
		t.Fatalf("QueryUpsertFact failed: %v", err)
	}
	if fact.Subject != "session_abc" {
		t.Errorf("Expected subject 'session_abc', got %q", fact.Subject)
	}
	if fact.Confidence != 0.9 {
		t.Errorf("Expected confidence 0.9, got %v", fact.Confidence)
	}

	// Upsert again with higher confidence - should update, not duplicate
	updated, err := testDB.QueryUpsertFact(ctx, "fact-test-1", models.Fact{
		Subject:    "session_abc",
		Predicate:  "mentioned_pro_number",
		Object:     "1234567",
		Confidence: 0.95,
		Source:     "nlu_extraction",
	}, dummyEmbedding())
	if err != nil {
		t.Fatalf("Second QueryUpsertFact failed: %v", err)
	}
	if updated.Confidence != 0.95 {
		t.Errorf("Expected updated confidence 0.95, got %v", updated.Confidence)
	}

	// Search should find the fact via full-text
	results, err := testDB.QuerySearchFacts(ctx, "mentioned pro number", dummyEmbedding(), 5)
	if err != nil {
		t.Fatalf("QuerySearchFacts failed: %v", err)
	}
	if len(results) == 0 {
		t.Error("QuerySearchFacts should return results")
	}
}

func TestTouchFact(t *testing.T) {
	skipShort(t)
	ctx := context.Background()

	_, err := testDB.QueryUpsertFact(ctx, "fact-touch-1", models.Fact{
		Subject:    "session_touch",
		Predicate:  "urgency_level",
		Object:     "high",
		Confidence: 0.7,
	}, dummyEmbedding())
	if err != nil {
		t.Fatalf("QueryUpsertFact failed: %v", err)
	}

	if err := testDB.QueryTouchFact(ctx, "fact-touch-1"); err != nil {
		t.Fatalf("QueryTouchFact failed: %v", err)
	}
}

// =============================================================================
// EPISODE TESTS
// =============================================================================

func TestCreateAndSearchEpisodes(t *testing.T) {
	skipShort(t)
	ctx := context.Background()

	ep := models.Episode{
		SessionID:         "session_ep_1",
		UserQuery:         "Where is my shipment with PRO 1234567?",
		Intent:            models.IntentTrackShipment,
		ActionsTaken:      []models.Action{models.ActionSearchByPro, models.ActionProvideStatus},
		Successful:        true,
		ResolutionMinutes: 2.5,
		Satisfaction:      5,
		ProNumber:         "1234567",
		Carrier:           "FedEx Freight",
	}

	created, err := testDB.QueryCreateEpisode(ctx, "episode-test-1", ep, dummyEmbedding())
	if err != nil {
		t.Fatalf("QueryCreateEpisode failed: %v", err)
	}
	if created.Intent != models.IntentTrackShipment {
		t.Errorf("Expected intent track_shipment, got %q", created.Intent)
	}
	if len(created.ActionsTaken) != 2 {
		t.Errorf("Expected 2 actions, got %d", len(created.ActionsTaken))
	}

	// Search with intent filter
	intent := string(models.IntentTrackShipment)
	results, err := testDB.QuerySearchEpisodes(ctx, "shipment tracking", dummyEmbedding(), &intent, 3)
	if err != nil {
		t.Fatalf("QuerySearchEpisodes failed: %v", err)
	}
	if len(results) == 0 {
		t.Error("QuerySearchEpisodes should return results")
	}

	// By-intent listing
	byIntent, err := testDB.QueryEpisodesByIntent(ctx, string(models.IntentTrackShipment), 10)
	if err != nil {
		t.Fatalf("QueryEpisodesByIntent failed: %v", err)
	}
	if len(byIntent) == 0 {
		t.Error("QueryEpisodesByIntent should return results")
	}
}

// =============================================================================
// STRATEGY TESTS
// =============================================================================

func TestStrategyLifecycle(t *testing.T) {
	skipShort(t)
	ctx := context.Background()

	// Missing strategy returns ErrNotFound
	_, err := testDB.QueryGetStrategy(ctx, "does_not_exist")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing strategy, got %v", err)
	}

	// Upsert
	created, err := testDB.QueryUpsertStrategy(ctx, models.Strategy{
		Name:        "test_classification",
		Text:        "Classify the customer intent.",
		SuccessRate: 0.85,
		Version:     1,
	})
	if err != nil {
		t.Fatalf("QueryUpsertStrategy failed: %v", err)
	}
	if created.Version != 1 {
		t.Errorf("Expected version 1, got %d", created.Version)
	}

	// Get
	fetched, err := testDB.QueryGetStrategy(ctx, "test_classification")
	if err != nil {
		t.Fatalf("QueryGetStrategy failed: %v", err)
	}
	if fetched.Text != "Classify the customer intent." {
		t.Errorf("Unexpected strategy text: %q", fetched.Text)
	}

	// Record outcome: 0.85*0.8 + 0.2*1.0 = 0.88
	if err := testDB.QueryRecordStrategyOutcome(ctx, "test_classification", true); err != nil {
		t.Fatalf("QueryRecordStrategyOutcome failed: %v", err)
	}
	afterOutcome, err := testDB.QueryGetStrategy(ctx, "test_classification")
	if err != nil {
		t.Fatalf("QueryGetStrategy after outcome failed: %v", err)
	}
	if afterOutcome.SuccessRate < 0.87 || afterOutcome.SuccessRate > 0.89 {
		t.Errorf("Expected success rate near 0.88, got %v", afterOutcome.SuccessRate)
	}
	if afterOutcome.Version != 1 {
		t.Errorf("RecordOutcome should not bump version, got %d", afterOutcome.Version)
	}

	// Evolve: version bump, rate damped by 0.9
	evolved, err := testDB.QueryEvolveStrategy(ctx, "test_classification", "Classify the customer intent. Be concise.")
	if err != nil {
		t.Fatalf("QueryEvolveStrategy failed: %v", err)
	}
	if evolved.Version != 2 {
		t.Errorf("Expected version 2 after evolve, got %d", evolved.Version)
	}
	if evolved.Text != "Classify the customer intent. Be concise." {
		t.Errorf("Evolve should replace text, got %q", evolved.Text)
	}

	// List
	strategies, err := testDB.QueryListStrategies(ctx)
	if err != nil {
		t.Fatalf("QueryListStrategies failed: %v", err)
	}
	found := false
	for _, s := range strategies {
		if s.Name == "test_classification" {
			found = true
		}
	}
	if !found {
		t.Error("QueryListStrategies should include test_classification")
	}
}

// =============================================================================
// CHECKPOINT TESTS
// =============================================================================

func TestCheckpointRoundTrip(t *testing.T) {
	skipShort(t)
	ctx := context.Background()

	// Missing checkpoint returns ErrNotFound
	_, err := testDB.QueryLoadCheckpoint(ctx, "no_such_session")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing checkpoint, got %v", err)
	}

	cp := models.Checkpoint{
		Context: models.SessionContext{
			SessionID:        "session_cp_1",
			Intent:           models.IntentTrackShipment,
			IntentConfidence: 0.92,
			Entities: models.EntitySet{
				ProNumbers: []string{"1234567"},
				Carriers:   []string{"FedEx Freight"},
			},
			StartedAt: time.Now().UTC().Truncate(time.Second),
		},
		Messages: []models.Message{
			{Role: models.RoleUser, Content: "Track PRO 1234567"},
			{Role: models.RoleAssistant, Content: "Your shipment is in transit."},
		},
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}

	if err := testDB.QuerySaveCheckpoint(ctx, "session_cp_1", cp); err != nil {
		t.Fatalf("QuerySaveCheckpoint failed: %v", err)
	}

	loaded, err := testDB.QueryLoadCheckpoint(ctx, "session_cp_1")
	if err != nil {
		t.Fatalf("QueryLoadCheckpoint failed: %v", err)
	}
	if loaded.Context.SessionID != "session_cp_1" {
		t.Errorf("Expected session_cp_1, got %q", loaded.Context.SessionID)
	}
	if len(loaded.Messages) != 2 {
		t.Errorf("Expected 2 messages, got %d", len(loaded.Messages))
	}
	if loaded.Context.Entities.Identifier() != "1234567" {
		t.Errorf("Expected identifier 1234567, got %q", loaded.Context.Entities.Identifier())
	}

	// Save again - checkpoint is replaced, not appended
	cp.Messages = append(cp.Messages, models.Message{Role: models.RoleUser, Content: "Thanks!"})
	if err := testDB.QuerySaveCheckpoint(ctx, "session_cp_1", cp); err != nil {
		t.Fatalf("Second QuerySaveCheckpoint failed: %v", err)
	}
	reloaded, err := testDB.QueryLoadCheckpoint(ctx, "session_cp_1")
	if err != nil {
		t.Fatalf("Second QueryLoadCheckpoint failed: %v", err)
	}
	if len(reloaded.Messages) != 3 {
		t.Errorf("Expected 3 messages after update, got %d", len(reloaded.Messages))
	}
}

// =============================================================================
// COUNTS
// =============================================================================

func TestQueryCounts(t *testing.T) {
	skipShort(t)
	ctx := context.Background()

	counts, err := testDB.QueryCounts(ctx)
	if err != nil {
		t.Fatalf("QueryCounts failed: %v", err)
	}
	// Other tests in this package create records; just sanity-check non-negative.
	if counts.Facts < 0 || counts.Episodes < 0 || counts.Strategies < 0 || counts.Sessions < 0 {
		t.Errorf("Counts should be non-negative: %+v", counts)
	}
}
