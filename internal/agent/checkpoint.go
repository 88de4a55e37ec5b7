package agent

import (
	"context"
	"sync"

	"github.com/wwexlabs/freightagent/internal/db"
	"github.com/wwexlabs/freightagent/internal/models"
)

// CheckpointStore persists session state between turns. Load returns
// db.ErrNotFound for sessions with no prior checkpoint; the orchestrator
// treats that, and any other load failure, as a new conversation.
type CheckpointStore interface {
	Load(ctx context.Context, sessionID string) (*models.Checkpoint, error)
	Save(ctx context.Context, sessionID string, checkpoint models.Checkpoint) error
}

// InMemoryCheckpoints keeps checkpoints in process memory. Used by the demo
// mode and tests.
type InMemoryCheckpoints struct {
	mu          sync.RWMutex
	checkpoints map[string]models.Checkpoint
}

var _ CheckpointStore = (*InMemoryCheckpoints)(nil)

// NewInMemoryCheckpoints creates an empty in-memory checkpoint store.
func NewInMemoryCheckpoints() *InMemoryCheckpoints {
	return &InMemoryCheckpoints{checkpoints: make(map[string]models.Checkpoint)}
}

func (s *InMemoryCheckpoints) Load(_ context.Context, sessionID string) (*models.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp, ok := s.checkpoints[sessionID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &cp, nil
}

func (s *InMemoryCheckpoints) Save(_ context.Context, sessionID string, checkpoint models.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpoints[sessionID] = checkpoint
	return nil
}

// SurrealCheckpoints persists checkpoints in SurrealDB.
type SurrealCheckpoints struct {
	client *db.Client
}

var _ CheckpointStore = (*SurrealCheckpoints)(nil)

// NewSurrealCheckpoints creates a database-backed checkpoint store.
func NewSurrealCheckpoints(client *db.Client) *SurrealCheckpoints {
	return &SurrealCheckpoints{client: client}
}

func (s *SurrealCheckpoints) Load(ctx context.Context, sessionID string) (*models.Checkpoint, error) {
	return s.client.QueryLoadCheckpoint(ctx, sessionID)
}

func (s *SurrealCheckpoints) Save(ctx context.Context, sessionID string, checkpoint models.Checkpoint) error {
	return s.client.QuerySaveCheckpoint(ctx, sessionID, checkpoint)
}
