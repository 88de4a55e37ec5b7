package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wwexlabs/freightagent/internal/db"
	"github.com/wwexlabs/freightagent/internal/metrics"
	"github.com/wwexlabs/freightagent/internal/models"
)

// miningWindow is how many recent episodes per intent feed pattern mining.
const miningWindow = 50

// Embedder turns text into a vector for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SurrealStores implements all three memory tiers over SurrealDB with
// hybrid (vector + full-text) retrieval.
type SurrealStores struct {
	client   *db.Client
	embedder Embedder
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// NewSurrealStores creates SurrealDB-backed memory stores.
func NewSurrealStores(client *db.Client, embedder Embedder, collector *metrics.Collector, logger *slog.Logger) *Stores {
	if logger == nil {
		logger = slog.Default()
	}
	s := &SurrealStores{
		client:   client,
		embedder: embedder,
		metrics:  collector,
		logger:   logger,
	}
	return &Stores{Facts: s, Episodes: s, Strategies: s}
}

func (s *SurrealStores) embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vec, err := s.embedder.Embed(ctx, text)
	if s.metrics != nil {
		if err != nil {
			s.metrics.RecordFailure(metrics.OpEmbedding, time.Since(start))
		} else {
			s.metrics.RecordTiming(metrics.OpEmbedding, time.Since(start))
		}
	}
	return vec, err
}

func (s *SurrealStores) timeQuery(start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	if err != nil {
		s.metrics.RecordFailure(metrics.OpDBQuery, time.Since(start))
	} else {
		s.metrics.RecordTiming(metrics.OpDBQuery, time.Since(start))
	}
}

// StoreFact inserts or refreshes a fact. The record ID is derived from the
// triple so repeated observations update in place instead of duplicating.
func (s *SurrealStores) StoreFact(ctx context.Context, fact models.Fact) (*models.Fact, error) {
	id := factID(fact)

	embedding, err := s.embed(ctx, fact.Content())
	if err != nil {
		return nil, fmt.Errorf("embed fact: %w", err)
	}

	start := time.Now()
	stored, err := s.client.QueryUpsertFact(ctx, id, fact, embedding)
	s.timeQuery(start, err)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("fact stored", "subject", fact.Subject, "predicate", fact.Predicate)
	return stored, nil
}

// SearchFacts returns facts relevant to the query and bumps their access
// counters.
func (s *SurrealStores) SearchFacts(ctx context.Context, query string, limit int) ([]models.Fact, error) {
	embedding, err := s.embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	start := time.Now()
	facts, err := s.client.QuerySearchFacts(ctx, query, embedding, limit)
	s.timeQuery(start, err)
	if err != nil {
		return nil, err
	}

	for _, f := range facts {
		if f.ID == "" {
			continue
		}
		if err := s.client.QueryTouchFact(ctx, f.ID); err != nil {
			s.logger.Warn("touch fact failed", "id", f.ID, "error", err)
		}
	}
	return facts, nil
}

// RecordEpisode persists a finished conversation episode.
func (s *SurrealStores) RecordEpisode(ctx context.Context, ep models.Episode) (*models.Episode, error) {
	id := ep.ID
	if id == "" {
		id = uuid.NewString()
	}

	embedding, err := s.embed(ctx, ep.UserQuery)
	if err != nil {
		return nil, fmt.Errorf("embed episode: %w", err)
	}

	start := time.Now()
	stored, err := s.client.QueryCreateEpisode(ctx, id, ep, embedding)
	s.timeQuery(start, err)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("episode recorded", "session_id", ep.SessionID, "intent", ep.Intent, "successful", ep.Successful)
	return stored, nil
}

// SimilarEpisodes returns past episodes similar to the query.
func (s *SurrealStores) SimilarEpisodes(ctx context.Context, query string, intent models.Intent, limit int) ([]models.Episode, error) {
	embedding, err := s.embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	var intentFilter *string
	if intent != models.IntentUnknown && intent != "" {
		v := string(intent)
		intentFilter = &v
	}

	start := time.Now()
	episodes, err := s.client.QuerySearchEpisodes(ctx, query, embedding, intentFilter, limit)
	s.timeQuery(start, err)
	return episodes, err
}

// SuccessPatterns mines recent episodes of an intent for what worked.
func (s *SurrealStores) SuccessPatterns(ctx context.Context, intent models.Intent) (*models.SuccessPatterns, error) {
	start := time.Now()
	episodes, err := s.client.QueryEpisodesByIntent(ctx, string(intent), miningWindow)
	s.timeQuery(start, err)
	if err != nil {
		return nil, err
	}
	return MinePatterns(intent, episodes), nil
}

// Strategy fetches a strategy by name.
func (s *SurrealStores) Strategy(ctx context.Context, name string) (*models.Strategy, error) {
	start := time.Now()
	strat, err := s.client.QueryGetStrategy(ctx, name)
	s.timeQuery(start, err)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("strategy %q: %w", name, ErrNotFound)
		}
		return nil, err
	}
	return strat, nil
}

// PutStrategy creates or replaces a strategy.
func (s *SurrealStores) PutStrategy(ctx context.Context, strat models.Strategy) (*models.Strategy, error) {
	start := time.Now()
	stored, err := s.client.QueryUpsertStrategy(ctx, strat)
	s.timeQuery(start, err)
	return stored, err
}

// ListStrategies returns all strategies.
func (s *SurrealStores) ListStrategies(ctx context.Context) ([]models.Strategy, error) {
	start := time.Now()
	strategies, err := s.client.QueryListStrategies(ctx)
	s.timeQuery(start, err)
	return strategies, err
}

// RecordOutcome folds one observation into the strategy's success rate.
func (s *SurrealStores) RecordOutcome(ctx context.Context, name string, success bool) error {
	start := time.Now()
	err := s.client.QueryRecordStrategyOutcome(ctx, name, success)
	s.timeQuery(start, err)
	return err
}

// Evolve replaces strategy text, bumping version and damping success rate.
func (s *SurrealStores) Evolve(ctx context.Context, name, newText string) (*models.Strategy, error) {
	start := time.Now()
	strat, err := s.client.QueryEvolveStrategy(ctx, name, newText)
	s.timeQuery(start, err)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("strategy %q: %w", name, ErrNotFound)
		}
		return nil, err
	}
	return strat, nil
}

// factID derives a stable record ID from the fact triple so the same
// observation upserts instead of duplicating.
func factID(fact models.Fact) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fact.Content())).String()
}
