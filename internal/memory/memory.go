// Package memory provides the three-tier memory subsystem: semantic facts,
// episodic conversation records, and procedural strategies.
package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/wwexlabs/freightagent/internal/models"
)

// ErrNotFound indicates the requested memory record does not exist.
var ErrNotFound = errors.New("memory record not found")

// FactStore holds semantic memory: subject-predicate-object triples.
type FactStore interface {
	// StoreFact inserts or updates a fact. Facts with the same triple are
	// deduplicated; storing again refreshes confidence and access time.
	StoreFact(ctx context.Context, fact models.Fact) (*models.Fact, error)

	// SearchFacts returns facts relevant to the query, most relevant first.
	SearchFacts(ctx context.Context, query string, limit int) ([]models.Fact, error)
}

// EpisodeStore holds episodic memory: records of handled conversations.
type EpisodeStore interface {
	// RecordEpisode persists a finished conversation episode.
	RecordEpisode(ctx context.Context, ep models.Episode) (*models.Episode, error)

	// SimilarEpisodes returns past episodes similar to the query, optionally
	// restricted to an intent (pass models.IntentUnknown for no restriction).
	SimilarEpisodes(ctx context.Context, query string, intent models.Intent, limit int) ([]models.Episode, error)

	// SuccessPatterns mines past episodes of an intent for what worked.
	SuccessPatterns(ctx context.Context, intent models.Intent) (*models.SuccessPatterns, error)
}

// StrategyStore holds procedural memory: versioned prompt strategies.
type StrategyStore interface {
	// Strategy fetches a strategy by name. Returns ErrNotFound if absent.
	Strategy(ctx context.Context, name string) (*models.Strategy, error)

	// PutStrategy creates or replaces a strategy.
	PutStrategy(ctx context.Context, s models.Strategy) (*models.Strategy, error)

	// ListStrategies returns all strategies.
	ListStrategies(ctx context.Context) ([]models.Strategy, error)

	// RecordOutcome folds one success/failure observation into the strategy's
	// success rate without changing its version.
	RecordOutcome(ctx context.Context, name string, success bool) error

	// Evolve replaces the strategy text, bumps the version, and damps the
	// success rate so the new text has to re-earn its score.
	Evolve(ctx context.Context, name, newText string) (*models.Strategy, error)
}

// Stores bundles the three memory tiers.
type Stores struct {
	Facts      FactStore
	Episodes   EpisodeStore
	Strategies StrategyStore
}

// Seed installs the default strategies for any that are missing. Existing
// strategies (possibly evolved) are left untouched.
func (s *Stores) Seed(ctx context.Context) error {
	for _, seed := range SeedStrategies() {
		_, err := s.Strategies.Strategy(ctx, seed.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("check strategy %s: %w", seed.Name, err)
		}
		if _, err := s.Strategies.PutStrategy(ctx, seed); err != nil {
			return fmt.Errorf("seed strategy %s: %w", seed.Name, err)
		}
	}
	return nil
}

// StrategyText returns the stored text for a strategy, falling back to the
// seed text when the store fails or the strategy is missing. The engine must
// keep working even when procedural memory is unavailable.
func (s *Stores) StrategyText(ctx context.Context, name string) string {
	strat, err := s.Strategies.Strategy(ctx, name)
	if err == nil && strat.Text != "" {
		return strat.Text
	}
	for _, seed := range SeedStrategies() {
		if seed.Name == name {
			return seed.Text
		}
	}
	return ""
}
