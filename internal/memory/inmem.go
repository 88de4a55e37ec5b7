package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wwexlabs/freightagent/internal/models"
)

// InMemoryStores implements the memory tiers in process memory. Retrieval
// uses token-overlap scoring instead of embeddings, which keeps the demo and
// tests free of any external services.
type InMemoryStores struct {
	mu         sync.RWMutex
	facts      map[string]*models.Fact
	episodes   []models.Episode
	strategies map[string]*models.Strategy
	now        func() time.Time
}

// NewInMemoryStores creates in-memory backed memory stores.
func NewInMemoryStores() *Stores {
	s := &InMemoryStores{
		facts:      make(map[string]*models.Fact),
		episodes:   nil,
		strategies: make(map[string]*models.Strategy),
		now:        time.Now,
	}
	return &Stores{Facts: s, Episodes: s, Strategies: s}
}

// StoreFact inserts or refreshes a fact, deduplicating on the triple.
func (s *InMemoryStores) StoreFact(_ context.Context, fact models.Fact) (*models.Fact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := factID(fact)
	if existing, ok := s.facts[id]; ok {
		existing.Confidence = fact.Confidence
		existing.Source = fact.Source
		existing.Accessed = s.now()
		cp := *existing
		return &cp, nil
	}

	fact.ID = id
	fact.Created = s.now()
	fact.Accessed = fact.Created
	s.facts[id] = &fact
	cp := fact
	return &cp, nil
}

// SearchFacts scores facts by token overlap with the query.
func (s *InMemoryStores) SearchFacts(_ context.Context, query string, limit int) ([]models.Fact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type scored struct {
		fact  *models.Fact
		score float64
	}
	var matches []scored
	for _, f := range s.facts {
		score := overlapScore(query, f.Content())
		if score > 0 {
			matches = append(matches, scored{fact: f, score: score})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	out := make([]models.Fact, 0, limit)
	for _, m := range matches {
		if len(out) >= limit {
			break
		}
		m.fact.Accessed = s.now()
		m.fact.AccessCount++
		out = append(out, *m.fact)
	}
	return out, nil
}

// RecordEpisode persists a finished conversation episode.
func (s *InMemoryStores) RecordEpisode(_ context.Context, ep models.Episode) (*models.Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ep.ID == "" {
		ep.ID = uuid.NewString()
	}
	if ep.Created.IsZero() {
		ep.Created = s.now()
	}
	s.episodes = append(s.episodes, ep)
	cp := ep
	return &cp, nil
}

// SimilarEpisodes scores episodes by token overlap with the query.
func (s *InMemoryStores) SimilarEpisodes(_ context.Context, query string, intent models.Intent, limit int) ([]models.Episode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		ep    models.Episode
		score float64
	}
	var matches []scored
	for _, ep := range s.episodes {
		if intent != models.IntentUnknown && intent != "" && ep.Intent != intent {
			continue
		}
		score := overlapScore(query, ep.UserQuery)
		if score > 0 {
			matches = append(matches, scored{ep: ep, score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	out := make([]models.Episode, 0, limit)
	for _, m := range matches {
		if len(out) >= limit {
			break
		}
		out = append(out, m.ep)
	}
	return out, nil
}

// SuccessPatterns mines stored episodes of an intent for what worked.
func (s *InMemoryStores) SuccessPatterns(_ context.Context, intent models.Intent) (*models.SuccessPatterns, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var episodes []models.Episode
	for _, ep := range s.episodes {
		if ep.Intent == intent {
			episodes = append(episodes, ep)
		}
	}
	return MinePatterns(intent, episodes), nil
}

// Strategy fetches a strategy by name.
func (s *InMemoryStores) Strategy(_ context.Context, name string) (*models.Strategy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	strat, ok := s.strategies[name]
	if !ok {
		return nil, fmt.Errorf("strategy %q: %w", name, ErrNotFound)
	}
	cp := *strat
	return &cp, nil
}

// PutStrategy creates or replaces a strategy.
func (s *InMemoryStores) PutStrategy(_ context.Context, strat models.Strategy) (*models.Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strat.Version == 0 {
		strat.Version = 1
	}
	strat.Updated = s.now()
	s.strategies[strat.Name] = &strat
	cp := strat
	return &cp, nil
}

// ListStrategies returns all strategies ordered by name.
func (s *InMemoryStores) ListStrategies(_ context.Context) ([]models.Strategy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Strategy, 0, len(s.strategies))
	for _, strat := range s.strategies {
		out = append(out, *strat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// RecordOutcome folds one observation into the strategy's success rate using
// an exponential moving average.
func (s *InMemoryStores) RecordOutcome(_ context.Context, name string, success bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	strat, ok := s.strategies[name]
	if !ok {
		return fmt.Errorf("strategy %q: %w", name, ErrNotFound)
	}

	outcome := 0.0
	if success {
		outcome = 1.0
	}
	strat.SuccessRate = strat.SuccessRate*0.8 + 0.2*outcome
	strat.Updated = s.now()
	return nil
}

// Evolve replaces strategy text, bumping version and damping success rate.
func (s *InMemoryStores) Evolve(_ context.Context, name, newText string) (*models.Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	strat, ok := s.strategies[name]
	if !ok {
		return nil, fmt.Errorf("strategy %q: %w", name, ErrNotFound)
	}

	strat.Text = newText
	strat.Version++
	strat.SuccessRate *= 0.9
	strat.Updated = s.now()
	cp := *strat
	return &cp, nil
}

// overlapScore returns the fraction of query tokens present in text.
func overlapScore(query, text string) float64 {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return 0
	}
	textTokens := make(map[string]bool)
	for _, tok := range tokenize(text) {
		textTokens[tok] = true
	}

	hits := 0
	for _, tok := range queryTokens {
		if textTokens[tok] {
			hits++
		}
	}
	return float64(hits) / float64(len(queryTokens))
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
}
