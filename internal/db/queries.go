// Package db provides SurrealDB query functions for memory and session records.
package db

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	"github.com/wwexlabs/freightagent/internal/models"
)

// TableCounts holds record counts per memory table.
type TableCounts struct {
	Facts      int `json:"facts"`
	Episodes   int `json:"episodes"`
	Strategies int `json:"strategies"`
	Sessions   int `json:"sessions"`
}

// QueryUpsertFact creates or updates a fact by ID.
// The content field is denormalized from the triple for full-text search.
// Returns the created/updated fact.
func (c *Client) QueryUpsertFact(
	ctx context.Context,
	id string,
	fact models.Fact,
	embedding []float32,
) (*models.Fact, error) {
	sql := `
		UPSERT type::record("fact", $id) SET
			subject = $subject,
			predicate = $predicate,
			object = $object,
			content = $content,
			embedding = $embedding,
			confidence = $confidence,
			source = $source,
			accessed = time::now(),
			created = IF created THEN created ELSE time::now() END,
			access_count = IF access_count THEN access_count ELSE 0 END
		RETURN AFTER
	`

	results, err := surrealdb.Query[[]models.Fact](ctx, c.db, sql, map[string]any{
		"id":         id,
		"subject":    fact.Subject,
		"predicate":  fact.Predicate,
		"object":     fact.Object,
		"content":    fact.Content(),
		"embedding":  embedding,
		"confidence": fact.Confidence,
		"source":     fact.Source,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert fact: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("upsert fact: no result returned")
	}
	return &(*results)[0].Result[0], nil
}

// QuerySearchFacts performs RRF fusion of BM25 + vector search over facts.
// Returns facts ranked by combined relevance score.
func (c *Client) QuerySearchFacts(
	ctx context.Context,
	query string,
	embedding []float32,
	limit int,
) ([]models.Fact, error) {
	// RRF fusion query - combines vector (2x limit for variety) with BM25
	// Vector: HNSW with ef=40 for better recall
	// BM25: full-text search analyzer 0
	// RRF k=60 (standard constant for rank fusion)
	sql := fmt.Sprintf(`
		SELECT * FROM search::rrf([
			(SELECT id, subject, predicate, object, confidence, source,
					accessed, access_count
			 FROM fact
			 WHERE embedding <|%d,40|> $emb),
			(SELECT id, subject, predicate, object, confidence, source,
					accessed, access_count
			 FROM fact
			 WHERE content @0@ $q)
		], $limit, 60)
	`, limit*2)

	results, err := surrealdb.Query[[]models.Fact](ctx, c.db, sql, map[string]any{
		"q":     query,
		"emb":   embedding,
		"limit": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search facts: %w", err)
	}

	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return []models.Fact{}, nil
}

// QueryTouchFact updates access tracking for a fact.
func (c *Client) QueryTouchFact(ctx context.Context, id string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPDATE type::record("fact", $id) SET
			accessed = time::now(),
			access_count += 1
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("touch fact: %w", err)
	}
	return nil
}

// QueryCreateEpisode creates or updates an episode by ID.
// Returns the created/updated episode.
func (c *Client) QueryCreateEpisode(
	ctx context.Context,
	id string,
	ep models.Episode,
	embedding []float32,
) (*models.Episode, error) {
	actions := make([]string, len(ep.ActionsTaken))
	for i, a := range ep.ActionsTaken {
		actions[i] = string(a)
	}

	sql := `
		UPSERT type::record("episode", $id) SET
			session_id = $session_id,
			user_query = $user_query,
			intent = $intent,
			actions_taken = $actions,
			successful = $successful,
			resolution_minutes = $resolution_minutes,
			satisfaction = $satisfaction,
			lessons = $lessons,
			pro_number = $pro_number,
			carrier = $carrier,
			embedding = $embedding,
			created = IF created THEN created ELSE time::now() END
		RETURN AFTER
	`

	results, err := surrealdb.Query[[]models.Episode](ctx, c.db, sql, map[string]any{
		"id":                 id,
		"session_id":         ep.SessionID,
		"user_query":         ep.UserQuery,
		"intent":             string(ep.Intent),
		"actions":            actions,
		"successful":         ep.Successful,
		"resolution_minutes": ep.ResolutionMinutes,
		"satisfaction":       ep.Satisfaction,
		"lessons":            ep.Lessons,
		"pro_number":         ep.ProNumber,
		"carrier":            ep.Carrier,
		"embedding":          embedding,
	})
	if err != nil {
		return nil, fmt.Errorf("create episode: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("create episode: no result returned")
	}
	return &(*results)[0].Result[0], nil
}

// QuerySearchEpisodes performs hybrid BM25+vector search on episodes.
// If intent is non-nil, results are restricted to that intent.
// Returns episodes ranked by RRF fusion with recency consideration.
func (c *Client) QuerySearchEpisodes(
	ctx context.Context,
	query string,
	embedding []float32,
	intent *string,
	limit int,
) ([]models.Episode, error) {
	intentClause := ""
	if intent != nil {
		intentClause = "AND intent = $intent"
	}

	// RRF fusion query - combines vector (2x limit for variety) with BM25
	// ORDER BY created DESC within subqueries for recency consideration
	sql := fmt.Sprintf(`
		SELECT * FROM search::rrf([
			(SELECT id, session_id, user_query, intent, actions_taken, successful,
					resolution_minutes, satisfaction, lessons, pro_number, carrier, created
			 FROM episode
			 WHERE embedding <|%d,40|> $emb %s
			 ORDER BY created DESC),
			(SELECT id, session_id, user_query, intent, actions_taken, successful,
					resolution_minutes, satisfaction, lessons, pro_number, carrier, created
			 FROM episode
			 WHERE user_query @0@ $q %s
			 ORDER BY created DESC)
		], $limit, 60)
	`, limit*2, intentClause, intentClause)

	vars := map[string]any{
		"q":     query,
		"emb":   embedding,
		"limit": limit,
	}
	if intent != nil {
		vars["intent"] = *intent
	}

	results, err := surrealdb.Query[[]models.Episode](ctx, c.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("search episodes: %w", err)
	}

	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return []models.Episode{}, nil
}

// QueryEpisodesByIntent returns the most recent episodes for an intent.
// Used for success-pattern mining.
func (c *Client) QueryEpisodesByIntent(
	ctx context.Context,
	intent string,
	limit int,
) ([]models.Episode, error) {
	sql := `
		SELECT id, session_id, user_query, intent, actions_taken, successful,
			   resolution_minutes, satisfaction, lessons, pro_number, carrier, created
		FROM episode
		WHERE intent = $intent
		ORDER BY created DESC
		LIMIT $limit
	`

	results, err := surrealdb.Query[[]models.Episode](ctx, c.db, sql, map[string]any{
		"intent": intent,
		"limit":  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("episodes by intent: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.Episode{}, nil
	}
	return (*results)[0].Result, nil
}

// QueryGetStrategy retrieves a strategy by name.
// Returns ErrNotFound if the strategy does not exist.
func (c *Client) QueryGetStrategy(ctx context.Context, name string) (*models.Strategy, error) {
	results, err := surrealdb.Query[[]models.Strategy](ctx, c.db, `
		SELECT * FROM type::record("strategy", $name)
	`, map[string]any{"name": name})
	if err != nil {
		return nil, fmt.Errorf("get strategy: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("get strategy %q: %w", name, ErrNotFound)
	}
	return &(*results)[0].Result[0], nil
}

// QueryUpsertStrategy creates or replaces a strategy keyed by name.
// Returns the stored strategy.
func (c *Client) QueryUpsertStrategy(ctx context.Context, s models.Strategy) (*models.Strategy, error) {
	sql := `
		UPSERT type::record("strategy", $name) SET
			name = $name,
			text = $text,
			usage_context = $usage_context,
			success_rate = $success_rate,
			version = $version,
			updated = time::now()
		RETURN AFTER
	`

	results, err := surrealdb.Query[[]models.Strategy](ctx, c.db, sql, map[string]any{
		"name":          s.Name,
		"text":          s.Text,
		"usage_context": s.UsageContext,
		"success_rate":  s.SuccessRate,
		"version":       s.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert strategy: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("upsert strategy: no result returned")
	}
	return &(*results)[0].Result[0], nil
}

// QueryRecordStrategyOutcome updates a strategy's success rate in place using
// an exponential moving average. The update is computed server-side so
// concurrent outcomes don't clobber each other.
func (c *Client) QueryRecordStrategyOutcome(ctx context.Context, name string, success bool) error {
	outcome := 0.0
	if success {
		outcome = 1.0
	}

	_, err := surrealdb.Query[any](ctx, c.db, `
		UPDATE type::record("strategy", $name) SET
			success_rate = success_rate * 0.8 + 0.2 * $outcome,
			updated = time::now()
	`, map[string]any{"name": name, "outcome": outcome})
	if err != nil {
		return fmt.Errorf("record strategy outcome: %w", wrapQueryError(err))
	}
	return nil
}

// QueryEvolveStrategy replaces a strategy's text, bumps its version, and damps
// the success rate so the evolved prompt has to re-earn its score.
// Returns ErrNotFound if the strategy does not exist.
func (c *Client) QueryEvolveStrategy(ctx context.Context, name, newText string) (*models.Strategy, error) {
	sql := `
		UPDATE type::record("strategy", $name) SET
			text = $text,
			version += 1,
			success_rate = success_rate * 0.9,
			updated = time::now()
		RETURN AFTER
	`

	results, err := surrealdb.Query[[]models.Strategy](ctx, c.db, sql, map[string]any{
		"name": name,
		"text": newText,
	})
	if err != nil {
		return nil, fmt.Errorf("evolve strategy: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("evolve strategy %q: %w", name, ErrNotFound)
	}
	return &(*results)[0].Result[0], nil
}

// QueryListStrategies returns all strategies ordered by name.
func (c *Client) QueryListStrategies(ctx context.Context) ([]models.Strategy, error) {
	results, err := surrealdb.Query[[]models.Strategy](ctx, c.db, `
		SELECT * FROM strategy ORDER BY name
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list strategies: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.Strategy{}, nil
	}
	return (*results)[0].Result, nil
}

// checkpointRow wraps the flexible checkpoint object stored per session.
type checkpointRow struct {
	Checkpoint models.Checkpoint `json:"checkpoint"`
}

// QuerySaveCheckpoint stores the session checkpoint, replacing any previous one.
func (c *Client) QuerySaveCheckpoint(ctx context.Context, sessionID string, cp models.Checkpoint) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT type::record("session", $id) SET
			checkpoint = $checkpoint,
			updated = time::now()
	`, map[string]any{
		"id":         sessionID,
		"checkpoint": cp,
	})
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", wrapQueryError(err))
	}
	return nil
}

// QueryLoadCheckpoint retrieves the checkpoint for a session.
// Returns ErrNotFound if the session has no checkpoint.
func (c *Client) QueryLoadCheckpoint(ctx context.Context, sessionID string) (*models.Checkpoint, error) {
	results, err := surrealdb.Query[[]checkpointRow](ctx, c.db, `
		SELECT checkpoint FROM type::record("session", $id)
	`, map[string]any{"id": sessionID})
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("load checkpoint %q: %w", sessionID, ErrNotFound)
	}
	return &(*results)[0].Result[0].Checkpoint, nil
}

// QueryCounts returns record counts for each memory table.
func (c *Client) QueryCounts(ctx context.Context) (*TableCounts, error) {
	counts := &TableCounts{}
	targets := []struct {
		table string
		dst   *int
	}{
		{"fact", &counts.Facts},
		{"episode", &counts.Episodes},
		{"strategy", &counts.Strategies},
		{"session", &counts.Sessions},
	}

	for _, t := range targets {
		sql := fmt.Sprintf(`SELECT count() AS count FROM %s GROUP ALL`, t.table)
		results, err := surrealdb.Query[[]struct {
			Count int `json:"count"`
		}](ctx, c.db, sql, nil)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", t.table, err)
		}
		if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
			*t.dst = (*results)[0].Result[0].Count
		}
	}

	return counts, nil
}
