package db

import "fmt"

// Schema renders the DDL for the tables backing the memory tiers and the
// session checkpoints. embedDim sizes the HNSW vector indexes on fact and
// episode and must match the configured embedder dimension.
func Schema(embedDim int) string {
	return fmt.Sprintf(schemaTemplate, embedDim, embedDim)
}

const schemaTemplate = `
    -- ==========================================================================
    -- FACT TABLE (Semantic Memory)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS fact SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS subject ON fact TYPE string;
    DEFINE FIELD IF NOT EXISTS predicate ON fact TYPE string;
    DEFINE FIELD IF NOT EXISTS object ON fact TYPE string;
    DEFINE FIELD IF NOT EXISTS content ON fact TYPE string;
    DEFINE FIELD IF NOT EXISTS embedding ON fact TYPE array<float>;
    DEFINE FIELD IF NOT EXISTS confidence ON fact TYPE float DEFAULT 1.0;
    DEFINE FIELD IF NOT EXISTS source ON fact TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS created ON fact TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS accessed ON fact TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS access_count ON fact TYPE int DEFAULT 0;

    DEFINE INDEX IF NOT EXISTS fact_subject ON fact FIELDS subject;
    DEFINE INDEX IF NOT EXISTS fact_embedding ON fact FIELDS embedding HNSW DIMENSION %d DIST COSINE TYPE F32;
    DEFINE ANALYZER IF NOT EXISTS fact_analyzer TOKENIZERS class FILTERS lowercase, ascii, snowball(english);
    DEFINE INDEX IF NOT EXISTS fact_content_ft ON fact FIELDS content FULLTEXT ANALYZER fact_analyzer BM25;

    -- ==========================================================================
    -- EPISODE TABLE (Episodic Memory)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS episode SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS session_id ON episode TYPE string;
    DEFINE FIELD IF NOT EXISTS user_query ON episode TYPE string;
    DEFINE FIELD IF NOT EXISTS intent ON episode TYPE string;
    DEFINE FIELD IF NOT EXISTS actions_taken ON episode TYPE array<string>;
    DEFINE FIELD IF NOT EXISTS successful ON episode TYPE bool DEFAULT false;
    DEFINE FIELD IF NOT EXISTS resolution_minutes ON episode TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS satisfaction ON episode TYPE int DEFAULT 3;
    DEFINE FIELD IF NOT EXISTS lessons ON episode TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS pro_number ON episode TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS carrier ON episode TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS embedding ON episode TYPE array<float>;
    DEFINE FIELD IF NOT EXISTS created ON episode TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS episode_session ON episode FIELDS session_id;
    DEFINE INDEX IF NOT EXISTS episode_intent ON episode FIELDS intent;
    DEFINE INDEX IF NOT EXISTS episode_embedding ON episode FIELDS embedding HNSW DIMENSION %d DIST COSINE TYPE F32;
    DEFINE ANALYZER IF NOT EXISTS episode_analyzer TOKENIZERS class FILTERS lowercase, ascii, snowball(english);
    DEFINE INDEX IF NOT EXISTS episode_query_ft ON episode FIELDS user_query FULLTEXT ANALYZER episode_analyzer BM25;

    -- ==========================================================================
    -- STRATEGY TABLE (Procedural Memory)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS strategy SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON strategy TYPE string;
    DEFINE FIELD IF NOT EXISTS text ON strategy TYPE string;
    DEFINE FIELD IF NOT EXISTS usage_context ON strategy TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS success_rate ON strategy TYPE float DEFAULT 0.5;
    DEFINE FIELD IF NOT EXISTS version ON strategy TYPE int DEFAULT 1;
    DEFINE FIELD IF NOT EXISTS updated ON strategy TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS strategy_name ON strategy FIELDS name UNIQUE;

    -- ==========================================================================
    -- SESSION TABLE (Turn Checkpoints)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS session SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS checkpoint ON session FLEXIBLE TYPE object;
    DEFINE FIELD IF NOT EXISTS updated ON session TYPE datetime DEFAULT time::now();
`
