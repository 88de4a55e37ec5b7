// Package db manages the SurrealDB connection shared by the memory tiers
// and the session checkpoint store.
package db

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/contrib/rews"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/pkg/logger"
	"github.com/surrealdb/surrealdb.go/surrealcbor"
)

func init() {
	// Pin ALPN to HTTP/1.1: the websocket upgrade cannot complete on a TLS
	// connection that negotiated h2.
	gorillaws.DefaultDialer.TLSClientConfig = &tls.Config{
		NextProtos: []string{"http/1.1"},
	}
}

// Config holds the SurrealDB connection settings.
type Config struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
	AuthLevel string // "root" or "database"
}

// Client is a SurrealDB handle over a reconnecting websocket. One Client is
// shared by every store in the process.
type Client struct {
	conn *rews.Connection[*gorillaws.Connection]
	db   *surrealdb.DB
	cfg  Config
	log  logger.Logger
}

// NewClient dials SurrealDB, signs in, and selects the configured namespace
// and database. Dropped connections are redialed with exponential backoff.
func NewClient(ctx context.Context, cfg Config, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	sdkLog := logger.New(log.Handler())
	codec := surrealcbor.New()

	// gorillaws appends /rpc itself.
	base := strings.TrimSuffix(cfg.URL, "/rpc")

	conn := rews.New(
		func(ctx context.Context) (*gorillaws.Connection, error) {
			return gorillaws.New(&connection.Config{
				BaseURL:     base,
				Marshaler:   codec,
				Unmarshaler: codec,
				Logger:      sdkLog,
			}), nil
		},
		5*time.Second,
		codec,
		sdkLog,
	)

	retryer := rews.NewExponentialBackoffRetryer()
	retryer.InitialDelay = 500 * time.Millisecond
	retryer.MaxDelay = 20 * time.Second
	retryer.Multiplier = 2.0
	retryer.MaxRetries = 8
	conn.Retryer = retryer

	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.URL, err)
	}

	sdb, err := surrealdb.FromConnection(ctx, conn)
	if err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("wrap connection: %w", err)
	}

	if err := signIn(ctx, sdb, cfg); err != nil {
		_ = conn.Close(ctx)
		return nil, err
	}
	if err := sdb.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("use %s/%s: %w", cfg.Namespace, cfg.Database, err)
	}

	log.Info("connected to SurrealDB",
		"url", cfg.URL,
		"namespace", cfg.Namespace,
		"database", cfg.Database,
		"auth_level", cfg.AuthLevel)
	return &Client{conn: conn, db: sdb, cfg: cfg, log: sdkLog}, nil
}

// signIn authenticates at database scope when configured, root otherwise.
func signIn(ctx context.Context, sdb *surrealdb.DB, cfg Config) error {
	auth := surrealdb.Auth{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	if cfg.AuthLevel == "database" {
		auth.Namespace = cfg.Namespace
		auth.Database = cfg.Database
	}
	if _, err := sdb.SignIn(ctx, auth); err != nil {
		return fmt.Errorf("signin as %s: %w", cfg.Username, err)
	}
	return nil
}

// Close shuts down the websocket connection.
func (c *Client) Close(ctx context.Context) error {
	c.log.Info("closing SurrealDB connection")
	return c.conn.Close(ctx)
}

// DB exposes the underlying SurrealDB client for typed queries.
func (c *Client) DB() *surrealdb.DB {
	return c.db
}

// InitSchema applies the table and index definitions. embedDim sizes the
// HNSW vector indexes and must match the embedder producing fact and
// episode embeddings. The DDL is idempotent, so running it on every startup
// is safe.
func (c *Client) InitSchema(ctx context.Context, embedDim int) error {
	c.log.Info("applying schema", "embed_dimension", embedDim)
	if _, err := surrealdb.Query[any](ctx, c.db, Schema(embedDim), nil); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Query executes a SurrealQL statement with parameters, untyped.
func (c *Client) Query(ctx context.Context, sql string, vars map[string]any) (*[]surrealdb.QueryResult[any], error) {
	return surrealdb.Query[any](ctx, c.db, sql, vars)
}

// WipeData clears every table while leaving the schema in place. Test
// helper; never called from command paths.
func (c *Client) WipeData(ctx context.Context) error {
	c.log.Warn("wiping all data")
	for _, table := range []string{"fact", "episode", "strategy", "session"} {
		if _, err := surrealdb.Query[any](ctx, c.db, "DELETE "+table, nil); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}
