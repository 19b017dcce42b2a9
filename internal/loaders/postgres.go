package loaders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Conversly/prompt-relay/internal/utils"
)

// ErrNotFound is returned when an update matches no stored completion.
var ErrNotFound = errors.New("completion not found")

// CompletionStore persists completion records and their feedback.
type CompletionStore interface {
	InsertCompletion(ctx context.Context, row CompletionRow) error
	UpdateCompletionFeedback(ctx context.Context, messageID string, feedback int16, comment *string) error
	Ping(ctx context.Context) error
}

// CompletionRow is one row of the completions table.
type CompletionRow struct {
	MessageID string
	RequestID string
	Adapter   string
	Model     string
	Prompt    string
	Kind      string
	Response  string
	LatencyMS int64
	CreatedAt time.Time
}

type PostgresClient struct {
	dsn  string
	pool *pgxpool.Pool
}

var _ CompletionStore = (*PostgresClient)(nil)

const createCompletionsTable = `
	CREATE TABLE IF NOT EXISTS completions (
		id               UUID PRIMARY KEY,
		request_id       TEXT NOT NULL DEFAULT '',
		adapter          TEXT NOT NULL,
		model            TEXT NOT NULL,
		prompt           TEXT NOT NULL,
		kind             TEXT NOT NULL,
		response         TEXT NOT NULL,
		latency_ms       BIGINT NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL,
		feedback         SMALLINT NOT NULL DEFAULT 0,
		feedback_comment TEXT
	)
`

func NewPostgresClient(ctx context.Context, dsn string, maxConns int) (*PostgresClient, error) {
	client := &PostgresClient{
		dsn: dsn,
	}

	pool, err := client.createConnectionPool(ctx, maxConns)
	if err != nil {
		return nil, err
	}
	client.pool = pool

	if _, err := pool.Exec(ctx, createCompletionsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create completions table: %w", err)
	}

	utils.Zlog.Info("Connected to PostgreSQL completion log", zap.Int("max_conns", maxConns))
	return client, nil
}

func (c *PostgresClient) createConnectionPool(ctx context.Context, maxConns int) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(c.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Postgres DSN: %w", err)
	}

	cfg.MaxConns = int32(maxConns)
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.MaxConnLifetime = 60 * time.Minute
	cfg.MaxConnIdleTime = 15 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	return pool, nil
}

func (c *PostgresClient) Close() error {
	if c.pool != nil {
		c.pool.Close()
	}
	return nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// InsertCompletion records one completion.
func (c *PostgresClient) InsertCompletion(ctx context.Context, row CompletionRow) error {
	query := `
		INSERT INTO completions (
			id, request_id, adapter, model, prompt, kind, response, latency_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := c.pool.Exec(ctx, query,
		row.MessageID,
		row.RequestID,
		row.Adapter,
		row.Model,
		row.Prompt,
		row.Kind,
		row.Response,
		row.LatencyMS,
		row.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert completion %s: %w", row.MessageID, err)
	}
	return nil
}

func (c *PostgresClient) UpdateCompletionFeedback(ctx context.Context, messageID string, feedback int16, comment *string) error {
	if messageID == "" {
		return fmt.Errorf("message id is required")
	}

	query := `
		UPDATE completions
		SET feedback = $1, feedback_comment = $2
		WHERE id = $3
	`

	tag, err := c.pool.Exec(ctx, query, feedback, comment, messageID)
	if err != nil {
		return fmt.Errorf("failed to update completion feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
