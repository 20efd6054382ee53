// Package postgres implements checkpoint persistence on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stategraph/stategraph/internal/core/checkpoint"
	"github.com/stategraph/stategraph/pkg/serialization"
)

// ErrNilPool is returned when a saver is constructed without a connection pool.
var ErrNilPool = errors.New("postgres: nil connection pool")

// Saver implements checkpoint.Saver for PostgreSQL. Like the SQLite adapter
// it stores the serialized checkpoint alongside filterable columns.
type Saver struct {
	pool       *pgxpool.Pool
	serializer *serialization.Serializer
	tableName  string
}

// NewSaver creates a PostgreSQL checkpoint saver backed by the given pool.
func NewSaver(pool *pgxpool.Pool, serializer *serialization.Serializer) (*Saver, error) {
	if pool == nil {
		return nil, ErrNilPool
	}
	if serializer == nil {
		serializer = serialization.Default()
	}
	return &Saver{pool: pool, serializer: serializer, tableName: "checkpoints"}, nil
}

// Connect opens a pool for the given connection string and prepares the
// checkpoint schema.
func Connect(ctx context.Context, connString string) (*pgxpool.Pool, *Saver, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	saver, err := NewSaver(pool, nil)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	if err := saver.CreateTables(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pool, saver, nil
}

// CreateTables creates the checkpoint table and indexes if missing.
func (s *Saver) CreateTables(ctx context.Context) error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id           TEXT PRIMARY KEY,
			graph_name   TEXT NOT NULL,
			execution_id TEXT NOT NULL,
			status       TEXT NOT NULL,
			timestamp    TIMESTAMPTZ NOT NULL,
			data         BYTEA NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_execution ON %s (execution_id, timestamp);
		CREATE INDEX IF NOT EXISTS idx_%s_graph ON %s (graph_name, timestamp);
	`, s.tableName, s.tableName, s.tableName, s.tableName, s.tableName)

	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create checkpoint tables: %w", err)
	}
	return nil
}

// Save stores a checkpoint, replacing any previous row with the same id.
func (s *Saver) Save(ctx context.Context, cp *checkpoint.Checkpoint) error {
	if cp == nil {
		return checkpoint.ErrInvalidCheckpointID
	}
	if err := cp.Validate(); err != nil {
		return fmt.Errorf("checkpoint validation failed: %w", err)
	}
	data, err := s.serializer.Marshal(cp)
	if err != nil {
		return fmt.Errorf("checkpoint serialization failed: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, graph_name, execution_id, status, timestamp, data)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			timestamp = EXCLUDED.timestamp,
			data = EXCLUDED.data
	`, s.tableName)

	_, err = s.pool.Exec(ctx, query,
		cp.ID, cp.GraphName, cp.ExecutionID, cp.Status, cp.Timestamp, data)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// Load retrieves a checkpoint by id.
func (s *Saver) Load(ctx context.Context, id string) (*checkpoint.Checkpoint, error) {
	if id == "" {
		return nil, checkpoint.ErrInvalidCheckpointID
	}
	query := fmt.Sprintf(`SELECT data FROM %s WHERE id = $1`, s.tableName)

	var data []byte
	err := s.pool.QueryRow(ctx, query, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, checkpoint.ErrCheckpointNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	var cp checkpoint.Checkpoint
	if err := s.serializer.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("checkpoint deserialization failed: %w", err)
	}
	return &cp, nil
}

// List returns checkpoints matching the filter, newest first.
func (s *Saver) List(ctx context.Context, filter checkpoint.Filter) ([]*checkpoint.Checkpoint, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter validation failed: %w", err)
	}

	query := fmt.Sprintf(`SELECT data FROM %s WHERE 1=1`, s.tableName)
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.GraphName != "" {
		query += " AND graph_name = " + arg(filter.GraphName)
	}
	if filter.ExecutionID != "" {
		query += " AND execution_id = " + arg(filter.ExecutionID)
	}
	if filter.Since != nil {
		query += " AND timestamp >= " + arg(*filter.Since)
	}
	if filter.Before != nil {
		query += " AND timestamp < " + arg(*filter.Before)
	}
	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + arg(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	defer rows.Close()

	var results []*checkpoint.Checkpoint
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan checkpoint row: %w", err)
		}
		var cp checkpoint.Checkpoint
		if err := s.serializer.Unmarshal(data, &cp); err != nil {
			return nil, fmt.Errorf("checkpoint deserialization failed: %w", err)
		}
		results = append(results, &cp)
	}
	return results, rows.Err()
}

// Delete removes a checkpoint by id.
func (s *Saver) Delete(ctx context.Context, id string) error {
	if id == "" {
		return checkpoint.ErrInvalidCheckpointID
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.tableName)
	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return checkpoint.ErrCheckpointNotFound
	}
	return nil
}
