// Package sqlite implements checkpoint persistence on SQLite via database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/stategraph/stategraph/internal/core/checkpoint"
	"github.com/stategraph/stategraph/pkg/serialization"
)

// Saver implements checkpoint.Saver for SQLite. The full checkpoint is held
// as one serialized blob; filterable attributes are mirrored into columns.
type Saver struct {
	db         *sql.DB
	serializer *serialization.Serializer
	tableName  string
}

// NewSaver creates a SQLite checkpoint saver.
func NewSaver(db *sql.DB, serializer *serialization.Serializer) *Saver {
	if serializer == nil {
		serializer = serialization.Default()
	}
	return &Saver{db: db, serializer: serializer, tableName: "checkpoints"}
}

// WithTableName overrides the default table name. Only alphanumeric and
// underscore are permitted, preventing SQL injection via identifiers.
func (s *Saver) WithTableName(name string) *Saver {
	if isSafeIdent(name) {
		s.tableName = name
	}
	return s
}

func isSafeIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return false
	}
	return true
}

// CreateTables creates the checkpoint table and indexes if missing.
func (s *Saver) CreateTables(ctx context.Context) error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id           TEXT PRIMARY KEY,
			graph_name   TEXT NOT NULL,
			execution_id TEXT NOT NULL,
			status       TEXT NOT NULL,
			timestamp    TIMESTAMP NOT NULL,
			data         BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_execution ON %s (execution_id, timestamp);
		CREATE INDEX IF NOT EXISTS idx_%s_graph ON %s (graph_name, timestamp);
	`, s.tableName, s.tableName, s.tableName, s.tableName, s.tableName)

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
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
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			timestamp = excluded.timestamp,
			data = excluded.data
	`, s.tableName)

	_, err = s.db.ExecContext(ctx, query,
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
	query := fmt.Sprintf(`SELECT data FROM %s WHERE id = ?`, s.tableName)

	var data []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
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
	if filter.GraphName != "" {
		query += " AND graph_name = ?"
		args = append(args, filter.GraphName)
	}
	if filter.ExecutionID != "" {
		query += " AND execution_id = ?"
		args = append(args, filter.ExecutionID)
	}
	if filter.Since != nil {
		query += " AND timestamp >= ?"
		args = append(args, *filter.Since)
	}
	if filter.Before != nil {
		query += " AND timestamp < ?"
		args = append(args, *filter.Before)
	}
	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		// SQLite requires LIMIT when OFFSET is present; -1 means no limit.
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
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
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.tableName)
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return checkpoint.ErrCheckpointNotFound
	}
	return nil
}

// Open opens (or creates) a SQLite database at the given path and prepares
// the checkpoint schema. Use ":memory:" for tests.
func Open(ctx context.Context, path string) (*sql.DB, *Saver, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetConnMaxIdleTime(time.Minute)
	saver := NewSaver(db, nil)
	if err := saver.CreateTables(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, saver, nil
}
