// Package memory provides an in-memory checkpoint saver, suitable for local
// usage and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stategraph/stategraph/internal/core/checkpoint"
	"github.com/stategraph/stategraph/pkg/serialization"
)

// Saver implements checkpoint.Saver with thread-safe in-memory storage.
// Checkpoints are held serialized so loads return independent copies, and
// expire after a TTL.
type Saver struct {
	mu      sync.RWMutex
	entries map[string]*entry

	ttl        time.Duration
	serializer *serialization.Serializer

	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	closeOnce     sync.Once
}

type entry struct {
	data      []byte
	graphName string
	execID    string
	timestamp time.Time
	expiresAt time.Time
}

// Config holds configuration for the in-memory saver.
type Config struct {
	TTL             time.Duration             // checkpoint lifetime; default 24h
	CleanupInterval time.Duration             // expiry sweep period; default 5m
	Serializer      *serialization.Serializer // optional custom serializer
}

// NewSaver creates an in-memory saver.
func NewSaver(cfg Config) *Saver {
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	if cfg.Serializer == nil {
		cfg.Serializer = serialization.Default()
	}
	s := &Saver{
		entries:     make(map[string]*entry),
		ttl:         cfg.TTL,
		serializer:  cfg.Serializer,
		stopCleanup: make(chan struct{}),
	}
	s.cleanupTicker = time.NewTicker(cfg.CleanupInterval)
	go s.cleanupLoop()
	return s
}

// DefaultSaver creates a saver with default settings.
func DefaultSaver() *Saver {
	return NewSaver(Config{})
}

// Save stores a checkpoint.
func (s *Saver) Save(_ context.Context, cp *checkpoint.Checkpoint) error {
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

	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[cp.ID] = &entry{
		data:      data,
		graphName: cp.GraphName,
		execID:    cp.ExecutionID,
		timestamp: cp.Timestamp,
		expiresAt: now.Add(s.ttl),
	}
	return nil
}

// Load retrieves a checkpoint by id.
func (s *Saver) Load(_ context.Context, id string) (*checkpoint.Checkpoint, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, checkpoint.ErrCheckpointNotFound
	}

	var cp checkpoint.Checkpoint
	if err := s.serializer.Unmarshal(e.data, &cp); err != nil {
		return nil, fmt.Errorf("checkpoint deserialization failed: %w", err)
	}
	return &cp, nil
}

// List returns checkpoints matching the filter, unordered.
func (s *Saver) List(_ context.Context, filter checkpoint.Filter) ([]*checkpoint.Checkpoint, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter validation failed: %w", err)
	}

	now := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*checkpoint.Checkpoint
	matched := 0
	for _, e := range s.entries {
		if now.After(e.expiresAt) {
			continue
		}
		if filter.GraphName != "" && e.graphName != filter.GraphName {
			continue
		}
		if filter.ExecutionID != "" && e.execID != filter.ExecutionID {
			continue
		}
		if filter.Since != nil && e.timestamp.Before(*filter.Since) {
			continue
		}
		if filter.Before != nil && !e.timestamp.Before(*filter.Before) {
			continue
		}
		matched++
		if filter.Offset > 0 && matched <= filter.Offset {
			continue
		}
		if filter.Limit > 0 && len(results) >= filter.Limit {
			break
		}
		var cp checkpoint.Checkpoint
		if err := s.serializer.Unmarshal(e.data, &cp); err != nil {
			return nil, fmt.Errorf("checkpoint deserialization failed: %w", err)
		}
		results = append(results, &cp)
	}
	return results, nil
}

// Delete removes a checkpoint by id.
func (s *Saver) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return checkpoint.ErrCheckpointNotFound
	}
	delete(s.entries, id)
	return nil
}

// Close stops the expiry sweep goroutine.
func (s *Saver) Close() {
	s.closeOnce.Do(func() {
		s.cleanupTicker.Stop()
		close(s.stopCleanup)
	})
}

func (s *Saver) cleanupLoop() {
	for {
		select {
		case <-s.cleanupTicker.C:
			now := time.Now()
			s.mu.Lock()
			for id, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, id)
				}
			}
			s.mu.Unlock()
		case <-s.stopCleanup:
			return
		}
	}
}
