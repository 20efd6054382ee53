package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stategraph/stategraph/internal/core/checkpoint"
)

// CheckpointService assigns identity to engine snapshots and mediates the
// Saver behind the persistence boundary.
type CheckpointService struct {
	saver checkpoint.Saver
}

// NewCheckpointService creates a recorder backed by the given saver.
func NewCheckpointService(saver checkpoint.Saver) *CheckpointService {
	return &CheckpointService{saver: saver}
}

// Record persists a checkpoint built by the engine, assigning its id,
// creator, and version.
func (s *CheckpointService) Record(ctx context.Context, cp *checkpoint.Checkpoint) (string, error) {
	cp.ID = uuid.NewString()
	cp.Version = "1.0"
	if cp.Metadata.CreatedBy == "" {
		cp.Metadata.CreatedBy = "stategraph"
	}
	if err := s.saver.Save(ctx, cp); err != nil {
		return "", fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return cp.ID, nil
}

// Load retrieves a checkpoint by id.
func (s *CheckpointService) Load(ctx context.Context, id string) (*checkpoint.Checkpoint, error) {
	cp, err := s.saver.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	return cp, nil
}

// Latest returns the most recent checkpoint for an execution, or
// checkpoint.ErrCheckpointNotFound when none exists.
func (s *CheckpointService) Latest(ctx context.Context, executionID string) (*checkpoint.Checkpoint, error) {
	cps, err := s.saver.List(ctx, checkpoint.Filter{ExecutionID: executionID})
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	if len(cps) == 0 {
		return nil, checkpoint.ErrCheckpointNotFound
	}
	latest := cps[0]
	for _, cp := range cps[1:] {
		if cp.Timestamp.After(latest.Timestamp) {
			latest = cp
		}
	}
	return latest, nil
}
