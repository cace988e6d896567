package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/truckticketing/backend/internal/domain/audit"
	"go.uber.org/zap"
)

// ChangeService records and queries the audit trail. It serializes entity
// snapshots, runs the structural comparer and persists one row per detected
// field change.
type ChangeService struct {
	changeRepo audit.ChangeRepository
	logger     *zap.Logger
}

// NewChangeService creates a new ChangeService
func NewChangeService(changeRepo audit.ChangeRepository, logger *zap.Logger) *ChangeService {
	return &ChangeService{
		changeRepo: changeRepo,
		logger:     logger,
	}
}

// RecordChanges diffs two snapshots of an entity and persists the detected
// changes tagged with the entity and operation. Either snapshot may be nil
// (creation and deletion). Returns the detected changes; an unchanged entity
// records nothing.
func (s *ChangeService) RecordChanges(ctx context.Context, entityType string, entityID uuid.UUID, operation string, before, after any) ([]audit.FieldChange, error) {
	beforeNode, err := snapshot(before)
	if err != nil {
		return nil, fmt.Errorf("serialize before snapshot: %w", err)
	}
	afterNode, err := snapshot(after)
	if err != nil {
		return nil, fmt.Errorf("serialize after snapshot: %w", err)
	}

	changes := audit.Compare(beforeNode, afterNode)
	if len(changes) == 0 {
		return nil, nil
	}

	rows := make([]audit.EntityChange, 0, len(changes))
	for _, change := range changes {
		rows = append(rows, audit.NewEntityChange(entityType, entityID, operation, change))
	}
	if err := s.changeRepo.SaveAll(ctx, rows); err != nil {
		return nil, err
	}

	s.logger.Debug("Recorded entity changes",
		zap.String("entity_type", entityType),
		zap.String("entity_id", entityID.String()),
		zap.String("operation", operation),
		zap.Int("change_count", len(changes)))
	return changes, nil
}

// GetChanges lists the audit trail for an entity, newest first
func (s *ChangeService) GetChanges(ctx context.Context, entityType string, entityID uuid.UUID) ([]audit.EntityChange, error) {
	return s.changeRepo.FindByEntity(ctx, entityType, entityID)
}

// snapshot marshals an entity to JSON and parses it into a comparable tree.
// A nil entity yields a nil tree, which the comparer treats as an absent side.
func snapshot(entity any) (*audit.Node, error) {
	if entity == nil {
		return nil, nil
	}
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	// Typed nil pointers marshal to "null"; treat them as an absent side too.
	if string(data) == "null" {
		return nil, nil
	}
	return audit.Parse(data)
}
