package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChangeOperation classifies a detected field difference
type ChangeOperation string

const (
	ChangeAdded   ChangeOperation = "ADDED"
	ChangeUpdated ChangeOperation = "UPDATED"
	ChangeDeleted ChangeOperation = "DELETED"
)

// IsValid checks if the operation is a valid ChangeOperation
func (o ChangeOperation) IsValid() bool {
	switch o {
	case ChangeAdded, ChangeUpdated, ChangeDeleted:
		return true
	}
	return false
}

// FieldChange is one detected difference between two entity snapshots.
// FieldName is the simple property name (empty for bare array elements);
// FieldLocation is the full path including array indices, e.g.
// "ChildItems[0].Sports[2]". ObjectID carries the stringified Id of the
// nearest enclosing object that declares one, or nil.
type FieldChange struct {
	FieldName     string          `json:"field_name"`
	FieldLocation string          `json:"field_location"`
	Operation     ChangeOperation `json:"operation"`
	ValueBefore   *string         `json:"value_before"`
	ValueAfter    *string         `json:"value_after"`
	ObjectID      *string         `json:"object_id"`
}

// EntityChange is one persisted audit-trail row: a FieldChange tagged with
// the entity and domain operation it originated from.
type EntityChange struct {
	ID         uuid.UUID `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id"`
	Operation  string    `json:"operation"`
	FieldChange
	RecordedAt time.Time `json:"recorded_at"`
}

// NewEntityChange creates a persisted audit row from a detected change
func NewEntityChange(entityType string, entityID uuid.UUID, operation string, change FieldChange) EntityChange {
	return EntityChange{
		ID:          uuid.New(),
		EntityType:  entityType,
		EntityID:    entityID,
		Operation:   operation,
		FieldChange: change,
		RecordedAt:  time.Now(),
	}
}

// ChangeRepository defines persistence operations for the audit trail
type ChangeRepository interface {
	SaveAll(ctx context.Context, changes []EntityChange) error
	FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]EntityChange, error)
}
