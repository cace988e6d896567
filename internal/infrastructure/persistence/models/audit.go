package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/truckticketing/backend/internal/domain/audit"
)

// EntityChangeModel is the persistence model for one audit-trail row.
// Rows are append-only; there is no update path.
type EntityChangeModel struct {
	ID            uuid.UUID             `gorm:"type:uuid;primary_key"`
	EntityType    string                `gorm:"type:varchar(100);not null;index:idx_field_changes_entity,priority:1"`
	EntityID      uuid.UUID             `gorm:"type:uuid;not null;index:idx_field_changes_entity,priority:2"`
	Operation     string                `gorm:"type:varchar(20);not null"`
	FieldName     string                `gorm:"type:varchar(200);not null"`
	FieldLocation string                `gorm:"type:varchar(500);not null"`
	ChangeType    audit.ChangeOperation `gorm:"type:varchar(20);not null"`
	ValueBefore   *string               `gorm:"type:text"`
	ValueAfter    *string               `gorm:"type:text"`
	ObjectID      *string               `gorm:"type:varchar(100)"`
	RecordedAt    time.Time             `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (EntityChangeModel) TableName() string {
	return "field_changes"
}

// ToDomain converts the persistence model to a domain EntityChange.
func (m *EntityChangeModel) ToDomain() audit.EntityChange {
	return audit.EntityChange{
		ID:         m.ID,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Operation:  m.Operation,
		FieldChange: audit.FieldChange{
			FieldName:     m.FieldName,
			FieldLocation: m.FieldLocation,
			Operation:     m.ChangeType,
			ValueBefore:   m.ValueBefore,
			ValueAfter:    m.ValueAfter,
			ObjectID:      m.ObjectID,
		},
		RecordedAt: m.RecordedAt,
	}
}

// FromDomain populates the persistence model from a domain EntityChange.
func (m *EntityChangeModel) FromDomain(c audit.EntityChange) {
	m.ID = c.ID
	m.EntityType = c.EntityType
	m.EntityID = c.EntityID
	m.Operation = c.Operation
	m.FieldName = c.FieldName
	m.FieldLocation = c.FieldLocation
	m.ChangeType = c.FieldChange.Operation
	m.ValueBefore = c.ValueBefore
	m.ValueAfter = c.ValueAfter
	m.ObjectID = c.ObjectID
	m.RecordedAt = c.RecordedAt
}
