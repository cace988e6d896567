package organization

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/truckticketing/backend/internal/domain/shared"
)

// LegalEntity represents an operating legal entity. Every legal entity belongs
// to exactly one business stream; billing accounts hang off legal entities.
type LegalEntity struct {
	shared.BaseAggregateRoot
	BusinessStreamID uuid.UUID `json:"business_stream_id"`
	Name             string    `json:"name"`
	Code             string    `json:"code"`
	CountryCode      string    `json:"country_code"`
}

// NewLegalEntity creates a new legal entity under a business stream
func NewLegalEntity(businessStreamID uuid.UUID, name, code, countryCode string) (*LegalEntity, error) {
	if businessStreamID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS_STREAM", "Business stream ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Legal entity name cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Legal entity code cannot be empty")
	}
	countryCode = strings.ToUpper(countryCode)
	if len(countryCode) != 2 {
		return nil, shared.NewDomainError("INVALID_COUNTRY_CODE", "Country code must be a 2-letter ISO code")
	}

	return &LegalEntity{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BusinessStreamID:  businessStreamID,
		Name:              name,
		Code:              strings.ToUpper(code),
		CountryCode:       countryCode,
	}, nil
}

// Rename updates the legal entity name
func (l *LegalEntity) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Legal entity name cannot be empty")
	}
	l.Name = name
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}
