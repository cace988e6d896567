package organization

import (
	"strings"
	"time"

	"github.com/truckticketing/backend/internal/domain/shared"
)

// BusinessStream represents a line of business (e.g. midstream water, landfill)
// that groups legal entities for reporting and invoice-exchange configuration.
type BusinessStream struct {
	shared.BaseAggregateRoot
	Name string `json:"name"`
	Code string `json:"code"`
}

// NewBusinessStream creates a new business stream
func NewBusinessStream(name, code string) (*BusinessStream, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Business stream name cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Business stream code cannot be empty")
	}
	if len(code) > 20 {
		return nil, shared.NewDomainError("INVALID_CODE", "Business stream code cannot exceed 20 characters")
	}

	return &BusinessStream{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Code:              strings.ToUpper(code),
	}, nil
}

// Rename updates the business stream name
func (b *BusinessStream) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Business stream name cannot be empty")
	}
	b.Name = name
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}
