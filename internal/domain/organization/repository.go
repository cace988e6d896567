package organization

import (
	"context"

	"github.com/google/uuid"
	"github.com/truckticketing/backend/internal/domain/shared"
)

// BusinessStreamRepository defines persistence operations for business streams
type BusinessStreamRepository interface {
	shared.Repository[BusinessStream]
	FindByCode(ctx context.Context, code string) (*BusinessStream, error)
}

// LegalEntityRepository defines persistence operations for legal entities
type LegalEntityRepository interface {
	shared.Repository[LegalEntity]
	FindByBusinessStream(ctx context.Context, businessStreamID uuid.UUID) ([]LegalEntity, error)
}

// AccountRepository defines persistence operations for billing accounts
type AccountRepository interface {
	shared.Repository[Account]
	FindByAccountNumber(ctx context.Context, accountNumber string) (*Account, error)
	FindByLegalEntity(ctx context.Context, legalEntityID uuid.UUID) ([]Account, error)
}
