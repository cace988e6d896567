package invoiceexchange

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for invoice-exchange configs.
// Every finder excludes soft-deleted rows and resolves ties by earliest
// creation time, so duplicate rows at a level yield a deterministic winner.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InvoiceExchangeConfig, error)
	Save(ctx context.Context, config *InvoiceExchangeConfig) error

	// FindGlobal returns the oldest non-deleted Global config for a platform,
	// or nil when the platform has no base config.
	FindGlobal(ctx context.Context, platformCode string) (*InvoiceExchangeConfig, error)

	// FindBusinessStreamConfig returns the oldest non-deleted BusinessStream
	// level config on the given ancestry path, or nil.
	FindBusinessStreamConfig(ctx context.Context, platformCode string, rootID, businessStreamID uuid.UUID) (*InvoiceExchangeConfig, error)

	// FindLegalEntityConfig returns the oldest non-deleted LegalEntity level
	// config on the given ancestry path, or nil.
	FindLegalEntityConfig(ctx context.Context, platformCode string, rootID, businessStreamID, legalEntityID uuid.UUID) (*InvoiceExchangeConfig, error)

	// FindCustomerConfig returns the oldest non-deleted Customer level config
	// on the given ancestry path, or nil.
	FindCustomerConfig(ctx context.Context, platformCode string, rootID, businessStreamID, legalEntityID, billingAccountID uuid.UUID) (*InvoiceExchangeConfig, error)
}
