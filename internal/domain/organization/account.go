package organization

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/truckticketing/backend/internal/domain/shared"
)

// AccountStatus represents the lifecycle status of a billing account
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
	AccountStatusClosed   AccountStatus = "CLOSED"
)

// IsValid checks if the status is a valid AccountStatus
func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusActive, AccountStatusInactive, AccountStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of AccountStatus
func (s AccountStatus) String() string {
	return string(s)
}

// Account represents a customer billing account. Accounts belong to exactly one
// legal entity and are the most specific node of the invoice-exchange hierarchy.
type Account struct {
	shared.BaseAggregateRoot
	LegalEntityID uuid.UUID        `json:"legal_entity_id"`
	AccountNumber string           `json:"account_number"`
	Name          string           `json:"name"`
	Status        AccountStatus    `json:"status"`
	CreditLimit   *decimal.Decimal `json:"credit_limit,omitempty"`
	ClosedAt      *time.Time       `json:"closed_at,omitempty"`
}

// NewAccount creates a new active billing account
func NewAccount(legalEntityID uuid.UUID, accountNumber, name string, creditLimit *decimal.Decimal) (*Account, error) {
	if legalEntityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEGAL_ENTITY", "Legal entity ID cannot be empty")
	}
	if accountNumber == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NUMBER", "Account number cannot be empty")
	}
	if len(accountNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NUMBER", "Account number cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	if creditLimit != nil && creditLimit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}

	return &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LegalEntityID:     legalEntityID,
		AccountNumber:     accountNumber,
		Name:              name,
		Status:            AccountStatusActive,
		CreditLimit:       creditLimit,
	}, nil
}

// Deactivate marks the account inactive; tickets may no longer be opened against it
func (a *Account) Deactivate() error {
	if a.Status == AccountStatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Cannot deactivate a closed account")
	}
	a.Status = AccountStatusInactive
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Activate re-activates an inactive account
func (a *Account) Activate() error {
	if a.Status == AccountStatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Cannot activate a closed account")
	}
	a.Status = AccountStatusActive
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Close permanently closes the account
func (a *Account) Close() error {
	if a.Status == AccountStatusClosed {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Account is already in %s status", a.Status))
	}
	now := time.Now()
	a.Status = AccountStatusClosed
	a.ClosedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()
	return nil
}

// IsActive returns true if tickets can be recorded against this account
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}
