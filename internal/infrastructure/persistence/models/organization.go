package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/truckticketing/backend/internal/domain/organization"
)

// BusinessStreamModel is the persistence model for the BusinessStream aggregate.
type BusinessStreamModel struct {
	AggregateModel
	Name string `gorm:"type:varchar(200);not null"`
	Code string `gorm:"type:varchar(20);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (BusinessStreamModel) TableName() string {
	return "business_streams"
}

// ToDomain converts the persistence model to a domain BusinessStream.
func (m *BusinessStreamModel) ToDomain() *organization.BusinessStream {
	return &organization.BusinessStream{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Code:              m.Code,
	}
}

// FromDomain populates the persistence model from a domain BusinessStream.
func (m *BusinessStreamModel) FromDomain(b *organization.BusinessStream) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.Name = b.Name
	m.Code = b.Code
}

// LegalEntityModel is the persistence model for the LegalEntity aggregate.
type LegalEntityModel struct {
	AggregateModel
	BusinessStreamID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name             string    `gorm:"type:varchar(200);not null"`
	Code             string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	CountryCode      string    `gorm:"type:varchar(2);not null"`
}

// TableName returns the table name for GORM
func (LegalEntityModel) TableName() string {
	return "legal_entities"
}

// ToDomain converts the persistence model to a domain LegalEntity.
func (m *LegalEntityModel) ToDomain() *organization.LegalEntity {
	return &organization.LegalEntity{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BusinessStreamID:  m.BusinessStreamID,
		Name:              m.Name,
		Code:              m.Code,
		CountryCode:       m.CountryCode,
	}
}

// FromDomain populates the persistence model from a domain LegalEntity.
func (m *LegalEntityModel) FromDomain(l *organization.LegalEntity) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.BusinessStreamID = l.BusinessStreamID
	m.Name = l.Name
	m.Code = l.Code
	m.CountryCode = l.CountryCode
}

// AccountModel is the persistence model for the Account aggregate.
type AccountModel struct {
	AggregateModel
	LegalEntityID uuid.UUID                  `gorm:"type:uuid;not null;index"`
	AccountNumber string                     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string                     `gorm:"type:varchar(200);not null"`
	Status        organization.AccountStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	CreditLimit   *decimal.Decimal           `gorm:"type:decimal(18,4)"`
	ClosedAt      *time.Time
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account.
func (m *AccountModel) ToDomain() *organization.Account {
	return &organization.Account{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		LegalEntityID:     m.LegalEntityID,
		AccountNumber:     m.AccountNumber,
		Name:              m.Name,
		Status:            m.Status,
		CreditLimit:       m.CreditLimit,
		ClosedAt:          m.ClosedAt,
	}
}

// FromDomain populates the persistence model from a domain Account.
func (m *AccountModel) FromDomain(a *organization.Account) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.LegalEntityID = a.LegalEntityID
	m.AccountNumber = a.AccountNumber
	m.Name = a.Name
	m.Status = a.Status
	m.CreditLimit = a.CreditLimit
	m.ClosedAt = a.ClosedAt
}
