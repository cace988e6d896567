package models

import (
	"github.com/google/uuid"
	"github.com/truckticketing/backend/internal/domain/invoiceexchange"
)

// InvoiceExchangeConfigModel is the persistence model for the
// InvoiceExchangeConfig aggregate. Delivery configurations, including their
// ordered field mappings, are stored as JSONB documents.
type InvoiceExchangeConfigModel struct {
	AggregateModel
	Level                 invoiceexchange.ConfigLevel           `gorm:"type:varchar(20);not null;index:idx_ix_platform_level,priority:2"`
	PlatformCode          string                                `gorm:"type:varchar(50);not null;index:idx_ix_platform_level,priority:1"`
	RootInvoiceExchangeID *uuid.UUID                            `gorm:"type:uuid;index"`
	BusinessStreamID      *uuid.UUID                            `gorm:"type:uuid;index"`
	LegalEntityID         *uuid.UUID                            `gorm:"type:uuid;index"`
	BillingAccountID      *uuid.UUID                            `gorm:"type:uuid;index"`
	SupportsFieldTickets  bool                                  `gorm:"not null;default:false"`
	IsDeleted             bool                                  `gorm:"not null;default:false;index"`
	InvoiceDelivery       invoiceexchange.DeliveryConfiguration `gorm:"type:jsonb;not null"`
	FieldTicketDelivery   invoiceexchange.DeliveryConfiguration `gorm:"type:jsonb;not null"`
}

// TableName returns the table name for GORM
func (InvoiceExchangeConfigModel) TableName() string {
	return "invoice_exchange_configs"
}

// ToDomain converts the persistence model to a domain InvoiceExchangeConfig.
func (m *InvoiceExchangeConfigModel) ToDomain() *invoiceexchange.InvoiceExchangeConfig {
	return &invoiceexchange.InvoiceExchangeConfig{
		BaseAggregateRoot:     m.ToDomainAggregateRoot(),
		Level:                 m.Level,
		PlatformCode:          m.PlatformCode,
		RootInvoiceExchangeID: m.RootInvoiceExchangeID,
		BusinessStreamID:      m.BusinessStreamID,
		LegalEntityID:         m.LegalEntityID,
		BillingAccountID:      m.BillingAccountID,
		SupportsFieldTickets:  m.SupportsFieldTickets,
		IsDeleted:             m.IsDeleted,
		InvoiceDelivery:       m.InvoiceDelivery,
		FieldTicketDelivery:   m.FieldTicketDelivery,
	}
}

// FromDomain populates the persistence model from a domain InvoiceExchangeConfig.
func (m *InvoiceExchangeConfigModel) FromDomain(c *invoiceexchange.InvoiceExchangeConfig) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Level = c.Level
	m.PlatformCode = c.PlatformCode
	m.RootInvoiceExchangeID = c.RootInvoiceExchangeID
	m.BusinessStreamID = c.BusinessStreamID
	m.LegalEntityID = c.LegalEntityID
	m.BillingAccountID = c.BillingAccountID
	m.SupportsFieldTickets = c.SupportsFieldTickets
	m.IsDeleted = c.IsDeleted
	m.InvoiceDelivery = c.InvoiceDelivery
	m.FieldTicketDelivery = c.FieldTicketDelivery
}
