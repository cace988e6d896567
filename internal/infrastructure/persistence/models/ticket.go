package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/truckticketing/backend/internal/domain/ticket"
)

// TruckTicketModel is the persistence model for the TruckTicket aggregate.
type TruckTicketModel struct {
	AggregateModel
	TicketNumber        string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	AccountID           uuid.UUID           `gorm:"type:uuid;not null;index"`
	FacilityCode        string              `gorm:"type:varchar(50);not null;index"`
	MaterialDescription string              `gorm:"type:varchar(500)"`
	NetWeightTonnes     decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	TotalValue          decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	LoadDate            time.Time           `gorm:"not null;index"`
	Status              ticket.TicketStatus `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	Remark              string              `gorm:"type:text"`
	VoidedAt            *time.Time
	VoidReason          string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (TruckTicketModel) TableName() string {
	return "truck_tickets"
}

// ToDomain converts the persistence model to a domain TruckTicket.
func (m *TruckTicketModel) ToDomain() *ticket.TruckTicket {
	return &ticket.TruckTicket{
		BaseAggregateRoot:   m.ToDomainAggregateRoot(),
		TicketNumber:        m.TicketNumber,
		AccountID:           m.AccountID,
		FacilityCode:        m.FacilityCode,
		MaterialDescription: m.MaterialDescription,
		NetWeightTonnes:     m.NetWeightTonnes,
		TotalValue:          m.TotalValue,
		LoadDate:            m.LoadDate,
		Status:              m.Status,
		Remark:              m.Remark,
		VoidedAt:            m.VoidedAt,
		VoidReason:          m.VoidReason,
	}
}

// FromDomain populates the persistence model from a domain TruckTicket.
func (m *TruckTicketModel) FromDomain(t *ticket.TruckTicket) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.TicketNumber = t.TicketNumber
	m.AccountID = t.AccountID
	m.FacilityCode = t.FacilityCode
	m.MaterialDescription = t.MaterialDescription
	m.NetWeightTonnes = t.NetWeightTonnes
	m.TotalValue = t.TotalValue
	m.LoadDate = t.LoadDate
	m.Status = t.Status
	m.Remark = t.Remark
	m.VoidedAt = t.VoidedAt
	m.VoidReason = t.VoidReason
}
