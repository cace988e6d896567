package ticket

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/truckticketing/backend/internal/domain/shared"
)

// TicketStatus represents the lifecycle status of a truck ticket
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "OPEN"
	TicketStatusApproved TicketStatus = "APPROVED"
	TicketStatusInvoiced TicketStatus = "INVOICED"
	TicketStatusVoided   TicketStatus = "VOIDED"
)

// IsValid checks if the status is a valid TicketStatus
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusApproved, TicketStatusInvoiced, TicketStatusVoided:
		return true
	}
	return false
}

// String returns the string representation of TicketStatus
func (s TicketStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses that allow no further transitions
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusInvoiced || s == TicketStatusVoided
}

// TruckTicket represents one hauled load delivered to a facility. Tickets are
// the billing source documents; every mutation is written to the audit trail.
type TruckTicket struct {
	shared.BaseAggregateRoot
	TicketNumber        string          `json:"ticket_number"`
	AccountID           uuid.UUID       `json:"account_id"`
	FacilityCode        string          `json:"facility_code"`
	MaterialDescription string          `json:"material_description"`
	NetWeightTonnes     decimal.Decimal `json:"net_weight_tonnes"`
	TotalValue          decimal.Decimal `json:"total_value"`
	LoadDate            time.Time       `json:"load_date"`
	Status              TicketStatus    `json:"status"`
	Remark              string          `json:"remark"`
	VoidedAt            *time.Time      `json:"voided_at,omitempty"`
	VoidReason          string          `json:"void_reason,omitempty"`
}

// NewTruckTicket creates a new open truck ticket
func NewTruckTicket(
	ticketNumber string,
	accountID uuid.UUID,
	facilityCode string,
	materialDescription string,
	netWeightTonnes decimal.Decimal,
	totalValue decimal.Decimal,
	loadDate time.Time,
) (*TruckTicket, error) {
	if ticketNumber == "" {
		return nil, shared.NewDomainError("INVALID_TICKET_NUMBER", "Ticket number cannot be empty")
	}
	if len(ticketNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_TICKET_NUMBER", "Ticket number cannot exceed 50 characters")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if facilityCode == "" {
		return nil, shared.NewDomainError("INVALID_FACILITY", "Facility code cannot be empty")
	}
	if netWeightTonnes.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_WEIGHT", "Net weight must be positive")
	}
	if totalValue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_VALUE", "Total value cannot be negative")
	}
	if loadDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_LOAD_DATE", "Load date is required")
	}

	return &TruckTicket{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		TicketNumber:        ticketNumber,
		AccountID:           accountID,
		FacilityCode:        facilityCode,
		MaterialDescription: materialDescription,
		NetWeightTonnes:     netWeightTonnes,
		TotalValue:          totalValue,
		LoadDate:            loadDate,
		Status:              TicketStatusOpen,
	}, nil
}

// UpdateLoad corrects the measured load details while the ticket is still open
func (tt *TruckTicket) UpdateLoad(materialDescription string, netWeightTonnes, totalValue decimal.Decimal) error {
	if tt.Status != TicketStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update load details in %s status", tt.Status))
	}
	if netWeightTonnes.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_WEIGHT", "Net weight must be positive")
	}
	if totalValue.IsNegative() {
		return shared.NewDomainError("INVALID_VALUE", "Total value cannot be negative")
	}

	tt.MaterialDescription = materialDescription
	tt.NetWeightTonnes = netWeightTonnes
	tt.TotalValue = totalValue
	tt.UpdatedAt = time.Now()
	tt.IncrementVersion()
	return nil
}

// Approve marks an open ticket ready for invoicing
func (tt *TruckTicket) Approve() error {
	if tt.Status != TicketStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve ticket in %s status", tt.Status))
	}
	tt.Status = TicketStatusApproved
	tt.UpdatedAt = time.Now()
	tt.IncrementVersion()
	return nil
}

// MarkInvoiced records that the ticket was billed on an invoice
func (tt *TruckTicket) MarkInvoiced() error {
	if tt.Status != TicketStatusApproved {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot invoice ticket in %s status", tt.Status))
	}
	tt.Status = TicketStatusInvoiced
	tt.UpdatedAt = time.Now()
	tt.IncrementVersion()
	return nil
}

// Void cancels the ticket with a reason; invoiced tickets cannot be voided
func (tt *TruckTicket) Void(reason string) error {
	if tt.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void ticket in %s status", tt.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}
	now := time.Now()
	tt.Status = TicketStatusVoided
	tt.VoidedAt = &now
	tt.VoidReason = reason
	tt.UpdatedAt = now
	tt.IncrementVersion()
	return nil
}

// SetRemark sets the free-text remark
func (tt *TruckTicket) SetRemark(remark string) {
	tt.Remark = remark
	tt.UpdatedAt = time.Now()
	tt.IncrementVersion()
}
