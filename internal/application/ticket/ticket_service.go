package ticket

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	auditapp "github.com/truckticketing/backend/internal/application/audit"
	"github.com/truckticketing/backend/internal/domain/audit"
	"github.com/truckticketing/backend/internal/domain/organization"
	"github.com/truckticketing/backend/internal/domain/shared"
	"github.com/truckticketing/backend/internal/domain/ticket"
	"go.uber.org/zap"
)

// entityType tags truck-ticket rows in the audit trail
const entityType = "TruckTicket"

// TicketService manages the truck-ticket lifecycle. Every mutation snapshots
// the aggregate before and after and records the field-level differences in
// the audit trail.
type TicketService struct {
	ticketRepo  ticket.Repository
	accountRepo organization.AccountRepository
	changes     *auditapp.ChangeService
	logger      *zap.Logger
}

// NewTicketService creates a new TicketService
func NewTicketService(
	ticketRepo ticket.Repository,
	accountRepo organization.AccountRepository,
	changes *auditapp.ChangeService,
	logger *zap.Logger,
) *TicketService {
	return &TicketService{
		ticketRepo:  ticketRepo,
		accountRepo: accountRepo,
		changes:     changes,
		logger:      logger,
	}
}

// CreateTicketRequest carries the inputs for opening a new ticket
type CreateTicketRequest struct {
	TicketNumber        string
	AccountID           uuid.UUID
	FacilityCode        string
	MaterialDescription string
	NetWeightTonnes     decimal.Decimal
	TotalValue          decimal.Decimal
	LoadDate            time.Time
}

// CreateTicket opens a new ticket against an active account
func (s *TicketService) CreateTicket(ctx context.Context, req CreateTicketRequest) (*ticket.TruckTicket, error) {
	account, err := s.accountRepo.FindByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive() {
		return nil, shared.NewDomainError("ACCOUNT_NOT_ACTIVE", "Tickets can only be opened against active accounts")
	}

	if existing, err := s.ticketRepo.FindByTicketNumber(ctx, req.TicketNumber); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	tt, err := ticket.NewTruckTicket(
		req.TicketNumber,
		req.AccountID,
		req.FacilityCode,
		req.MaterialDescription,
		req.NetWeightTonnes,
		req.TotalValue,
		req.LoadDate,
	)
	if err != nil {
		return nil, err
	}

	if err := s.ticketRepo.Save(ctx, tt); err != nil {
		return nil, err
	}
	s.recordChanges(ctx, tt.ID, "INSERT", nil, tt)

	s.logger.Info("Truck ticket created",
		zap.String("ticket_id", tt.ID.String()),
		zap.String("ticket_number", tt.TicketNumber))
	return tt, nil
}

// GetTicket returns a ticket by ID
func (s *TicketService) GetTicket(ctx context.Context, id uuid.UUID) (*ticket.TruckTicket, error) {
	return s.ticketRepo.FindByID(ctx, id)
}

// ListTicketsByAccount lists tickets recorded against an account
func (s *TicketService) ListTicketsByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]ticket.TruckTicket, error) {
	return s.ticketRepo.FindByAccount(ctx, accountID, filter)
}

// UpdateLoadRequest carries corrections to an open ticket's load details
type UpdateLoadRequest struct {
	MaterialDescription string
	NetWeightTonnes     decimal.Decimal
	TotalValue          decimal.Decimal
}

// UpdateLoad corrects the measured load details of an open ticket
func (s *TicketService) UpdateLoad(ctx context.Context, id uuid.UUID, req UpdateLoadRequest) (*ticket.TruckTicket, error) {
	return s.mutate(ctx, id, "UPDATE", func(tt *ticket.TruckTicket) error {
		return tt.UpdateLoad(req.MaterialDescription, req.NetWeightTonnes, req.TotalValue)
	})
}

// ApproveTicket marks an open ticket ready for invoicing
func (s *TicketService) ApproveTicket(ctx context.Context, id uuid.UUID) (*ticket.TruckTicket, error) {
	return s.mutate(ctx, id, "UPDATE", func(tt *ticket.TruckTicket) error {
		return tt.Approve()
	})
}

// VoidTicket cancels a non-invoiced ticket with a reason
func (s *TicketService) VoidTicket(ctx context.Context, id uuid.UUID, reason string) (*ticket.TruckTicket, error) {
	return s.mutate(ctx, id, "UPDATE", func(tt *ticket.TruckTicket) error {
		return tt.Void(reason)
	})
}

// GetTicketHistory lists the audit trail recorded for a ticket
func (s *TicketService) GetTicketHistory(ctx context.Context, id uuid.UUID) ([]audit.EntityChange, error) {
	return s.changes.GetChanges(ctx, entityType, id)
}

// mutate loads a ticket, snapshots it, applies the mutation, persists and
// records the resulting field changes.
func (s *TicketService) mutate(ctx context.Context, id uuid.UUID, operation string, fn func(*ticket.TruckTicket) error) (*ticket.TruckTicket, error) {
	tt, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := *tt
	if err := fn(tt); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Save(ctx, tt); err != nil {
		return nil, err
	}
	s.recordChanges(ctx, tt.ID, operation, &before, tt)
	return tt, nil
}

// recordChanges writes the audit trail for one mutation. Audit failures are
// logged, not surfaced; the business write has already committed.
func (s *TicketService) recordChanges(ctx context.Context, id uuid.UUID, operation string, before, after *ticket.TruckTicket) {
	var beforeSnapshot any
	if before != nil {
		beforeSnapshot = before
	}
	if _, err := s.changes.RecordChanges(ctx, entityType, id, operation, beforeSnapshot, after); err != nil {
		s.logger.Error("Failed to record ticket changes",
			zap.String("ticket_id", id.String()),
			zap.String("operation", operation),
			zap.Error(err))
	}
}
