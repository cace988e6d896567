package ticket

import (
	"context"

	"github.com/google/uuid"
	"github.com/truckticketing/backend/internal/domain/shared"
)

// Repository defines persistence operations for truck tickets
type Repository interface {
	shared.Repository[TruckTicket]
	FindByTicketNumber(ctx context.Context, ticketNumber string) (*TruckTicket, error)
	FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]TruckTicket, error)
}
