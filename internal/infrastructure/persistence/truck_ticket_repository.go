package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/truckticketing/backend/internal/domain/shared"
	"github.com/truckticketing/backend/internal/domain/ticket"
	"github.com/truckticketing/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTruckTicketRepository implements the ticket Repository using GORM
type GormTruckTicketRepository struct {
	db *gorm.DB
}

// NewGormTruckTicketRepository creates a new GormTruckTicketRepository
func NewGormTruckTicketRepository(db *gorm.DB) *GormTruckTicketRepository {
	return &GormTruckTicketRepository{db: db}
}

// FindByID finds a truck ticket by its ID
func (r *GormTruckTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*ticket.TruckTicket, error) {
	var model models.TruckTicketModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTicketNumber finds a truck ticket by its ticket number
func (r *GormTruckTicketRepository) FindByTicketNumber(ctx context.Context, ticketNumber string) (*ticket.TruckTicket, error) {
	var model models.TruckTicketModel
	if err := r.db.WithContext(ctx).
		Where("ticket_number = ?", ticketNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAccount finds truck tickets recorded against an account
func (r *GormTruckTicketRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]ticket.TruckTicket, error) {
	var ticketModels []models.TruckTicketModel
	query := applyFilter(
		r.db.WithContext(ctx).Model(&models.TruckTicketModel{}).Where("account_id = ?", accountID),
		filter, "load_date DESC")

	if err := query.Find(&ticketModels).Error; err != nil {
		return nil, err
	}

	tickets := make([]ticket.TruckTicket, len(ticketModels))
	for i, model := range ticketModels {
		tickets[i] = *model.ToDomain()
	}
	return tickets, nil
}

// FindAll finds all truck tickets matching the filter
func (r *GormTruckTicketRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ticket.TruckTicket, error) {
	var ticketModels []models.TruckTicketModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.TruckTicketModel{}), filter, "load_date DESC")

	if err := query.Find(&ticketModels).Error; err != nil {
		return nil, err
	}

	tickets := make([]ticket.TruckTicket, len(ticketModels))
	for i, model := range ticketModels {
		tickets[i] = *model.ToDomain()
	}
	return tickets, nil
}

// Save creates or updates a truck ticket
func (r *GormTruckTicketRepository) Save(ctx context.Context, tt *ticket.TruckTicket) error {
	model := &models.TruckTicketModel{}
	model.FromDomain(tt)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a truck ticket
func (r *GormTruckTicketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TruckTicketModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTruckTicketRepository implements Repository
var _ ticket.Repository = (*GormTruckTicketRepository)(nil)
