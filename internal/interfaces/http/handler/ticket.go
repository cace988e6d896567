package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ticketapp "github.com/truckticketing/backend/internal/application/ticket"
	"github.com/truckticketing/backend/internal/domain/audit"
	"github.com/truckticketing/backend/internal/domain/shared"
	"github.com/truckticketing/backend/internal/domain/ticket"
	"github.com/truckticketing/backend/internal/interfaces/http/dto"
)

// TicketHandler handles truck-ticket API endpoints
type TicketHandler struct {
	BaseHandler
	ticketService *ticketapp.TicketService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketService *ticketapp.TicketService) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
	}
}

// CreateTicketRequest represents a request to open a new truck ticket
type CreateTicketRequest struct {
	TicketNumber        string    `json:"ticket_number" binding:"required,min=1,max=50" example:"TT-2024-0001"`
	AccountID           uuid.UUID `json:"account_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	FacilityCode        string    `json:"facility_code" binding:"required,max=50" example:"FAC-ODESSA"`
	MaterialDescription string    `json:"material_description" binding:"max=500" example:"Produced water"`
	NetWeightTonnes     float64   `json:"net_weight_tonnes" binding:"required,gt=0" example:"24.5"`
	TotalValue          float64   `json:"total_value" binding:"gte=0" example:"1850.00"`
	LoadDate            time.Time `json:"load_date" binding:"required" example:"2026-08-20T08:30:00Z"`
}

// UpdateLoadRequest represents a correction to an open ticket's load details
type UpdateLoadRequest struct {
	MaterialDescription string  `json:"material_description" binding:"max=500" example:"Produced water"`
	NetWeightTonnes     float64 `json:"net_weight_tonnes" binding:"required,gt=0" example:"25.0"`
	TotalValue          float64 `json:"total_value" binding:"gte=0" example:"1900.00"`
}

// VoidTicketRequest represents a request to void a ticket
type VoidTicketRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500" example:"Duplicate entry"`
}

// TicketResponse represents a truck ticket in API responses
type TicketResponse struct {
	ID                  string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	TicketNumber        string  `json:"ticket_number" example:"TT-2024-0001"`
	AccountID           string  `json:"account_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	FacilityCode        string  `json:"facility_code" example:"FAC-ODESSA"`
	MaterialDescription string  `json:"material_description" example:"Produced water"`
	NetWeightTonnes     string  `json:"net_weight_tonnes" example:"24.5"`
	TotalValue          string  `json:"total_value" example:"1850.00"`
	LoadDate            string  `json:"load_date" example:"2026-08-20T08:30:00Z"`
	Status              string  `json:"status" example:"OPEN" enums:"OPEN,APPROVED,INVOICED,VOIDED"`
	Remark              string  `json:"remark,omitempty"`
	VoidedAt            *string `json:"voided_at,omitempty"`
	VoidReason          string  `json:"void_reason,omitempty"`
	CreatedAt           string  `json:"created_at" example:"2026-08-20T09:00:00Z"`
	UpdatedAt           string  `json:"updated_at" example:"2026-08-20T09:00:00Z"`
	Version             int     `json:"version" example:"1"`
}

// toTicketResponse converts a domain ticket to its API representation
func toTicketResponse(tt *ticket.TruckTicket) TicketResponse {
	resp := TicketResponse{
		ID:                  tt.ID.String(),
		TicketNumber:        tt.TicketNumber,
		AccountID:           tt.AccountID.String(),
		FacilityCode:        tt.FacilityCode,
		MaterialDescription: tt.MaterialDescription,
		NetWeightTonnes:     tt.NetWeightTonnes.String(),
		TotalValue:          tt.TotalValue.String(),
		LoadDate:            tt.LoadDate.Format(time.RFC3339),
		Status:              tt.Status.String(),
		Remark:              tt.Remark,
		VoidReason:          tt.VoidReason,
		CreatedAt:           tt.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           tt.UpdatedAt.Format(time.RFC3339),
		Version:             tt.Version,
	}
	if tt.VoidedAt != nil {
		voidedAt := tt.VoidedAt.Format(time.RFC3339)
		resp.VoidedAt = &voidedAt
	}
	return resp
}

// ChangeResponse represents one audit-trail row in API responses
type ChangeResponse struct {
	ID            string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Operation     string  `json:"operation" example:"UPDATE"`
	FieldName     string  `json:"field_name" example:"status"`
	FieldLocation string  `json:"field_location" example:"status"`
	ChangeType    string  `json:"change_type" example:"UPDATED" enums:"ADDED,UPDATED,DELETED"`
	ValueBefore   *string `json:"value_before"`
	ValueAfter    *string `json:"value_after"`
	ObjectID      *string `json:"object_id"`
	RecordedAt    string  `json:"recorded_at" example:"2026-08-20T09:05:00Z"`
}

// toChangeResponse converts an audit row to its API representation
func toChangeResponse(change audit.EntityChange) ChangeResponse {
	return ChangeResponse{
		ID:            change.ID.String(),
		Operation:     change.Operation,
		FieldName:     change.FieldName,
		FieldLocation: change.FieldLocation,
		ChangeType:    string(change.FieldChange.Operation),
		ValueBefore:   change.ValueBefore,
		ValueAfter:    change.ValueAfter,
		ObjectID:      change.ObjectID,
		RecordedAt:    change.RecordedAt.Format(time.RFC3339),
	}
}

// Create opens a ticket against an active account and records the creation
// in the audit trail.
func (h *TicketHandler) Create(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tt, err := h.ticketService.CreateTicket(c.Request.Context(), ticketapp.CreateTicketRequest{
		TicketNumber:        req.TicketNumber,
		AccountID:           req.AccountID,
		FacilityCode:        req.FacilityCode,
		MaterialDescription: req.MaterialDescription,
		NetWeightTonnes:     toDecimal(req.NetWeightTonnes),
		TotalValue:          toDecimal(req.TotalValue),
		LoadDate:            req.LoadDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toTicketResponse(tt))
}

// Get returns a single truck ticket.
func (h *TicketHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	tt, err := h.ticketService.GetTicket(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTicketResponse(tt))
}

// ListByAccount returns the tickets of one billing account, paginated.
func (h *TicketHandler) ListByAccount(c *gin.Context) {
	accountID, err := uuid.Parse(c.Query("account_id"))
	if err != nil {
		h.BadRequest(c, "Invalid account_id")
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.Filter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
	}

	tickets, err := h.ticketService.ListTicketsByAccount(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]TicketResponse, len(tickets))
	for i := range tickets {
		responses[i] = toTicketResponse(&tickets[i])
	}
	h.Success(c, responses)
}

// UpdateLoad corrects the load details of an open ticket.
func (h *TicketHandler) UpdateLoad(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	var req UpdateLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tt, err := h.ticketService.UpdateLoad(c.Request.Context(), id, ticketapp.UpdateLoadRequest{
		MaterialDescription: req.MaterialDescription,
		NetWeightTonnes:     toDecimal(req.NetWeightTonnes),
		TotalValue:          toDecimal(req.TotalValue),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTicketResponse(tt))
}

// Approve marks an open ticket as approved for invoicing.
func (h *TicketHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	tt, err := h.ticketService.ApproveTicket(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTicketResponse(tt))
}

// Void cancels a non-invoiced ticket with a mandatory reason.
func (h *TicketHandler) Void(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	var req VoidTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tt, err := h.ticketService.VoidTicket(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTicketResponse(tt))
}

// History lists every recorded field-level change for a ticket, newest first.
func (h *TicketHandler) History(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	changes, err := h.ticketService.GetTicketHistory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ChangeResponse, len(changes))
	for i, change := range changes {
		responses[i] = toChangeResponse(change)
	}
	h.Success(c, responses)
}
