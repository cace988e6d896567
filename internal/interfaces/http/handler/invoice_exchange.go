package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ixapp "github.com/truckticketing/backend/internal/application/invoiceexchange"
	"github.com/truckticketing/backend/internal/domain/invoiceexchange"
	"github.com/truckticketing/backend/internal/domain/shared"
	"github.com/truckticketing/backend/internal/interfaces/http/dto"
)

// InvoiceExchangeHandler handles invoice-exchange configuration API endpoints
type InvoiceExchangeHandler struct {
	BaseHandler
	configService   *ixapp.ConfigService
	resolverService *ixapp.ResolverService
}

// NewInvoiceExchangeHandler creates a new InvoiceExchangeHandler
func NewInvoiceExchangeHandler(configService *ixapp.ConfigService, resolverService *ixapp.ResolverService) *InvoiceExchangeHandler {
	return &InvoiceExchangeHandler{
		configService:   configService,
		resolverService: resolverService,
	}
}

// ConfigRequest represents a request to create or update a config node
type ConfigRequest struct {
	Level                 string                                `json:"level" binding:"required,oneof=GLOBAL BUSINESS_STREAM LEGAL_ENTITY CUSTOMER" example:"GLOBAL"`
	PlatformCode          string                                `json:"platform_code" binding:"required,min=1,max=50" example:"OPENINVOICE"`
	RootInvoiceExchangeID *uuid.UUID                            `json:"root_invoice_exchange_id"`
	BusinessStreamID      *uuid.UUID                            `json:"business_stream_id"`
	LegalEntityID         *uuid.UUID                            `json:"legal_entity_id"`
	BillingAccountID      *uuid.UUID                            `json:"billing_account_id"`
	SupportsFieldTickets  bool                                  `json:"supports_field_tickets"`
	InvoiceDelivery       invoiceexchange.DeliveryConfiguration `json:"invoice_delivery"`
	FieldTicketDelivery   invoiceexchange.DeliveryConfiguration `json:"field_ticket_delivery"`
}

// toDomain materializes a new config node from the request
func (r *ConfigRequest) toDomain() *invoiceexchange.InvoiceExchangeConfig {
	return &invoiceexchange.InvoiceExchangeConfig{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		Level:                 invoiceexchange.ConfigLevel(r.Level),
		PlatformCode:          r.PlatformCode,
		RootInvoiceExchangeID: r.RootInvoiceExchangeID,
		BusinessStreamID:      r.BusinessStreamID,
		LegalEntityID:         r.LegalEntityID,
		BillingAccountID:      r.BillingAccountID,
		SupportsFieldTickets:  r.SupportsFieldTickets,
		InvoiceDelivery:       r.InvoiceDelivery,
		FieldTicketDelivery:   r.FieldTicketDelivery,
	}
}

// applyTo overlays the request onto an existing config node
func (r *ConfigRequest) applyTo(config *invoiceexchange.InvoiceExchangeConfig) {
	config.Level = invoiceexchange.ConfigLevel(r.Level)
	config.PlatformCode = r.PlatformCode
	config.RootInvoiceExchangeID = r.RootInvoiceExchangeID
	config.BusinessStreamID = r.BusinessStreamID
	config.LegalEntityID = r.LegalEntityID
	config.BillingAccountID = r.BillingAccountID
	config.SupportsFieldTickets = r.SupportsFieldTickets
	config.InvoiceDelivery = r.InvoiceDelivery
	config.FieldTicketDelivery = r.FieldTicketDelivery
}

// ConfigResponse represents a config node in API responses
type ConfigResponse struct {
	ID                    string                                `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Level                 string                                `json:"level" example:"GLOBAL" enums:"GLOBAL,BUSINESS_STREAM,LEGAL_ENTITY,CUSTOMER"`
	PlatformCode          string                                `json:"platform_code" example:"OPENINVOICE"`
	RootInvoiceExchangeID *uuid.UUID                            `json:"root_invoice_exchange_id"`
	BusinessStreamID      *uuid.UUID                            `json:"business_stream_id"`
	LegalEntityID         *uuid.UUID                            `json:"legal_entity_id"`
	BillingAccountID      *uuid.UUID                            `json:"billing_account_id"`
	SupportsFieldTickets  bool                                  `json:"supports_field_tickets"`
	IsDeleted             bool                                  `json:"is_deleted"`
	InvoiceDelivery       invoiceexchange.DeliveryConfiguration `json:"invoice_delivery"`
	FieldTicketDelivery   invoiceexchange.DeliveryConfiguration `json:"field_ticket_delivery"`
	CreatedAt             string                                `json:"created_at" example:"2026-01-24T12:00:00Z"`
	UpdatedAt             string                                `json:"updated_at" example:"2026-01-24T12:00:00Z"`
	Version               int                                   `json:"version" example:"1"`
}

// toConfigResponse converts a domain config to its API representation
func toConfigResponse(config *invoiceexchange.InvoiceExchangeConfig) ConfigResponse {
	return ConfigResponse{
		ID:                    config.ID.String(),
		Level:                 config.Level.String(),
		PlatformCode:          config.PlatformCode,
		RootInvoiceExchangeID: config.RootInvoiceExchangeID,
		BusinessStreamID:      config.BusinessStreamID,
		LegalEntityID:         config.LegalEntityID,
		BillingAccountID:      config.BillingAccountID,
		SupportsFieldTickets:  config.SupportsFieldTickets,
		IsDeleted:             config.IsDeleted,
		InvoiceDelivery:       config.InvoiceDelivery,
		FieldTicketDelivery:   config.FieldTicketDelivery,
		CreatedAt:             config.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:             config.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Version:               config.Version,
	}
}

// ValidationResultResponse represents the outcome of a validation run
type ValidationResultResponse struct {
	Valid      bool               `json:"valid" example:"false"`
	Violations []shared.Violation `json:"violations"`
}

// Create validates a new config node against the hierarchy rules and persists it.
func (h *InvoiceExchangeHandler) Create(c *gin.Context) {
	var req ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	config := req.toDomain()
	if err := h.configService.CreateConfig(c.Request.Context(), config); err != nil {
		h.handleConfigError(c, err)
		return
	}

	h.Created(c, toConfigResponse(config))
}

// Get returns a single config node.
func (h *InvoiceExchangeHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid config ID")
		return
	}

	config, err := h.configService.GetConfig(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toConfigResponse(config))
}

// Update re-validates a config node against the hierarchy rules and persists
// the change.
func (h *InvoiceExchangeHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid config ID")
		return
	}

	var req ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	config, err := h.configService.GetConfig(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	req.applyTo(config)
	if err := h.configService.UpdateConfig(c.Request.Context(), config); err != nil {
		h.handleConfigError(c, err)
		return
	}

	h.Success(c, toConfigResponse(config))
}

// Delete soft-deletes a config node. The node stops participating in
// resolution but stays for audit history.
func (h *InvoiceExchangeHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid config ID")
		return
	}

	if err := h.configService.DeleteConfig(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ValidateConfigRequest represents a dry-run validation request
type ValidateConfigRequest struct {
	Operation string        `json:"operation" binding:"required,oneof=INSERT UPDATE" example:"INSERT"`
	ID        *uuid.UUID    `json:"id"`
	Config    ConfigRequest `json:"config" binding:"required"`
}

// Validate runs the full hierarchy rule set without persisting and returns
// every violation found.
func (h *InvoiceExchangeHandler) Validate(c *gin.Context) {
	var req ValidateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	target := req.Config.toDomain()
	if req.ID != nil {
		target.ID = *req.ID
	}

	result, err := h.configService.ValidateConfig(c.Request.Context(), target, invoiceexchange.Operation(req.Operation))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ValidationResultResponse{
		Valid:      result.Valid(),
		Violations: result.Violations,
	})
}

// Resolve walks the customer's ancestry and merges every applicable level
// into one effective config.
func (h *InvoiceExchangeHandler) Resolve(c *gin.Context) {
	platformCode := c.Query("platform_code")
	if platformCode == "" {
		h.BadRequest(c, "platform_code is required")
		return
	}

	customerID, err := uuid.Parse(c.Query("customer_id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer_id")
		return
	}

	config, err := h.resolverService.ResolveEffectiveConfig(c.Request.Context(), platformCode, customerID)
	if err != nil {
		if errors.Is(err, invoiceexchange.ErrAdapterNotSupported) || errors.Is(err, invoiceexchange.ErrAdapterUnknown) {
			h.UnprocessableEntity(c, dto.ErrCodeAdapterNotSupported, err.Error())
			return
		}
		h.HandleError(c, err)
		return
	}
	if config == nil {
		h.NotFound(c, "No effective configuration for this platform and customer")
		return
	}

	h.Success(c, toConfigResponse(config))
}

// handleConfigError maps config-service failures, turning hierarchy violations
// into a 422 carrying the full violation list.
func (h *InvoiceExchangeHandler) handleConfigError(c *gin.Context, err error) {
	var validationErr *ixapp.ValidationError
	if errors.As(err, &validationErr) {
		requestID := getRequestID(c)
		resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeConfigValidation, validationErr.Error(), requestID)
		resp.Data = ValidationResultResponse{
			Valid:      false,
			Violations: validationErr.Result.Violations,
		}
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeConfigValidation), resp)
		return
	}
	h.HandleError(c, err)
}
