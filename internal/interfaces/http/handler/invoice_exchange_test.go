package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	ixapp "github.com/truckticketing/backend/internal/application/invoiceexchange"
	"github.com/truckticketing/backend/internal/domain/invoiceexchange"
	"github.com/truckticketing/backend/internal/domain/organization"
	"github.com/truckticketing/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MockConfigRepository implements invoiceexchange.Repository for testing
type MockConfigRepository struct {
	mock.Mock
}

func (m *MockConfigRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoiceexchange.InvoiceExchangeConfig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoiceexchange.InvoiceExchangeConfig), args.Error(1)
}

func (m *MockConfigRepository) Save(ctx context.Context, config *invoiceexchange.InvoiceExchangeConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *MockConfigRepository) FindGlobal(ctx context.Context, platformCode string) (*invoiceexchange.InvoiceExchangeConfig, error) {
	args := m.Called(ctx, platformCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoiceexchange.InvoiceExchangeConfig), args.Error(1)
}

func (m *MockConfigRepository) FindBusinessStreamConfig(ctx context.Context, platformCode string, rootID, businessStreamID uuid.UUID) (*invoiceexchange.InvoiceExchangeConfig, error) {
	args := m.Called(ctx, platformCode, rootID, businessStreamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoiceexchange.InvoiceExchangeConfig), args.Error(1)
}

func (m *MockConfigRepository) FindLegalEntityConfig(ctx context.Context, platformCode string, rootID, businessStreamID, legalEntityID uuid.UUID) (*invoiceexchange.InvoiceExchangeConfig, error) {
	args := m.Called(ctx, platformCode, rootID, businessStreamID, legalEntityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoiceexchange.InvoiceExchangeConfig), args.Error(1)
}

func (m *MockConfigRepository) FindCustomerConfig(ctx context.Context, platformCode string, rootID, businessStreamID, legalEntityID, billingAccountID uuid.UUID) (*invoiceexchange.InvoiceExchangeConfig, error) {
	args := m.Called(ctx, platformCode, rootID, businessStreamID, legalEntityID, billingAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoiceexchange.InvoiceExchangeConfig), args.Error(1)
}

// stubAccountRepo serves a single account by ID
type stubAccountRepo struct {
	organization.AccountRepository
	account *organization.Account
}

func (r *stubAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*organization.Account, error) {
	if r.account != nil && r.account.ID == id {
		return r.account, nil
	}
	return nil, shared.ErrNotFound
}

// stubLegalEntityRepo serves a single legal entity by ID
type stubLegalEntityRepo struct {
	organization.LegalEntityRepository
	legalEntity *organization.LegalEntity
}

func (r *stubLegalEntityRepo) FindByID(ctx context.Context, id uuid.UUID) (*organization.LegalEntity, error) {
	if r.legalEntity != nil && r.legalEntity.ID == id {
		return r.legalEntity, nil
	}
	return nil, shared.ErrNotFound
}

// stubBusinessStreamRepo serves a single business stream by ID
type stubBusinessStreamRepo struct {
	organization.BusinessStreamRepository
	businessStream *organization.BusinessStream
}

func (r *stubBusinessStreamRepo) FindByID(ctx context.Context, id uuid.UUID) (*organization.BusinessStream, error) {
	if r.businessStream != nil && r.businessStream.ID == id {
		return r.businessStream, nil
	}
	return nil, shared.ErrNotFound
}

func setupInvoiceExchangeTest(t *testing.T, configRepo *MockConfigRepository, resolver *ixapp.ResolverService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	configService := ixapp.NewConfigService(configRepo, zap.NewNop())
	handler := NewInvoiceExchangeHandler(configService, resolver)

	r := gin.New()
	group := r.Group("/api/v1/invoice-exchange")
	group.POST("/configs", handler.Create)
	group.GET("/configs/:id", handler.Get)
	group.POST("/configs/validate", handler.Validate)
	group.GET("/resolve", handler.Resolve)
	return r
}

func globalConfigBody() map[string]any {
	return map[string]any{
		"level":         "GLOBAL",
		"platform_code": "OPENINVOICE",
		"invoice_delivery": map[string]any{
			"message_adapter_type": "CSV",
			"mappings": []map[string]any{
				{"id": uuid.New().String(), "destination_header_title": "Amount"},
			},
		},
		"field_ticket_delivery": map[string]any{
			"message_adapter_type": "UNDEFINED",
		},
	}
}

func TestInvoiceExchangeHandler_Create(t *testing.T) {
	t.Run("creates valid global config", func(t *testing.T) {
		configRepo := new(MockConfigRepository)
		configRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		r := setupInvoiceExchangeTest(t, configRepo, nil)

		body, _ := json.Marshal(globalConfigBody())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/invoice-exchange/configs", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Success bool           `json:"success"`
			Data    ConfigResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "GLOBAL", resp.Data.Level)
		assert.Equal(t, "OPENINVOICE", resp.Data.PlatformCode)
		configRepo.AssertExpectations(t)
	})

	t.Run("rejects config violating hierarchy rules with 422", func(t *testing.T) {
		configRepo := new(MockConfigRepository)
		r := setupInvoiceExchangeTest(t, configRepo, nil)

		// Customer level without any ancestry references.
		payload := globalConfigBody()
		payload["level"] = "CUSTOMER"
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/invoice-exchange/configs", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp struct {
			Success bool `json:"success"`
			Error   struct {
				Code string `json:"code"`
			} `json:"error"`
			Data ValidationResultResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "ERR_CONFIG_VALIDATION", resp.Error.Code)
		assert.NotEmpty(t, resp.Data.Violations)
		configRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects malformed level with 400", func(t *testing.T) {
		configRepo := new(MockConfigRepository)
		r := setupInvoiceExchangeTest(t, configRepo, nil)

		payload := globalConfigBody()
		payload["level"] = "REGIONAL"
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/invoice-exchange/configs", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestInvoiceExchangeHandler_Get(t *testing.T) {
	t.Run("returns 404 for unknown config", func(t *testing.T) {
		configRepo := new(MockConfigRepository)
		configID := uuid.New()
		configRepo.On("FindByID", mock.Anything, configID).Return(nil, shared.ErrNotFound)
		r := setupInvoiceExchangeTest(t, configRepo, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/invoice-exchange/configs/"+configID.String(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 400 for malformed id", func(t *testing.T) {
		configRepo := new(MockConfigRepository)
		r := setupInvoiceExchangeTest(t, configRepo, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/invoice-exchange/configs/not-a-uuid", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestInvoiceExchangeHandler_Validate(t *testing.T) {
	t.Run("reports violations without persisting", func(t *testing.T) {
		configRepo := new(MockConfigRepository)
		r := setupInvoiceExchangeTest(t, configRepo, nil)

		payload := map[string]any{
			"operation": "INSERT",
			"config": map[string]any{
				"level":         "CUSTOMER",
				"platform_code": "OPENINVOICE",
				"invoice_delivery": map[string]any{
					"message_adapter_type": "CSV",
				},
				"field_ticket_delivery": map[string]any{
					"message_adapter_type": "UNDEFINED",
				},
			},
		}
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/invoice-exchange/configs/validate", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool                     `json:"success"`
			Data    ValidationResultResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.False(t, resp.Data.Valid)
		assert.NotEmpty(t, resp.Data.Violations)
		configRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestInvoiceExchangeHandler_Resolve(t *testing.T) {
	newResolverFixture := func(t *testing.T, configRepo *MockConfigRepository) (*ixapp.ResolverService, uuid.UUID) {
		t.Helper()
		businessStream, err := organization.NewBusinessStream("Midstream Water", "MSW")
		require.NoError(t, err)
		legalEntity, err := organization.NewLegalEntity(businessStream.ID, "Secure Haul US", "SHUS", "US")
		require.NoError(t, err)
		account, err := organization.NewAccount(legalEntity.ID, "ACC-1001", "Pioneer Resources", nil)
		require.NoError(t, err)

		resolver := ixapp.NewResolverService(
			configRepo,
			&stubAccountRepo{account: account},
			&stubLegalEntityRepo{legalEntity: legalEntity},
			&stubBusinessStreamRepo{businessStream: businessStream},
			zap.NewNop(),
		)
		return resolver, account.ID
	}

	t.Run("resolves global-only hierarchy", func(t *testing.T) {
		configRepo := new(MockConfigRepository)
		resolver, accountID := newResolverFixture(t, configRepo)

		global := &invoiceexchange.InvoiceExchangeConfig{
			BaseAggregateRoot: shared.NewBaseAggregateRoot(),
			Level:             invoiceexchange.LevelGlobal,
			PlatformCode:      "OPENINVOICE",
			InvoiceDelivery: invoiceexchange.DeliveryConfiguration{
				MessageAdapterType: invoiceexchange.AdapterCsv,
				Mappings: invoiceexchange.FieldMappings{
					{ID: uuid.New(), DestinationHeaderTitle: "Amount"},
				},
			},
		}
		configRepo.On("FindGlobal", mock.Anything, "OPENINVOICE").Return(global, nil)
		configRepo.On("FindBusinessStreamConfig", mock.Anything, "OPENINVOICE", global.ID, mock.Anything).Return(nil, nil)
		configRepo.On("FindLegalEntityConfig", mock.Anything, "OPENINVOICE", global.ID, mock.Anything, mock.Anything).Return(nil, nil)
		configRepo.On("FindCustomerConfig", mock.Anything, "OPENINVOICE", global.ID, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

		r := setupInvoiceExchangeTest(t, configRepo, resolver)

		req := httptest.NewRequest(http.MethodGet,
			"/api/v1/invoice-exchange/resolve?platform_code=OPENINVOICE&customer_id="+accountID.String(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool           `json:"success"`
			Data    ConfigResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "OPENINVOICE", resp.Data.PlatformCode)
		assert.Len(t, resp.Data.InvoiceDelivery.Mappings, 1)
	})

	t.Run("returns 404 when platform has no global config", func(t *testing.T) {
		configRepo := new(MockConfigRepository)
		resolver, accountID := newResolverFixture(t, configRepo)
		configRepo.On("FindGlobal", mock.Anything, "CORTEX").Return(nil, nil)

		r := setupInvoiceExchangeTest(t, configRepo, resolver)

		req := httptest.NewRequest(http.MethodGet,
			"/api/v1/invoice-exchange/resolve?platform_code=CORTEX&customer_id="+accountID.String(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 400 when customer_id is missing", func(t *testing.T) {
		configRepo := new(MockConfigRepository)
		resolver, _ := newResolverFixture(t, configRepo)
		r := setupInvoiceExchangeTest(t, configRepo, resolver)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/invoice-exchange/resolve?platform_code=OPENINVOICE", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
