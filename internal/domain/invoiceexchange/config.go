package invoiceexchange

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/truckticketing/backend/internal/domain/shared"
)

// ConfigLevel identifies a node's position in the delivery-configuration
// hierarchy, ordered from most general to most specific.
type ConfigLevel string

const (
	LevelGlobal         ConfigLevel = "GLOBAL"
	LevelBusinessStream ConfigLevel = "BUSINESS_STREAM"
	LevelLegalEntity    ConfigLevel = "LEGAL_ENTITY"
	LevelCustomer       ConfigLevel = "CUSTOMER"
)

// IsValid checks if the level is a defined ConfigLevel
func (l ConfigLevel) IsValid() bool {
	switch l {
	case LevelGlobal, LevelBusinessStream, LevelLegalEntity, LevelCustomer:
		return true
	}
	return false
}

// String returns the string representation of ConfigLevel
func (l ConfigLevel) String() string {
	return string(l)
}

// Ordinal returns the specificity rank of the level. Higher means more
// specific; used to order configs for merging. Unknown levels rank lowest.
func (l ConfigLevel) Ordinal() int {
	switch l {
	case LevelGlobal:
		return 0
	case LevelBusinessStream:
		return 1
	case LevelLegalEntity:
		return 2
	case LevelCustomer:
		return 3
	}
	return -1
}

// MessageAdapterType identifies the wire format/protocol family used to
// deliver an invoice or field-ticket document to an external platform.
type MessageAdapterType string

const (
	AdapterUndefined    MessageAdapterType = "UNDEFINED"
	AdapterPidx         MessageAdapterType = "PIDX"
	AdapterMailMessage  MessageAdapterType = "MAIL_MESSAGE"
	AdapterCsv          MessageAdapterType = "CSV"
	AdapterOpenApi      MessageAdapterType = "OPEN_API"
	AdapterHttpEndpoint MessageAdapterType = "HTTP_ENDPOINT"
)

// IsValid checks if the adapter type is one of the declared values
func (a MessageAdapterType) IsValid() bool {
	switch a {
	case AdapterUndefined, AdapterPidx, AdapterMailMessage, AdapterCsv, AdapterOpenApi, AdapterHttpEndpoint:
		return true
	}
	return false
}

// IsDefined returns true for a declared, non-default adapter type
func (a MessageAdapterType) IsDefined() bool {
	return a != "" && a != AdapterUndefined && a.IsValid()
}

// String returns the string representation of MessageAdapterType
func (a MessageAdapterType) String() string {
	return string(a)
}

// FieldMapping ties one internal data field to one position/column/tag of the
// outbound document format. A mapping either reads a source field or carries a
// constant/expression value.
type FieldMapping struct {
	ID                       uuid.UUID `json:"id"`
	SourceField              string    `json:"source_field,omitempty"`
	DestinationModelFieldID  *string   `json:"destination_model_field_id"`
	DestinationPlacementHint string    `json:"destination_placement_hint,omitempty"`
	DestinationHeaderTitle   string    `json:"destination_header_title,omitempty"`
	DestinationFieldPosition int       `json:"destination_field_position"`
	IsDisabled               bool      `json:"is_disabled"`
	ConstantValue            string    `json:"constant_value,omitempty"`
	ExpressionValue          string    `json:"expression_value,omitempty"`
}

// FieldMappings is an ordered list of FieldMapping stored as JSONB
type FieldMappings []FieldMapping

// Value implements driver.Valuer for JSONB storage
func (m FieldMappings) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB storage
func (m *FieldMappings) Scan(value interface{}) error {
	if value == nil {
		*m = FieldMappings{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan FieldMappings: unsupported type")
	}

	if len(bytes) == 0 {
		*m = FieldMappings{}
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// DeliveryConfiguration describes how one document stream (invoices or field
// tickets) is delivered to a platform: the adapter, its transport settings and
// the ordered field mappings. Stored as JSONB within the config row.
type DeliveryConfiguration struct {
	MessageAdapterType  MessageAdapterType `json:"message_adapter_type"`
	DestinationEndpoint string             `json:"destination_endpoint,omitempty"`
	DestinationMailbox  string             `json:"destination_mailbox,omitempty"`
	CsvDelimiter        string             `json:"csv_delimiter,omitempty"`
	Mappings            FieldMappings      `json:"mappings"`
}

// Value implements driver.Valuer for JSONB storage
func (d DeliveryConfiguration) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB storage
func (d *DeliveryConfiguration) Scan(value interface{}) error {
	if value == nil {
		*d = DeliveryConfiguration{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan DeliveryConfiguration: unsupported type")
	}

	if len(bytes) == 0 {
		*d = DeliveryConfiguration{}
		return nil
	}

	return json.Unmarshal(bytes, d)
}

// clone returns a deep copy of the delivery configuration
func (d DeliveryConfiguration) clone() DeliveryConfiguration {
	out := d
	out.Mappings = make(FieldMappings, len(d.Mappings))
	copy(out.Mappings, d.Mappings)
	return out
}

// InvoiceExchangeConfig is one node of the four-level delivery-configuration
// hierarchy for a platform. Global is the mandatory base of a hierarchy; the
// BusinessStream/LegalEntity/Customer levels narrow it down an ancestry path.
type InvoiceExchangeConfig struct {
	shared.BaseAggregateRoot
	Level                 ConfigLevel `json:"level"`
	PlatformCode          string      `json:"platform_code"`
	RootInvoiceExchangeID *uuid.UUID  `json:"root_invoice_exchange_id"`
	BusinessStreamID      *uuid.UUID  `json:"business_stream_id"`
	LegalEntityID         *uuid.UUID  `json:"legal_entity_id"`
	BillingAccountID      *uuid.UUID  `json:"billing_account_id"`
	SupportsFieldTickets  bool        `json:"supports_field_tickets"`
	IsDeleted             bool        `json:"is_deleted"`

	InvoiceDelivery     DeliveryConfiguration `json:"invoice_delivery"`
	FieldTicketDelivery DeliveryConfiguration `json:"field_ticket_delivery"`
}

// Clone returns a deep copy of the config. The merge engine materializes its
// result on a clone so stored nodes are never mutated.
func (c *InvoiceExchangeConfig) Clone() *InvoiceExchangeConfig {
	out := *c
	if c.RootInvoiceExchangeID != nil {
		v := *c.RootInvoiceExchangeID
		out.RootInvoiceExchangeID = &v
	}
	if c.BusinessStreamID != nil {
		v := *c.BusinessStreamID
		out.BusinessStreamID = &v
	}
	if c.LegalEntityID != nil {
		v := *c.LegalEntityID
		out.LegalEntityID = &v
	}
	if c.BillingAccountID != nil {
		v := *c.BillingAccountID
		out.BillingAccountID = &v
	}
	out.InvoiceDelivery = c.InvoiceDelivery.clone()
	out.FieldTicketDelivery = c.FieldTicketDelivery.clone()
	return &out
}
