package invoiceexchange

import (
	"github.com/truckticketing/backend/internal/domain/shared"
)

// Violation codes raised by the hierarchy validator. One stable constant per
// rule so callers and the UI can branch or localize without parsing messages.
const (
	CodePlatformCodeRequired = "IX_PLATFORM_CODE_REQUIRED"
	CodeLevelInvalid         = "IX_LEVEL_INVALID"

	CodeRootRequired = "IX_ROOT_REQUIRED"
	CodeRootNotFound = "IX_ROOT_NOT_FOUND"

	CodeFieldTicketSupportMismatch = "IX_FIELD_TICKET_SUPPORT_MISMATCH"
	CodeInvoiceAdapterMismatch     = "IX_INVOICE_ADAPTER_MISMATCH"
	CodeFieldTicketAdapterMismatch = "IX_FIELD_TICKET_ADAPTER_MISMATCH"

	CodeBusinessStreamRequired    = "IX_BUSINESS_STREAM_REQUIRED"
	CodeBusinessStreamMustBeEmpty = "IX_BUSINESS_STREAM_MUST_BE_EMPTY"
	CodeLegalEntityRequired       = "IX_LEGAL_ENTITY_REQUIRED"
	CodeLegalEntityMustBeEmpty    = "IX_LEGAL_ENTITY_MUST_BE_EMPTY"
	CodeBillingAccountRequired    = "IX_BILLING_ACCOUNT_REQUIRED"
	CodeBillingAccountMustBeEmpty = "IX_BILLING_ACCOUNT_MUST_BE_EMPTY"

	CodeInvoiceAdapterRequired     = "IX_INVOICE_ADAPTER_REQUIRED"
	CodeFieldTicketAdapterRequired = "IX_FIELD_TICKET_ADAPTER_REQUIRED"
)

// Operation identifies the kind of change being validated
type Operation string

const (
	OperationInsert Operation = "INSERT"
	OperationUpdate Operation = "UPDATE"
	OperationDelete Operation = "DELETE"
)

// ValidationContext carries everything the hierarchy rules need: the node
// being written, its previous state on update, and the pre-fetched parent
// config referenced by RootInvoiceExchangeID (nil when the reference is unset
// or the lookup found nothing).
type ValidationContext struct {
	Target    *InvoiceExchangeConfig
	Original  *InvoiceExchangeConfig
	Parent    *InvoiceExchangeConfig
	Operation Operation
}

// Validate runs every structural rule for a single config node and returns
// the accumulated violations. Rules are independent and never short-circuit.
func Validate(ctx ValidationContext) shared.ValidationResult {
	var result shared.ValidationResult
	target := ctx.Target
	if target == nil {
		return result
	}

	if target.PlatformCode == "" {
		result.Add(CodePlatformCodeRequired, "PlatformCode", "Platform code is required")
	}
	if !target.Level.IsValid() {
		result.Add(CodeLevelInvalid, "Level", "Level must be one of Global, BusinessStream, LegalEntity, Customer")
	}

	validateRoot(&result, ctx)
	validateLevelFields(&result, target)
	validateGlobalAdapters(&result, target)

	return result
}

// validateRoot enforces the root reference and the child-must-match-parent
// invariants: children cannot change the adapter types or field-ticket
// support declared by their hierarchy's root.
func validateRoot(result *shared.ValidationResult, ctx ValidationContext) {
	target := ctx.Target

	if target.Level != LevelGlobal && target.Level.IsValid() && target.RootInvoiceExchangeID == nil {
		result.Add(CodeRootRequired, "RootInvoiceExchangeID", "Non-global configs must reference their global root")
	}

	if target.RootInvoiceExchangeID == nil {
		return
	}
	if ctx.Parent == nil {
		result.Add(CodeRootNotFound, "RootInvoiceExchangeID", "Referenced root config does not exist")
		return
	}

	parent := ctx.Parent
	if target.SupportsFieldTickets != parent.SupportsFieldTickets {
		result.Add(CodeFieldTicketSupportMismatch, "SupportsFieldTickets",
			"Field-ticket support must match the root config")
	}
	if target.InvoiceDelivery.MessageAdapterType != parent.InvoiceDelivery.MessageAdapterType {
		result.Add(CodeInvoiceAdapterMismatch, "InvoiceDelivery.MessageAdapterType",
			"Invoice adapter type must match the root config")
	}
	if target.FieldTicketDelivery.MessageAdapterType != parent.FieldTicketDelivery.MessageAdapterType {
		result.Add(CodeFieldTicketAdapterMismatch, "FieldTicketDelivery.MessageAdapterType",
			"Field-ticket adapter type must match the root config")
	}
}

// validateLevelFields enforces the per-level requiredness matrix for the three
// ancestry reference fields.
func validateLevelFields(result *shared.ValidationResult, target *InvoiceExchangeConfig) {
	requireSet := func(set bool, code, field string) {
		if !set {
			result.Add(code, field, field+" is required at this level")
		}
	}
	requireEmpty := func(set bool, code, field string) {
		if set {
			result.Add(code, field, field+" must be empty at this level")
		}
	}

	bs := target.BusinessStreamID != nil
	le := target.LegalEntityID != nil
	ba := target.BillingAccountID != nil

	switch target.Level {
	case LevelGlobal:
		requireEmpty(bs, CodeBusinessStreamMustBeEmpty, "BusinessStreamID")
		requireEmpty(le, CodeLegalEntityMustBeEmpty, "LegalEntityID")
		requireEmpty(ba, CodeBillingAccountMustBeEmpty, "BillingAccountID")
	case LevelBusinessStream:
		requireSet(bs, CodeBusinessStreamRequired, "BusinessStreamID")
		requireEmpty(le, CodeLegalEntityMustBeEmpty, "LegalEntityID")
		requireEmpty(ba, CodeBillingAccountMustBeEmpty, "BillingAccountID")
	case LevelLegalEntity:
		requireSet(bs, CodeBusinessStreamRequired, "BusinessStreamID")
		requireSet(le, CodeLegalEntityRequired, "LegalEntityID")
		requireEmpty(ba, CodeBillingAccountMustBeEmpty, "BillingAccountID")
	case LevelCustomer:
		requireSet(bs, CodeBusinessStreamRequired, "BusinessStreamID")
		requireSet(le, CodeLegalEntityRequired, "LegalEntityID")
		requireSet(ba, CodeBillingAccountRequired, "BillingAccountID")
	}
}

// validateGlobalAdapters enforces that a Global node declares a usable invoice
// adapter, plus a field-ticket adapter when it advertises field-ticket support.
func validateGlobalAdapters(result *shared.ValidationResult, target *InvoiceExchangeConfig) {
	if target.Level != LevelGlobal {
		return
	}
	if !target.InvoiceDelivery.MessageAdapterType.IsDefined() {
		result.Add(CodeInvoiceAdapterRequired, "InvoiceDelivery.MessageAdapterType",
			"Global configs must declare an invoice adapter type")
	}
	if target.SupportsFieldTickets && !target.FieldTicketDelivery.MessageAdapterType.IsDefined() {
		result.Add(CodeFieldTicketAdapterRequired, "FieldTicketDelivery.MessageAdapterType",
			"Global configs supporting field tickets must declare a field-ticket adapter type")
	}
}
