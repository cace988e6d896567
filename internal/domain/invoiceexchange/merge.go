package invoiceexchange

import (
	"fmt"
	"sort"
)

// Fatal merge errors. ErrAdapterNotSupported marks a reachable business
// limitation (inheritance is not implemented for endpoint-style adapters);
// ErrAdapterUnknown marks an out-of-range enum value. Callers must not
// swallow either: proceeding would yield an incomplete merged configuration.
var (
	ErrAdapterNotSupported = fmt.Errorf("invoiceexchange: mapping inheritance not supported for adapter type")
	ErrAdapterUnknown      = fmt.Errorf("invoiceexchange: unknown message adapter type")
)

// mappingKeyFunc extracts the identity key of a field mapping for one adapter
// family. The second return is false when the mapping has no usable key; such
// mappings can never be deduplicated reliably and are never auto-inherited.
type mappingKeyFunc func(m FieldMapping) (string, bool)

// mappingKeyFor returns the identity-key function for an adapter type.
// Returns a nil function (with nil error) for Undefined, meaning the stream
// is not configured and there is nothing to inherit.
func mappingKeyFor(adapter MessageAdapterType) (mappingKeyFunc, error) {
	switch adapter {
	case AdapterUndefined, "":
		return nil, nil
	case AdapterPidx, AdapterMailMessage:
		return func(m FieldMapping) (string, bool) {
			if m.DestinationModelFieldID == nil {
				return "", false
			}
			return *m.DestinationModelFieldID + "|" + m.DestinationPlacementHint, true
		}, nil
	case AdapterCsv:
		return func(m FieldMapping) (string, bool) {
			if m.DestinationHeaderTitle == "" {
				return "", false
			}
			return m.DestinationHeaderTitle, true
		}, nil
	case AdapterOpenApi, AdapterHttpEndpoint:
		return nil, fmt.Errorf("%w: %s", ErrAdapterNotSupported, adapter)
	default:
		return nil, fmt.Errorf("%w: %q", ErrAdapterUnknown, adapter)
	}
}

// MergeConfigs combines the configs found at the hierarchy levels into one
// effective configuration. The most specific config present becomes the base
// result outright (its scalar fields are never overlaid); every less specific
// layer only contributes field mappings the base does not already carry, for
// the invoice and field-ticket streams independently. The input may arrive in
// any order; layers are processed from nearest-to-base outward to Global.
func MergeConfigs(configs []*InvoiceExchangeConfig) (*InvoiceExchangeConfig, error) {
	present := make([]*InvoiceExchangeConfig, 0, len(configs))
	for _, c := range configs {
		if c != nil {
			present = append(present, c)
		}
	}
	if len(present) == 0 {
		return nil, nil
	}

	sort.SliceStable(present, func(i, j int) bool {
		return present[i].Level.Ordinal() > present[j].Level.Ordinal()
	})

	merged := present[0].Clone()
	for _, layer := range present[1:] {
		if err := appendInheritedMappings(&merged.InvoiceDelivery, layer.InvoiceDelivery.Mappings); err != nil {
			return nil, err
		}
		if err := appendInheritedMappings(&merged.FieldTicketDelivery, layer.FieldTicketDelivery.Mappings); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// appendInheritedMappings appends to base any addendum mappings whose identity
// key is absent from the base's accumulated key set. The key rule is chosen by
// the base's adapter type, so a child declaring CSV dedups inherited mappings
// by header title even if an ancestor row was authored under another adapter.
// Addendum order is preserved; keyless mappings are skipped on both sides.
func appendInheritedMappings(base *DeliveryConfiguration, addendum FieldMappings) error {
	keyFor, err := mappingKeyFor(base.MessageAdapterType)
	if err != nil {
		return err
	}
	if keyFor == nil {
		// Stream not configured; nothing to inherit.
		return nil
	}

	existing := make(map[string]struct{}, len(base.Mappings))
	for _, m := range base.Mappings {
		if key, ok := keyFor(m); ok {
			existing[key] = struct{}{}
		}
	}

	for _, m := range addendum {
		key, ok := keyFor(m)
		if !ok {
			continue
		}
		if _, dup := existing[key]; dup {
			continue
		}
		base.Mappings = append(base.Mappings, m)
		existing[key] = struct{}{}
	}
	return nil
}
