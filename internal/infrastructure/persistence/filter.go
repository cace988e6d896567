package persistence

import (
	"strings"

	"github.com/truckticketing/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyFilter applies pagination and ordering from a shared.Filter. The order
// column is validated against CommonSortFields to keep user input out of the
// ORDER BY clause; defaultOrder is used when no valid column is requested.
func applyFilter(query *gorm.DB, filter shared.Filter, defaultOrder string) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, CommonSortFields, "")
	if orderBy != "" {
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else if defaultOrder != "" {
		query = query.Order(defaultOrder)
	}

	return query
}

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is empty or not whitelisted.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains sortable columns common to all aggregates
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}
