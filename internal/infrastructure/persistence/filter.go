package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/medibooks/backend/internal/domain/shared"
)

// validateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func validateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// validateSortField checks the sort field against a whitelist, falling back to
// created_at. Sort fields reach SQL verbatim, so only whitelisted columns pass.
func validateSortField(sortField string, allowed map[string]bool) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowed[trimmed] {
		return trimmed
	}
	return "created_at"
}

// commonSortFields are the columns every aggregate table carries
var commonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// applyOrdering applies whitelisted ordering to the query
func applyOrdering(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	field := validateSortField(filter.OrderBy, allowed)
	return query.Order(field + " " + validateSortOrder(filter.OrderDir))
}

// applyPagination applies page/page-size limits to the query
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

// applyFilter applies ordering and pagination in one step
func applyFilter(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	return applyPagination(applyOrdering(query, filter, allowed), filter)
}
