package persistence

import (
	"fmt"
	"strings"

	"github.com/gites/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyFilter adds the equality filters, ordering and pagination of a
// shared.Filter to a query. OrderBy is restricted to the caller-supplied
// allowlist; anything else falls back to created_at.
func applyFilter(query *gorm.DB, filter shared.Filter, sortable map[string]bool) *gorm.DB {
	query = applyFilterWithoutPagination(query, filter, sortable)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyFilterWithoutPagination adds filters and ordering only, for count
// queries.
func applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter, sortable map[string]bool) *gorm.DB {
	for field, value := range filter.Filters {
		query = query.Where(fmt.Sprintf("%s = ?", field), value)
	}

	orderBy := filter.OrderBy
	if !sortable[orderBy] {
		orderBy = "created_at"
	}
	dir := "desc"
	if strings.EqualFold(filter.OrderDir, "asc") {
		dir = "asc"
	}

	return query.Order(fmt.Sprintf("%s %s", orderBy, dir))
}
