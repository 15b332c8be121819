package repository

import (
	"strings"

	"github.com/erpdesk/erpdesk-api/pkg/datetime"
	"github.com/erpdesk/erpdesk-api/pkg/pagination"
	"gorm.io/gorm"
)

// escapeLike is the ESCAPE clause every LIKE built from likePattern needs.
const escapeLike = ` ESCAPE '\'`

var likeMeta = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps search for a literal substring LIKE match. SQLite LIKE is
// already case-insensitive for ASCII.
func likePattern(search string) string {
	return "%" + likeMeta.Replace(strings.TrimSpace(search)) + "%"
}

// NameContains filters rows whose name contains search. Blank search is a no-op.
func NameContains(search string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if strings.TrimSpace(search) == "" {
			return db
		}
		return db.Where("name LIKE ?"+escapeLike, likePattern(search))
	}
}

// Paginate applies the page window after validating params.
func Paginate(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			return db
		}
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}

// DateBetween keeps rows whose date column lies within the inclusive range.
// Either bound may be nil.
func DateBetween(column string, start, end *datetime.Date) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if start != nil && !start.IsZero() {
			db = db.Where(column+" >= ?", start.String())
		}
		if end != nil && !end.IsZero() {
			db = db.Where(column+" <= ?", end.String())
		}
		return db
	}
}
