// Package repository maps the portal's models onto gorm. Every method takes
// a context and returns errors from internal/errs.
package repository

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Irenepaul17/new-log-sub000/internal/errs"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery is the common filter set of list endpoints. When Unrestricted is
// false only rows owned by UserIDs are returned.
type ListQuery struct {
	Unrestricted bool
	UserIDs      []uint
	Month        string
	Search       string
	Status       string
	Page         int
	Limit        int
	// Location decides where month boundaries fall. Nil means UTC.
	Location *time.Location
}

// Normalize clamps paging to sane values.
func (q *ListQuery) Normalize() {
	q.Page, q.Limit = NormalizePage(q.Page, q.Limit)
}

func (q ListQuery) offset() int { return (q.Page - 1) * q.Limit }

func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// ParseMonth turns YYYY-MM into the half-open range [start, end) of that
// calendar month in loc.
func ParseMonth(month string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation("2006-01", month, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errs.Invalidf("month must be YYYY-MM, got %q", month)
	}
	return start, start.AddDate(0, 1, 0), nil
}

// scoped restricts tx to rows whose column is one of the caller's users.
func scoped(tx *gorm.DB, column string, q ListQuery) *gorm.DB {
	if q.Unrestricted {
		return tx
	}
	if len(q.UserIDs) == 0 {
		return tx.Where("1 = 0")
	}
	return tx.Where(column+" IN ?", q.UserIDs)
}

// search matches term case-insensitively against any of cols.
func search(tx *gorm.DB, term string, cols ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return tx
	}
	like := "%" + strings.ToLower(term) + "%"
	clauses := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		clauses[i] = "LOWER(" + c + ") LIKE ?"
		args[i] = like
	}
	return tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// list counts and fetches one page of T under tx.
func list[T any](tx *gorm.DB, q ListQuery, order string) ([]T, int64, error) {
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, errs.Wrap(err, "count")
	}
	var rows []T
	if total > 0 {
		if err := tx.Order(order).Offset(q.offset()).Limit(q.Limit).Find(&rows).Error; err != nil {
			return nil, 0, errs.Wrap(err, "find")
		}
	}
	return rows, total, nil
}

// translate maps gorm errors onto errs kinds.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NotFound(what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.Conflict(what + " already exists")
	}
	return errs.Wrap(err, what)
}
