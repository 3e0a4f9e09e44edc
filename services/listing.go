package services

import (
	"time"

	"gorm.io/gorm"
)

// ListFilter narrows the dashboard read operations. Zero values mean
// "no filter"; Page and PerPage are normalized by applyPaging.
type ListFilter struct {
	Status   string
	Priority string
	From     *time.Time
	To       *time.Time
	Page     int
	PerPage  int
}

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

func (f ListFilter) normalized() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = defaultPerPage
	}
	if f.PerPage > maxPerPage {
		f.PerPage = maxPerPage
	}
	return f
}

func applyDateRange(query *gorm.DB, column string, f ListFilter) *gorm.DB {
	if f.From != nil {
		query = query.Where(column+" >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where(column+" <= ?", *f.To)
	}
	return query
}

func applyPaging(query *gorm.DB, f ListFilter) *gorm.DB {
	offset := (f.Page - 1) * f.PerPage
	return query.Offset(offset).Limit(f.PerPage)
}
