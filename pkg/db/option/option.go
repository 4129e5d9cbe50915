// Package option provides composable gorm query modifiers.
package option

import (
	"github.com/adlenslabs/adlens/pkg/db/pagination"
	"gorm.io/gorm"
)

type Option func(*gorm.DB) *gorm.DB

func (o Option) Apply(db *gorm.DB) *gorm.DB {
	if o == nil {
		return db
	}
	return o(db)
}

func ApplyPagination(page pagination.Pagination) Option {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(page.Offset()).Limit(page.Limit())
	}
}
