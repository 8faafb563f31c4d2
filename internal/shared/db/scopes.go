package db

import (
	"gorm.io/gorm"
)

// NotDeleted filters out soft-deleted rows. Needed for Model().Count() and
// Table() queries where gorm does not apply soft delete filtering itself.
func NotDeleted() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("deleted_at IS NULL")
	}
}

// NotDeletedWithAlias is NotDeleted for joined queries.
//
//	db.Table("enrollments e").Scopes(db.NotDeletedWithAlias("e")).Find(&rows)
func NotDeletedWithAlias(alias string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(alias + ".deleted_at IS NULL")
	}
}

// ActiveRows keeps rows that are not deleted and flagged is_active.
func ActiveRows() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("deleted_at IS NULL AND is_active = ?", true)
	}
}
