package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForUpdate returns a GORM scope that takes row locks on the selected rows
// for the rest of the transaction. Dialects without row-level locking
// (SQLite serialises writers on the whole database) get the query unchanged.
func ForUpdate() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if db.Dialector.Name() != "postgres" {
			return db
		}
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
}
