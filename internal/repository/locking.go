package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForUpdate applies a row-level lock on postgres. sqlite (used by the test
// suite) has a single writer and rejects the FOR UPDATE clause, so the lock
// is dialect-gated.
func ForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// notTemplateCond filters out orders wrapped by a template record. Template
// orders never count as real demand.
const notTemplateCond = "NOT EXISTS (SELECT 1 FROM order_templates ot WHERE ot.order_id = orders.id AND ot.deleted_at IS NULL)"
