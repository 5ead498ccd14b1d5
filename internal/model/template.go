package model

import "github.com/google/uuid"

// OrderTemplate wraps a live order marked as non-real so its shape can be
// stamped out into new concrete orders. Exactly one template exists per
// wrapped order; an order counts as a template when some template's OrderID
// equals it.
type OrderTemplate struct {
	BaseModel
	OrderID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"order_id" validate:"uuid_required"`
	Order      *Order    `gorm:"foreignKey:OrderID" json:"order,omitempty" validate:"-"`
	Identifier string    `gorm:"type:varchar(100);not null" json:"identifier" validate:"required"`
	Notes      string    `gorm:"type:text" json:"notes"`
}
