package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductInventory is the shared stock bucket orders draw from and production
// fills. One bucket exists per (variation, manufacture date, expiration date);
// those three identity fields are write-once.
type ProductInventory struct {
	BaseModel
	ProductVariationID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_key" json:"product_variation_id" validate:"uuid_required"`
	ProductVariation   *ProductVariation `gorm:"foreignKey:ProductVariationID" json:"product_variation,omitempty" validate:"-"`
	ManufactureDate    time.Time         `gorm:"type:date;not null;uniqueIndex:idx_inventory_key" json:"manufacture_date" validate:"required"`
	ExpirationDate     time.Time         `gorm:"type:date;not null;uniqueIndex:idx_inventory_key" json:"expiration_date" validate:"required"`
	Quantity           int               `gorm:"not null;default:0" json:"quantity"`
}

// TableName keeps the historical table name.
func (ProductInventory) TableName() string {
	return "product_inventories"
}
