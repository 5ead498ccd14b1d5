package model

import "github.com/google/uuid"

// ProductionStatus is the production request work state.
type ProductionStatus string

const (
	ProductionPending    ProductionStatus = "pending"
	ProductionInProgress ProductionStatus = "in_progress"
	ProductionCompleted  ProductionStatus = "completed"
)

// ProductionRequest converts planned production into bucket stock. Every
// change to FulfilledQuantity adjusts the bound bucket's quantity by the
// delta, atomically with the request's own save.
type ProductionRequest struct {
	BaseModel
	ProductVariationID uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_variation_id"`
	ProductVariation   *ProductVariation `gorm:"foreignKey:ProductVariationID" json:"product_variation,omitempty" validate:"-"`

	ProductInventoryID uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_inventory_id" validate:"uuid_required"`
	ProductInventory   *ProductInventory `gorm:"foreignKey:ProductInventoryID" json:"product_inventory,omitempty" validate:"-"`

	ProductionZoneID *uuid.UUID      `gorm:"type:uuid" json:"production_zone_id"`
	ProductionZone   *ProductionZone `gorm:"foreignKey:ProductionZoneID" json:"production_zone,omitempty" validate:"-"`

	ShippingReceptacleID *uuid.UUID          `gorm:"type:uuid" json:"shipping_receptacle_id"`
	ShippingReceptacle   *ShippingReceptacle `gorm:"foreignKey:ShippingReceptacleID" json:"shipping_receptacle,omitempty" validate:"-"`

	// RequestQuantity may be negative: a negative request records
	// over-fulfillment relative to outstanding order demand.
	RequestQuantity   int `gorm:"not null" json:"request_quantity"`
	FulfilledQuantity int `gorm:"not null;default:0" json:"fulfilled_quantity"`

	Status ProductionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status" validate:"required,oneof=pending in_progress completed"`
}

// Quantity is the derived fulfillment balance (fulfilled − requested).
func (p *ProductionRequest) Quantity() int {
	return p.FulfilledQuantity - p.RequestQuantity
}

// Outstanding returns the larger of requested and fulfilled, the amount the
// fulfillment tracker counts as already covered for this request.
func (p *ProductionRequest) Outstanding() int {
	if p.FulfilledQuantity > p.RequestQuantity {
		return p.FulfilledQuantity
	}
	return p.RequestQuantity
}
