package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialPer is the unit convention a material's cost is expressed in.
type MaterialPer string

const (
	PerItem               MaterialPer = "item"
	PerShippingReceptacle MaterialPer = "shipping_receptacle"
	PerFreight            MaterialPer = "freight"
	PerSupplyTypeUnit     MaterialPer = "supply_type_unit"
)

// Material is a consumable attached to a product. Cost is interpreted
// according to Per (see the cost model).
type Material struct {
	BaseModel
	Name string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Cost decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"cost"`
	Per  MaterialPer     `gorm:"type:varchar(30);not null;default:'item'" json:"per" validate:"required,oneof=item shipping_receptacle freight supply_type_unit"`
}

// Packaging is a per-item packaging component linked to a product variation.
type Packaging struct {
	BaseModel
	Name string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Cost decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"cost"`
}

// Product is the sellable good. Exterior dimensions are in millimeters.
// PrimaryContentVolume is the content amount of one item, used by
// supply_type_unit materials.
type Product struct {
	BaseModel
	Name                 string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	ExteriorWidth        float64    `gorm:"default:0" json:"exterior_width"`
	ExteriorDepth        float64    `gorm:"default:0" json:"exterior_depth"`
	ExteriorHeight       float64    `gorm:"default:0" json:"exterior_height"`
	PrimaryContentVolume float64    `gorm:"default:0" json:"primary_content_volume"`
	Materials            []Material `gorm:"many2many:product_materials;" json:"materials,omitempty"`
}

// ExteriorVolume returns the outer volume of one item in cubic millimeters.
func (p *Product) ExteriorVolume() float64 {
	return p.ExteriorWidth * p.ExteriorDepth * p.ExteriorHeight
}

// ProductVariation is the concrete orderable variant of a product (size,
// grade, labeling). Orders and inventory buckets reference variations, not
// products.
type ProductVariation struct {
	BaseModel
	ProductID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product    *Product    `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
	Name       string      `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Packagings []Packaging `gorm:"many2many:product_variation_packagings;" json:"packagings,omitempty"`
}

// PackagingCost sums the linked packaging costs; charged once per item.
func (v *ProductVariation) PackagingCost() decimal.Decimal {
	total := decimal.Zero
	for _, p := range v.Packagings {
		total = total.Add(p.Cost)
	}
	return total
}
