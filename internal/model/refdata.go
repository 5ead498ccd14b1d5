package model

import "github.com/shopspring/decimal"

// Buyer is the wholesale customer an order is sold to.
// HandlingCost and OptionalCost are charged per shipping receptacle;
// OptionalCost only applies when the order opts in.
type Buyer struct {
	BaseModel
	Name           string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	HandlingCost   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"handling_cost"`
	OptionalCost   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"optional_cost"`
	CommissionRate float64         `gorm:"default:0" json:"commission_rate"` // percent, e.g. 3.5
}

// ShippingMethod carries the carrier rates used by the shipping cost formula.
type ShippingMethod struct {
	BaseModel
	Name              string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	PerReceptacleCost decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"per_receptacle_cost"`
	PerFreightCost    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"per_freight_cost"`
}

// ShippingReceptacle is the box/crate an order ships in. Interior dimensions
// are in millimeters and drive the per-box packing estimate.
type ShippingReceptacle struct {
	BaseModel
	Name                         string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Cost                         decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"cost"`
	InteriorWidth                float64         `gorm:"default:0" json:"interior_width"`
	InteriorDepth                float64         `gorm:"default:0" json:"interior_depth"`
	InteriorHeight               float64         `gorm:"default:0" json:"interior_height"`
	DefaultFreightBundleQuantity int             `gorm:"default:1" json:"default_freight_bundle_quantity"`
}

// InteriorVolume returns the usable interior volume in cubic millimeters.
func (r *ShippingReceptacle) InteriorVolume() float64 {
	return r.InteriorWidth * r.InteriorDepth * r.InteriorHeight
}

// ProductionZone is the physical area a production request is worked in.
type ProductionZone struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
}

// OrderCategory tags orders for reporting and template matching.
type OrderCategory struct {
	BaseModel
	Name string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
}

// PaymentReceipt is a thin reference record; settlement itself happens outside
// the engine.
type PaymentReceipt struct {
	BaseModel
	Number string          `gorm:"type:varchar(100)" json:"number"`
	Amount decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"amount"`
}
