package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the order lifecycle state. Normal flow is forward-only
// (estimate → confirmed → shipped) but updates may move backward; the
// lifecycle controller reconciles stock symmetrically in both directions.
type OrderStatus string

const (
	StatusEstimate  OrderStatus = "estimate"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusEstimate, StatusConfirmed, StatusShipped:
		return true
	}
	return false
}

// Order is the demand-side record. Every persisted order is bound to exactly
// one ProductInventory bucket; ManufactureDate/ExpirationDate mirror the
// bucket once bound and act as transient input before the first bind.
type Order struct {
	BaseModel
	BuyerID uuid.UUID `gorm:"type:uuid;not null;index" json:"buyer_id" validate:"uuid_required"`
	Buyer   *Buyer    `gorm:"foreignKey:BuyerID" json:"buyer,omitempty" validate:"-"`

	ProductVariationID uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_variation_id" validate:"uuid_required"`
	ProductVariation   *ProductVariation `gorm:"foreignKey:ProductVariationID" json:"product_variation,omitempty" validate:"-"`

	ProductInventoryID *uuid.UUID        `gorm:"type:uuid;index" json:"product_inventory_id"`
	ProductInventory   *ProductInventory `gorm:"foreignKey:ProductInventoryID" json:"product_inventory,omitempty" validate:"-"`

	ShippingReceptacleID *uuid.UUID          `gorm:"type:uuid" json:"shipping_receptacle_id"`
	ShippingReceptacle   *ShippingReceptacle `gorm:"foreignKey:ShippingReceptacleID" json:"shipping_receptacle,omitempty" validate:"-"`

	ShippingMethodID *uuid.UUID      `gorm:"type:uuid" json:"shipping_method_id"`
	ShippingMethod   *ShippingMethod `gorm:"foreignKey:ShippingMethodID" json:"shipping_method,omitempty" validate:"-"`

	PaymentReceiptID *uuid.UUID      `gorm:"type:uuid" json:"payment_receipt_id"`
	PaymentReceipt   *PaymentReceipt `gorm:"foreignKey:PaymentReceiptID" json:"payment_receipt,omitempty" validate:"-"`

	Categories []OrderCategory `gorm:"many2many:order_order_categories;" json:"categories,omitempty"`

	// Bundling. An order bundled with another defers its shipping cost to it;
	// a bundled receptacle defers the container cost.
	BundledWithOrderID        *uuid.UUID `gorm:"type:uuid" json:"bundled_with_order_id"`
	BundledShippingReceptacle bool       `gorm:"default:false" json:"bundled_shipping_receptacle"`

	Status OrderStatus `gorm:"type:varchar(20);not null;default:'estimate'" json:"status" validate:"required,oneof=estimate confirmed shipped"`

	ItemQuantity       int `gorm:"not null" json:"item_quantity" validate:"required,gt=0"`
	ReceptacleQuantity int `gorm:"not null" json:"receptacle_quantity" validate:"required,gt=0"`
	FreightQuantity    int `gorm:"not null" json:"freight_quantity" validate:"required,gt=0"`

	// Derived money columns, recomputed on every save.
	ShippingCost     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"shipping_cost" validate:"dec_gte_zero"`
	MaterialsCost    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"materials_cost" validate:"dec_gte_zero"`
	SalePricePerItem decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"sale_price_per_item" validate:"dec_gte_zero"`
	Adjustment       decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"adjustment" validate:"dec_gte_zero"`

	// IncludeOptionalCost opts the order into the buyer's optional per-receptacle
	// handling charge.
	IncludeOptionalCost bool `gorm:"default:false" json:"include_optional_cost"`

	ArrivalDate     time.Time `gorm:"type:date;not null" json:"arrival_date" validate:"required"`
	ShippingDate    time.Time `gorm:"type:date;not null;index" json:"shipping_date" validate:"required"`
	ManufactureDate time.Time `gorm:"type:date;not null" json:"manufacture_date" validate:"required"`
	ExpirationDate  time.Time `gorm:"type:date;not null" json:"expiration_date" validate:"required"`

	// IsOrderTemplate marks the order as a template's underlying order. The
	// template record itself is the source of truth for exclusion queries.
	IsOrderTemplate bool `gorm:"default:false" json:"is_order_template"`

	Note string `gorm:"type:varchar(255)" json:"note" validate:"max=255"`
}

// Shipped reports whether the order currently consumes bucket stock.
func (o *Order) Shipped() bool {
	return o.Status == StatusShipped
}

// CategoryIDs returns the ids of the attached categories.
func (o *Order) CategoryIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(o.Categories))
	for i, c := range o.Categories {
		ids[i] = c.ID
	}
	return ids
}

// OrderResponse for API responses.
type OrderResponse struct {
	ID                        uuid.UUID       `json:"id"`
	BuyerID                   uuid.UUID       `json:"buyer_id"`
	ProductVariationID        uuid.UUID       `json:"product_variation_id"`
	ProductInventoryID        *uuid.UUID      `json:"product_inventory_id,omitempty"`
	ShippingReceptacleID      *uuid.UUID      `json:"shipping_receptacle_id,omitempty"`
	ShippingMethodID          *uuid.UUID      `json:"shipping_method_id,omitempty"`
	BundledWithOrderID        *uuid.UUID      `json:"bundled_with_order_id,omitempty"`
	BundledShippingReceptacle bool            `json:"bundled_shipping_receptacle"`
	Status                    OrderStatus     `json:"status"`
	ItemQuantity              int             `json:"item_quantity"`
	ReceptacleQuantity        int             `json:"receptacle_quantity"`
	FreightQuantity           int             `json:"freight_quantity"`
	ShippingCost              decimal.Decimal `json:"shipping_cost"`
	MaterialsCost             decimal.Decimal `json:"materials_cost"`
	SalePricePerItem          decimal.Decimal `json:"sale_price_per_item"`
	Adjustment                decimal.Decimal `json:"adjustment"`
	ArrivalDate               string          `json:"arrival_date"`
	ShippingDate              string          `json:"shipping_date"`
	ManufactureDate           string          `json:"manufacture_date"`
	ExpirationDate            string          `json:"expiration_date"`
	IsOrderTemplate           bool            `json:"is_order_template"`
	Note                      string          `json:"note,omitempty"`
	Categories                []OrderCategory `json:"categories,omitempty"`
	CreatedAt                 time.Time       `json:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at"`
}

// ToResponse converts Order to OrderResponse.
func (o *Order) ToResponse() OrderResponse {
	return OrderResponse{
		ID:                        o.ID,
		BuyerID:                   o.BuyerID,
		ProductVariationID:        o.ProductVariationID,
		ProductInventoryID:        o.ProductInventoryID,
		ShippingReceptacleID:      o.ShippingReceptacleID,
		ShippingMethodID:          o.ShippingMethodID,
		BundledWithOrderID:        o.BundledWithOrderID,
		BundledShippingReceptacle: o.BundledShippingReceptacle,
		Status:                    o.Status,
		ItemQuantity:              o.ItemQuantity,
		ReceptacleQuantity:        o.ReceptacleQuantity,
		FreightQuantity:           o.FreightQuantity,
		ShippingCost:              o.ShippingCost,
		MaterialsCost:             o.MaterialsCost,
		SalePricePerItem:          o.SalePricePerItem,
		Adjustment:                o.Adjustment,
		ArrivalDate:               o.ArrivalDate.Format("2006-01-02"),
		ShippingDate:              o.ShippingDate.Format("2006-01-02"),
		ManufactureDate:           o.ManufactureDate.Format("2006-01-02"),
		ExpirationDate:            o.ExpirationDate.Format("2006-01-02"),
		IsOrderTemplate:           o.IsOrderTemplate,
		Note:                      o.Note,
		Categories:                o.Categories,
		CreatedAt:                 o.CreatedAt,
		UpdatedAt:                 o.UpdatedAt,
	}
}
