package service

import (
	"math"

	"go-wholesale-orders/internal/model"

	"github.com/shopspring/decimal"
)

// The cost model is pure: given the same quantities and reference data it
// always produces the same result. Orders passed in must have their
// references preloaded; a missing reference contributes zero.

// PerBoxVolumeAdjustment discounts the receptacle interior volume to account
// for packing loss when estimating how many items fit per box.
const PerBoxVolumeAdjustment = 0.90

func intDec(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// ShippingCost computes the carrier cost of an order. An order bundled with
// another order ships free; the bundling order absorbs the cost.
func ShippingCost(o *model.Order) decimal.Decimal {
	if o.BundledWithOrderID != nil {
		return decimal.Zero
	}

	perReceptacle := decimal.Zero
	if o.Buyer != nil {
		perReceptacle = perReceptacle.Add(o.Buyer.HandlingCost)
		if o.IncludeOptionalCost {
			perReceptacle = perReceptacle.Add(o.Buyer.OptionalCost)
		}
	}
	if o.ShippingMethod != nil {
		perReceptacle = perReceptacle.Add(o.ShippingMethod.PerReceptacleCost)
	}

	total := perReceptacle.Mul(intDec(o.ReceptacleQuantity))
	if o.ShippingMethod != nil {
		total = total.Add(o.ShippingMethod.PerFreightCost.Mul(intDec(o.FreightQuantity)))
	}
	return total
}

// MaterialsCost computes the consumables cost of an order: the receptacle
// line (zero when the container is bundled), the product material line and
// the per-item packaging line.
func MaterialsCost(o *model.Order) decimal.Decimal {
	receptacleLine := decimal.Zero
	if !o.BundledShippingReceptacle && o.ShippingReceptacle != nil {
		receptacleLine = o.ShippingReceptacle.Cost.Mul(intDec(o.ReceptacleQuantity))
	}

	materialLine := decimal.Zero
	packagingLine := decimal.Zero
	if o.ProductVariation != nil {
		if o.ProductVariation.Product != nil {
			materialLine = MaterialCost(o.ProductVariation.Product, o.ShippingReceptacle,
				o.ItemQuantity, o.ReceptacleQuantity, o.FreightQuantity)
		}
		packagingLine = o.ProductVariation.PackagingCost().Mul(intDec(o.ItemQuantity))
	}

	return receptacleLine.Add(materialLine).Add(packagingLine)
}

// MaterialCost accumulates the cost of every material attached to the
// product, dispatching on the material's per-unit convention. Pass
// freightQty = 0 when no explicit freight quantity is known; the freight
// unit count is then derived from the per-box estimate.
func MaterialCost(p *model.Product, r *model.ShippingReceptacle, itemQty, receptacleQty, freightQty int) decimal.Decimal {
	total := decimal.Zero
	perBox := perBoxQuantity(r, p, itemQty, receptacleQty)

	for _, m := range p.Materials {
		switch m.Per {
		case model.PerItem:
			total = total.Add(m.Cost.Mul(intDec(itemQty)))

		case model.PerShippingReceptacle:
			boxes := (itemQty + perBox - 1) / perBox
			total = total.Add(m.Cost.Mul(intDec(boxes)))

		case model.PerFreight:
			units := freightQty
			if units <= 0 {
				bundle := 1
				if r != nil && r.DefaultFreightBundleQuantity > 0 {
					bundle = r.DefaultFreightBundleQuantity
				}
				units = itemQty / perBox / bundle
				if units < 1 {
					units = 1
				}
			}
			total = total.Add(m.Cost.Mul(intDec(units)))

		case model.PerSupplyTypeUnit:
			if p.PrimaryContentVolume > 0 {
				total = total.Add(m.Cost.
					Div(decimal.NewFromFloat(p.PrimaryContentVolume)).
					Mul(intDec(itemQty)))
			}
		}
	}
	return total
}

// perBoxQuantity is the assumed item count per shipping receptacle: the
// actual ratio when the order states a receptacle quantity, otherwise the
// geometric estimate. Floors to 1.
func perBoxQuantity(r *model.ShippingReceptacle, p *model.Product, itemQty, receptacleQty int) int {
	perBox := 0
	if receptacleQty > 0 {
		perBox = itemQty / receptacleQty
	} else {
		perBox = EstimatePerBoxQuantity(r, p)
	}
	if perBox < 1 {
		perBox = 1
	}
	return perBox
}

// EstimatePerBoxQuantity estimates how many items fit in one receptacle from
// interior/exterior geometry, rounded down to the nearest multiple of 5,
// minimum 1.
func EstimatePerBoxQuantity(r *model.ShippingReceptacle, p *model.Product) int {
	if r == nil || p == nil {
		return 1
	}
	exterior := p.ExteriorVolume()
	if exterior <= 0 {
		return 1
	}
	est := int(math.Floor(r.InteriorVolume() * PerBoxVolumeAdjustment / exterior))
	est -= est % 5
	if est < 1 {
		est = 1
	}
	return est
}
