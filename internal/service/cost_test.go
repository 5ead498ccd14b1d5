package service

import (
	"testing"

	"go-wholesale-orders/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func money(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestShippingCost(t *testing.T) {
	buyer := &model.Buyer{HandlingCost: money("120"), OptionalCost: money("40")}
	method := &model.ShippingMethod{PerReceptacleCost: money("80"), PerFreightCost: money("600")}
	other := model.Order{}
	other.ID = uuid.New()

	tests := []struct {
		name  string
		order model.Order
		want  string
	}{
		{
			name: "handling plus method rates",
			order: model.Order{
				Buyer: buyer, ShippingMethod: method,
				ReceptacleQuantity: 10, FreightQuantity: 1,
			},
			want: "2600", // 10*(120+80) + 1*600
		},
		{
			name: "optional cost included when opted in",
			order: model.Order{
				Buyer: buyer, ShippingMethod: method, IncludeOptionalCost: true,
				ReceptacleQuantity: 10, FreightQuantity: 1,
			},
			want: "3000",
		},
		{
			name: "bundled order ships free",
			order: model.Order{
				Buyer: buyer, ShippingMethod: method,
				BundledWithOrderID: &other.ID,
				ReceptacleQuantity: 10, FreightQuantity: 1,
			},
			want: "0",
		},
		{
			name: "missing references cost zero",
			order: model.Order{
				ReceptacleQuantity: 10, FreightQuantity: 2,
			},
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShippingCost(&tt.order)
			assert.True(t, money(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestMaterialsCostReceptacleLine(t *testing.T) {
	receptacle := &model.ShippingReceptacle{Cost: money("50")}
	variation := &model.ProductVariation{Product: &model.Product{}}

	order := model.Order{
		ShippingReceptacle: receptacle,
		ProductVariation:   variation,
		ItemQuantity:       100,
		ReceptacleQuantity: 10,
	}
	got := MaterialsCost(&order)
	assert.True(t, money("500").Equal(got), "want 500, got %s", got)

	// The receptacle line drops when the container is bundled.
	order.BundledShippingReceptacle = true
	got = MaterialsCost(&order)
	assert.True(t, got.IsZero(), "want 0, got %s", got)
}

func TestMaterialsCostIncludesPackaging(t *testing.T) {
	variation := &model.ProductVariation{
		Product: &model.Product{},
		Packagings: []model.Packaging{
			{Name: "Vacuum Pouch", Cost: money("4")},
			{Name: "Retail Sleeve", Cost: money("1.5")},
		},
	}
	order := model.Order{
		ProductVariation:   variation,
		ItemQuantity:       100,
		ReceptacleQuantity: 10,
	}
	got := MaterialsCost(&order)
	assert.True(t, money("550").Equal(got), "want 550, got %s", got)
}

func TestMaterialCostConventions(t *testing.T) {
	receptacle := &model.ShippingReceptacle{
		InteriorWidth: 500, InteriorDepth: 350, InteriorHeight: 300,
		DefaultFreightBundleQuantity: 3,
	}

	newProduct := func(m model.Material) *model.Product {
		return &model.Product{
			ExteriorWidth: 120, ExteriorDepth: 80, ExteriorHeight: 40,
			PrimaryContentVolume: 250,
			Materials:            []model.Material{m},
		}
	}

	tests := []struct {
		name          string
		material      model.Material
		itemQty       int
		receptacleQty int
		freightQty    int
		want          string
	}{
		{
			name:     "per item",
			material: model.Material{Cost: money("2"), Per: model.PerItem},
			itemQty:  100, receptacleQty: 10,
			want: "200",
		},
		{
			name:     "per receptacle uses actual box ratio",
			material: model.Material{Cost: money("15"), Per: model.PerShippingReceptacle},
			itemQty:  100, receptacleQty: 10,
			want: "150", // 10 boxes of 10
		},
		{
			name:     "per receptacle rounds partial boxes up",
			material: model.Material{Cost: money("15"), Per: model.PerShippingReceptacle},
			itemQty:  95, receptacleQty: 10,
			want: "165", // perBox 9, 11 boxes
		},
		{
			name:     "per freight with explicit freight quantity",
			material: model.Material{Cost: money("1000"), Per: model.PerFreight},
			itemQty:  120, receptacleQty: 6, freightQty: 3,
			want: "3000",
		},
		{
			name:     "per freight derives units from box and bundle counts",
			material: model.Material{Cost: money("1000"), Per: model.PerFreight},
			itemQty:  120, receptacleQty: 6,
			want: "2000", // 120 items / 20 per box / bundle of 3 = 2 freight units
		},
		{
			name:     "per freight never drops below one unit",
			material: model.Material{Cost: money("1000"), Per: model.PerFreight},
			itemQty:  10, receptacleQty: 1,
			want: "1000",
		},
		{
			name:     "per supply type unit scales by content volume",
			material: model.Material{Cost: money("300"), Per: model.PerSupplyTypeUnit},
			itemQty:  100, receptacleQty: 10,
			want: "120", // 300 / 250 * 100
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProduct(tt.material)
			got := MaterialCost(p, receptacle, tt.itemQty, tt.receptacleQty, tt.freightQty)
			assert.True(t, money(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestMaterialCostIsDeterministic(t *testing.T) {
	receptacle := &model.ShippingReceptacle{DefaultFreightBundleQuantity: 3}
	p := &model.Product{
		PrimaryContentVolume: 250,
		Materials: []model.Material{
			{Cost: money("2"), Per: model.PerItem},
			{Cost: money("300"), Per: model.PerSupplyTypeUnit},
		},
	}
	first := MaterialCost(p, receptacle, 100, 10, 1)
	for i := 0; i < 5; i++ {
		assert.True(t, first.Equal(MaterialCost(p, receptacle, 100, 10, 1)))
	}
}

func TestEstimatePerBoxQuantity(t *testing.T) {
	tests := []struct {
		name       string
		receptacle *model.ShippingReceptacle
		product    *model.Product
		want       int
	}{
		{
			name: "rounds down to multiple of five",
			receptacle: &model.ShippingReceptacle{
				InteriorWidth: 500, InteriorDepth: 350, InteriorHeight: 300,
			},
			product: &model.Product{
				ExteriorWidth: 120, ExteriorDepth: 80, ExteriorHeight: 40,
			},
			want: 120, // floor(52.5e6 * 0.9 / 384e3) = 123 -> 120
		},
		{
			name: "small fit floors to one",
			receptacle: &model.ShippingReceptacle{
				InteriorWidth: 100, InteriorDepth: 100, InteriorHeight: 100,
			},
			product: &model.Product{
				ExteriorWidth: 70, ExteriorDepth: 70, ExteriorHeight: 70,
			},
			want: 1, // fits 2 geometrically, below the multiple-of-5 step
		},
		{
			name:       "missing geometry floors to one",
			receptacle: &model.ShippingReceptacle{},
			product:    &model.Product{},
			want:       1,
		},
		{
			name:       "nil references floor to one",
			receptacle: nil,
			product:    nil,
			want:       1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimatePerBoxQuantity(tt.receptacle, tt.product))
		})
	}
}
