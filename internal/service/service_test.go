package service

import (
	"testing"
	"time"

	"go-wholesale-orders/internal/model"
	"go-wholesale-orders/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the full service stack over an in-memory sqlite database so
// tests exercise the real transaction paths.
type testEnv struct {
	db         *gorm.DB
	orders     OrderService
	inventory  InventoryService
	production ProductionService
	templates  TemplateService

	orderRepo     repository.OrderRepository
	inventoryRepo repository.InventoryRepository
	templateRepo  repository.TemplateRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection so every statement sees the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Buyer{}, &model.ShippingMethod{}, &model.ShippingReceptacle{},
		&model.ProductionZone{}, &model.OrderCategory{}, &model.PaymentReceipt{},
		&model.Product{}, &model.Material{}, &model.Packaging{}, &model.ProductVariation{},
		&model.ProductInventory{}, &model.Order{}, &model.ProductionRequest{}, &model.OrderTemplate{},
	))

	orderRepo := repository.NewOrderRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)
	productionRepo := repository.NewProductionRepo(db)
	templateRepo := repository.NewTemplateRepo(db)
	refDataRepo := repository.NewRefDataRepo(db)

	inventory := NewInventoryService(inventoryRepo, orderRepo, productionRepo, db)
	orders := NewOrderService(orderRepo, templateRepo, refDataRepo, inventory, db, nil)
	production := NewProductionService(productionRepo, orderRepo, inventoryRepo, inventory, db, nil)
	templates := NewTemplateService(templateRepo, orderRepo, orders, db)

	return &testEnv{
		db:            db,
		orders:        orders,
		inventory:     inventory,
		production:    production,
		templates:     templates,
		orderRepo:     orderRepo,
		inventoryRepo: inventoryRepo,
		templateRepo:  templateRepo,
	}
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fixtures is the minimal reference data set an order needs.
type fixtures struct {
	buyer      model.Buyer
	method     model.ShippingMethod
	receptacle model.ShippingReceptacle
	product    model.Product
	variation  model.ProductVariation
	zone       model.ProductionZone
	categories []model.OrderCategory
}

func seedFixtures(t *testing.T, db *gorm.DB) *fixtures {
	t.Helper()

	f := &fixtures{
		buyer: model.Buyer{
			Name:         "Northside Grocers",
			HandlingCost: decimal.NewFromInt(120),
			OptionalCost: decimal.NewFromInt(40),
		},
		method: model.ShippingMethod{
			Name:              "Ground",
			PerReceptacleCost: decimal.NewFromInt(80),
			PerFreightCost:    decimal.NewFromInt(600),
		},
		receptacle: model.ShippingReceptacle{
			Name:                         "Standard Crate",
			Cost:                         decimal.NewFromInt(50),
			InteriorWidth:                500,
			InteriorDepth:                350,
			InteriorHeight:               300,
			DefaultFreightBundleQuantity: 3,
		},
		product: model.Product{
			Name:                 "Cured Fillet",
			ExteriorWidth:        120,
			ExteriorDepth:        80,
			ExteriorHeight:       40,
			PrimaryContentVolume: 250,
		},
		zone: model.ProductionZone{Name: "Zone A"},
	}
	require.NoError(t, db.Create(&f.buyer).Error)
	require.NoError(t, db.Create(&f.method).Error)
	require.NoError(t, db.Create(&f.receptacle).Error)
	require.NoError(t, db.Create(&f.product).Error)
	require.NoError(t, db.Create(&f.zone).Error)

	f.variation = model.ProductVariation{ProductID: f.product.ID, Name: "Cured Fillet 250g"}
	require.NoError(t, db.Create(&f.variation).Error)

	f.categories = []model.OrderCategory{{Name: "Retail"}, {Name: "Export"}}
	for i := range f.categories {
		require.NoError(t, db.Create(&f.categories[i]).Error)
	}
	return f
}

// newOrder builds a valid order request against the fixtures; callers tweak
// fields before submitting.
func (f *fixtures) newOrder() *model.Order {
	return &model.Order{
		BuyerID:              f.buyer.ID,
		ProductVariationID:   f.variation.ID,
		ShippingReceptacleID: &f.receptacle.ID,
		ShippingMethodID:     &f.method.ID,
		Status:               model.StatusEstimate,
		ItemQuantity:         100,
		ReceptacleQuantity:   10,
		FreightQuantity:      1,
		ArrivalDate:          date(2026, time.March, 12),
		ShippingDate:         date(2026, time.March, 10),
		ManufactureDate:      date(2026, time.March, 1),
		ExpirationDate:       date(2026, time.March, 31),
	}
}

func (e *testEnv) bucketOf(t *testing.T, order *model.Order) *model.ProductInventory {
	t.Helper()
	require.NotNil(t, order.ProductInventoryID)
	bucket, err := e.inventoryRepo.FindByID(*order.ProductInventoryID)
	require.NoError(t, err)
	return bucket
}
