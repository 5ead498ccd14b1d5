// Command seed-demo loads a small set of demo reference data so a fresh
// database can take orders immediately.
package main

import (
	"log"

	"go-wholesale-orders/internal/model"
	"go-wholesale-orders/pkg/database"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Buyer{}, &model.ShippingMethod{}, &model.ShippingReceptacle{},
		&model.ProductionZone{}, &model.OrderCategory{},
		&model.Product{}, &model.Material{}, &model.Packaging{}, &model.ProductVariation{},
	)

	seed(db)
	log.Println("Demo reference data seeded")
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		log.Fatal("bad decimal literal: ", s)
	}
	return d
}

func seed(db *gorm.DB) {
	buyers := []model.Buyer{
		{Name: "Northside Grocers", HandlingCost: dec("120"), OptionalCost: dec("40"), CommissionRate: 3.5},
		{Name: "Harbor Wholesale", HandlingCost: dec("95"), OptionalCost: dec("30"), CommissionRate: 2.0},
	}
	for i := range buyers {
		firstOrCreate(db, &buyers[i], "name = ?", buyers[i].Name)
	}

	methods := []model.ShippingMethod{
		{Name: "Ground", PerReceptacleCost: dec("80"), PerFreightCost: dec("600")},
		{Name: "Refrigerated", PerReceptacleCost: dec("150"), PerFreightCost: dec("900")},
	}
	for i := range methods {
		firstOrCreate(db, &methods[i], "name = ?", methods[i].Name)
	}

	receptacles := []model.ShippingReceptacle{
		{Name: "Standard Crate", Cost: dec("50"), InteriorWidth: 500, InteriorDepth: 350, InteriorHeight: 300, DefaultFreightBundleQuantity: 3},
		{Name: "Half Crate", Cost: dec("32"), InteriorWidth: 500, InteriorDepth: 350, InteriorHeight: 150, DefaultFreightBundleQuantity: 6},
	}
	for i := range receptacles {
		firstOrCreate(db, &receptacles[i], "name = ?", receptacles[i].Name)
	}

	zones := []model.ProductionZone{{Name: "Zone A"}, {Name: "Zone B"}}
	for i := range zones {
		firstOrCreate(db, &zones[i], "name = ?", zones[i].Name)
	}

	categories := []model.OrderCategory{{Name: "Retail"}, {Name: "Export"}, {Name: "Seasonal"}}
	for i := range categories {
		firstOrCreate(db, &categories[i], "name = ?", categories[i].Name)
	}

	materials := []model.Material{
		{Name: "Label", Cost: dec("2"), Per: model.PerItem},
		{Name: "Crate Liner", Cost: dec("15"), Per: model.PerShippingReceptacle},
		{Name: "Pallet Wrap", Cost: dec("1000"), Per: model.PerFreight},
		{Name: "Brine", Cost: dec("300"), Per: model.PerSupplyTypeUnit},
	}
	for i := range materials {
		firstOrCreate(db, &materials[i], "name = ?", materials[i].Name)
	}

	packagings := []model.Packaging{
		{Name: "Vacuum Pouch", Cost: dec("4")},
		{Name: "Retail Sleeve", Cost: dec("1.5")},
	}
	for i := range packagings {
		firstOrCreate(db, &packagings[i], "name = ?", packagings[i].Name)
	}

	product := model.Product{
		Name:                 "Cured Fillet",
		ExteriorWidth:        120,
		ExteriorDepth:        80,
		ExteriorHeight:       40,
		PrimaryContentVolume: 250,
		Materials:            materials,
	}
	firstOrCreate(db, &product, "name = ?", product.Name)

	variations := []model.ProductVariation{
		{ProductID: product.ID, Name: "Cured Fillet 250g", Packagings: packagings},
		{ProductID: product.ID, Name: "Cured Fillet 250g (Export Label)", Packagings: packagings[:1]},
	}
	for i := range variations {
		firstOrCreate(db, &variations[i], "name = ?", variations[i].Name)
	}
}

func firstOrCreate(db *gorm.DB, dest interface{}, query string, args ...interface{}) {
	if err := db.Where(query, args...).FirstOrCreate(dest).Error; err != nil {
		log.Fatalf("seed failed for %T: %v", dest, err)
	}
}
