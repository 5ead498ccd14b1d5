package repository

import (
	"go-wholesale-orders/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefDataRepository is the read side for the reference data the cost model
// and UI collaborators consume.
type RefDataRepository interface {
	FindBuyers() ([]model.Buyer, error)
	FindShippingMethods() ([]model.ShippingMethod, error)
	FindShippingReceptacles() ([]model.ShippingReceptacle, error)
	FindShippingReceptacle(id uuid.UUID) (*model.ShippingReceptacle, error)
	FindProductVariations() ([]model.ProductVariation, error)
	FindProductVariation(id uuid.UUID) (*model.ProductVariation, error)
	FindProductionZones() ([]model.ProductionZone, error)
	FindOrderCategories() ([]model.OrderCategory, error)
	FindOrderCategoriesByIDs(ids []uuid.UUID) ([]model.OrderCategory, error)
}

type refDataRepo struct {
	db *gorm.DB
}

func NewRefDataRepo(db *gorm.DB) RefDataRepository {
	return &refDataRepo{db}
}

func (r *refDataRepo) FindBuyers() ([]model.Buyer, error) {
	var buyers []model.Buyer
	err := r.db.Order("name ASC").Find(&buyers).Error
	return buyers, err
}

func (r *refDataRepo) FindShippingMethods() ([]model.ShippingMethod, error) {
	var methods []model.ShippingMethod
	err := r.db.Order("name ASC").Find(&methods).Error
	return methods, err
}

func (r *refDataRepo) FindShippingReceptacles() ([]model.ShippingReceptacle, error) {
	var receptacles []model.ShippingReceptacle
	err := r.db.Order("name ASC").Find(&receptacles).Error
	return receptacles, err
}

func (r *refDataRepo) FindShippingReceptacle(id uuid.UUID) (*model.ShippingReceptacle, error) {
	var receptacle model.ShippingReceptacle
	if err := r.db.First(&receptacle, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &receptacle, nil
}

func (r *refDataRepo) FindProductVariations() ([]model.ProductVariation, error) {
	var variations []model.ProductVariation
	err := r.db.Preload("Product").Preload("Packagings").Order("name ASC").Find(&variations).Error
	return variations, err
}

func (r *refDataRepo) FindProductVariation(id uuid.UUID) (*model.ProductVariation, error) {
	var variation model.ProductVariation
	err := r.db.Preload("Product").Preload("Product.Materials").Preload("Packagings").First(&variation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &variation, nil
}

func (r *refDataRepo) FindProductionZones() ([]model.ProductionZone, error) {
	var zones []model.ProductionZone
	err := r.db.Order("name ASC").Find(&zones).Error
	return zones, err
}

func (r *refDataRepo) FindOrderCategories() ([]model.OrderCategory, error) {
	var categories []model.OrderCategory
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *refDataRepo) FindOrderCategoriesByIDs(ids []uuid.UUID) ([]model.OrderCategory, error) {
	var categories []model.OrderCategory
	err := r.db.Where("id IN ?", ids).Find(&categories).Error
	return categories, err
}
