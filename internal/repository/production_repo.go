package repository

import (
	"go-wholesale-orders/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductionRepository interface {
	Create(tx *gorm.DB, req *model.ProductionRequest) error
	Save(tx *gorm.DB, req *model.ProductionRequest) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	FindByID(id uuid.UUID) (*model.ProductionRequest, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.ProductionRequest, error)
	FindAll() ([]model.ProductionRequest, error)
	OpenByBucket(tx *gorm.DB, bucketID uuid.UUID) ([]model.ProductionRequest, error)
	CountByBucket(tx *gorm.DB, bucketID uuid.UUID) (int64, error)
}

type productionRepo struct {
	db *gorm.DB
}

func NewProductionRepo(db *gorm.DB) ProductionRepository {
	return &productionRepo{db}
}

func (r *productionRepo) Create(tx *gorm.DB, req *model.ProductionRequest) error {
	return tx.Create(req).Error
}

func (r *productionRepo) Save(tx *gorm.DB, req *model.ProductionRequest) error {
	return tx.Save(req).Error
}

func (r *productionRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.ProductionRequest{}, "id = ?", id).Error
}

func (r *productionRepo) FindByID(id uuid.UUID) (*model.ProductionRequest, error) {
	var req model.ProductionRequest
	err := r.db.
		Preload("ProductVariation").
		Preload("ProductInventory").
		Preload("ProductionZone").
		Preload("ShippingReceptacle").
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *productionRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.ProductionRequest, error) {
	var req model.ProductionRequest
	err := ForUpdate(tx).First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *productionRepo) FindAll() ([]model.ProductionRequest, error) {
	var reqs []model.ProductionRequest
	err := r.db.
		Preload("ProductVariation").
		Preload("ProductInventory").
		Preload("ProductionZone").
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// OpenByBucket returns the not-completed requests on a bucket.
func (r *productionRepo) OpenByBucket(tx *gorm.DB, bucketID uuid.UUID) ([]model.ProductionRequest, error) {
	var reqs []model.ProductionRequest
	err := tx.Model(&model.ProductionRequest{}).
		Where("product_inventory_id = ?", bucketID).
		Where("status <> ?", model.ProductionCompleted).
		Find(&reqs).Error
	return reqs, err
}

func (r *productionRepo) CountByBucket(tx *gorm.DB, bucketID uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&model.ProductionRequest{}).
		Where("product_inventory_id = ?", bucketID).
		Count(&count).Error
	return count, err
}
