package repository

import (
	"time"

	"go-wholesale-orders/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryRepository interface {
	Create(tx *gorm.DB, bucket *model.ProductInventory) error
	FindByID(id uuid.UUID) (*model.ProductInventory, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.ProductInventory, error)
	FindByKeyForUpdate(tx *gorm.DB, variationID uuid.UUID, manufacture, expiration time.Time) (*model.ProductInventory, error)
	FindAll() ([]model.ProductInventory, error)
	AddQuantity(tx *gorm.DB, id uuid.UUID, delta int) error
	Delete(tx *gorm.DB, id uuid.UUID) error
}

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db}
}

func (r *inventoryRepo) Create(tx *gorm.DB, bucket *model.ProductInventory) error {
	return tx.Create(bucket).Error
}

func (r *inventoryRepo) FindByID(id uuid.UUID) (*model.ProductInventory, error) {
	var bucket model.ProductInventory
	err := r.db.Preload("ProductVariation").First(&bucket, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &bucket, nil
}

func (r *inventoryRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.ProductInventory, error) {
	var bucket model.ProductInventory
	err := ForUpdate(tx).First(&bucket, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &bucket, nil
}

func (r *inventoryRepo) FindByKeyForUpdate(tx *gorm.DB, variationID uuid.UUID, manufacture, expiration time.Time) (*model.ProductInventory, error) {
	var bucket model.ProductInventory
	err := ForUpdate(tx).
		Where("product_variation_id = ? AND manufacture_date = ? AND expiration_date = ?",
			variationID, manufacture, expiration).
		First(&bucket).Error
	if err != nil {
		return nil, err
	}
	return &bucket, nil
}

func (r *inventoryRepo) FindAll() ([]model.ProductInventory, error) {
	var buckets []model.ProductInventory
	err := r.db.Preload("ProductVariation").Order("manufacture_date ASC").Find(&buckets).Error
	return buckets, err
}

// AddQuantity applies a signed stock delta. Callers must hold the bucket's
// row lock (FindByIDForUpdate) within the same transaction.
func (r *inventoryRepo) AddQuantity(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.ProductInventory{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

// Delete removes the row for good. A soft-deleted bucket would keep holding
// the unique (variation, manufacture, expiration) key and block re-creation.
func (r *inventoryRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Unscoped().Delete(&model.ProductInventory{}, "id = ?", id).Error
}
