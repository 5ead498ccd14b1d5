package repository

import (
	"go-wholesale-orders/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	Save(tx *gorm.DB, order *model.Order) error
	Delete(tx *gorm.DB, order *model.Order, deletedBy string) error
	FindByID(id uuid.UUID) (*model.Order, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	FindAll(includeTemplates bool) ([]model.Order, error)
	FindByShippingDate(date string) ([]model.Order, error)
	CountByBucket(tx *gorm.DB, bucketID uuid.UUID) (int64, error)
	OutstandingByBucket(tx *gorm.DB, bucketID uuid.UUID) ([]model.Order, error)
	LatestByBucket(tx *gorm.DB, bucketID uuid.UUID) (*model.Order, error)
	ReplaceCategories(tx *gorm.DB, order *model.Order, categories []model.OrderCategory) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

// preloads pulls every reference the cost model reads.
func preloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Buyer").
		Preload("ShippingMethod").
		Preload("ShippingReceptacle").
		Preload("ProductInventory").
		Preload("ProductVariation").
		Preload("ProductVariation.Product").
		Preload("ProductVariation.Product.Materials").
		Preload("ProductVariation.Packagings").
		Preload("Categories")
}

func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

func (r *orderRepo) Save(tx *gorm.DB, order *model.Order) error {
	return tx.Save(order).Error
}

func (r *orderRepo) Delete(tx *gorm.DB, order *model.Order, deletedBy string) error {
	if err := tx.Model(order).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return tx.Delete(order).Error
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := preloads(r.db).First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := preloads(ForUpdate(tx)).First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindAll(includeTemplates bool) ([]model.Order, error) {
	var orders []model.Order
	q := preloads(r.db).Order("shipping_date DESC")
	if !includeTemplates {
		q = q.Where(notTemplateCond)
	}
	err := q.Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByShippingDate(date string) ([]model.Order, error) {
	var orders []model.Order
	err := preloads(r.db).
		Where("shipping_date = ?", date).
		Where(notTemplateCond).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) CountByBucket(tx *gorm.DB, bucketID uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&model.Order{}).
		Where("product_inventory_id = ?", bucketID).
		Count(&count).Error
	return count, err
}

// OutstandingByBucket returns the not-yet-shipped real orders drawing against
// a bucket.
func (r *orderRepo) OutstandingByBucket(tx *gorm.DB, bucketID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := tx.Model(&model.Order{}).
		Where("product_inventory_id = ?", bucketID).
		Where("status <> ?", model.StatusShipped).
		Where(notTemplateCond).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) LatestByBucket(tx *gorm.DB, bucketID uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := tx.Model(&model.Order{}).
		Where("product_inventory_id = ?", bucketID).
		Order("created_at DESC").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) ReplaceCategories(tx *gorm.DB, order *model.Order, categories []model.OrderCategory) error {
	return tx.Model(order).Association("Categories").Replace(categories)
}
