package repository

import (
	"go-wholesale-orders/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	Create(tx *gorm.DB, tpl *model.OrderTemplate) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	FindByID(id uuid.UUID) (*model.OrderTemplate, error)
	FindByOrderID(tx *gorm.DB, orderID uuid.UUID) (*model.OrderTemplate, error)
	FindAll() ([]model.OrderTemplate, error)
}

type templateRepo struct {
	db *gorm.DB
}

func NewTemplateRepo(db *gorm.DB) TemplateRepository {
	return &templateRepo{db}
}

func (r *templateRepo) Create(tx *gorm.DB, tpl *model.OrderTemplate) error {
	return tx.Create(tpl).Error
}

// Delete removes the row for good so the wrapped order's unique slot frees up
// and the flag can be toggled back on later.
func (r *templateRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Unscoped().Delete(&model.OrderTemplate{}, "id = ?", id).Error
}

func (r *templateRepo) FindByID(id uuid.UUID) (*model.OrderTemplate, error) {
	var tpl model.OrderTemplate
	err := r.db.
		Preload("Order").
		Preload("Order.Categories").
		Preload("Order.ProductVariation").
		First(&tpl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepo) FindByOrderID(tx *gorm.DB, orderID uuid.UUID) (*model.OrderTemplate, error) {
	var tpl model.OrderTemplate
	err := tx.First(&tpl, "order_id = ?", orderID).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepo) FindAll() ([]model.OrderTemplate, error) {
	var tpls []model.OrderTemplate
	err := r.db.Preload("Order").Preload("Order.Categories").Order("identifier ASC").Find(&tpls).Error
	return tpls, err
}
