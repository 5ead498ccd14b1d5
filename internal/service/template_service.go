package service

import (
	"errors"
	"sort"
	"time"

	"go-wholesale-orders/internal/model"
	"go-wholesale-orders/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTemplateNotFound = errors.New("order template not found")
	ErrInvalidDate      = errors.New("invalid date format, use YYYY-MM-DD")
)

// DeriveOverrides are the fields a caller typically changes when stamping a
// concrete order out of a template. Nil pointer fields keep the template
// order's value.
type DeriveOverrides struct {
	ShippingDate       string  `json:"shipping_date" validate:"required"`
	ItemQuantity       *int    `json:"item_quantity"`
	ReceptacleQuantity *int    `json:"receptacle_quantity"`
	FreightQuantity    *int    `json:"freight_quantity"`
	Note               *string `json:"note"`
}

// TemplateService maintains the 1:1 order↔template duality and derives new
// concrete orders from templates.
type TemplateService interface {
	GetTemplate(id uuid.UUID) (*model.OrderTemplate, error)
	GetAllTemplates() ([]model.OrderTemplate, error)
	UpdateTemplateMeta(id uuid.UUID, identifier, notes, userID string) (*model.OrderTemplate, error)
	DeriveOrder(templateID uuid.UUID, overrides DeriveOverrides, userID, userName string) (*model.Order, error)
	FindAssociableTemplate(orderID uuid.UUID) (*model.OrderTemplate, error)
	CopyToTemplate(orderID uuid.UUID, identifier, notes, userID, userName string) (*model.OrderTemplate, error)
}

type templateService struct {
	templateRepo repository.TemplateRepository
	orderRepo    repository.OrderRepository
	orders       OrderService
	db           *gorm.DB
}

func NewTemplateService(tRepo repository.TemplateRepository, oRepo repository.OrderRepository, orders OrderService, db *gorm.DB) TemplateService {
	return &templateService{
		templateRepo: tRepo,
		orderRepo:    oRepo,
		orders:       orders,
		db:           db,
	}
}

func (s *templateService) GetTemplate(id uuid.UUID) (*model.OrderTemplate, error) {
	tpl, err := s.templateRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return tpl, nil
}

func (s *templateService) GetAllTemplates() ([]model.OrderTemplate, error) {
	return s.templateRepo.FindAll()
}

func (s *templateService) UpdateTemplateMeta(id uuid.UUID, identifier, notes, userID string) (*model.OrderTemplate, error) {
	tpl, err := s.templateRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if identifier != "" {
		tpl.Identifier = identifier
	}
	tpl.Notes = notes
	tpl.UpdatedBy = userID
	if err := s.db.Save(tpl).Error; err != nil {
		return nil, err
	}
	return tpl, nil
}

// DeriveOrder duplicates the template's underlying order, applies overrides
// and re-runs the normal create path so the new order acquires its own
// bucket and costs. Date fields preserve the template's relative offsets,
// not its absolute dates.
func (s *templateService) DeriveOrder(templateID uuid.UUID, overrides DeriveOverrides, userID, userName string) (*model.Order, error) {
	tpl, err := s.templateRepo.FindByID(templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	src := tpl.Order
	if src == nil {
		return nil, errors.New("template has no underlying order")
	}

	shippingDate, err := time.ParseInLocation("2006-01-02", overrides.ShippingDate, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}

	derived := &model.Order{
		BuyerID:              src.BuyerID,
		ProductVariationID:   src.ProductVariationID,
		ShippingReceptacleID: src.ShippingReceptacleID,
		ShippingMethodID:     src.ShippingMethodID,
		IncludeOptionalCost:  src.IncludeOptionalCost,
		Status:               model.StatusEstimate,
		ItemQuantity:         src.ItemQuantity,
		ReceptacleQuantity:   src.ReceptacleQuantity,
		FreightQuantity:      src.FreightQuantity,
		SalePricePerItem:     src.SalePricePerItem,
		Adjustment:           src.Adjustment,
		Note:                 src.Note,
	}
	if overrides.ItemQuantity != nil {
		derived.ItemQuantity = *overrides.ItemQuantity
	}
	if overrides.ReceptacleQuantity != nil {
		derived.ReceptacleQuantity = *overrides.ReceptacleQuantity
	}
	if overrides.FreightQuantity != nil {
		derived.FreightQuantity = *overrides.FreightQuantity
	}
	if overrides.Note != nil {
		derived.Note = *overrides.Note
	}

	// Offsets relative to the template's shipping date carry over; the
	// expiration offset is anchored on the manufacture date.
	derived.ShippingDate = shippingDate
	derived.ArrivalDate = shippingDate.Add(src.ArrivalDate.Sub(src.ShippingDate))
	derived.ManufactureDate = shippingDate.Add(src.ManufactureDate.Sub(src.ShippingDate))
	derived.ExpirationDate = derived.ManufactureDate.Add(src.ExpirationDate.Sub(src.ManufactureDate))

	// A derived order is real: no bucket yet (forces a fresh acquire), no
	// bundling, no template linkage.
	derived.ProductInventoryID = nil
	derived.BundledWithOrderID = nil
	derived.BundledShippingReceptacle = false
	derived.IsOrderTemplate = false
	derived.PaymentReceiptID = nil

	return s.orders.CreateOrder(derived, src.CategoryIDs(), userID, userName)
}

// FindAssociableTemplate returns the template wrapping the order, or a
// template whose underlying order matches the order's buyer, variation,
// receptacle and exact category set. Used by UI layers to offer "the
// template this order came from" after the order is gone.
func (s *templateService) FindAssociableTemplate(orderID uuid.UUID) (*model.OrderTemplate, error) {
	if tpl, err := s.templateRepo.FindByOrderID(s.db, orderID); err == nil {
		return tpl, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	templates, err := s.templateRepo.FindAll()
	if err != nil {
		return nil, err
	}
	want := sortedIDs(order.CategoryIDs())
	for i := range templates {
		candidate := templates[i].Order
		if candidate == nil {
			continue
		}
		if candidate.BuyerID != order.BuyerID ||
			candidate.ProductVariationID != order.ProductVariationID ||
			!uuidPtrEqual(candidate.ShippingReceptacleID, order.ShippingReceptacleID) {
			continue
		}
		if sortedIDs(candidate.CategoryIDs()) == want {
			return &templates[i], nil
		}
	}
	return nil, ErrTemplateNotFound
}

// CopyToTemplate duplicates an order into a new template order. Categories
// re-attach only after the duplicate has an identity; the create path
// already sequences that, and its template hook wraps the duplicate.
func (s *templateService) CopyToTemplate(orderID uuid.UUID, identifier, notes, userID, userName string) (*model.OrderTemplate, error) {
	src, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	dup := &model.Order{
		BuyerID:              src.BuyerID,
		ProductVariationID:   src.ProductVariationID,
		ShippingReceptacleID: src.ShippingReceptacleID,
		ShippingMethodID:     src.ShippingMethodID,
		IncludeOptionalCost:  src.IncludeOptionalCost,
		Status:               model.StatusEstimate,
		ItemQuantity:         src.ItemQuantity,
		ReceptacleQuantity:   src.ReceptacleQuantity,
		FreightQuantity:      src.FreightQuantity,
		SalePricePerItem:     src.SalePricePerItem,
		Adjustment:           src.Adjustment,
		ArrivalDate:          src.ArrivalDate,
		ShippingDate:         src.ShippingDate,
		ManufactureDate:      src.ManufactureDate,
		ExpirationDate:       src.ExpirationDate,
		Note:                 src.Note,
		IsOrderTemplate:      true,
	}

	created, err := s.orders.CreateOrder(dup, src.CategoryIDs(), userID, userName)
	if err != nil {
		return nil, err
	}

	tpl, err := s.templateRepo.FindByOrderID(s.db, created.ID)
	if err != nil {
		return nil, err
	}
	if identifier != "" {
		tpl.Identifier = identifier
	}
	tpl.Notes = notes
	tpl.UpdatedBy = userID
	if err := s.db.Save(tpl).Error; err != nil {
		return nil, err
	}
	return tpl, nil
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// sortedIDs renders an id set into a canonical comparable form.
func sortedIDs(ids []uuid.UUID) string {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	sort.Strings(strs)
	out := ""
	for _, s := range strs {
		out += s + ","
	}
	return out
}
