package service

import (
	"errors"
	"fmt"

	"go-wholesale-orders/internal/model"
	"go-wholesale-orders/internal/repository"
	"go-wholesale-orders/internal/ws"
	"go-wholesale-orders/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Error definitions
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrSelfBundle        = errors.New("an order cannot be bundled with itself")
	ErrBundleTargetGone  = errors.New("bundled order does not exist")
	ErrMissingBucketDate = errors.New("manufacture and expiration dates are required")
)

// OrderService drives the order lifecycle. Every mutation runs in one
// transaction: bucket acquisition, validation, cost recomputation, the
// status-transition stock effect, the template duality hook and orphan
// cleanup all commit or roll back together.
type OrderService interface {
	CreateOrder(req *model.Order, categoryIDs []uuid.UUID, userID, userName string) (*model.Order, error)
	UpdateOrder(id uuid.UUID, req *model.Order, categoryIDs []uuid.UUID, userID, userName string) (*model.Order, error)
	DeleteOrder(id uuid.UUID, userID, userName string) error
	GetOrder(id uuid.UUID) (*model.Order, error)
	GetOrders(includeTemplates bool) ([]model.Order, error)
	GetOrdersByShippingDate(date string) ([]model.Order, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	templateRepo repository.TemplateRepository
	refDataRepo  repository.RefDataRepository
	inventory    InventoryService
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewOrderService(oRepo repository.OrderRepository, tRepo repository.TemplateRepository, rRepo repository.RefDataRepository, inventory InventoryService, db *gorm.DB, hub *ws.Hub) OrderService {
	return &orderService{
		orderRepo:    oRepo,
		templateRepo: tRepo,
		refDataRepo:  rRepo,
		inventory:    inventory,
		db:           db,
		wsHub:        hub,
	}
}

// transitionDelta is the stock effect of a status/quantity change, applied to
// the order's bucket after the order row persists. Only transitions touching
// "shipped" move stock:
//   - first-time shipment consumes the new quantity,
//   - editing an already-shipped order restores the quantity difference,
//   - moving a shipped order backward restores the previous quantity.
func transitionDelta(prev, next model.OrderStatus, prevQty, nextQty int) int {
	prevShipped := prev == model.StatusShipped
	nextShipped := next == model.StatusShipped
	switch {
	case !prevShipped && nextShipped:
		return -nextQty
	case prevShipped && nextShipped:
		return prevQty - nextQty
	case prevShipped && !nextShipped:
		return prevQty
	default:
		return 0
	}
}

func (s *orderService) CreateOrder(req *model.Order, categoryIDs []uuid.UUID, userID, userName string) (*model.Order, error) {
	if req.Status == "" {
		req.Status = model.StatusEstimate
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, fieldError(errs[0])
	}
	if req.ManufactureDate.IsZero() || req.ExpirationDate.IsZero() {
		return nil, ErrMissingBucketDate
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.checkBundleTarget(tx, req); err != nil {
			return err
		}

		// First save: the bucket key dates come from transient caller input.
		bucket, err := s.inventory.AcquireBucket(tx, req.ProductVariationID, req.ManufactureDate, req.ExpirationDate)
		if err != nil {
			return err
		}
		req.ProductInventoryID = &bucket.ID
		req.ManufactureDate = bucket.ManufactureDate
		req.ExpirationDate = bucket.ExpirationDate
		req.ArrivalDate = DateOnly(req.ArrivalDate)
		req.ShippingDate = DateOnly(req.ShippingDate)

		if err := s.loadCostRefs(tx, req); err != nil {
			return err
		}
		req.ShippingCost = ShippingCost(req)
		req.MaterialsCost = MaterialsCost(req)

		req.CreatedBy = userID
		req.UpdatedBy = userID
		if err := s.orderRepo.Create(tx, req); err != nil {
			return err
		}

		// Categories join requires a persisted id, so they attach after the
		// insert.
		if len(categoryIDs) > 0 {
			categories, err := s.refDataRepo.FindOrderCategoriesByIDs(categoryIDs)
			if err != nil {
				return err
			}
			if err := s.orderRepo.ReplaceCategories(tx, req, categories); err != nil {
				return err
			}
			req.Categories = categories
		}

		if delta := transitionDelta("", req.Status, 0, req.ItemQuantity); delta != 0 {
			if err := s.inventory.AdjustQuantity(tx, bucket.ID, delta); err != nil {
				return err
			}
		}

		return s.syncTemplateState(tx, req, userID)
	})
	if err != nil {
		return nil, err
	}

	s.broadcastOrder("order_replaced", req, userID, userName)
	return req, nil
}

func (s *orderService) UpdateOrder(id uuid.UUID, req *model.Order, categoryIDs []uuid.UUID, userID, userName string) (*model.Order, error) {
	var updated *model.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.orderRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			return ErrOrderNotFound
		}

		prevStatus := existing.Status
		prevQty := existing.ItemQuantity
		prevBucketID := existing.ProductInventoryID

		applyOrderFields(existing, req)
		existing.UpdatedBy = userID

		if errs := validator.ValidateStruct(existing); len(errs) > 0 {
			return fieldError(errs[0])
		}
		if err := s.checkBundleTarget(tx, existing); err != nil {
			return err
		}

		// Re-acquire the bucket. The key dates come from the currently bound
		// bucket; only the very first save reads them from caller input.
		manufacture := existing.ManufactureDate
		expiration := existing.ExpirationDate
		if prevBucketID != nil && existing.ProductInventory != nil {
			manufacture = existing.ProductInventory.ManufactureDate
			expiration = existing.ProductInventory.ExpirationDate
		}
		bucket, err := s.inventory.AcquireBucket(tx, existing.ProductVariationID, manufacture, expiration)
		if err != nil {
			return err
		}
		existing.ProductInventoryID = &bucket.ID
		existing.ProductInventory = bucket
		existing.ManufactureDate = bucket.ManufactureDate
		existing.ExpirationDate = bucket.ExpirationDate

		if err := s.loadCostRefs(tx, existing); err != nil {
			return err
		}
		existing.ShippingCost = ShippingCost(existing)
		existing.MaterialsCost = MaterialsCost(existing)

		if err := s.orderRepo.Save(tx, existing); err != nil {
			return err
		}
		if categoryIDs != nil {
			categories, err := s.refDataRepo.FindOrderCategoriesByIDs(categoryIDs)
			if err != nil {
				return err
			}
			if err := s.orderRepo.ReplaceCategories(tx, existing, categories); err != nil {
				return err
			}
			existing.Categories = categories
		}

		if delta := transitionDelta(prevStatus, existing.Status, prevQty, existing.ItemQuantity); delta != 0 {
			if err := s.inventory.AdjustQuantity(tx, bucket.ID, delta); err != nil {
				return err
			}
		}

		if err := s.syncTemplateState(tx, existing, userID); err != nil {
			return err
		}

		// The previous bucket may now be orphaned.
		if prevBucketID != nil && *prevBucketID != bucket.ID {
			if _, err := s.inventory.ReleaseIfOrphaned(tx, *prevBucketID); err != nil {
				return err
			}
		}

		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcastOrder("order_replaced", updated, userID, userName)
	return updated, nil
}

func (s *orderService) DeleteOrder(id uuid.UUID, userID, userName string) error {
	var removed *model.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.orderRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			return ErrOrderNotFound
		}

		// A shipped order returns its stock before the reference is released.
		if existing.Shipped() && existing.ProductInventoryID != nil {
			if err := s.inventory.AdjustQuantity(tx, *existing.ProductInventoryID, existing.ItemQuantity); err != nil {
				return err
			}
		}

		// Destroying a template's underlying order takes the template with it.
		tpl, err := s.templateRepo.FindByOrderID(tx, existing.ID)
		if err == nil {
			if err := s.templateRepo.Delete(tx, tpl.ID); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := s.orderRepo.Delete(tx, existing, userID); err != nil {
			return err
		}

		if existing.ProductInventoryID != nil {
			if _, err := s.inventory.ReleaseIfOrphaned(tx, *existing.ProductInventoryID); err != nil {
				return err
			}
		}

		removed = existing
		return nil
	})
	if err != nil {
		return err
	}

	s.broadcastOrder("order_removed", removed, userID, userName)
	return nil
}

func (s *orderService) GetOrder(id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetOrders(includeTemplates bool) ([]model.Order, error) {
	return s.orderRepo.FindAll(includeTemplates)
}

func (s *orderService) GetOrdersByShippingDate(date string) ([]model.Order, error) {
	return s.orderRepo.FindByShippingDate(date)
}

// syncTemplateState keeps the order↔template duality: setting the flag on an
// order without a template creates one, clearing it destroys the existing
// template. Toggling is idempotent in both directions.
func (s *orderService) syncTemplateState(tx *gorm.DB, order *model.Order, userID string) error {
	existing, err := s.templateRepo.FindByOrderID(tx, order.ID)
	notFound := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !notFound {
		return err
	}

	if order.IsOrderTemplate && notFound {
		tpl := &model.OrderTemplate{
			OrderID:    order.ID,
			Identifier: fmt.Sprintf("TPL-%s", order.ID.String()[:8]),
		}
		tpl.CreatedBy = userID
		tpl.UpdatedBy = userID
		return s.templateRepo.Create(tx, tpl)
	}
	if !order.IsOrderTemplate && !notFound {
		return s.templateRepo.Delete(tx, existing.ID)
	}
	return nil
}

// loadCostRefs pulls the reference rows the cost model reads. Optional
// references resolve to nil and cost zero.
func (s *orderService) loadCostRefs(tx *gorm.DB, o *model.Order) error {
	var buyer model.Buyer
	if err := tx.First(&buyer, "id = ?", o.BuyerID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		o.Buyer = nil
	} else {
		o.Buyer = &buyer
	}

	o.ShippingMethod = nil
	if o.ShippingMethodID != nil {
		var method model.ShippingMethod
		if err := tx.First(&method, "id = ?", *o.ShippingMethodID).Error; err == nil {
			o.ShippingMethod = &method
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	o.ShippingReceptacle = nil
	if o.ShippingReceptacleID != nil {
		var receptacle model.ShippingReceptacle
		if err := tx.First(&receptacle, "id = ?", *o.ShippingReceptacleID).Error; err == nil {
			o.ShippingReceptacle = &receptacle
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	var variation model.ProductVariation
	err := tx.Preload("Product").Preload("Product.Materials").Preload("Packagings").
		First(&variation, "id = ?", o.ProductVariationID).Error
	if err != nil {
		return fmt.Errorf("product variation not found: %w", err)
	}
	o.ProductVariation = &variation
	return nil
}

func (s *orderService) checkBundleTarget(tx *gorm.DB, o *model.Order) error {
	if o.BundledWithOrderID == nil {
		return nil
	}
	if *o.BundledWithOrderID == o.ID {
		return ErrSelfBundle
	}
	var count int64
	if err := tx.Model(&model.Order{}).Where("id = ?", *o.BundledWithOrderID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrBundleTargetGone
	}
	return nil
}

// applyOrderFields copies the caller-editable fields onto the persisted row.
func applyOrderFields(dst, src *model.Order) {
	dst.BuyerID = src.BuyerID
	dst.ProductVariationID = src.ProductVariationID
	dst.ShippingReceptacleID = src.ShippingReceptacleID
	dst.ShippingMethodID = src.ShippingMethodID
	dst.PaymentReceiptID = src.PaymentReceiptID
	dst.BundledWithOrderID = src.BundledWithOrderID
	dst.BundledShippingReceptacle = src.BundledShippingReceptacle
	dst.IncludeOptionalCost = src.IncludeOptionalCost
	dst.Status = src.Status
	dst.ItemQuantity = src.ItemQuantity
	dst.ReceptacleQuantity = src.ReceptacleQuantity
	dst.FreightQuantity = src.FreightQuantity
	dst.SalePricePerItem = src.SalePricePerItem
	dst.Adjustment = src.Adjustment
	dst.ArrivalDate = DateOnly(src.ArrivalDate)
	dst.ShippingDate = DateOnly(src.ShippingDate)
	dst.IsOrderTemplate = src.IsOrderTemplate
	dst.Note = src.Note
}

func fieldError(e *validator.ErrorResponse) error {
	return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", e.FailedField, e.Tag)
}

// broadcastOrder emits the post-commit push event, keyed by the shipping date
// channel and the order's own id. Fire-and-forget.
func (s *orderService) broadcastOrder(action string, order *model.Order, userID, userName string) {
	if s.wsHub == nil || order == nil {
		return
	}
	go func() {
		s.wsHub.BroadcastEvent(map[string]interface{}{
			"type":    "order_update",
			"action":  action,
			"channel": order.ShippingDate.Format("2006-01-02"),
			"order": map[string]interface{}{
				"id":            order.ID,
				"status":        order.Status,
				"item_quantity": order.ItemQuantity,
				"shipping_date": order.ShippingDate.Format("2006-01-02"),
			},
			"user": map[string]interface{}{
				"id":   userID,
				"name": userName,
			},
			"message": fmt.Sprintf("%s %s order %s", userName, action, order.ID),
		})
	}()
}
