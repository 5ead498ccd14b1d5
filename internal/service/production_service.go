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

var ErrRequestNotFound = errors.New("production request not found")

// BucketSummary is the reconciliation snapshot of one bucket: outstanding
// order demand vs. production already requested or fulfilled.
type BucketSummary struct {
	BucketID         uuid.UUID `json:"bucket_id"`
	OnHand           int       `json:"on_hand"`
	OrderDemand      int       `json:"order_demand"`
	AlreadyRequested int       `json:"already_requested"`
	Remainder        int       `json:"remainder"`
}

// ZoneBacklog aggregates the open production work per zone. Requests without
// a zone land in the unassigned row.
type ZoneBacklog struct {
	ZoneID       *uuid.UUID `json:"zone_id"`
	ZoneName     string     `json:"zone_name"`
	OpenRequests int        `json:"open_requests"`
	Outstanding  int        `json:"outstanding"`
}

// ProductionService reconciles bucket stock against production work. Every
// fulfilled-quantity change moves the bound bucket's on-hand quantity by the
// delta, in the same transaction as the request row.
type ProductionService interface {
	CreateRequest(req *model.ProductionRequest, userID string) (*model.ProductionRequest, error)
	UpdateRequest(id uuid.UUID, req *model.ProductionRequest, userID string) (*model.ProductionRequest, error)
	DeleteRequest(id uuid.UUID, userID string) error
	GetRequest(id uuid.UUID) (*model.ProductionRequest, error)
	GetAllRequests() ([]model.ProductionRequest, error)
	ConvertOutstandingOrders(bucketID uuid.UUID, userID string) (*model.ProductionRequest, error)
	SummarizeBucket(bucketID uuid.UUID) (*BucketSummary, error)
	BacklogByZone() ([]ZoneBacklog, error)
}

type productionService struct {
	productionRepo repository.ProductionRepository
	orderRepo      repository.OrderRepository
	inventoryRepo  repository.InventoryRepository
	inventory      InventoryService
	db             *gorm.DB
	wsHub          *ws.Hub
}

func NewProductionService(pRepo repository.ProductionRepository, oRepo repository.OrderRepository, iRepo repository.InventoryRepository, inventory InventoryService, db *gorm.DB, hub *ws.Hub) ProductionService {
	return &productionService{
		productionRepo: pRepo,
		orderRepo:      oRepo,
		inventoryRepo:  iRepo,
		inventory:      inventory,
		db:             db,
		wsHub:          hub,
	}
}

func (s *productionService) CreateRequest(req *model.ProductionRequest, userID string) (*model.ProductionRequest, error) {
	if req.Status == "" {
		req.Status = model.ProductionPending
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		bucket, err := s.inventoryRepo.FindByIDForUpdate(tx, req.ProductInventoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBucketNotFound
			}
			return err
		}

		s.applyDefaults(tx, req, bucket)

		if errs := validator.ValidateStruct(req); len(errs) > 0 {
			return fieldError(errs[0])
		}

		req.CreatedBy = userID
		req.UpdatedBy = userID
		if err := s.productionRepo.Create(tx, req); err != nil {
			return err
		}

		// Stock produced before the request was recorded counts immediately.
		if req.FulfilledQuantity != 0 {
			return s.inventoryRepo.AddQuantity(tx, bucket.ID, req.FulfilledQuantity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcastStock("production_request_created", req, userID)
	return req, nil
}

func (s *productionService) UpdateRequest(id uuid.UUID, req *model.ProductionRequest, userID string) (*model.ProductionRequest, error) {
	var updated *model.ProductionRequest

	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.productionRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			return ErrRequestNotFound
		}
		// Bucket lock before the quantity math.
		if _, err := s.inventoryRepo.FindByIDForUpdate(tx, existing.ProductInventoryID); err != nil {
			return err
		}

		delta := req.FulfilledQuantity - existing.FulfilledQuantity

		existing.RequestQuantity = req.RequestQuantity
		existing.FulfilledQuantity = req.FulfilledQuantity
		existing.Status = req.Status
		existing.ProductionZoneID = req.ProductionZoneID
		existing.ShippingReceptacleID = req.ShippingReceptacleID
		existing.UpdatedBy = userID

		if errs := validator.ValidateStruct(existing); len(errs) > 0 {
			return fieldError(errs[0])
		}
		if err := s.productionRepo.Save(tx, existing); err != nil {
			return err
		}
		if delta != 0 {
			if err := s.inventoryRepo.AddQuantity(tx, existing.ProductInventoryID, delta); err != nil {
				return err
			}
		}

		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcastStock("production_request_updated", updated, userID)
	return updated, nil
}

func (s *productionService) DeleteRequest(id uuid.UUID, userID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.productionRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			return ErrRequestNotFound
		}
		if err := s.productionRepo.Delete(tx, existing.ID); err != nil {
			return err
		}
		// The request no longer pins its bucket.
		_, err = s.inventory.ReleaseIfOrphaned(tx, existing.ProductInventoryID)
		return err
	})
	return err
}

func (s *productionService) GetRequest(id uuid.UUID) (*model.ProductionRequest, error) {
	req, err := s.productionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *productionService) GetAllRequests() ([]model.ProductionRequest, error) {
	return s.productionRepo.FindAll()
}

// ConvertOutstandingOrders compares unshipped order demand on a bucket with
// the production already requested or fulfilled, and records the remainder
// as a new request. A negative remainder records over-fulfillment; callers
// must not assume positivity. Returns nil when demand and requests balance.
func (s *productionService) ConvertOutstandingOrders(bucketID uuid.UUID, userID string) (*model.ProductionRequest, error) {
	var created *model.ProductionRequest

	err := s.db.Transaction(func(tx *gorm.DB) error {
		bucket, err := s.inventoryRepo.FindByIDForUpdate(tx, bucketID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBucketNotFound
			}
			return err
		}

		demand, requested, err := s.reconcile(tx, bucketID)
		if err != nil {
			return err
		}
		remainder := demand - requested
		if remainder == 0 {
			return nil
		}

		req := &model.ProductionRequest{
			ProductInventoryID: bucketID,
			RequestQuantity:    remainder,
			Status:             model.ProductionPending,
		}
		s.applyDefaults(tx, req, bucket)
		req.CreatedBy = userID
		req.UpdatedBy = userID
		if err := s.productionRepo.Create(tx, req); err != nil {
			return err
		}
		created = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *productionService) SummarizeBucket(bucketID uuid.UUID) (*BucketSummary, error) {
	var summary *BucketSummary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		bucket, err := s.inventoryRepo.FindByIDForUpdate(tx, bucketID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBucketNotFound
			}
			return err
		}
		demand, requested, err := s.reconcile(tx, bucketID)
		if err != nil {
			return err
		}
		summary = &BucketSummary{
			BucketID:         bucketID,
			OnHand:           bucket.Quantity,
			OrderDemand:      demand,
			AlreadyRequested: requested,
			Remainder:        demand - requested,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// BacklogByZone rolls the open requests up per production zone.
func (s *productionService) BacklogByZone() ([]ZoneBacklog, error) {
	requests, err := s.productionRepo.FindAll()
	if err != nil {
		return nil, err
	}

	index := map[uuid.UUID]int{}
	var rows []ZoneBacklog
	unassigned := -1
	for i := range requests {
		r := &requests[i]
		if r.Status == model.ProductionCompleted {
			continue
		}

		at := unassigned
		if r.ProductionZoneID != nil {
			var ok bool
			if at, ok = index[*r.ProductionZoneID]; !ok {
				name := ""
				if r.ProductionZone != nil {
					name = r.ProductionZone.Name
				}
				rows = append(rows, ZoneBacklog{ZoneID: r.ProductionZoneID, ZoneName: name})
				at = len(rows) - 1
				index[*r.ProductionZoneID] = at
			}
		} else if unassigned < 0 {
			rows = append(rows, ZoneBacklog{ZoneName: "unassigned"})
			at = len(rows) - 1
			unassigned = at
		}

		rows[at].OpenRequests++
		rows[at].Outstanding += r.Outstanding()
	}
	return rows, nil
}

// reconcile sums unshipped real-order demand and the open-request coverage
// for a bucket. Each open request covers max(requested, fulfilled).
func (s *productionService) reconcile(tx *gorm.DB, bucketID uuid.UUID) (demand, requested int, err error) {
	orders, err := s.orderRepo.OutstandingByBucket(tx, bucketID)
	if err != nil {
		return 0, 0, err
	}
	for _, o := range orders {
		demand += o.ItemQuantity
	}

	requests, err := s.productionRepo.OpenByBucket(tx, bucketID)
	if err != nil {
		return 0, 0, err
	}
	for _, r := range requests {
		requested += r.Outstanding()
	}
	return demand, requested, nil
}

// applyDefaults fills the request's variation from its bucket and the
// receptacle from the most recent order drawing on it.
func (s *productionService) applyDefaults(tx *gorm.DB, req *model.ProductionRequest, bucket *model.ProductInventory) {
	if req.ProductVariationID == uuid.Nil {
		req.ProductVariationID = bucket.ProductVariationID
	}
	if req.ShippingReceptacleID == nil {
		if latest, err := s.orderRepo.LatestByBucket(tx, bucket.ID); err == nil {
			req.ShippingReceptacleID = latest.ShippingReceptacleID
		}
	}
}

func (s *productionService) broadcastStock(action string, req *model.ProductionRequest, userID string) {
	if s.wsHub == nil || req == nil {
		return
	}
	go func() {
		s.wsHub.BroadcastEvent(map[string]interface{}{
			"type":   "stock_update",
			"action": action,
			"request": map[string]interface{}{
				"id":                 req.ID,
				"bucket_id":          req.ProductInventoryID,
				"request_quantity":   req.RequestQuantity,
				"fulfilled_quantity": req.FulfilledQuantity,
				"status":             req.Status,
			},
			"user": map[string]interface{}{
				"id": userID,
			},
			"message": fmt.Sprintf("production request %s %s", req.ID, action),
		})
	}()
}
