package service

import (
	"errors"
	"fmt"
	"time"

	"go-wholesale-orders/internal/model"
	"go-wholesale-orders/internal/repository"
	"go-wholesale-orders/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Error definitions
var (
	ErrBucketNotFound     = errors.New("inventory bucket not found")
	ErrBucketImmutable    = errors.New("product variation, manufacture date and expiration date cannot change on an existing bucket")
	ErrExpirationTooEarly = errors.New("expiration date must be strictly after manufacture date")
)

// InventoryService owns every mutation of ProductInventory buckets. Orders
// and production requests never touch bucket rows directly; all acquire,
// adjust and orphan-destroy steps go through here so the locking discipline
// stays in one place. Mutating methods take the caller's open transaction.
type InventoryService interface {
	AcquireBucket(tx *gorm.DB, variationID uuid.UUID, manufacture, expiration time.Time) (*model.ProductInventory, error)
	ReleaseIfOrphaned(tx *gorm.DB, bucketID uuid.UUID) (bool, error)
	AdjustQuantity(tx *gorm.DB, bucketID uuid.UUID, delta int) error
	GetBucket(id uuid.UUID) (*model.ProductInventory, error)
	GetAllBuckets() ([]model.ProductInventory, error)
	UpdateBucket(id uuid.UUID, req *model.ProductInventory, userID string) (*model.ProductInventory, error)
}

type inventoryService struct {
	inventoryRepo  repository.InventoryRepository
	orderRepo      repository.OrderRepository
	productionRepo repository.ProductionRepository
	db             *gorm.DB
}

func NewInventoryService(iRepo repository.InventoryRepository, oRepo repository.OrderRepository, pRepo repository.ProductionRepository, db *gorm.DB) InventoryService {
	return &inventoryService{
		inventoryRepo:  iRepo,
		orderRepo:      oRepo,
		productionRepo: pRepo,
		db:             db,
	}
}

// DateOnly normalizes a timestamp to midnight UTC so bucket key comparisons
// are deterministic across drivers.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AcquireBucket finds or creates the bucket for (variation, manufacture,
// expiration) under a row lock. A concurrent create can still win the unique
// key; the loser re-reads instead of failing the operation.
func (s *inventoryService) AcquireBucket(tx *gorm.DB, variationID uuid.UUID, manufacture, expiration time.Time) (*model.ProductInventory, error) {
	if variationID == uuid.Nil {
		return nil, errors.New("product variation is required to acquire a bucket")
	}
	manufacture = DateOnly(manufacture)
	expiration = DateOnly(expiration)
	if !expiration.After(manufacture) {
		return nil, ErrExpirationTooEarly
	}

	bucket, err := s.inventoryRepo.FindByKeyForUpdate(tx, variationID, manufacture, expiration)
	if err == nil {
		return bucket, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := &model.ProductInventory{
		ProductVariationID: variationID,
		ManufactureDate:    manufacture,
		ExpirationDate:     expiration,
		Quantity:           0,
	}
	if errs := validator.ValidateStruct(fresh); len(errs) > 0 {
		first := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}
	if createErr := s.inventoryRepo.Create(tx, fresh); createErr != nil {
		// Unique-key race: another transaction created the bucket between our
		// read and write. Re-read; surface the original error if still absent.
		if bucket, err = s.inventoryRepo.FindByKeyForUpdate(tx, variationID, manufacture, expiration); err == nil {
			return bucket, nil
		}
		return nil, createErr
	}
	return fresh, nil
}

// ReleaseIfOrphaned destroys a bucket once nothing references it. Both
// orders and production requests pin the bucket: a bucket with open
// production work is never collected even when its last order detaches.
func (s *inventoryService) ReleaseIfOrphaned(tx *gorm.DB, bucketID uuid.UUID) (bool, error) {
	if _, err := s.inventoryRepo.FindByIDForUpdate(tx, bucketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	orders, err := s.orderRepo.CountByBucket(tx, bucketID)
	if err != nil {
		return false, err
	}
	if orders > 0 {
		return false, nil
	}
	requests, err := s.productionRepo.CountByBucket(tx, bucketID)
	if err != nil {
		return false, err
	}
	if requests > 0 {
		return false, nil
	}

	if err := s.inventoryRepo.Delete(tx, bucketID); err != nil {
		return false, err
	}
	return true, nil
}

// AdjustQuantity applies a signed delta to the bucket's on-hand quantity
// under its row lock.
func (s *inventoryService) AdjustQuantity(tx *gorm.DB, bucketID uuid.UUID, delta int) error {
	if delta == 0 {
		return nil
	}
	if _, err := s.inventoryRepo.FindByIDForUpdate(tx, bucketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBucketNotFound
		}
		return err
	}
	return s.inventoryRepo.AddQuantity(tx, bucketID, delta)
}

func (s *inventoryService) GetBucket(id uuid.UUID) (*model.ProductInventory, error) {
	bucket, err := s.inventoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBucketNotFound
		}
		return nil, err
	}
	return bucket, nil
}

func (s *inventoryService) GetAllBuckets() ([]model.ProductInventory, error) {
	return s.inventoryRepo.FindAll()
}

// UpdateBucket allows correcting the on-hand quantity of a bucket. The
// identity fields are write-once; any attempt to change them is rejected
// and the bucket is left untouched.
func (s *inventoryService) UpdateBucket(id uuid.UUID, req *model.ProductInventory, userID string) (*model.ProductInventory, error) {
	var updated *model.ProductInventory

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.inventoryRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBucketNotFound
			}
			return err
		}

		if req.ProductVariationID != uuid.Nil && req.ProductVariationID != existing.ProductVariationID {
			return ErrBucketImmutable
		}
		if !req.ManufactureDate.IsZero() && !DateOnly(req.ManufactureDate).Equal(DateOnly(existing.ManufactureDate)) {
			return ErrBucketImmutable
		}
		if !req.ExpirationDate.IsZero() && !DateOnly(req.ExpirationDate).Equal(DateOnly(existing.ExpirationDate)) {
			return ErrBucketImmutable
		}
		if req.Quantity < 0 {
			return errors.New("quantity cannot be negative")
		}

		existing.Quantity = req.Quantity
		existing.UpdatedBy = userID
		if err := tx.Save(existing).Error; err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return updated, nil
}
