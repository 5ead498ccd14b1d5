package handler

import (
	"go-wholesale-orders/internal/model"
	"go-wholesale-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	inventory  service.InventoryService
	production service.ProductionService
}

func NewInventoryHandler(inventory service.InventoryService, production service.ProductionService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, production: production}
}

func (h *InventoryHandler) GetBuckets(c *fiber.Ctx) error {
	buckets, err := h.inventory.GetAllBuckets()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(buckets)
}

func (h *InventoryHandler) GetBucket(c *fiber.Ctx) error {
	bucketID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid bucket ID"})
	}

	bucket, err := h.inventory.GetBucket(bucketID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Bucket not found"})
	}
	return c.JSON(bucket)
}

// UpdateBucket corrects the on-hand quantity. Identity fields are rejected
// by the service.
func (h *InventoryHandler) UpdateBucket(c *fiber.Ctx) error {
	bucketID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid bucket ID"})
	}

	var req model.ProductInventory
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.inventory.UpdateBucket(bucketID, &req, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Bucket updated", "data": updated})
}

// GetBucketSummary reports outstanding order demand vs. requested production.
func (h *InventoryHandler) GetBucketSummary(c *fiber.Ctx) error {
	bucketID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid bucket ID"})
	}

	summary, err := h.production.SummarizeBucket(bucketID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(summary)
}
