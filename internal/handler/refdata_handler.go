package handler

import (
	"go-wholesale-orders/internal/repository"
	"go-wholesale-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RefDataHandler exposes the read-only reference data UI collaborators need
// to build order forms, plus the per-box packing estimate.
type RefDataHandler struct {
	refDataRepo repository.RefDataRepository
}

func NewRefDataHandler(r repository.RefDataRepository) *RefDataHandler {
	return &RefDataHandler{refDataRepo: r}
}

func (h *RefDataHandler) GetBuyers(c *fiber.Ctx) error {
	buyers, err := h.refDataRepo.FindBuyers()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(buyers)
}

func (h *RefDataHandler) GetShippingMethods(c *fiber.Ctx) error {
	methods, err := h.refDataRepo.FindShippingMethods()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(methods)
}

func (h *RefDataHandler) GetShippingReceptacles(c *fiber.Ctx) error {
	receptacles, err := h.refDataRepo.FindShippingReceptacles()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(receptacles)
}

func (h *RefDataHandler) GetProductVariations(c *fiber.Ctx) error {
	variations, err := h.refDataRepo.FindProductVariations()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(variations)
}

func (h *RefDataHandler) GetProductionZones(c *fiber.Ctx) error {
	zones, err := h.refDataRepo.FindProductionZones()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(zones)
}

func (h *RefDataHandler) GetOrderCategories(c *fiber.Ctx) error {
	categories, err := h.refDataRepo.FindOrderCategories()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(categories)
}

// GetPerBoxEstimate returns how many items of a variation fit one
// receptacle, for order-entry estimation.
func (h *RefDataHandler) GetPerBoxEstimate(c *fiber.Ctx) error {
	receptacleID, err := parseUUID(c.Query("shipping_receptacle_id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid shipping receptacle ID"})
	}
	variationID, err := parseUUID(c.Query("product_variation_id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product variation ID"})
	}

	receptacle, err := h.refDataRepo.FindShippingReceptacle(receptacleID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Shipping receptacle not found"})
	}
	variation, err := h.refDataRepo.FindProductVariation(variationID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product variation not found"})
	}

	return c.JSON(fiber.Map{
		"per_box_quantity": service.EstimatePerBoxQuantity(receptacle, variation.Product),
	})
}
