package handler

import (
	"go-wholesale-orders/internal/model"
	"go-wholesale-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductionHandler struct {
	service service.ProductionService
}

func NewProductionHandler(s service.ProductionService) *ProductionHandler {
	return &ProductionHandler{service: s}
}

func (h *ProductionHandler) CreateRequest(c *fiber.Ctx) error {
	var req model.ProductionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	created, err := h.service.CreateRequest(&req, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Production request created", "data": created})
}

func (h *ProductionHandler) UpdateRequest(c *fiber.Ctx) error {
	requestID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var req model.ProductionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateRequest(requestID, &req, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Production request updated", "data": updated})
}

func (h *ProductionHandler) DeleteRequest(c *fiber.Ctx) error {
	requestID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	if err := h.service.DeleteRequest(requestID, getUserID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Production request deleted"})
}

func (h *ProductionHandler) GetRequest(c *fiber.Ctx) error {
	requestID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	req, err := h.service.GetRequest(requestID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Production request not found"})
	}
	return c.JSON(req)
}

// GetZoneBacklog reports open production work rolled up per zone.
func (h *ProductionHandler) GetZoneBacklog(c *fiber.Ctx) error {
	rows, err := h.service.BacklogByZone()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(rows)
}

func (h *ProductionHandler) GetRequests(c *fiber.Ctx) error {
	reqs, err := h.service.GetAllRequests()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(reqs)
}

// ConvertOutstanding records the gap between unshipped demand and open
// production as a new request on the bucket.
func (h *ProductionHandler) ConvertOutstanding(c *fiber.Ctx) error {
	bucketID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid bucket ID"})
	}

	created, err := h.service.ConvertOutstandingOrders(bucketID, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if created == nil {
		return c.JSON(fiber.Map{"message": "Demand already covered"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Production request created", "data": created})
}
