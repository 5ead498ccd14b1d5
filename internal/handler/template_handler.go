package handler

import (
	"go-wholesale-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TemplateHandler struct {
	service service.TemplateService
}

func NewTemplateHandler(s service.TemplateService) *TemplateHandler {
	return &TemplateHandler{service: s}
}

func (h *TemplateHandler) GetTemplates(c *fiber.Ctx) error {
	templates, err := h.service.GetAllTemplates()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(templates)
}

func (h *TemplateHandler) GetTemplate(c *fiber.Ctx) error {
	templateID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	tpl, err := h.service.GetTemplate(templateID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Template not found"})
	}
	return c.JSON(tpl)
}

type templateMetaRequest struct {
	Identifier string `json:"identifier"`
	Notes      string `json:"notes"`
}

func (h *TemplateHandler) UpdateTemplate(c *fiber.Ctx) error {
	templateID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	var req templateMetaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tpl, err := h.service.UpdateTemplateMeta(templateID, req.Identifier, req.Notes, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Template updated", "data": tpl})
}

// DeriveOrder stamps a new concrete order out of a template.
func (h *TemplateHandler) DeriveOrder(c *fiber.Ctx) error {
	templateID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	var overrides service.DeriveOverrides
	if err := c.BodyParser(&overrides); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.DeriveOrder(templateID, overrides, getUserID(c), getUserName(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Order derived from template", "data": order.ToResponse()})
}

// GetAssociableTemplate finds the template an order came from (or an
// equivalent one), for UI restore flows.
func (h *TemplateHandler) GetAssociableTemplate(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("orderId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	tpl, err := h.service.FindAssociableTemplate(orderID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(tpl)
}

// CopyToTemplate duplicates an order into a new template.
func (h *TemplateHandler) CopyToTemplate(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("orderId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req templateMetaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tpl, err := h.service.CopyToTemplate(orderID, req.Identifier, req.Notes, getUserID(c), getUserName(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Template created", "data": tpl})
}
