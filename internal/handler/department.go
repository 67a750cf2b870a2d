package handler

import (
	"github.com/gofiber/fiber/v3"

	"workforce-forecast/internal/models"
)

type departmentRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=100"`
	Code        string `json:"code" validate:"omitempty,min=2,max=10"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

// ListDepartments возвращает активные департаменты
func (h *Handler) ListDepartments(c fiber.Ctx) error {
	departments, err := h.departmentService.ListDepartments()
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    departments,
		"count":   len(departments),
	})
}

// GetDepartment возвращает департамент по id
func (h *Handler) GetDepartment(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.respondError(c, err)
	}

	department, err := h.departmentService.GetDepartment(id)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    department,
	})
}

// CreateDepartment создает новый департамент
func (h *Handler) CreateDepartment(c fiber.Ctx) error {
	var req departmentRequest
	if err := c.Bind().Body(&req); err != nil {
		return h.respondError(c, models.NewValidationMessage("invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.respondError(c, models.NewValidationMessage(err.Error()))
	}

	department, err := h.departmentService.CreateDepartment(h.actor(c), req.Name, req.Code, req.Description)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    department,
	})
}

// UpdateDepartment обновляет поля департамента
func (h *Handler) UpdateDepartment(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var req departmentRequest
	if err := c.Bind().Body(&req); err != nil {
		return h.respondError(c, models.NewValidationMessage("invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.respondError(c, models.NewValidationMessage(err.Error()))
	}

	department, err := h.departmentService.UpdateDepartment(h.actor(c), id, req.Name, req.Code, req.Description, req.IsActive)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    department,
	})
}

// DeleteDepartment деактивирует департамент
func (h *Handler) DeleteDepartment(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.respondError(c, err)
	}

	if err := h.departmentService.DeleteDepartment(h.actor(c), id); err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "department deactivated",
	})
}
