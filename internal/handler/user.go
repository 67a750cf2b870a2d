package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"workforce-forecast/internal/models"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Role         string `json:"role" validate:"omitempty,oneof=hod finance admin"`
	DepartmentID *uint  `json:"departmentId"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=hod finance admin"`
}

// Login проверяет учетные данные и выдает JWT
func (h *Handler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return h.respondError(c, models.NewValidationMessage("invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.respondError(c, models.NewValidationMessage(err.Error()))
	}

	user, err := h.userService.Authenticate(req.Email, req.Password)
	if err != nil {
		// Единый ответ для всех провалов аутентификации
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "invalid credentials",
		})
	}

	token, err := h.generateToken(user)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Profile возвращает текущего пользователя
func (h *Handler) Profile(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.actor(c),
	})
}

// ListUsers возвращает всех пользователей
func (h *Handler) ListUsers(c fiber.Ctx) error {
	users, err := h.userService.ListUsers(h.actor(c))
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"count":   len(users),
	})
}

// CreateUser регистрирует нового пользователя
func (h *Handler) CreateUser(c fiber.Ctx) error {
	var req createUserRequest
	if err := c.Bind().Body(&req); err != nil {
		return h.respondError(c, models.NewValidationMessage("invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.respondError(c, models.NewValidationMessage(err.Error()))
	}

	user, err := h.userService.CreateUser(req.Name, req.Email, req.Password, models.Role(req.Role), req.DepartmentID)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

// UpdateUserRole меняет роль пользователя
func (h *Handler) UpdateUserRole(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var req updateRoleRequest
	if err := c.Bind().Body(&req); err != nil {
		return h.respondError(c, models.NewValidationMessage("invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.respondError(c, models.NewValidationMessage(err.Error()))
	}

	if err := h.userService.UpdateRole(h.actor(c), id, models.Role(req.Role)); err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "role updated",
	})
}

// parseIDParam читает числовой параметр :id из пути
func parseIDParam(c fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationMessage("id must be a positive integer")
	}

	return uint(id), nil
}
