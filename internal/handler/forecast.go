package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"workforce-forecast/internal/models"
	"workforce-forecast/internal/repository"
	"workforce-forecast/pkg/quarters"
)

type createForecastRequest struct {
	DepartmentID uint                  `json:"departmentId"`
	Year         int                   `json:"year" validate:"required,min=2020,max=2030"`
	Quarter      int                   `json:"quarter" validate:"required,min=1,max=4"`
	Status       string                `json:"status" validate:"omitempty,oneof=draft submitted"`
	Items        []models.ForecastItem `json:"items" validate:"required,min=1"`
}

type updateForecastRequest struct {
	Items []models.ForecastItem `json:"items" validate:"required,min=1"`
}

type reviewRequest struct {
	Status   string `json:"status" validate:"required,oneof=approved rejected reviewed"`
	Comments string `json:"comments"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

type bulkUpdateRequest struct {
	ForecastIDs []uint `json:"forecastIds" validate:"required,min=1"`
	Status      string `json:"status" validate:"required,oneof=approved rejected reviewed"`
	Comments    string `json:"comments"`
}

type commentRequest struct {
	Message string `json:"message" validate:"required"`
}

type manualReminderRequest struct {
	Kind string `json:"kind" validate:"omitempty,oneof=daily weekly urgent"`
}

// forecastFilter собирает фильтр списка из query-параметров
func forecastFilter(c fiber.Ctx) repository.ForecastFilter {
	filter := repository.ForecastFilter{Status: c.Query("status")}

	if year, err := strconv.Atoi(c.Query("year")); err == nil {
		filter.Year = &year
	}
	if quarter, err := strconv.Atoi(c.Query("quarter")); err == nil {
		filter.Quarter = &quarter
	}
	if id, err := strconv.ParseUint(c.Query("departmentId"), 10, 32); err == nil {
		departmentID := uint(id)
		filter.DepartmentID = &departmentID
	}

	return filter
}

// periodFromQuery читает период из query, по умолчанию текущий квартал
func periodFromQuery(c fiber.Ctx) models.Period {
	now := time.Now()
	period := models.Period{Year: now.Year(), Quarter: quarters.CurrentQuarter(now)}

	if year, err := strconv.Atoi(c.Query("year")); err == nil {
		period.Year = year
	}
	if quarter, err := strconv.Atoi(c.Query("quarter")); err == nil {
		period.Quarter = quarter
	}

	return period
}

// CreateForecast создает прогноз в draft или сразу submitted
func (h *Handler) CreateForecast(c fiber.Ctx) error {
	var req createForecastRequest
	if err := c.Bind().Body(&req); err != nil {
		return h.respondError(c, models.NewValidationMessage("invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.respondError(c, models.NewValidationMessage(err.Error()))
	}

	period := models.Period{Year: req.Year, Quarter: req.Quarter}
	forecast, err := h.forecastService.Create(h.actor(c), req.DepartmentID, period, req.Items, req.Status)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    forecast,
	})
}

// ListForecasts возвращает прогнозы по фильтру с учетом роли
func (h *Handler) ListForecasts(c fiber.Ctx) error {
	forecasts, err := h.forecastService.List(h.actor(c), forecastFilter(c))
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    forecasts,
		"count":   len(forecasts),
	})
}

// GetForecast возвращает один прогноз
func (h *Handler) GetForecast(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.respondError(c, err)
	}

	forecast, err := h.forecastService.GetByID(h.actor(c), id)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    forecast,
	})
}

// UpdateForecast заменяет позиции черновика
func (h *Handler) UpdateForecast(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var req updateForecastRequest
	if err := c.Bind().Body(&req); err != nil {
		return h.respondError(c, models.NewValidationMessage("invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.respondError(c, models.NewValidationMessage(err.Error()))
	}

	forecast, err := h.forecastService.Edit(h.actor(c), id, req.Items)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    forecast,
	})
}

// SubmitForecast отправляет черновик на проверку
func (h *Handler) SubmitForecast(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.respondError(c, err)
	}

	forecast, err := h.forecastService.Submit(h.actor(c), id)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    forecast,
	})
}

// UpdateStatus выполняет решение проверяющего по прогнозу
func (h *Handler) UpdateStatus(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var req reviewRequest
	if err := c.Bind().Body(&req); err != nil {
		return h.respondError(c, models.NewValidationMessage("invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.respondError(c, models.NewValidationMessage(err.Error()))
	}

	forecast, err := h.forecastService.Review(h.actor(c), id, req.Status, req.Comments, req.Priority)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    forecast,
	})
}

// DeleteForecast удаляет черновик
func (h *Handler) DeleteForecast(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.respondError(c, err)
	}

	if err := h.forecastService.Delete(h.actor(c), id); err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "forecast deleted",
	})
}

// AddComment добавляет комментарий к прогнозу
func (h *Handler) AddComment(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var req commentRequest
	if err := c.Bind().Body(&req); err != nil {
		return h.respondError(c, models.NewValidationMessage("invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.respondError(c, models.NewValidationMessage(err.Error()))
	}

	forecast, err := h.forecastService.AddComment(h.actor(c), id, req.Message)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    forecast,
	})
}

// ForecastHistory возвращает журнал аудита прогноза
func (h *Handler) ForecastHistory(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.respondError(c, err)
	}

	entries, err := h.forecastService.History(h.actor(c), id)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    entries,
		"count":   len(entries),
	})
}

// ListForReview возвращает прогнозы, ожидающие решения
func (h *Handler) ListForReview(c fiber.Ctx) error {
	forecasts, err := h.forecastService.ListForReview(h.actor(c), c.Query("status"))
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    forecasts,
		"count":   len(forecasts),
	})
}

// BulkUpdate применяет решение к набору прогнозов
func (h *Handler) BulkUpdate(c fiber.Ctx) error {
	var req bulkUpdateRequest
	if err := c.Bind().Body(&req); err != nil {
		return h.respondError(c, models.NewValidationMessage("invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.respondError(c, models.NewValidationMessage(err.Error()))
	}

	result, err := h.forecastService.BulkReview(h.actor(c), req.ForecastIDs, req.Status, req.Comments)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// MissingSubmitters возвращает руководителей без прогноза за период
func (h *Handler) MissingSubmitters(c fiber.Ctx) error {
	missing, err := h.reminderService.MissingSubmitters(periodFromQuery(c))
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    missing,
		"count":   len(missing),
	})
}

// ManualReminder запускает рассылку напоминаний вручную
func (h *Handler) ManualReminder(c fiber.Ctx) error {
	// Тело опционально: без него уходит дневное напоминание
	var req manualReminderRequest
	_ = c.Bind().Body(&req)
	if err := h.validate.Struct(req); err != nil {
		return h.respondError(c, models.NewValidationMessage(err.Error()))
	}

	kind := req.Kind
	if kind == "" {
		kind = "daily"
	}

	sent, err := h.reminderService.SendReminders(kind)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"sent":    sent,
	})
}

// ReminderStatus показывает состояние планировщика напоминаний
func (h *Handler) ReminderStatus(c fiber.Ctx) error {
	var jobs map[string]bool
	if h.sched != nil {
		jobs = h.sched.Status()
	}

	return c.JSON(fiber.Map{
		"success":             true,
		"jobs":                jobs,
		"daysUntilQuarterEnd": h.reminderService.DaysUntilQuarterEnd(),
	})
}
