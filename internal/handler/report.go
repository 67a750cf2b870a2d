package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ConsolidatedReport возвращает сводку по всем департаментам за период
func (h *Handler) ConsolidatedReport(c fiber.Ctx) error {
	filter := forecastFilter(c)

	forecasts, err := h.forecastService.List(h.actor(c), filter)
	if err != nil {
		return h.respondError(c, err)
	}

	summary := h.analyticsService.Summarize(forecasts)

	return c.JSON(fiber.Map{
		"success":            true,
		"summary":            summary,
		"statusDistribution": h.analyticsService.StatusDistribution(summary),
		"byDepartment":       h.analyticsService.ByDepartment(forecasts),
		"items":              h.analyticsService.FlattenItems(forecasts),
	})
}

// DepartmentReport возвращает прогнозы одного департамента за период
func (h *Handler) DepartmentReport(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.respondError(c, err)
	}

	department, err := h.departmentService.GetDepartment(id)
	if err != nil {
		return h.respondError(c, err)
	}

	filter := forecastFilter(c)
	filter.DepartmentID = &id

	forecasts, err := h.forecastService.List(h.actor(c), filter)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"department": department,
		"summary":    h.analyticsService.Summarize(forecasts),
		"forecasts":  forecasts,
		"items":      h.analyticsService.FlattenItems(forecasts),
	})
}

// ExportReport отдает базовый CSV-отчет
func (h *Handler) ExportReport(c fiber.Ctx) error {
	csv, err := h.reportService.ExportCSV(forecastFilter(c))
	if err != nil {
		return h.respondError(c, err)
	}

	return sendCSV(c, csv, "manpower-forecast")
}

// ExportAdvancedReport отдает расширенный CSV со всеми метриками
func (h *Handler) ExportAdvancedReport(c fiber.Ctx) error {
	csv, err := h.reportService.ExportAdvancedCSV(forecastFilter(c))
	if err != nil {
		return h.respondError(c, err)
	}

	return sendCSV(c, csv, "advanced-workforce-analytics")
}

// AdvancedAnalytics возвращает расширенную аналитику за период
func (h *Handler) AdvancedAnalytics(c fiber.Ctx) error {
	payload, err := h.analyticsService.AdvancedAnalytics(forecastFilter(c))
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    payload,
	})
}

func sendCSV(c fiber.Ctx, body, prefix string) error {
	filename := fmt.Sprintf("%s-%s.csv", prefix, time.Now().Format("2006-01-02"))

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))

	return c.SendString(body)
}
