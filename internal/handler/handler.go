package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/sirupsen/logrus"

	"workforce-forecast/internal/config"
	"workforce-forecast/internal/models"
	"workforce-forecast/internal/scheduler"
	"workforce-forecast/internal/service"
)

// Handler держит все сервисы и переводит HTTP-запросы в операции ядра
type Handler struct {
	forecastService   *service.ForecastService
	analyticsService  *service.AnalyticsService
	reportService     *service.ReportService
	reminderService   *service.ReminderService
	userService       *service.UserService
	departmentService *service.DepartmentService
	sched             *scheduler.Scheduler
	validate          *validator.Validate
	config            *config.ServerConfig
	logger            *logrus.Logger
}

func NewHandler(
	forecastService *service.ForecastService,
	analyticsService *service.AnalyticsService,
	reportService *service.ReportService,
	reminderService *service.ReminderService,
	userService *service.UserService,
	departmentService *service.DepartmentService,
	sched *scheduler.Scheduler,
	cfg *config.ServerConfig,
) *Handler {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &Handler{
		forecastService:   forecastService,
		analyticsService:  analyticsService,
		reportService:     reportService,
		reminderService:   reminderService,
		userService:       userService,
		departmentService: departmentService,
		sched:             sched,
		validate:          validator.New(),
		config:            cfg,
		logger:            logger,
	}
}

// NewFiberApp создает приложение Fiber с базовыми middleware
func NewFiberApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Workforce Forecast API",
		ServerHeader: "Workforce Forecast API",
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New())

	return app
}

// RegisterRoutes навешивает все маршруты API
func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Post("/auth/login", h.Login)

	forecasts := api.Group("/forecasts", h.RequireAuth)
	// Статические пути раньше /:id
	forecasts.Get("/reminders/status", h.RequireRoles(models.RoleAdmin), h.ReminderStatus)
	forecasts.Post("/reminders/manual", h.RequireRoles(models.RoleAdmin), h.ManualReminder)
	forecasts.Get("/review", h.RequireRoles(models.RoleFinance, models.RoleAdmin), h.ListForReview)
	forecasts.Post("/bulk-update", h.RequireRoles(models.RoleFinance, models.RoleAdmin), h.BulkUpdate)
	forecasts.Get("/missing-submitters", h.RequireRoles(models.RoleFinance, models.RoleAdmin), h.MissingSubmitters)
	forecasts.Get("/", h.ListForecasts)
	forecasts.Post("/", h.RequireRoles(models.RoleHOD, models.RoleAdmin), h.CreateForecast)
	forecasts.Put("/:id/status", h.RequireRoles(models.RoleFinance, models.RoleAdmin), h.UpdateStatus)
	forecasts.Post("/:id/submit", h.RequireRoles(models.RoleHOD, models.RoleAdmin), h.SubmitForecast)
	forecasts.Post("/:id/comments", h.AddComment)
	forecasts.Get("/:id/history", h.ForecastHistory)
	forecasts.Get("/:id", h.GetForecast)
	forecasts.Put("/:id", h.UpdateForecast)
	forecasts.Delete("/:id", h.RequireRoles(models.RoleHOD, models.RoleAdmin), h.DeleteForecast)

	reports := api.Group("/reports", h.RequireAuth, h.RequireRoles(models.RoleFinance, models.RoleAdmin))
	reports.Get("/consolidated", h.ConsolidatedReport)
	reports.Get("/department/:id", h.DepartmentReport)
	reports.Get("/export", h.ExportReport)
	reports.Get("/analytics", h.AdvancedAnalytics)
	reports.Get("/export/advanced", h.ExportAdvancedReport)

	departments := api.Group("/departments", h.RequireAuth)
	departments.Get("/", h.ListDepartments)
	departments.Get("/:id", h.GetDepartment)
	departments.Post("/", h.RequireRoles(models.RoleAdmin), h.CreateDepartment)
	departments.Put("/:id", h.RequireRoles(models.RoleAdmin), h.UpdateDepartment)
	departments.Delete("/:id", h.RequireRoles(models.RoleAdmin), h.DeleteDepartment)

	users := api.Group("/users", h.RequireAuth)
	users.Get("/me", h.Profile)
	users.Get("/", h.RequireRoles(models.RoleAdmin), h.ListUsers)
	users.Post("/", h.RequireRoles(models.RoleAdmin), h.CreateUser)
	users.Put("/:id/role", h.RequireRoles(models.RoleAdmin), h.UpdateUserRole)
}

// respondError переводит доменную ошибку в HTTP-статус
func (h *Handler) respondError(c fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch models.CodeOf(err) {
	case models.ErrCodeValidation, models.ErrCodeDuplicate, models.ErrCodeInvalidState:
		status = fiber.StatusBadRequest
	case models.ErrCodeNotFound:
		status = fiber.StatusNotFound
	case models.ErrCodePermission:
		status = fiber.StatusForbidden
	case models.ErrCodeConflict:
		status = fiber.StatusConflict
	default:
		h.logger.WithError(err).Error("Unhandled server error")
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}

func (h *Handler) actor(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}
