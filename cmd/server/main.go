package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"workforce-forecast/internal/config"
	"workforce-forecast/internal/handler"
	"workforce-forecast/internal/repository"
	"workforce-forecast/internal/scheduler"
	"workforce-forecast/internal/service"
	"workforce-forecast/pkg/mailer"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetServerConfig()
	logrus.Info("Config initialized...")

	// Инициализируем SQLite базу данных
	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true, // SQLite ограничения
	})
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatal("Failed to get database instance:", err)
	}

	// Включаем поддержку внешних ключей (требуется для SQLite)
	_, err = sqlDB.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		logrus.Infof("Warning: Failed to enable foreign keys: %v", err)
	}

	userRepo, err := repository.NewGormUserRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create user repository")
	}

	departmentRepo, err := repository.NewGormDepartmentRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create department repository")
	}

	forecastRepo, err := repository.NewGormForecastRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create forecast repository")
	}

	auditRepo, err := repository.NewGormAuditLogRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create audit log repository")
	}

	// Почтовый клиент уведомлений
	mailClient := mailer.NewClient(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPassword,
		cfg.EmailFrom,
		cfg.FrontendURL,
	)

	forecastService := service.NewForecastService(forecastRepo, auditRepo, mailClient)
	analyticsService := service.NewAnalyticsService(forecastRepo, departmentRepo)
	reportService := service.NewReportService(forecastRepo)
	reminderService := service.NewReminderService(forecastRepo, userRepo, mailClient)
	userService := service.NewUserService(userRepo)
	departmentService := service.NewDepartmentService(departmentRepo)

	// Планировщик напоминаний
	sched := scheduler.New(reminderService)
	if cfg.RemindersEnabled {
		if err := sched.Start(); err != nil {
			logrus.WithError(err).Fatal("Failed to start reminder scheduler")
		}
	} else {
		logrus.Info("Reminder scheduler disabled by config")
	}

	apiHandler := handler.NewHandler(
		forecastService,
		analyticsService,
		reportService,
		reminderService,
		userService,
		departmentService,
		sched,
		cfg,
	)

	app := handler.NewFiberApp()
	apiHandler.RegisterRoutes(app)

	// Обработка сигналов для graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.HTTPAddress); err != nil {
			logrus.Fatal("Failed to start HTTP server:", err)
		}
	}()

	logrus.Infof("Server started on %s. Press Ctrl+C to stop.", cfg.HTTPAddress)
	<-stop

	sched.Stop()

	if err := app.Shutdown(); err != nil {
		logrus.Infof("Error shutting down HTTP server: %v", err)
	}

	// Закрываем соединение с БД
	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Server stopped gracefully")
}
