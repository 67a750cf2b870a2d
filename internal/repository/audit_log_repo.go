package repository

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"workforce-forecast/internal/models"
)

type AuditLogRepository interface {
	Append(entry *models.AuditLog) error
	ListByEntity(entityType string, entityID uint) ([]*models.AuditLog, error)
}

type GormAuditLogRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormAuditLogRepository(db *gorm.DB) (*GormAuditLogRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	// Автомиграция
	if err := db.AutoMigrate(&models.AuditLog{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate audit_logs table")
		return nil, err
	}

	return &GormAuditLogRepository{db: db, logger: logger}, nil
}

func (r *GormAuditLogRepository) Append(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *GormAuditLogRepository) ListByEntity(entityType string, entityID uint) ([]*models.AuditLog, error) {
	var entries []*models.AuditLog
	result := r.db.Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}
