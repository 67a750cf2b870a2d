package repository

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"workforce-forecast/internal/models"
)

type DepartmentRepository interface {
	Create(department *models.Department) error
	Update(department *models.Department) error
	GetByID(id uint) (*models.Department, error)
	GetByNameOrCode(name, code string) (*models.Department, error)
	ListActive() ([]*models.Department, error)
	Count() (int64, error)
	HasActiveUsers(id uint) (bool, error)
	Deactivate(id uint) error
}

type GormDepartmentRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormDepartmentRepository(db *gorm.DB) (*GormDepartmentRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	// Автомиграция
	if err := db.AutoMigrate(&models.Department{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate departments table")
		return nil, err
	}

	return &GormDepartmentRepository{db: db, logger: logger}, nil
}

func (r *GormDepartmentRepository) Create(department *models.Department) error {
	return r.db.Create(department).Error
}

func (r *GormDepartmentRepository) Update(department *models.Department) error {
	return r.db.Save(department).Error
}

func (r *GormDepartmentRepository) GetByID(id uint) (*models.Department, error) {
	var department models.Department
	result := r.db.First(&department, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &department, nil
}

func (r *GormDepartmentRepository) GetByNameOrCode(name, code string) (*models.Department, error) {
	var department models.Department
	result := r.db.Where("name = ? OR code = ?", name, code).First(&department)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &department, nil
}

func (r *GormDepartmentRepository) ListActive() ([]*models.Department, error) {
	var departments []*models.Department
	result := r.db.Where("is_active = ?", true).Order("name").Find(&departments)
	if result.Error != nil {
		return nil, result.Error
	}

	return departments, nil
}

func (r *GormDepartmentRepository) Count() (int64, error) {
	var count int64
	result := r.db.Model(&models.Department{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (r *GormDepartmentRepository) HasActiveUsers(id uint) (bool, error) {
	var count int64
	result := r.db.Model(&models.User{}).
		Where("department_id = ? AND is_active = ?", id, true).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// Deactivate выполняет мягкое удаление департамента
func (r *GormDepartmentRepository) Deactivate(id uint) error {
	result := r.db.Model(&models.Department{}).
		Where("id = ?", id).
		Update("is_active", false)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("department")
	}

	return nil
}
