package repository

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"workforce-forecast/internal/models"
)

// ForecastFilter - фильтр выборки прогнозов
type ForecastFilter struct {
	Year         *int
	Quarter      *int
	DepartmentID *uint
	Status       string
}

type ForecastRepository interface {
	Create(forecast *models.Forecast) error
	Save(forecast *models.Forecast) error
	GetByID(id uint) (*models.Forecast, error)
	GetByPeriodAndDepartment(departmentID uint, year, quarter int) (*models.Forecast, error)
	GetByPeriodAndSubmitter(submitterID uint, year, quarter int) (*models.Forecast, error)
	List(filter ForecastFilter) ([]*models.Forecast, error)
	ListByPeriod(year, quarter int) ([]*models.Forecast, error)
	ListByIDs(ids []uint) ([]*models.Forecast, error)
	Delete(id uint) error
}

type GormForecastRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormForecastRepository(db *gorm.DB) (*GormForecastRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	// Автомиграция
	if err := db.AutoMigrate(&models.Forecast{}, &models.ForecastItem{}, &models.ForecastComment{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate forecast tables")
		return nil, err
	}

	logger.Info("Forecast repository initialized")

	return &GormForecastRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormForecastRepository) Create(forecast *models.Forecast) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Forecast
		result := tx.Where("department_id = ? AND year = ? AND quarter = ?",
			forecast.DepartmentID, forecast.Year, forecast.Quarter).First(&existing)
		if result.Error == nil {
			return models.NewDuplicateError(forecast.Year, forecast.Quarter)
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		return tx.Create(forecast).Error
	})
}

// Save выполняет read-modify-write с оптимистичной блокировкой: строка
// обновляется только если версия не изменилась с момента чтения. Проигравший
// гонку получает ConflictError, а не молча перезаписывает чужие данные.
func (r *GormForecastRepository) Save(forecast *models.Forecast) error {
	prev := forecast.Version
	forecast.Version = prev + 1

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Forecast{}).
			Where("id = ? AND version = ?", forecast.ID, prev).
			Select("DepartmentID", "SubmittedBy", "Year", "Quarter", "Status",
				"TotalBudget", "SubmittedAt", "ReviewedAt", "ReviewedBy",
				"ReviewComments", "ReviewPriority", "Version").
			Updates(forecast)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewConflictError("forecast", forecast.ID)
		}

		// Items и комментарии заменяются целиком
		if err := tx.Where("forecast_id = ?", forecast.ID).Delete(&models.ForecastItem{}).Error; err != nil {
			return err
		}
		for i := range forecast.Items {
			forecast.Items[i].ID = 0
			forecast.Items[i].ForecastID = forecast.ID
		}
		if len(forecast.Items) > 0 {
			if err := tx.Create(&forecast.Items).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("forecast_id = ?", forecast.ID).Delete(&models.ForecastComment{}).Error; err != nil {
			return err
		}
		for i := range forecast.Comments {
			forecast.Comments[i].ID = 0
			forecast.Comments[i].ForecastID = forecast.ID
		}
		if len(forecast.Comments) > 0 {
			if err := tx.Create(&forecast.Comments).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		// Откатываем локальный инкремент, чтобы повторная попытка
		// работала от прочитанной версии
		forecast.Version = prev
		return err
	}

	return nil
}

func (r *GormForecastRepository) GetByID(id uint) (*models.Forecast, error) {
	var forecast models.Forecast
	result := r.db.Preload("Items").Preload("Comments").
		Preload("Department").Preload("Submitter").
		First(&forecast, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &forecast, nil
}

func (r *GormForecastRepository) GetByPeriodAndDepartment(departmentID uint, year, quarter int) (*models.Forecast, error) {
	var forecast models.Forecast
	result := r.db.Preload("Items").
		Where("department_id = ? AND year = ? AND quarter = ?", departmentID, year, quarter).
		First(&forecast)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &forecast, nil
}

func (r *GormForecastRepository) GetByPeriodAndSubmitter(submitterID uint, year, quarter int) (*models.Forecast, error) {
	var forecast models.Forecast
	result := r.db.Where("submitted_by = ? AND year = ? AND quarter = ?", submitterID, year, quarter).
		First(&forecast)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &forecast, nil
}

func (r *GormForecastRepository) List(filter ForecastFilter) ([]*models.Forecast, error) {
	query := r.db.Preload("Items").Preload("Comments").
		Preload("Department").Preload("Submitter")

	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}
	if filter.Quarter != nil {
		query = query.Where("quarter = ?", *filter.Quarter)
	}
	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var forecasts []*models.Forecast
	result := query.Order("created_at DESC").Find(&forecasts)
	if result.Error != nil {
		return nil, result.Error
	}

	return forecasts, nil
}

func (r *GormForecastRepository) ListByPeriod(year, quarter int) ([]*models.Forecast, error) {
	var forecasts []*models.Forecast
	result := r.db.Preload("Items").
		Where("year = ? AND quarter = ?", year, quarter).
		Find(&forecasts)
	if result.Error != nil {
		return nil, result.Error
	}

	return forecasts, nil
}

func (r *GormForecastRepository) ListByIDs(ids []uint) ([]*models.Forecast, error) {
	var forecasts []*models.Forecast
	result := r.db.Preload("Items").Preload("Department").Preload("Submitter").
		Where("id IN ?", ids).Find(&forecasts)
	if result.Error != nil {
		return nil, result.Error
	}

	return forecasts, nil
}

func (r *GormForecastRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("forecast_id = ?", id).Delete(&models.ForecastItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("forecast_id = ?", id).Delete(&models.ForecastComment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Forecast{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("forecast")
		}

		return nil
	})
}
