package service

import (
	"strings"

	"github.com/sirupsen/logrus"

	"workforce-forecast/internal/models"
	"workforce-forecast/internal/repository"
)

type DepartmentService struct {
	repo   repository.DepartmentRepository
	logger *logrus.Logger
}

func NewDepartmentService(repo repository.DepartmentRepository) *DepartmentService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &DepartmentService{repo: repo, logger: logger}
}

// CreateDepartment создает департамент, код приводится к верхнему регистру
func (s *DepartmentService) CreateDepartment(actor *models.User, name, code, description string) (*models.Department, error) {
	if !actor.IsAdmin() {
		return nil, models.NewPermissionError("only admins can create departments")
	}
	if name == "" || code == "" {
		return nil, models.NewValidationMessage("department name and code are required")
	}

	code = strings.ToUpper(code)

	existing, err := s.repo.GetByNameOrCode(name, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationMessage("department with this name or code already exists")
	}

	creator := actor.ID
	department := &models.Department{
		Name:        name,
		Code:        code,
		Description: description,
		IsActive:    true,
		CreatedBy:   &creator,
	}

	if err := s.repo.Create(department); err != nil {
		return nil, err
	}

	s.logger.WithField("code", code).Info("Department created")

	return department, nil
}

// GetDepartment возвращает департамент по id
func (s *DepartmentService) GetDepartment(id uint) (*models.Department, error) {
	department, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if department == nil {
		return nil, models.NewNotFoundError("department")
	}

	return department, nil
}

// ListDepartments возвращает активные департаменты
func (s *DepartmentService) ListDepartments() ([]*models.Department, error) {
	return s.repo.ListActive()
}

// UpdateDepartment обновляет поля департамента
func (s *DepartmentService) UpdateDepartment(actor *models.User, id uint, name, code, description string, isActive *bool) (*models.Department, error) {
	if !actor.IsAdmin() {
		return nil, models.NewPermissionError("only admins can update departments")
	}

	department, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if department == nil {
		return nil, models.NewNotFoundError("department")
	}

	if name != "" && name != department.Name || code != "" && strings.ToUpper(code) != department.Code {
		lookupName := department.Name
		if name != "" {
			lookupName = name
		}
		lookupCode := department.Code
		if code != "" {
			lookupCode = strings.ToUpper(code)
		}

		existing, err := s.repo.GetByNameOrCode(lookupName, lookupCode)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, models.NewValidationMessage("department with this name or code already exists")
		}
	}

	if name != "" {
		department.Name = name
	}
	if code != "" {
		department.Code = strings.ToUpper(code)
	}
	if description != "" {
		department.Description = description
	}
	if isActive != nil {
		department.IsActive = *isActive
	}

	if err := s.repo.Update(department); err != nil {
		return nil, err
	}

	return department, nil
}

// DeleteDepartment выполняет мягкое удаление. Департамент с активными
// пользователями удалить нельзя.
func (s *DepartmentService) DeleteDepartment(actor *models.User, id uint) error {
	if !actor.IsAdmin() {
		return models.NewPermissionError("only admins can delete departments")
	}

	department, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if department == nil {
		return models.NewNotFoundError("department")
	}

	hasUsers, err := s.repo.HasActiveUsers(id)
	if err != nil {
		return err
	}
	if hasUsers {
		return models.NewValidationMessage("cannot delete department with active users")
	}

	return s.repo.Deactivate(id)
}
