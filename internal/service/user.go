package service

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"workforce-forecast/internal/models"
	"workforce-forecast/internal/repository"
)

type UserService struct {
	repo   repository.UserRepository
	logger *logrus.Logger
}

func NewUserService(repo repository.UserRepository) *UserService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &UserService{repo: repo, logger: logger}
}

// CreateUser создает пользователя с ролью hod по умолчанию
func (s *UserService) CreateUser(name, email, password string, role models.Role, departmentID *uint) (*models.User, error) {
	if name == "" {
		return nil, models.NewValidationMessage("name cannot be empty")
	}
	if email == "" {
		return nil, models.NewValidationMessage("email cannot be empty")
	}
	if len(password) < 6 {
		return nil, models.NewValidationMessage("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if role == "" {
		role = models.RoleHOD
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         string(role),
		DepartmentID: departmentID,
		IsActive:     true,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"email": email,
		"role":  role,
	}).Info("User created")

	return user, nil
}

// Authenticate проверяет учетные данные и возвращает пользователя
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, models.NewPermissionError("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.NewPermissionError("invalid credentials")
	}

	return user, nil
}

// GetUser возвращает пользователя по id
func (s *UserService) GetUser(id uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("user")
	}

	return user, nil
}

// ListUsers возвращает всех пользователей (только для админа)
func (s *UserService) ListUsers(actor *models.User) ([]*models.User, error) {
	if !actor.IsAdmin() {
		return nil, models.NewPermissionError("only admins can list users")
	}

	return s.repo.GetAll()
}

// UpdateRole меняет роль пользователя (только для админа)
func (s *UserService) UpdateRole(actor *models.User, targetID uint, role models.Role) error {
	if !actor.IsAdmin() {
		return models.NewPermissionError("only admins can change roles")
	}

	if role != models.RoleHOD && role != models.RoleFinance && role != models.RoleAdmin {
		return models.NewValidationMessage("role must be hod, finance or admin")
	}

	target, err := s.repo.GetByID(targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return models.NewNotFoundError("user")
	}

	return s.repo.UpdateRole(targetID, role)
}
