package service

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"workforce-forecast/internal/models"
	"workforce-forecast/internal/repository"
)

// Notifier отправляет уведомления получателям. Все отправки для ядра -
// fire-and-forget: ошибка логируется и никогда не возвращается вызывающему.
type Notifier interface {
	SendApprovalNotification(email, name, department, quarterYear, status, comments string) error
	SendForecastReminder(email, name, department, quarterYear string) error
	SendDeadlineWarning(email, name, department, quarterYear string, daysLeft int) error
}

// BulkReviewResult - итог пакетной проверки
type BulkReviewResult struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"` // прогнозы не в статусе submitted
}

// ForecastService управляет жизненным циклом прогнозов:
// draft -> submitted -> {reviewed, approved, rejected}
type ForecastService struct {
	forecastRepo repository.ForecastRepository
	auditRepo    repository.AuditLogRepository
	notifier     Notifier
	logger       *logrus.Logger
	now          func() time.Time
}

func NewForecastService(
	forecastRepo repository.ForecastRepository,
	auditRepo repository.AuditLogRepository,
	notifier Notifier,
) *ForecastService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &ForecastService{
		forecastRepo: forecastRepo,
		auditRepo:    auditRepo,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
}

// Create создает прогноз в статусе draft (или сразу submitted).
// HOD всегда создает для своего департамента, admin указывает любой.
func (s *ForecastService) Create(actor *models.User, departmentID uint, period models.Period, items []models.ForecastItem, status string) (*models.Forecast, error) {
	if !actor.IsHOD() && !actor.IsAdmin() {
		return nil, models.NewPermissionError("only department heads and admins can create forecasts")
	}

	if !period.IsValid() {
		return nil, models.NewValidationMessage("period must be a quarter 1-4 of a year 2020-2030")
	}

	if status == "" {
		status = models.StatusDraft
	}
	if status != models.StatusDraft && status != models.StatusSubmitted {
		return nil, models.NewValidationMessage("new forecast status must be draft or submitted")
	}

	if actor.IsHOD() {
		if actor.DepartmentID == nil {
			return nil, models.NewValidationMessage("department head has no department assigned")
		}
		departmentID = *actor.DepartmentID
	}
	if departmentID == 0 {
		return nil, models.NewValidationMessage("department is required")
	}

	if status == models.StatusSubmitted {
		if err := models.ValidateForSubmit(items); err != nil {
			return nil, err
		}
	} else {
		if err := models.ValidateItems(items); err != nil {
			return nil, err
		}
	}

	forecast := &models.Forecast{
		DepartmentID:   departmentID,
		SubmittedBy:    actor.ID,
		Year:           period.Year,
		Quarter:        period.Quarter,
		Status:         status,
		Items:          items,
		ReviewPriority: models.PriorityMedium,
	}
	forecast.ComputeTotalBudget()

	if status == models.StatusSubmitted {
		now := s.now()
		forecast.SubmittedAt = &now
	}

	if err := s.forecastRepo.Create(forecast); err != nil {
		return nil, err
	}

	s.audit(actor, "create", forecast.ID, fmt.Sprintf("created %s forecast for %s", status, period.Label()))
	s.logger.WithFields(logrus.Fields{
		"forecast_id": forecast.ID,
		"department":  departmentID,
		"period":      period.Label(),
		"status":      status,
	}).Info("Forecast created")

	return forecast, nil
}

// Edit заменяет items прогноза. Разрешено только пока прогноз в draft;
// HOD не может трогать чужой департамент.
func (s *ForecastService) Edit(actor *models.User, id uint, items []models.ForecastItem) (*models.Forecast, error) {
	forecast, err := s.loadScoped(actor, id)
	if err != nil {
		return nil, err
	}

	if !forecast.IsEditable() {
		return nil, models.NewInvalidStateError("cannot edit submitted forecast")
	}
	if !actor.IsAdmin() && forecast.SubmittedBy != actor.ID {
		return nil, models.NewPermissionError("only the forecast owner or an admin can edit it")
	}

	if err := models.ValidateItems(items); err != nil {
		return nil, err
	}

	forecast.Items = items
	forecast.ComputeTotalBudget()

	if err := s.forecastRepo.Save(forecast); err != nil {
		return nil, err
	}

	s.audit(actor, "edit", forecast.ID, fmt.Sprintf("replaced items (%d)", len(items)))

	return forecast, nil
}

// Submit переводит прогноз из draft в submitted и ставит отметку времени
func (s *ForecastService) Submit(actor *models.User, id uint) (*models.Forecast, error) {
	forecast, err := s.loadScoped(actor, id)
	if err != nil {
		return nil, err
	}

	if forecast.Status != models.StatusDraft {
		return nil, models.NewInvalidStateError(
			fmt.Sprintf("cannot submit forecast with status %s", forecast.Status))
	}
	if !actor.IsAdmin() && forecast.SubmittedBy != actor.ID {
		return nil, models.NewPermissionError("only the forecast owner or an admin can submit it")
	}

	if err := models.ValidateForSubmit(forecast.Items); err != nil {
		return nil, err
	}

	now := s.now()
	forecast.Status = models.StatusSubmitted
	forecast.SubmittedAt = &now

	if err := s.forecastRepo.Save(forecast); err != nil {
		return nil, err
	}

	s.audit(actor, "submit", forecast.ID, "submitted for review")
	s.logger.WithField("forecast_id", forecast.ID).Info("Forecast submitted")

	return forecast, nil
}

// Review выполняет проверку прогноза: approved, rejected или reviewed.
// approve/reject разрешены только из submitted.
func (s *ForecastService) Review(actor *models.User, id uint, decision, comments, priority string) (*models.Forecast, error) {
	if !actor.IsReviewer() {
		return nil, models.NewPermissionError("only finance and admin roles can review forecasts")
	}

	if decision != models.StatusApproved && decision != models.StatusRejected && decision != models.StatusReviewed {
		return nil, models.NewValidationMessage("decision must be approved, rejected or reviewed")
	}

	forecast, err := s.forecastRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if forecast == nil {
		return nil, models.NewNotFoundError("forecast")
	}

	if forecast.Status != models.StatusSubmitted {
		return nil, models.NewInvalidStateError(
			fmt.Sprintf("cannot %s forecast with status %s, only submitted forecasts can be reviewed", decision, forecast.Status))
	}

	now := s.now()
	forecast.Status = decision
	forecast.ReviewedAt = &now
	reviewer := actor.ID
	forecast.ReviewedBy = &reviewer
	if comments != "" {
		forecast.ReviewComments = comments
	}
	if priority != "" {
		forecast.ReviewPriority = priority
	}

	if err := s.forecastRepo.Save(forecast); err != nil {
		return nil, err
	}

	s.audit(actor, decision, forecast.ID, comments)
	s.logger.WithFields(logrus.Fields{
		"forecast_id": forecast.ID,
		"decision":    decision,
	}).Info("Forecast reviewed")

	// Уведомление не должно блокировать и не может провалить переход
	if decision == models.StatusApproved || decision == models.StatusRejected {
		s.notifySubmitter(forecast, decision, comments)
	}

	return forecast, nil
}

// Delete удаляет прогноз. Только draft: все, что ушло на проверку, остается
// в истории навсегда.
func (s *ForecastService) Delete(actor *models.User, id uint) error {
	forecast, err := s.loadScoped(actor, id)
	if err != nil {
		return err
	}

	if forecast.Status != models.StatusDraft {
		return models.NewInvalidStateError("cannot delete submitted forecast")
	}
	if !actor.IsAdmin() && forecast.SubmittedBy != actor.ID {
		return models.NewPermissionError("only the forecast owner or an admin can delete it")
	}

	if err := s.forecastRepo.Delete(id); err != nil {
		return err
	}

	s.audit(actor, "delete", id, "draft deleted")

	return nil
}

// AddComment добавляет комментарий к прогнозу в любом статусе
func (s *ForecastService) AddComment(actor *models.User, id uint, message string) (*models.Forecast, error) {
	if message == "" {
		return nil, models.NewValidationMessage("comment message cannot be empty")
	}

	forecast, err := s.loadScoped(actor, id)
	if err != nil {
		return nil, err
	}

	forecast.Comments = append(forecast.Comments, models.ForecastComment{
		ForecastID: forecast.ID,
		AuthorID:   actor.ID,
		Message:    message,
		Timestamp:  s.now(),
	})

	if err := s.forecastRepo.Save(forecast); err != nil {
		return nil, err
	}

	s.audit(actor, "comment", forecast.ID, message)

	return forecast, nil
}

// BulkReview применяет решение к набору прогнозов одной логической операцией.
// Guard submitted-only действует и здесь: прогнозы в других статусах
// пропускаются и попадают в счетчик Skipped, пакет целиком не отклоняется.
func (s *ForecastService) BulkReview(actor *models.User, ids []uint, decision, comments string) (*BulkReviewResult, error) {
	if !actor.IsReviewer() {
		return nil, models.NewPermissionError("only finance and admin roles can review forecasts")
	}

	if decision != models.StatusApproved && decision != models.StatusRejected && decision != models.StatusReviewed {
		return nil, models.NewValidationMessage("decision must be approved, rejected or reviewed")
	}

	forecasts, err := s.forecastRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}

	result := &BulkReviewResult{}
	for _, forecast := range forecasts {
		if forecast.Status != models.StatusSubmitted {
			result.Skipped++
			continue
		}

		now := s.now()
		forecast.Status = decision
		forecast.ReviewedAt = &now
		reviewer := actor.ID
		forecast.ReviewedBy = &reviewer
		if comments != "" {
			forecast.ReviewComments = comments
		}

		if err := s.forecastRepo.Save(forecast); err != nil {
			if models.IsConflictError(err) {
				result.Skipped++
				continue
			}
			return nil, err
		}

		result.Updated++
		if decision == models.StatusApproved || decision == models.StatusRejected {
			s.notifySubmitter(forecast, decision, comments)
		}
	}

	s.audit(actor, "bulk-review", 0,
		fmt.Sprintf("%s: %d updated, %d skipped", decision, result.Updated, result.Skipped))

	return result, nil
}

// GetByID возвращает прогноз с проверкой доступа департамента
func (s *ForecastService) GetByID(actor *models.User, id uint) (*models.Forecast, error) {
	return s.loadScoped(actor, id)
}

// List возвращает прогнозы по фильтру. HOD видит только свой департамент.
func (s *ForecastService) List(actor *models.User, filter repository.ForecastFilter) ([]*models.Forecast, error) {
	if actor.IsHOD() {
		filter.DepartmentID = actor.DepartmentID
	}

	return s.forecastRepo.List(filter)
}

// ListForReview возвращает прогнозы в заданном статусе для страниц проверки
func (s *ForecastService) ListForReview(actor *models.User, status string) ([]*models.Forecast, error) {
	if !actor.IsReviewer() {
		return nil, models.NewPermissionError("only finance and admin roles can list forecasts for review")
	}

	if status == "" {
		status = models.StatusSubmitted
	}

	return s.forecastRepo.List(repository.ForecastFilter{Status: status})
}

// History возвращает журнал аудита прогноза
func (s *ForecastService) History(actor *models.User, id uint) ([]*models.AuditLog, error) {
	if _, err := s.loadScoped(actor, id); err != nil {
		return nil, err
	}

	if s.auditRepo == nil {
		return []*models.AuditLog{}, nil
	}

	return s.auditRepo.ListByEntity("forecast", id)
}

// loadScoped загружает прогноз и проверяет доступ: HOD не видит чужие департаменты
func (s *ForecastService) loadScoped(actor *models.User, id uint) (*models.Forecast, error) {
	forecast, err := s.forecastRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if forecast == nil {
		return nil, models.NewNotFoundError("forecast")
	}

	if actor.IsHOD() {
		if actor.DepartmentID == nil || *actor.DepartmentID != forecast.DepartmentID {
			return nil, models.NewPermissionError("access denied to another department's forecast")
		}
	}

	return forecast, nil
}

// notifySubmitter отправляет уведомление автору прогноза в отдельной горутине.
// Ошибка отправки логируется и проглатывается.
func (s *ForecastService) notifySubmitter(forecast *models.Forecast, status, comments string) {
	if s.notifier == nil || forecast.Submitter == nil || forecast.Submitter.Email == "" {
		return
	}

	email := forecast.Submitter.Email
	name := forecast.Submitter.Name
	department := ""
	if forecast.Department != nil {
		department = forecast.Department.Name
	}
	quarterYear := forecast.Period().Label()

	go func() {
		if err := s.notifier.SendApprovalNotification(email, name, department, quarterYear, status, comments); err != nil {
			s.logger.WithError(err).WithField("email", email).Error("Failed to send status notification")
		}
	}()
}

// audit пишет запись аудита best-effort
func (s *ForecastService) audit(actor *models.User, action string, entityID uint, detail string) {
	if s.auditRepo == nil {
		return
	}

	entry := &models.AuditLog{
		ActorID:    actor.ID,
		Action:     action,
		EntityType: "forecast",
		EntityID:   entityID,
		Detail:     detail,
		CreatedAt:  s.now(),
	}
	if err := s.auditRepo.Append(entry); err != nil {
		s.logger.WithError(err).Warn("Failed to append audit log entry")
	}
}
