package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"workforce-forecast/internal/models"
	"workforce-forecast/internal/repository"
	"workforce-forecast/pkg/quarters"
)

// Submitter - руководитель департамента без поданного прогноза
type Submitter struct {
	UserID     uint   `json:"user_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// Виды напоминаний
const (
	ReminderDaily  = "daily"
	ReminderWeekly = "weekly"
	ReminderUrgent = "urgent"
)

// ReminderService определяет, кто не подал прогноз за период, и рассылает
// напоминания. Сам сервис ничего не планирует - его дергает scheduler
// или ручной запуск из API.
type ReminderService struct {
	forecastRepo repository.ForecastRepository
	userRepo     repository.UserRepository
	notifier     Notifier
	logger       *logrus.Logger
	now          func() time.Time
}

func NewReminderService(
	forecastRepo repository.ForecastRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
) *ReminderService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &ReminderService{
		forecastRepo: forecastRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
}

// MissingSubmitters возвращает активных HOD без прогноза за период.
// Совпадение ищется строго по личности подавшего, а не по департаменту:
// два руководителя одного департамента отслеживаются независимо.
func (s *ReminderService) MissingSubmitters(period models.Period) ([]Submitter, error) {
	hods, err := s.userRepo.ListActiveByRole(models.RoleHOD)
	if err != nil {
		return nil, err
	}

	missing := []Submitter{}

	for _, hod := range hods {
		if hod.DepartmentID == nil {
			continue
		}

		existing, err := s.forecastRepo.GetByPeriodAndSubmitter(hod.ID, period.Year, period.Quarter)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}

		departmentName := "Unknown Department"
		if hod.Department != nil {
			departmentName = hod.Department.Name
		}

		missing = append(missing, Submitter{
			UserID:     hod.ID,
			Name:       hod.Name,
			Email:      hod.Email,
			Department: departmentName,
		})
	}

	return missing, nil
}

// DaysUntilQuarterEnd возвращает число дней до конца текущего квартала.
// Отрицательное значение означает просроченный дедлайн.
func (s *ReminderService) DaysUntilQuarterEnd() int {
	return quarters.DaysUntilQuarterEnd(s.now())
}

// SendReminders рассылает напоминания указанного вида всем, кто не подал
// прогноз за текущий квартал. Ошибка отправки одному получателю логируется
// и не мешает остальным.
func (s *ReminderService) SendReminders(kind string) (int, error) {
	now := s.now()
	period := models.Period{Year: now.Year(), Quarter: quarters.CurrentQuarter(now)}

	if kind == ReminderUrgent {
		// Срочные напоминания уходят только в последнюю неделю квартала
		if days := s.DaysUntilQuarterEnd(); days > 7 {
			s.logger.WithField("days_left", days).Debug("Quarter end is not close, skipping urgent reminders")
			return 0, nil
		}
	}

	missing, err := s.MissingSubmitters(period)
	if err != nil {
		return 0, err
	}

	sent := 0
	quarterYear := period.Label()
	daysLeft := s.DaysUntilQuarterEnd()

	for _, submitter := range missing {
		var sendErr error
		switch kind {
		case ReminderUrgent:
			sendErr = s.notifier.SendDeadlineWarning(submitter.Email, submitter.Name, submitter.Department, quarterYear, daysLeft)
		default:
			sendErr = s.notifier.SendForecastReminder(submitter.Email, submitter.Name, submitter.Department, quarterYear)
		}

		if sendErr != nil {
			s.logger.WithError(sendErr).WithField("email", submitter.Email).Error("Failed to send reminder")
			continue
		}
		sent++
	}

	s.logger.WithFields(logrus.Fields{
		"kind":    kind,
		"period":  quarterYear,
		"missing": len(missing),
		"sent":    sent,
	}).Info("Reminders dispatched")

	return sent, nil
}
