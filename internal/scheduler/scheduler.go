// Package scheduler владеет cron-задачами напоминаний. Объект создается
// точкой входа процесса и явно запускается/останавливается - глобального
// реестра задач нет.
package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"workforce-forecast/internal/service"
)

type Scheduler struct {
	cron     *cron.Cron
	reminder *service.ReminderService
	logger   *logrus.Logger
	entries  map[string]cron.EntryID
	running  bool
}

func New(reminder *service.ReminderService) *Scheduler {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &Scheduler{
		cron:     cron.New(),
		reminder: reminder,
		logger:   logger,
		entries:  make(map[string]cron.EntryID),
	}
}

// Start регистрирует и запускает задачи напоминаний:
// ежедневно в 9:00, еженедельно в понедельник в 10:00,
// срочные дважды в день в 9:00 и 15:00.
func (s *Scheduler) Start() error {
	jobs := []struct {
		name string
		spec string
		kind string
	}{
		{"daily", "0 9 * * *", service.ReminderDaily},
		{"weekly", "0 10 * * 1", service.ReminderWeekly},
		{"urgent", "0 9,15 * * *", service.ReminderUrgent},
	}

	for _, job := range jobs {
		kind := job.kind
		id, err := s.cron.AddFunc(job.spec, func() {
			if _, err := s.reminder.SendReminders(kind); err != nil {
				s.logger.WithError(err).WithField("kind", kind).Error("Reminder job failed")
			}
		})
		if err != nil {
			return err
		}
		s.entries[job.name] = id
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("Reminder scheduler started")

	return nil
}

// Stop останавливает все задачи и ждет завершения выполняющихся
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Info("Reminder scheduler stopped")
}

// Status возвращает состояние зарегистрированных задач
func (s *Scheduler) Status() map[string]bool {
	status := make(map[string]bool, len(s.entries))
	for name := range s.entries {
		status[name] = s.running
	}
	return status
}
