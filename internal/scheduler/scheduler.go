package scheduler

import (
	"fmt"
	"time"

	"github.com/example/vocabbot/internal/database"
	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// DefaultReminderHour is when the daily practice reminder goes out (UTC)
const DefaultReminderHour = 9

// Notifier interface for sending practice reminders
type Notifier interface {
	SendPracticeReminder(userID int64, wordCount int) error
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	users     *database.UserRepository
	dict      *database.DictionaryRepository
	hour      int
}

// New creates a new scheduler instance
func New(notifier Notifier, users *database.UserRepository, dict *database.DictionaryRepository, hour int) *Scheduler {
	if hour < 0 || hour > 23 {
		hour = DefaultReminderHour
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
		users:     users,
		dict:      dict,
		hour:      hour,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Day().At(fmt.Sprintf("%02d:00", s.hour)).Do(s.sendPracticeReminders)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// sendPracticeReminders nudges every user who has words in their
// dictionary to come back and practice
func (s *Scheduler) sendPracticeReminders() {
	ids, err := s.users.GetAllIDs()
	if err != nil {
		logrus.WithError(err).Error("failed to load users for reminders")
		return
	}

	for _, id := range ids {
		count, err := s.dict.Count(id)
		if err != nil {
			logrus.WithError(err).WithField("user_id", id).Error("failed to count dictionary")
			continue
		}
		if count == 0 {
			continue
		}
		if err := s.notifier.SendPracticeReminder(id, count); err != nil {
			logrus.WithError(err).WithField("user_id", id).Error("failed to send reminder")
		}
	}
}
