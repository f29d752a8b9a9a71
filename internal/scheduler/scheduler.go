// Package scheduler runs the hourly reminder sweep: users who have not
// answered anything today get a nudge through the configured notifier.
package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/vocabquiz/internal/database"
	"github.com/example/vocabquiz/internal/quiz"
)

// DefaultReminderHour is the local hour reminders go out when REMINDER_HOUR
// is unset.
const DefaultReminderHour = 18

// Notifier delivers a reminder to one user
type Notifier interface {
	SendReminder(chatID int64, username string) error
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
}

// New creates a scheduler instance
func New(notifier Notifier) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks in the background
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// reminderHour reads REMINDER_HOUR, falling back to the default
func reminderHour() int {
	if h := os.Getenv("REMINDER_HOUR"); h != "" {
		if v, err := strconv.Atoi(h); err == nil && v >= 0 && v <= 23 {
			return v
		}
	}
	return DefaultReminderHour
}

// checkAndSendReminders notifies linked users with no attempts today.
// Failures are logged and skipped; the sweep never blocks quiz traffic.
func (s *Scheduler) checkAndSendReminders() {
	now := time.Now()
	if quiz.LocalHour(now) != reminderHour() {
		return
	}
	today := quiz.LocalDate(now)

	userRepo := database.NewUserRepository()
	attemptRepo := database.NewAttemptRepository()

	users, err := userRepo.GetReminderTargets()
	if err != nil {
		log.Printf("Error getting reminder targets: %v", err)
		return
	}

	for _, user := range users {
		answered, err := attemptRepo.AnsweredToday(user.ID, today)
		if err != nil {
			log.Printf("Error checking attempts for user %d: %v", user.ID, err)
			continue
		}
		if answered {
			continue
		}
		if err := s.notifier.SendReminder(user.TelegramChatID.Int64, user.Username); err != nil {
			log.Printf("Error sending reminder to user %d: %v", user.ID, err)
		}
	}
}

// RunManualCheck forces a reminder check for a specific user
func (s *Scheduler) RunManualCheck(userID int64) error {
	userRepo := database.NewUserRepository()
	attemptRepo := database.NewAttemptRepository()

	user, err := userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if !user.TelegramChatID.Valid {
		return nil
	}
	answered, err := attemptRepo.AnsweredToday(user.ID, quiz.Today())
	if err != nil {
		return err
	}
	if answered {
		return nil
	}
	return s.notifier.SendReminder(user.TelegramChatID.Int64, user.Username)
}
