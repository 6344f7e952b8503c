package services

import (
	"context"
	"log"
	"time"

	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/core/domain"

	"github.com/robfig/cron/v3"
)

const (
	purgeSchedule    = "0 3 * * *"
	reminderSchedule = "0 8 * * *"
	jobTimeout       = 5 * time.Minute
)

// CronService runs the nightly maintenance jobs
type CronService struct {
	store         *repositories.Store
	notifications *NotificationService
	settings      *SettingsService
	cron          *cron.Cron
	now           func() time.Time
}

// NewCronService creates a new cron service
func NewCronService(store *repositories.Store, notifications *NotificationService, settings *SettingsService) *CronService {
	return &CronService{
		store:         store,
		notifications: notifications,
		settings:      settings,
		cron:          cron.New(cron.WithLocation(time.UTC)),
		now:           time.Now,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() {
	if _, err := s.cron.AddFunc(purgeSchedule, s.runPurge); err != nil {
		log.Printf("❌ Failed to schedule token purge: %v", err)
	}
	if _, err := s.cron.AddFunc(reminderSchedule, s.runReminders); err != nil {
		log.Printf("❌ Failed to schedule reminders: %v", err)
	}
	s.cron.Start()
	log.Println("🚀 CronService started")
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) runPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.PurgeRefreshTokens(ctx)
	if err != nil {
		log.Printf("❌ Refresh token purge error: %v", err)
		return
	}
	log.Printf("🗑️ Purged %d expired or revoked refresh tokens", n)
}

func (s *CronService) runReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.SendReminders(ctx)
	if err != nil {
		log.Printf("❌ Appointment reminder error: %v", err)
		return
	}
	if n > 0 {
		log.Printf("📧 Sent %d appointment reminders", n)
	}
}

// PurgeRefreshTokens deletes refresh tokens that expired or were revoked
func (s *CronService) PurgeRefreshTokens(ctx context.Context) (int64, error) {
	return s.store.RefreshTokens.DeleteExpired(ctx, s.now().UTC())
}

// SendReminders e-mails owners of scheduled appointments falling on the
// next UTC day and returns how many were sent. Individual send failures
// are logged and skipped.
func (s *CronService) SendReminders(ctx context.Context) (int, error) {
	if !s.settings.Bool(ctx, domain.SettingEmail, "reminders_enabled", true) ||
		!s.notifications.IsEnabled(ctx) {
		return 0, nil
	}

	now := s.now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	appts, err := s.store.Appointments.ListBetween(ctx, from, to, domain.AppointmentScheduled)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, appt := range appts {
		if err := s.notifications.SendAppointmentReminder(ctx, appt); err != nil {
			log.Printf("⚠️ Reminder for appointment %d failed: %v", appt.ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}
