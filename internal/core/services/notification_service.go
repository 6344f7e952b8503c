package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"sync"
	"time"

	"visaconsult/internal/adapters/mail"
	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/core/domain"
)

const sendTimeout = 30 * time.Second

// NotificationService e-mails applicants about their applications
type NotificationService struct {
	store    *repositories.Store
	sender   mail.Sender
	settings *SettingsService
	appURL   string
	wg       sync.WaitGroup
}

// NewNotificationService creates a new notification service
func NewNotificationService(store *repositories.Store, sender mail.Sender, settings *SettingsService, appURL string) *NotificationService {
	return &NotificationService{
		store:    store,
		sender:   sender,
		settings: settings,
		appURL:   strings.TrimRight(appURL, "/"),
	}
}

// IsEnabled checks the email.notifications_enabled setting
func (s *NotificationService) IsEnabled(ctx context.Context) bool {
	return s.settings.Bool(ctx, domain.SettingEmail, "notifications_enabled", true)
}

// Wait blocks until in-flight sends have finished
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

// DocumentReviewed tells the owner a document was approved or rejected
func (s *NotificationService) DocumentReviewed(app *models.Application, doc *models.Document) {
	body := fmt.Sprintf(
		"<p>Your %s document <b>%s</b> for application <b>%s</b> was <b>%s</b>.</p>",
		html.EscapeString(string(doc.Type)),
		html.EscapeString(doc.FileName),
		html.EscapeString(app.ApplicationNumber),
		doc.Status,
	)
	if doc.Notes != nil && *doc.Notes != "" {
		body += "<p>Reviewer notes: " + html.EscapeString(*doc.Notes) + "</p>"
	}
	s.dispatch(app, fmt.Sprintf("Document %s: %s", doc.Status, app.ApplicationNumber), body)
}

// StatusChanged tells the owner the application moved to a new status
func (s *NotificationService) StatusChanged(app *models.Application, previous domain.ApplicationStatus) {
	body := fmt.Sprintf(
		"<p>The status of application <b>%s</b> changed from <b>%s</b> to <b>%s</b>.</p>",
		html.EscapeString(app.ApplicationNumber),
		humanize(string(previous)),
		humanize(string(app.Status)),
	)
	s.dispatch(app, "Application status update: "+app.ApplicationNumber, body)
}

// AppointmentScheduled sends the owner the date and place of the interview
func (s *NotificationService) AppointmentScheduled(app *models.Application, appt *models.Appointment) {
	body := fmt.Sprintf(
		"<p>An appointment for application <b>%s</b> is scheduled on <b>%s</b> at <b>%s</b>.</p>",
		html.EscapeString(app.ApplicationNumber),
		appt.Date.UTC().Format("Mon, 02 Jan 2006 15:04 MST"),
		html.EscapeString(appt.Location),
	)
	s.dispatch(app, "Appointment scheduled: "+app.ApplicationNumber, body)
}

// SendAppointmentReminder e-mails the reminder synchronously. The
// appointment must carry its Application with User preloaded.
func (s *NotificationService) SendAppointmentReminder(ctx context.Context, appt *models.Appointment) error {
	app := appt.Application
	if app == nil || app.User == nil {
		return fmt.Errorf("appointment %d: application owner not loaded", appt.ID)
	}
	body := fmt.Sprintf(
		"<p>Reminder: your appointment for application <b>%s</b> is on <b>%s</b> at <b>%s</b>.</p>",
		html.EscapeString(app.ApplicationNumber),
		appt.Date.UTC().Format("Mon, 02 Jan 2006 15:04 MST"),
		html.EscapeString(appt.Location),
	)
	return s.sender.Send(ctx, mail.Message{
		To:      app.User.Email,
		Subject: "Appointment reminder: " + app.ApplicationNumber,
		HTML:    s.wrap(app.User, body),
	})
}

// dispatch resolves the owner and sends in the background
func (s *NotificationService) dispatch(app *models.Application, subject, body string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if !s.IsEnabled(ctx) {
			return
		}

		owner := app.User
		if owner == nil {
			u, err := s.store.Users.GetByID(ctx, app.UserID)
			if err != nil {
				log.Printf("⚠️ Notification skipped for application %d: %v", app.ID, err)
				return
			}
			owner = u
		}

		msg := mail.Message{To: owner.Email, Subject: subject, HTML: s.wrap(owner, body)}
		if err := s.sender.Send(ctx, msg); err != nil {
			log.Printf("⚠️ Failed to send e-mail to %s: %v", owner.Email, err)
		}
	}()
}

func (s *NotificationService) wrap(user *models.User, body string) string {
	var b strings.Builder
	b.WriteString("<p>Dear " + html.EscapeString(user.FullName()) + ",</p>")
	b.WriteString(body)
	if s.appURL != "" {
		b.WriteString(`<p><a href="` + html.EscapeString(s.appURL) + `">Open your dashboard</a></p>`)
	}
	b.WriteString("<p>Visa Consultancy</p>")
	return b.String()
}

func humanize(status string) string {
	return strings.ReplaceAll(status, "_", " ")
}
