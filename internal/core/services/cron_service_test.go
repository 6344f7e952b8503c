package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/core/domain"
	"visaconsult/internal/testutil"
)

func newNotifications(t *testing.T, store *repositories.Store) (*NotificationService, *SettingsService, *recordingSender) {
	t.Helper()
	sender := &recordingSender{}
	settings := NewSettingsService(store)
	return NewNotificationService(store, sender, settings, "https://visa.example.com/"), settings, sender
}

func scheduleAt(t *testing.T, store *repositories.Store, owner *models.User, at time.Time, status domain.AppointmentStatus) *models.Appointment {
	t.Helper()
	app := testutil.CreateApplication(t, store, owner, domain.StatusAppointmentScheduled)
	appt := &models.Appointment{
		ApplicationID: app.ID,
		Date:          at,
		Location:      "Embassy",
		Status:        status,
		CreatedBy:     owner.ID,
	}
	if err := store.Appointments.Create(context.Background(), appt); err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return appt
}

func TestSendRemindersForNextDay(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	notifications, settings, sender := newNotifications(t, store)
	svc := NewCronService(store, notifications, settings)
	svc.now = fixedClock

	owner := testutil.CreateUser(t, store, domain.RoleUser)
	tomorrow := time.Date(2026, time.March, 11, 14, 30, 0, 0, time.UTC)
	scheduleAt(t, store, owner, tomorrow, domain.AppointmentScheduled)
	scheduleAt(t, store, owner, tomorrow, domain.AppointmentCancelled)
	scheduleAt(t, store, owner, fixedNow.Add(2*time.Hour), domain.AppointmentScheduled)
	scheduleAt(t, store, owner, tomorrow.Add(24*time.Hour), domain.AppointmentScheduled)

	n, err := svc.SendReminders(ctx)
	if err != nil {
		t.Fatalf("SendReminders: %v", err)
	}
	if n != 1 {
		t.Fatalf("sent = %d, want 1", n)
	}
	msgs := sender.messages()
	if len(msgs) != 1 || msgs[0].To != owner.Email {
		t.Fatalf("messages = %+v", msgs)
	}
	if !strings.Contains(msgs[0].HTML, "https://visa.example.com") {
		t.Errorf("body lacks link: %s", msgs[0].HTML)
	}
}

func TestSendRemindersRespectsSetting(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	notifications, settings, sender := newNotifications(t, store)
	svc := NewCronService(store, notifications, settings)
	svc.now = fixedClock

	owner := testutil.CreateUser(t, store, domain.RoleUser)
	admin := testutil.CreateUser(t, store, domain.RoleAdmin)
	scheduleAt(t, store, owner, fixedNow.Add(24*time.Hour), domain.AppointmentScheduled)

	if _, err := settings.Update(ctx, Settings{domain.SettingEmail: {"reminders_enabled": "false"}}, actorOf(admin)); err != nil {
		t.Fatalf("Update: %v", err)
	}

	n, err := svc.SendReminders(ctx)
	if err != nil {
		t.Fatalf("SendReminders: %v", err)
	}
	if n != 0 || len(sender.messages()) != 0 {
		t.Errorf("sent %d reminders while disabled", n)
	}
}

func TestPurgeRefreshTokens(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	notifications, settings, _ := newNotifications(t, store)
	svc := NewCronService(store, notifications, settings)
	svc.now = fixedClock

	user := testutil.CreateUser(t, store, domain.RoleUser)
	revokedAt := fixedNow.Add(-time.Hour)
	tokens := []*models.RefreshToken{
		{UserID: user.ID, TokenHash: "live", ExpiresAt: fixedNow.Add(time.Hour)},
		{UserID: user.ID, TokenHash: "expired", ExpiresAt: fixedNow.Add(-time.Hour)},
		{UserID: user.ID, TokenHash: "revoked", ExpiresAt: fixedNow.Add(time.Hour), RevokedAt: &revokedAt},
	}
	for _, tok := range tokens {
		if err := store.RefreshTokens.Create(ctx, tok); err != nil {
			t.Fatalf("create token: %v", err)
		}
	}

	n, err := svc.PurgeRefreshTokens(ctx)
	if err != nil {
		t.Fatalf("PurgeRefreshTokens: %v", err)
	}
	if n != 2 {
		t.Errorf("purged = %d, want 2", n)
	}
	if _, err := store.RefreshTokens.GetByTokenHash(ctx, "live"); err != nil {
		t.Errorf("live token removed: %v", err)
	}
}

func TestCronStartStop(t *testing.T) {
	store := testutil.NewStore(t)
	notifications, settings, _ := newNotifications(t, store)
	svc := NewCronService(store, notifications, settings)
	svc.Start()
	if got := len(svc.cron.Entries()); got != 2 {
		t.Errorf("entries = %d, want 2", got)
	}
	svc.Stop()
}

func TestNotificationsSendAfterWorkflow(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	notifications, _, sender := newNotifications(t, store)
	workflow := NewWorkflowService(store, notifications).WithClock(fixedClock)

	owner := testutil.CreateUser(t, store, domain.RoleUser)
	officer := testutil.CreateUser(t, store, domain.RoleOfficer)
	app := testutil.CreateApplication(t, store, owner, domain.StatusSubmitted)
	doc := testutil.CreateDocument(t, store, app, domain.DocumentPending)

	if _, err := workflow.VerifyDocument(ctx, doc.ID, &VerifyDocumentInput{Status: domain.DocumentApproved}, actorOf(officer)); err != nil {
		t.Fatalf("VerifyDocument: %v", err)
	}
	if _, err := workflow.ScheduleAppointment(ctx, &ScheduleAppointmentInput{
		ApplicationID: app.ID,
		Date:          fixedNow.Add(24 * time.Hour),
		Location:      "Embassy <Hall B>",
	}, actorOf(officer)); err != nil {
		t.Fatalf("ScheduleAppointment: %v", err)
	}
	notifications.Wait()

	msgs := sender.messages()
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	for _, m := range msgs {
		if m.To != owner.Email {
			t.Errorf("to = %q, want %q", m.To, owner.Email)
		}
		if strings.Contains(m.HTML, "<Hall B>") {
			t.Errorf("location not escaped: %s", m.HTML)
		}
	}
}

func TestNotificationsDisabledBySetting(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	notifications, settings, sender := newNotifications(t, store)

	admin := testutil.CreateUser(t, store, domain.RoleAdmin)
	owner := testutil.CreateUser(t, store, domain.RoleUser)
	app := testutil.CreateApplication(t, store, owner, domain.StatusSubmitted)

	if _, err := settings.Update(ctx, Settings{domain.SettingEmail: {"notifications_enabled": "false"}}, actorOf(admin)); err != nil {
		t.Fatalf("Update: %v", err)
	}

	notifications.StatusChanged(app, domain.StatusDraft)
	notifications.Wait()
	if n := len(sender.messages()); n != 0 {
		t.Errorf("sent %d messages while disabled", n)
	}
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewDashboardService(store)
	svc.now = fixedClock

	owner := testutil.CreateUser(t, store, domain.RoleUser)
	officer := testutil.CreateUser(t, store, domain.RoleOfficer)
	testutil.CreateUser(t, store, domain.RoleAdmin)

	app := testutil.CreateApplication(t, store, owner, domain.StatusDocumentsReviewing)
	testutil.CreateDocument(t, store, app, domain.DocumentPending)
	done := testutil.CreateApplication(t, store, owner, domain.StatusApproved)
	done.AssignedOfficerID = &officer.ID
	if err := store.Applications.Update(ctx, done); err != nil {
		t.Fatalf("assign: %v", err)
	}
	scheduleAt(t, store, owner, fixedNow.Add(48*time.Hour), domain.AppointmentScheduled)

	data, err := svc.GetDashboard(ctx)
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	if data.TotalUsers != 3 || data.TotalOfficers != 1 {
		t.Errorf("users = %d officers = %d", data.TotalUsers, data.TotalOfficers)
	}
	if data.TotalApplications != 3 || data.ApplicationsByStatus[domain.StatusApproved] != 1 {
		t.Errorf("applications = %d by status %v", data.TotalApplications, data.ApplicationsByStatus)
	}
	if data.PendingDocuments != 1 {
		t.Errorf("pending documents = %d, want 1", data.PendingDocuments)
	}
	if data.UpcomingAppointments != 1 {
		t.Errorf("upcoming = %d, want 1", data.UpcomingAppointments)
	}
	if len(data.RecentApplications) != 3 {
		t.Errorf("recent = %d, want 3", len(data.RecentApplications))
	}
	if len(data.TopOfficers) != 1 || data.TopOfficers[0].Approved != 1 {
		t.Errorf("top officers = %+v", data.TopOfficers)
	}
}
