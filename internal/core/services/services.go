package services

import (
	"visaconsult/internal/adapters/mail"
	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/adapters/storage"
	"visaconsult/internal/config"
)

// Services wires every service over one store
type Services struct {
	Auth          *AuthService
	Users         *UserService
	Applications  *ApplicationService
	Documents     *DocumentService
	Appointments  *AppointmentService
	Workflow      *WorkflowService
	Feedback      *FeedbackService
	Settings      *SettingsService
	Dashboard     *DashboardService
	Notifications *NotificationService
	Cron          *CronService
}

// New builds the service graph
func New(store *repositories.Store, blobs storage.BlobStore, sender mail.Sender, cfg *config.Config) *Services {
	settings := NewSettingsService(store)
	notifications := NewNotificationService(store, sender, settings, cfg.AppURL)
	applications := NewApplicationService(store, blobs)

	return &Services{
		Auth:          NewAuthService(store, cfg),
		Users:         NewUserService(store, blobs),
		Applications:  applications,
		Documents:     NewDocumentService(store, blobs, applications),
		Appointments:  NewAppointmentService(store, applications),
		Workflow:      NewWorkflowService(store, notifications),
		Feedback:      NewFeedbackService(store),
		Settings:      settings,
		Dashboard:     NewDashboardService(store),
		Notifications: notifications,
		Cron:          NewCronService(store, notifications, settings),
	}
}
