package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"visaconsult/internal/adapters/mail"
	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/adapters/storage"
	"visaconsult/internal/core/domain"
	"visaconsult/internal/pkg/password"

	"golang.org/x/crypto/bcrypt"
)

func init() {
	password.Cost = bcrypt.MinCost
}

// recordingNotifier captures notifier calls synchronously
type recordingNotifier struct {
	mu        sync.Mutex
	reviewed  []domain.DocumentStatus
	changes   []domain.ApplicationStatus
	scheduled []uint
}

func (n *recordingNotifier) DocumentReviewed(_ *models.Application, doc *models.Document) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reviewed = append(n.reviewed, doc.Status)
}

func (n *recordingNotifier) StatusChanged(app *models.Application, _ domain.ApplicationStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, app.Status)
}

func (n *recordingNotifier) AppointmentScheduled(_ *models.Application, appt *models.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scheduled = append(n.scheduled, appt.ID)
}

// recordingSender captures e-mail instead of delivering it
type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (s *recordingSender) Send(_ context.Context, msg mail.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) messages() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mail.Message(nil), s.sent...)
}

var fixedNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func actorOf(u *models.User) domain.Actor {
	return domain.Actor{ID: u.ID, Role: u.Role, IPAddress: "127.0.0.1"}
}

func newBlobStore(t *testing.T) *storage.LocalStore {
	t.Helper()
	blobs, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	return blobs
}

func countLogs(t *testing.T, store *repositories.Store, action string) int64 {
	t.Helper()
	_, total, err := store.AdminLogs.List(context.Background(), repositories.AdminLogFilter{Action: action}, 0, 100)
	if err != nil {
		t.Fatalf("list admin logs: %v", err)
	}
	return total
}
