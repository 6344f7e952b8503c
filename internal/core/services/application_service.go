package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/adapters/storage"
	"visaconsult/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Application errors
var (
	ErrVisaTypeNotFound  = errors.New("visa type not found")
	ErrApplicationNumber = errors.New("could not allocate an application number")
)

const numberAllocationTries = 5

// ApplicationService handles application create/read/delete
type ApplicationService struct {
	store *repositories.Store
	blobs storage.BlobStore
	now   func() time.Time
}

// NewApplicationService creates a new application service
func NewApplicationService(store *repositories.Store, blobs storage.BlobStore) *ApplicationService {
	return &ApplicationService{store: store, blobs: blobs, now: time.Now}
}

// CreateApplicationInput represents application creation input
type CreateApplicationInput struct {
	VisaTypeID     uint       `json:"visa_type_id"`
	Purpose        string     `json:"purpose"`
	PassportNumber string     `json:"passport_number"`
	Nationality    string     `json:"nationality"`
	TravelDate     *time.Time `json:"travel_date"`
	Notes          *string    `json:"notes"`
}

// Create submits a new application owned by actor
func (s *ApplicationService) Create(ctx context.Context, input *CreateApplicationInput, actor domain.Actor) (*models.Application, error) {
	if input.VisaTypeID == 0 {
		return nil, fmt.Errorf("%w: visa_type_id is required", domain.ErrInvalidInput)
	}
	visaType, err := s.store.VisaTypes.GetByID(ctx, input.VisaTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisaTypeNotFound
		}
		return nil, err
	}

	now := s.now().UTC()
	app := &models.Application{
		UserID:         actor.ID,
		VisaTypeID:     visaType.ID,
		Status:         domain.StatusSubmitted,
		Purpose:        strings.TrimSpace(input.Purpose),
		PassportNumber: strings.TrimSpace(input.PassportNumber),
		Nationality:    strings.TrimSpace(input.Nationality),
		Notes:          input.Notes,
		SubmittedAt:    now,
		LastUpdated:    now,
	}
	if input.TravelDate != nil {
		travel := input.TravelDate.UTC()
		app.TravelDate = &travel
	}

	for attempt := 0; attempt < numberAllocationTries; attempt++ {
		app.ApplicationNumber = s.newApplicationNumber(now)
		err = s.store.Applications.Create(ctx, app)
		if err == nil {
			app.VisaType = visaType
			log.Printf("✅ Application submitted: %s (user %d)", app.ApplicationNumber, actor.ID)
			return app, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("create application: %w", err)
		}
		app.ID = 0
	}
	return nil, ErrApplicationNumber
}

// newApplicationNumber returns VC-<year>-<8 hex>
func (s *ApplicationService) newApplicationNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("VC-%d-%s", now.Year(), suffix)
}

// List returns the actor's applications, or every application for staff
func (s *ApplicationService) List(ctx context.Context, status string, actor domain.Actor) ([]*models.Application, error) {
	filter := repositories.ApplicationFilter{}
	if status != "" {
		st := domain.ApplicationStatus(status)
		if !st.Valid() {
			return nil, domain.ErrInvalidApplicationStatus
		}
		filter.Status = st
	}
	if !actor.IsStaff() {
		filter.UserID = &actor.ID
	}
	return s.store.Applications.List(ctx, filter)
}

// Get returns an application with its documents, appointment and visa type
func (s *ApplicationService) Get(ctx context.Context, id uint, actor domain.Actor) (*models.Application, error) {
	app, err := s.store.Applications.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if !canAccess(app, actor) {
		return nil, ErrApplicationForbidden
	}
	return app, nil
}

// Authorize loads an application the actor may access
func (s *ApplicationService) Authorize(ctx context.Context, id uint, actor domain.Actor) (*models.Application, error) {
	app, err := s.store.Applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if !canAccess(app, actor) {
		return nil, ErrApplicationForbidden
	}
	return app, nil
}

// Delete removes an application with its documents and appointment in one
// transaction, then removes the document blobs.
func (s *ApplicationService) Delete(ctx context.Context, id uint, actor domain.Actor) error {
	var keys []string

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		app, err := tx.Applications.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}

		docs, err := tx.Documents.ListByApplication(ctx, app.ID)
		if err != nil {
			return err
		}
		for _, d := range docs {
			keys = append(keys, d.FilePath)
		}

		ids := []uint{app.ID}
		if err := tx.Documents.DeleteByApplications(ctx, ids); err != nil {
			return fmt.Errorf("delete documents: %w", err)
		}
		if err := tx.Appointments.DeleteByApplications(ctx, ids); err != nil {
			return fmt.Errorf("delete appointment: %w", err)
		}
		if err := tx.Applications.Delete(ctx, app.ID); err != nil {
			return fmt.Errorf("delete application: %w", err)
		}

		return recordAdminLog(ctx, tx, actor, models.ActionApplicationDelete, Details{
			"application_id":     app.ID,
			"application_number": app.ApplicationNumber,
			"owner_id":           app.UserID,
			"documents_deleted":  len(docs),
		}, s.now().UTC())
	})
	if err != nil {
		return err
	}

	removeBlobs(ctx, s.blobs, keys)
	return nil
}

// removeBlobs deletes stored files after their rows are gone. Failures
// only leave orphaned files, so they are logged.
func removeBlobs(ctx context.Context, blobs storage.BlobStore, keys []string) {
	for _, key := range keys {
		if err := blobs.Delete(ctx, key); err != nil {
			log.Printf("⚠️ Failed to delete blob %s: %v", key, err)
		}
	}
}
