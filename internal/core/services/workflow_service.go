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
	"visaconsult/internal/core/domain"

	"gorm.io/gorm"
)

// Workflow errors. The appointment messages are shown to staff verbatim.
var (
	ErrApplicationNotFound   = errors.New("application not found")
	ErrApplicationForbidden  = errors.New("you do not have access to this application")
	ErrDocumentNotFound      = errors.New("document not found")
	ErrAppointmentExists     = errors.New("Appointment already exists")
	ErrDocumentsNotApproved  = errors.New("Cannot schedule appointment until all documents are approved")
	ErrAppointmentInPast     = errors.New("Appointment date must be in the future")
	ErrLocationRequired      = errors.New("appointment location is required")
	ErrStatusChangeForbidden = errors.New("only officers and admins can change the application status")
	ErrAssignForbidden       = errors.New("only officers and admins can assign an officer")
	ErrInvalidOfficer        = errors.New("assigned officer must be an officer or admin")
)

// WorkflowService owns every mutation that moves an application through
// its status lifecycle.
type WorkflowService struct {
	store    *repositories.Store
	notifier Notifier
	now      func() time.Time
}

// NewWorkflowService creates a new workflow service
func NewWorkflowService(store *repositories.Store, notifier Notifier) *WorkflowService {
	return &WorkflowService{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// WithClock replaces the time source
func (s *WorkflowService) WithClock(now func() time.Time) *WorkflowService {
	s.now = now
	return s
}

// VerifyDocumentInput represents a review verdict
type VerifyDocumentInput struct {
	Status domain.DocumentStatus `json:"status"`
	Notes  *string               `json:"notes"`
}

// VerifyDocumentResult carries both rows touched by a verdict
type VerifyDocumentResult struct {
	Document    *models.Document    `json:"document"`
	Application *models.Application `json:"application"`
}

// VerifyDocument records a verdict on one document and recomputes the
// status of its application from all of its documents. The application row
// stays locked from the read to the commit so concurrent verdicts on
// sibling documents serialize.
func (s *WorkflowService) VerifyDocument(ctx context.Context, documentID uint, input *VerifyDocumentInput, actor domain.Actor) (*VerifyDocumentResult, error) {
	if !input.Status.IsVerdict() {
		return nil, domain.ErrInvalidDocumentStatus
	}

	var result VerifyDocumentResult
	var previous domain.ApplicationStatus

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		doc, err := tx.Documents.GetByID(ctx, documentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDocumentNotFound
			}
			return err
		}

		app, err := tx.Applications.GetByIDForUpdate(ctx, doc.ApplicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}

		now := s.now().UTC()
		reviewer := actor.ID
		previousDocStatus := doc.Status

		doc.Status = input.Status
		doc.Notes = input.Notes
		doc.ReviewedBy = &reviewer
		doc.ReviewedAt = &now
		if err := tx.Documents.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}

		previous, err = recomputeStatus(ctx, tx, app, now)
		if err != nil {
			return err
		}

		details := Details{
			"document_id":              doc.ID,
			"document_type":            doc.Type,
			"application_id":           app.ID,
			"previous_document_status": previousDocStatus,
			"previous_status":          previous,
			"new_status":               app.Status,
		}
		if input.Notes != nil {
			details["notes"] = *input.Notes
		}
		if err := recordAdminLog(ctx, tx, actor, models.DocumentAction(input.Status), details, now); err != nil {
			return err
		}

		result = VerifyDocumentResult{Document: doc, Application: app}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.DocumentReviewed(result.Application, result.Document)
	return &result, nil
}

// ScheduleAppointmentInput represents appointment creation input
type ScheduleAppointmentInput struct {
	ApplicationID uint      `json:"application_id"`
	Date          time.Time `json:"date"`
	Location      string    `json:"location"`
	Notes         string    `json:"notes"`
}

// ScheduleAppointment books the single appointment of an application whose
// documents are all approved. A repeat call after success reports
// ErrAppointmentExists.
func (s *WorkflowService) ScheduleAppointment(ctx context.Context, input *ScheduleAppointmentInput, actor domain.Actor) (*models.Appointment, error) {
	var appt *models.Appointment
	var app *models.Application

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		app, err = tx.Applications.GetByIDForUpdate(ctx, input.ApplicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}

		exists, err := tx.Appointments.ExistsForApplication(ctx, app.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAppointmentExists
		}

		if app.Status != domain.StatusDocumentsApproved {
			return ErrDocumentsNotApproved
		}

		now := s.now().UTC()
		if !input.Date.After(now) {
			return ErrAppointmentInPast
		}

		location := strings.TrimSpace(input.Location)
		if location == "" {
			return ErrLocationRequired
		}

		appt = &models.Appointment{
			ApplicationID: app.ID,
			Date:          input.Date.UTC(),
			Location:      location,
			Status:        domain.AppointmentScheduled,
			Notes:         input.Notes,
			CreatedBy:     actor.ID,
		}
		if err := tx.Appointments.Create(ctx, appt); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAppointmentExists
			}
			return fmt.Errorf("create appointment: %w", err)
		}

		previous := app.Status
		app.Status = domain.StatusAppointmentScheduled
		app.LastUpdated = now
		if err := tx.Applications.Update(ctx, app); err != nil {
			return fmt.Errorf("update application: %w", err)
		}

		return recordAdminLog(ctx, tx, actor, models.ActionAppointmentCreate, Details{
			"appointment_id":  appt.ID,
			"application_id":  app.ID,
			"date":            appt.Date,
			"location":        appt.Location,
			"previous_status": previous,
			"new_status":      app.Status,
		}, now)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.AppointmentScheduled(app, appt)
	return appt, nil
}

// UpdateApplicationInput represents a partial application update. Nil
// fields are left untouched; AssignedOfficerID 0 clears the assignment.
type UpdateApplicationInput struct {
	Purpose           *string                   `json:"purpose"`
	PassportNumber    *string                   `json:"passport_number"`
	Nationality       *string                   `json:"nationality"`
	TravelDate        *time.Time                `json:"travel_date"`
	Notes             *string                   `json:"notes"`
	Status            *domain.ApplicationStatus `json:"status"`
	AssignedOfficerID *uint                     `json:"assigned_officer_id"`
}

// UpdateApplication applies a partial update. Owners may edit their own
// descriptive fields; officers and admins may also set any valid status
// and the assigned officer.
func (s *WorkflowService) UpdateApplication(ctx context.Context, id uint, input *UpdateApplicationInput, actor domain.Actor) (*models.Application, error) {
	var app *models.Application
	var previous domain.ApplicationStatus

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		app, err = tx.Applications.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}

		if !canAccess(app, actor) {
			return ErrApplicationForbidden
		}
		if !actor.IsStaff() {
			if input.Status != nil && *input.Status != app.Status {
				return ErrStatusChangeForbidden
			}
			if input.AssignedOfficerID != nil {
				return ErrAssignForbidden
			}
		}
		if input.Status != nil && !input.Status.Valid() {
			return domain.ErrInvalidApplicationStatus
		}

		changed := []string{}
		if input.AssignedOfficerID != nil {
			if *input.AssignedOfficerID == 0 {
				app.AssignedOfficerID = nil
			} else {
				officer, err := tx.Users.GetByID(ctx, *input.AssignedOfficerID)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return ErrInvalidOfficer
					}
					return err
				}
				if !officer.Role.IsStaff() {
					return ErrInvalidOfficer
				}
				officerID := officer.ID
				app.AssignedOfficerID = &officerID
			}
			changed = append(changed, "assigned_officer_id")
		}
		if input.Purpose != nil {
			app.Purpose = *input.Purpose
			changed = append(changed, "purpose")
		}
		if input.PassportNumber != nil {
			app.PassportNumber = *input.PassportNumber
			changed = append(changed, "passport_number")
		}
		if input.Nationality != nil {
			app.Nationality = *input.Nationality
			changed = append(changed, "nationality")
		}
		if input.TravelDate != nil {
			travel := input.TravelDate.UTC()
			app.TravelDate = &travel
			changed = append(changed, "travel_date")
		}
		if input.Notes != nil {
			app.Notes = input.Notes
			changed = append(changed, "notes")
		}

		previous = app.Status
		if input.Status != nil {
			app.Status = *input.Status
		}

		now := s.now().UTC()
		app.LastUpdated = now
		if err := tx.Applications.Update(ctx, app); err != nil {
			return fmt.Errorf("update application: %w", err)
		}

		if actor.IsStaff() || app.Status != previous {
			return recordAdminLog(ctx, tx, actor, models.ActionApplicationUpdate, Details{
				"application_id":  app.ID,
				"previous_status": previous,
				"new_status":      app.Status,
				"changed_fields":  changed,
			}, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if app.Status != previous {
		s.notifier.StatusChanged(app, previous)
	}

	detail, err := s.store.Applications.GetDetail(ctx, app.ID)
	if err != nil {
		log.Printf("⚠️ Reload application %d after update: %v", app.ID, err)
		return app, nil
	}
	return detail, nil
}

// recomputeStatus sets a locked application's status from the current set
// of its documents and saves it. It returns the status it replaced.
func recomputeStatus(ctx context.Context, tx *repositories.Store, app *models.Application, now time.Time) (domain.ApplicationStatus, error) {
	docs, err := tx.Documents.ListByApplicationForUpdate(ctx, app.ID)
	if err != nil {
		return "", fmt.Errorf("list documents: %w", err)
	}
	statuses := make([]domain.DocumentStatus, len(docs))
	for i, d := range docs {
		statuses[i] = d.Status
	}

	previous := app.Status
	app.Status = domain.ComputeStatusFromDocuments(statuses)
	app.LastUpdated = now
	if err := tx.Applications.Update(ctx, app); err != nil {
		return "", fmt.Errorf("update application: %w", err)
	}
	return previous, nil
}
