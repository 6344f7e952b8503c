package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/core/domain"

	"gorm.io/gorm"
)

// Appointment errors
var (
	ErrAppointmentNotFound      = errors.New("appointment not found")
	ErrInvalidAppointmentStatus = errors.New("invalid appointment status")
)

// AppointmentService handles appointment reads and staff edits. Creation
// goes through WorkflowService.ScheduleAppointment.
type AppointmentService struct {
	store *repositories.Store
	apps  *ApplicationService
	now   func() time.Time
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(store *repositories.Store, apps *ApplicationService) *AppointmentService {
	return &AppointmentService{store: store, apps: apps, now: time.Now}
}

// List lists the actor's appointments, or all of them for staff
func (s *AppointmentService) List(ctx context.Context, actor domain.Actor) ([]*models.Appointment, error) {
	if actor.IsStaff() {
		return s.store.Appointments.List(ctx, nil)
	}
	return s.store.Appointments.List(ctx, &actor.ID)
}

// GetByApplication returns the appointment of an application the actor may access
func (s *AppointmentService) GetByApplication(ctx context.Context, applicationID uint, actor domain.Actor) (*models.Appointment, error) {
	if _, err := s.apps.Authorize(ctx, applicationID, actor); err != nil {
		return nil, err
	}
	appt, err := s.store.Appointments.GetByApplication(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return appt, nil
}

// UpdateAppointmentInput represents a partial appointment update
type UpdateAppointmentInput struct {
	Date     *time.Time                `json:"date"`
	Location *string                   `json:"location"`
	Status   *domain.AppointmentStatus `json:"status"`
	Notes    *string                   `json:"notes"`
}

// Update edits an appointment; a new date must be in the future
func (s *AppointmentService) Update(ctx context.Context, id uint, input *UpdateAppointmentInput, actor domain.Actor) (*models.Appointment, error) {
	var appt *models.Appointment

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		appt, err = tx.Appointments.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}

		now := s.now().UTC()
		previous := Details{"date": appt.Date, "location": appt.Location, "status": appt.Status}

		if input.Status != nil {
			if !input.Status.Valid() {
				return ErrInvalidAppointmentStatus
			}
			appt.Status = *input.Status
		}
		if input.Date != nil {
			if !input.Date.After(now) {
				return ErrAppointmentInPast
			}
			appt.Date = input.Date.UTC()
		}
		if input.Location != nil {
			location := strings.TrimSpace(*input.Location)
			if location == "" {
				return ErrLocationRequired
			}
			appt.Location = location
		}
		if input.Notes != nil {
			appt.Notes = *input.Notes
		}

		if err := tx.Appointments.Update(ctx, appt); err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}

		return recordAdminLog(ctx, tx, actor, models.ActionAppointmentUpdate, Details{
			"appointment_id": appt.ID,
			"application_id": appt.ApplicationID,
			"previous":       previous,
			"date":           appt.Date,
			"location":       appt.Location,
			"status":         appt.Status,
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}
