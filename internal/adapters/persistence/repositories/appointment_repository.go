package repositories

import (
	"context"
	"time"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/core/domain"

	"gorm.io/gorm"
)

// appointmentRepository implements AppointmentRepository interface
type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

// Create creates a new appointment
func (r *appointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

// GetByID gets an appointment by ID
func (r *appointmentRepository) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.db.WithContext(ctx).First(&appt, id).Error; err != nil {
		return nil, err
	}
	return &appt, nil
}

// GetByApplication gets the appointment of an application
func (r *appointmentRepository) GetByApplication(ctx context.Context, applicationID uint) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		First(&appt).Error
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// ExistsForApplication checks whether an application already has an appointment
func (r *appointmentRepository) ExistsForApplication(ctx context.Context, applicationID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("application_id = ?", applicationID).
		Count(&count).Error
	return count > 0, err
}

// List lists appointments by date; userID restricts to one applicant
func (r *appointmentRepository) List(ctx context.Context, userID *uint) ([]*models.Appointment, error) {
	var appts []*models.Appointment

	query := r.db.WithContext(ctx).Preload("Application")
	if userID != nil {
		query = query.
			Joins("JOIN applications ON applications.id = appointments.application_id").
			Where("applications.user_id = ?", *userID)
	}

	err := query.Order("appointments.date ASC, appointments.id ASC").Find(&appts).Error
	return appts, err
}

// ListBetween lists appointments in [from, to) with the given status, owners preloaded
func (r *appointmentRepository) ListBetween(ctx context.Context, from, to time.Time, status domain.AppointmentStatus) ([]*models.Appointment, error) {
	var appts []*models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Application.User").
		Where("date >= ? AND date < ?", from, to).
		Where("status = ?", status).
		Order("date ASC").
		Find(&appts).Error
	return appts, err
}

// CountUpcoming counts scheduled appointments after a point in time
func (r *appointmentRepository) CountUpcoming(ctx context.Context, after time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("date > ?", after).
		Where("status = ?", domain.AppointmentScheduled).
		Count(&count).Error
	return count, err
}

// Update saves an appointment
func (r *appointmentRepository) Update(ctx context.Context, appt *models.Appointment) error {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", appt.ID).
		Select("date", "location", "status", "notes").
		Updates(appt)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByApplications removes the appointments of the given applications
func (r *appointmentRepository) DeleteByApplications(ctx context.Context, applicationIDs []uint) error {
	if len(applicationIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("application_id IN ?", applicationIDs).
		Delete(&models.Appointment{}).Error
}
