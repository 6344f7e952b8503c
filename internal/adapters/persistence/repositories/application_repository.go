package repositories

import (
	"context"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// applicationRepository implements ApplicationRepository interface
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create creates a new application
func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets an application without relations
func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// GetByIDForUpdate reads an application holding a row lock until the
// surrounding transaction ends. SQLite ignores the locking clause.
func (r *applicationRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&app, id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetDetail gets an application with visa type, owner, documents and appointment
func (r *applicationRepository) GetDetail(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("VisaType").
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at ASC, id ASC")
		}).
		Preload("Appointment").
		First(&app, id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// List lists applications, newest first
func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]*models.Application, error) {
	var apps []*models.Application

	query := r.db.WithContext(ctx).Preload("VisaType")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	err := query.Order("submitted_at DESC, id DESC").Find(&apps).Error
	return apps, err
}

// ListIDsByUser returns the ids of applications owned by a user
func (r *applicationRepository) ListIDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error
	return ids, err
}

// Update saves an application
func (r *applicationRepository) Update(ctx context.Context, app *models.Application) error {
	res := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", app.ID).
		Select("status", "purpose", "passport_number", "nationality", "travel_date",
			"notes", "assigned_officer_id", "last_updated").
		Updates(app)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an application row
func (r *applicationRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Application{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByIDs removes several application rows
func (r *applicationRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Application{}).Error
}

// ClearAssignedOfficer unassigns an officer from every application
func (r *applicationRepository) ClearAssignedOfficer(ctx context.Context, officerID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("assigned_officer_id = ?", officerID).
		Update("assigned_officer_id", nil).Error
}

// ExistsByNumber checks if an application number is taken
func (r *applicationRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("application_number = ?", number).
		Count(&count).Error
	return count > 0, err
}

// CountByStatus counts applications per status
func (r *applicationRepository) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error) {
	var rows []struct {
		Status domain.ApplicationStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.ApplicationStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// ListRecent lists the most recently updated applications
func (r *applicationRepository) ListRecent(ctx context.Context, limit int) ([]*models.Application, error) {
	var apps []*models.Application
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("VisaType").
		Order("last_updated DESC, id DESC").
		Limit(limit).
		Find(&apps).Error
	return apps, err
}
