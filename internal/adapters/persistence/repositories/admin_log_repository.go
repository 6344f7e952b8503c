package repositories

import (
	"context"

	"visaconsult/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// adminLogRepository implements AdminLogRepository interface
type adminLogRepository struct {
	db *gorm.DB
}

// NewAdminLogRepository creates a new audit log repository
func NewAdminLogRepository(db *gorm.DB) AdminLogRepository {
	return &adminLogRepository{db: db}
}

// Create appends an audit entry
func (r *adminLogRepository) Create(ctx context.Context, log *models.AdminLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// List lists audit entries, newest first
func (r *adminLogRepository) List(ctx context.Context, filter AdminLogFilter, offset, limit int) ([]*models.AdminLog, int64, error) {
	var logs []*models.AdminLog
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AdminLog{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("timestamp DESC, id DESC").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// DeleteByUser removes entries authored by a user
func (r *adminLogRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AdminLog{}).Error
}
