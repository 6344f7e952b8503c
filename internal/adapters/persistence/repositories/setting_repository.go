package repositories

import (
	"context"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new settings repository
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) List(ctx context.Context) ([]*models.Setting, error) {
	var settings []*models.Setting
	err := r.db.WithContext(ctx).Order("category ASC, setting_key ASC").Find(&settings).Error
	return settings, err
}

func (r *settingRepository) Get(ctx context.Context, category domain.SettingCategory, key string) (*models.Setting, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).
		Where("category = ? AND setting_key = ?", category, key).
		First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// Upsert inserts the setting or overwrites the value of the existing (category, key) row
func (r *settingRepository) Upsert(ctx context.Context, setting *models.Setting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}, {Name: "setting_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(setting).Error
}

// CreateIfMissing inserts the setting unless (category, key) exists; reports whether it inserted
func (r *settingRepository) CreateIfMissing(ctx context.Context, setting *models.Setting) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(setting)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
