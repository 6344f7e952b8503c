package repositories

import (
	"context"

	"visaconsult/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type visaTypeRepository struct {
	db *gorm.DB
}

// NewVisaTypeRepository creates a new visa type repository
func NewVisaTypeRepository(db *gorm.DB) VisaTypeRepository {
	return &visaTypeRepository{db: db}
}

func (r *visaTypeRepository) Create(ctx context.Context, visaType *models.VisaType) error {
	return r.db.WithContext(ctx).Create(visaType).Error
}

func (r *visaTypeRepository) GetByID(ctx context.Context, id uint) (*models.VisaType, error) {
	var visaType models.VisaType
	if err := r.db.WithContext(ctx).First(&visaType, id).Error; err != nil {
		return nil, err
	}
	return &visaType, nil
}

func (r *visaTypeRepository) GetByCode(ctx context.Context, code string) (*models.VisaType, error) {
	var visaType models.VisaType
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&visaType).Error; err != nil {
		return nil, err
	}
	return &visaType, nil
}

func (r *visaTypeRepository) List(ctx context.Context) ([]*models.VisaType, error) {
	var visaTypes []*models.VisaType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&visaTypes).Error
	return visaTypes, err
}
