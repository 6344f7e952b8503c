package repositories

import (
	"context"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentRepository implements DocumentRepository interface
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create creates a new document
func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// GetByID gets a document by ID
func (r *documentRepository) GetByID(ctx context.Context, id uint) (*models.Document, error) {
	var doc models.Document
	if err := r.db.WithContext(ctx).First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListByApplication lists the documents of one application in upload order
func (r *documentRepository) ListByApplication(ctx context.Context, applicationID uint) ([]*models.Document, error) {
	var docs []*models.Document
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("uploaded_at ASC, id ASC").
		Find(&docs).Error
	return docs, err
}

// ListByApplicationForUpdate is ListByApplication under a locking read
func (r *documentRepository) ListByApplicationForUpdate(ctx context.Context, applicationID uint) ([]*models.Document, error) {
	var docs []*models.Document
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("application_id = ?", applicationID).
		Order("id ASC").
		Find(&docs).Error
	return docs, err
}

// ListByApplications lists the documents of several applications
func (r *documentRepository) ListByApplications(ctx context.Context, applicationIDs []uint) ([]*models.Document, error) {
	var docs []*models.Document
	if len(applicationIDs) == 0 {
		return docs, nil
	}
	err := r.db.WithContext(ctx).
		Where("application_id IN ?", applicationIDs).
		Find(&docs).Error
	return docs, err
}

// ListPending lists pending documents whose application is in one of appStatuses
func (r *documentRepository) ListPending(ctx context.Context, appStatuses []domain.ApplicationStatus) ([]*models.Document, error) {
	var docs []*models.Document
	err := r.db.WithContext(ctx).
		Joins("JOIN applications ON applications.id = documents.application_id").
		Where("documents.status = ?", domain.DocumentPending).
		Where("applications.status IN ?", appStatuses).
		Order("documents.uploaded_at ASC, documents.id ASC").
		Find(&docs).Error
	return docs, err
}

// CountPending counts documents awaiting review
func (r *documentRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("status = ?", domain.DocumentPending).
		Count(&count).Error
	return count, err
}

// Update saves review fields of a document
func (r *documentRepository) Update(ctx context.Context, doc *models.Document) error {
	res := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("id = ?", doc.ID).
		Select("status", "notes", "reviewed_by", "reviewed_at").
		Updates(doc)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a document row
func (r *documentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Document{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByApplications removes every document of the given applications
func (r *documentRepository) DeleteByApplications(ctx context.Context, applicationIDs []uint) error {
	if len(applicationIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("application_id IN ?", applicationIDs).
		Delete(&models.Document{}).Error
}
