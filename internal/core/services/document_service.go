package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/adapters/storage"
	"visaconsult/internal/core/domain"
	"visaconsult/internal/pkg/filecheck"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document errors
var (
	ErrInvalidDocumentType = errors.New("invalid document type")
	ErrDocumentLocked      = errors.New("approved documents can only be removed by staff")
	ErrBlobMissing         = errors.New("document file is missing from storage")
)

// DocumentService handles uploads, downloads and removal of documents
type DocumentService struct {
	store *repositories.Store
	blobs storage.BlobStore
	apps  *ApplicationService
	now   func() time.Time
}

// NewDocumentService creates a new document service
func NewDocumentService(store *repositories.Store, blobs storage.BlobStore, apps *ApplicationService) *DocumentService {
	return &DocumentService{store: store, blobs: blobs, apps: apps, now: time.Now}
}

// UploadInput is one uploaded file. Data is the whole file.
type UploadInput struct {
	ApplicationID uint
	Type          domain.DocumentType
	FileName      string
	Data          []byte
}

// Upload validates the file, stores it and records a pending document.
// While the application is in the document phase its status is
// recomputed, so a new pending file reopens review.
func (s *DocumentService) Upload(ctx context.Context, input *UploadInput, actor domain.Actor) (*models.Document, error) {
	app, err := s.apps.Authorize(ctx, input.ApplicationID, actor)
	if err != nil {
		return nil, err
	}
	if !input.Type.Valid() {
		return nil, ErrInvalidDocumentType
	}

	contentType, err := filecheck.Detect(input.Data)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("applications/%d/%s%s", app.ID, uuid.NewString(), filecheck.Extension(contentType))
	if err := s.blobs.Put(ctx, key, bytes.NewReader(input.Data), int64(len(input.Data)), contentType); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	doc := &models.Document{
		ApplicationID: app.ID,
		Type:          input.Type,
		FileName:      cleanFileName(input.FileName, contentType),
		FilePath:      key,
		ContentType:   contentType,
		Size:          int64(len(input.Data)),
		Status:        domain.DocumentPending,
		UploadedAt:    s.now().UTC(),
	}
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		locked, err := lockApplication(ctx, tx, app.ID)
		if err != nil {
			return err
		}
		if err := tx.Documents.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		return s.syncStatus(ctx, tx, locked)
	})
	if err != nil {
		removeBlobs(ctx, s.blobs, []string{key})
		return nil, err
	}

	log.Printf("📄 Document uploaded: %s for application %d", doc.Type, app.ID)
	return doc, nil
}

// cleanFileName keeps only the base name of a client supplied file name
func cleanFileName(name, contentType string) string {
	base := filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "document" + filecheck.Extension(contentType)
	}
	if len(base) > 255 {
		base = base[len(base)-255:]
	}
	return base
}

// ListByApplication lists the documents of an application the actor may access
func (s *DocumentService) ListByApplication(ctx context.Context, applicationID uint, actor domain.Actor) ([]*models.Document, error) {
	if _, err := s.apps.Authorize(ctx, applicationID, actor); err != nil {
		return nil, err
	}
	return s.store.Documents.ListByApplication(ctx, applicationID)
}

// ListPending lists documents awaiting review on applications still in review
func (s *DocumentService) ListPending(ctx context.Context) ([]*models.Document, error) {
	return s.store.Documents.ListPending(ctx, domain.ReviewableStatuses)
}

// Open returns a document and a reader over its file. The caller closes the reader.
func (s *DocumentService) Open(ctx context.Context, id uint, actor domain.Actor) (*models.Document, io.ReadCloser, error) {
	doc, err := s.authorizeDocument(ctx, id, actor)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.blobs.Get(ctx, doc.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrBlobMissing
		}
		return nil, nil, err
	}
	return doc, rc, nil
}

// Delete removes a document. Owners may remove pending or rejected
// documents; staff may remove any document. The application status is
// recomputed as in Upload.
func (s *DocumentService) Delete(ctx context.Context, id uint, actor domain.Actor) error {
	doc, err := s.authorizeDocument(ctx, id, actor)
	if err != nil {
		return err
	}
	if !actor.IsStaff() && doc.Status == domain.DocumentApproved {
		return ErrDocumentLocked
	}

	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		app, err := lockApplication(ctx, tx, doc.ApplicationID)
		if err != nil {
			return err
		}
		if err := tx.Documents.Delete(ctx, doc.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDocumentNotFound
			}
			return err
		}
		if err := s.syncStatus(ctx, tx, app); err != nil {
			return err
		}
		if !actor.IsStaff() {
			return nil
		}
		return recordAdminLog(ctx, tx, actor, models.ActionDocumentDelete, Details{
			"document_id":    doc.ID,
			"application_id": doc.ApplicationID,
			"document_type":  doc.Type,
			"status":         doc.Status,
		}, s.now().UTC())
	})
	if err != nil {
		return err
	}

	removeBlobs(ctx, s.blobs, []string{doc.FilePath})
	return nil
}

// syncStatus recomputes a locked application's status from its documents
// while the application is still in the document phase
func (s *DocumentService) syncStatus(ctx context.Context, tx *repositories.Store, app *models.Application) error {
	if !app.Status.InDocumentPhase() {
		return nil
	}
	previous, err := recomputeStatus(ctx, tx, app, s.now().UTC())
	if err != nil {
		return err
	}
	if previous != app.Status {
		log.Printf("🔄 Application %d status %s -> %s after document change", app.ID, previous, app.Status)
	}
	return nil
}

func lockApplication(ctx context.Context, tx *repositories.Store, id uint) (*models.Application, error) {
	app, err := tx.Applications.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (s *DocumentService) authorizeDocument(ctx context.Context, id uint, actor domain.Actor) (*models.Document, error) {
	doc, err := s.store.Documents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	if _, err := s.apps.Authorize(ctx, doc.ApplicationID, actor); err != nil {
		return nil, err
	}
	return doc, nil
}
