package repositories

import (
	"context"
	"time"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter UserFilter, offset, limit int) ([]*models.User, int64, error)
	ListByRoles(ctx context.Context, roles ...domain.Role) ([]*models.User, error)
	CountByRole(ctx context.Context) (map[domain.Role]int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// UserFilter narrows user listings
type UserFilter struct {
	Role   domain.Role
	Search string
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// VisaTypeRepository defines visa type repository interface
type VisaTypeRepository interface {
	Create(ctx context.Context, visaType *models.VisaType) error
	GetByID(ctx context.Context, id uint) (*models.VisaType, error)
	GetByCode(ctx context.Context, code string) (*models.VisaType, error)
	List(ctx context.Context) ([]*models.VisaType, error)
}

// ApplicationRepository defines application repository interface
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Application, error)
	GetDetail(ctx context.Context, id uint) (*models.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]*models.Application, error)
	ListIDsByUser(ctx context.Context, userID uint) ([]uint, error)
	Update(ctx context.Context, app *models.Application) error
	Delete(ctx context.Context, id uint) error
	DeleteByIDs(ctx context.Context, ids []uint) error
	ClearAssignedOfficer(ctx context.Context, officerID uint) error
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Application, error)
}

// ApplicationFilter narrows application listings
type ApplicationFilter struct {
	UserID *uint
	Status domain.ApplicationStatus
}

// DocumentRepository defines document repository interface
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id uint) (*models.Document, error)
	ListByApplication(ctx context.Context, applicationID uint) ([]*models.Document, error)
	ListByApplicationForUpdate(ctx context.Context, applicationID uint) ([]*models.Document, error)
	ListByApplications(ctx context.Context, applicationIDs []uint) ([]*models.Document, error)
	ListPending(ctx context.Context, appStatuses []domain.ApplicationStatus) ([]*models.Document, error)
	CountPending(ctx context.Context) (int64, error)
	Update(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, id uint) error
	DeleteByApplications(ctx context.Context, applicationIDs []uint) error
}

// AppointmentRepository defines appointment repository interface
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id uint) (*models.Appointment, error)
	GetByApplication(ctx context.Context, applicationID uint) (*models.Appointment, error)
	ExistsForApplication(ctx context.Context, applicationID uint) (bool, error)
	List(ctx context.Context, userID *uint) ([]*models.Appointment, error)
	ListBetween(ctx context.Context, from, to time.Time, status domain.AppointmentStatus) ([]*models.Appointment, error)
	CountUpcoming(ctx context.Context, after time.Time) (int64, error)
	Update(ctx context.Context, appt *models.Appointment) error
	DeleteByApplications(ctx context.Context, applicationIDs []uint) error
}

// FeedbackRepository defines feedback repository interface
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	ListByUser(ctx context.Context, userID uint) ([]*models.Feedback, error)
	List(ctx context.Context, offset, limit int) ([]*models.Feedback, int64, error)
	DeleteByUser(ctx context.Context, userID uint) error
}

// AdminLogRepository defines audit log repository interface
type AdminLogRepository interface {
	Create(ctx context.Context, log *models.AdminLog) error
	List(ctx context.Context, filter AdminLogFilter, offset, limit int) ([]*models.AdminLog, int64, error)
	DeleteByUser(ctx context.Context, userID uint) error
}

// AdminLogFilter narrows audit log listings
type AdminLogFilter struct {
	UserID *uint
	Action string
}

// SettingRepository defines settings repository interface
type SettingRepository interface {
	List(ctx context.Context) ([]*models.Setting, error)
	Get(ctx context.Context, category domain.SettingCategory, key string) (*models.Setting, error)
	Upsert(ctx context.Context, setting *models.Setting) error
	CreateIfMissing(ctx context.Context, setting *models.Setting) (bool, error)
}
