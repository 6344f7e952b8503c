package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups every repository over one *gorm.DB. A Store obtained inside
// Transaction is bound to that transaction; repositories on it must not be
// used after the callback returns.
type Store struct {
	db *gorm.DB

	Users         UserRepository
	RefreshTokens RefreshTokenRepository
	VisaTypes     VisaTypeRepository
	Applications  ApplicationRepository
	Documents     DocumentRepository
	Appointments  AppointmentRepository
	Feedback      FeedbackRepository
	AdminLogs     AdminLogRepository
	Settings      SettingRepository
}

// NewStore creates a store backed by db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		RefreshTokens: NewRefreshTokenRepository(db),
		VisaTypes:     NewVisaTypeRepository(db),
		Applications:  NewApplicationRepository(db),
		Documents:     NewDocumentRepository(db),
		Appointments:  NewAppointmentRepository(db),
		Feedback:      NewFeedbackRepository(db),
		AdminLogs:     NewAdminLogRepository(db),
		Settings:      NewSettingRepository(db),
	}
}

// DB returns the underlying connection
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn with a Store bound to a single database transaction.
// Returning an error from fn rolls back every write made through tx.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(NewStore(gtx))
	})
}

// Ping checks that the database answers
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// first loads the single row matching the conditions
func first[T any](ctx context.Context, db *gorm.DB, conds ...any) (*T, error) {
	var row T
	if err := db.WithContext(ctx).First(&row, conds...).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// exists reports whether any row of model matches query
func exists(ctx context.Context, db *gorm.DB, model any, query string, args ...any) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error
	return count > 0, err
}
