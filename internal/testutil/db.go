// Package testutil opens isolated databases and builds fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var uniqueCounter atomic.Uint64

// UniqueID returns "prefix-N" with N increasing across the test binary.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, uniqueCounter.Add(1))
}

// OpenDB opens a migrated in-memory SQLite database private to t. The
// pool is pinned to a single connection so the memory database lives as
// long as the test and writers never contend for the shared cache.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewStore returns a Store over a fresh database.
func NewStore(t testing.TB) *repositories.Store {
	t.Helper()
	return repositories.NewStore(OpenDB(t))
}

// CreateUser inserts a user with the given role. The password hash is a
// placeholder; tests that log in hash their own.
func CreateUser(t testing.TB, store *repositories.Store, role domain.Role) *models.User {
	t.Helper()
	name := UniqueID(string(role))
	user := &models.User{
		Username:  name,
		Password:  "x",
		FirstName: "Test",
		LastName:  name,
		Email:     name + "@example.com",
		Role:      role,
		IsActive:  true,
	}
	if err := store.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreateVisaType inserts a visa type.
func CreateVisaType(t testing.TB, store *repositories.Store) *models.VisaType {
	t.Helper()
	code := UniqueID("visa")
	visaType := &models.VisaType{Code: code, Name: "Visa " + code}
	if err := store.VisaTypes.Create(context.Background(), visaType); err != nil {
		t.Fatalf("create visa type: %v", err)
	}
	return visaType
}

// CreateApplication inserts an application owned by owner in status.
func CreateApplication(t testing.TB, store *repositories.Store, owner *models.User, status domain.ApplicationStatus) *models.Application {
	t.Helper()
	visaType := CreateVisaType(t, store)
	now := time.Now().UTC()
	app := &models.Application{
		UserID:            owner.ID,
		VisaTypeID:        visaType.ID,
		Status:            status,
		ApplicationNumber: UniqueID("VC-TEST"),
		SubmittedAt:       now,
		LastUpdated:       now,
	}
	if err := store.Applications.Create(context.Background(), app); err != nil {
		t.Fatalf("create application: %v", err)
	}
	return app
}

// CreateDocument inserts a document on app with the given review status.
func CreateDocument(t testing.TB, store *repositories.Store, app *models.Application, status domain.DocumentStatus) *models.Document {
	t.Helper()
	key := UniqueID("blob")
	doc := &models.Document{
		ApplicationID: app.ID,
		Type:          domain.DocTypePassport,
		FileName:      key + ".pdf",
		FilePath:      key,
		ContentType:   "application/pdf",
		Size:          1024,
		Status:        status,
		UploadedAt:    time.Now().UTC(),
	}
	if err := store.Documents.Create(context.Background(), doc); err != nil {
		t.Fatalf("create document: %v", err)
	}
	return doc
}
