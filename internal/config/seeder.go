package config

import (
	"errors"
	"fmt"
	"log"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/core/domain"
	"visaconsult/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := SeedMasterData(s.db); err != nil {
		return fmt.Errorf("master data: %w", err)
	}

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser creates the bootstrap admin when no admin exists and
// ADMIN_PASSWORD is set.
func (s *Seeder) seedAdminUser() error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil // Admin already exists
	}

	if s.cfg.Admin.Password == "" {
		log.Println("⚠️ Skipping admin seed: ADMIN_PASSWORD is not set")
		log.Println("   Create one with: visactl create-admin")
		return nil
	}

	admin, err := CreateAdmin(s.db, s.cfg.Admin.Username, s.cfg.Admin.Email, s.cfg.Admin.Password)
	if err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}

// CreateAdmin inserts an administrator, or promotes the existing user with
// that username.
func CreateAdmin(db *gorm.DB, username, email, plain string) (*models.User, error) {
	if !password.ValidatePassword(plain) {
		return nil, fmt.Errorf("password must be at least %d characters", password.MinLength)
	}
	hashed, err := password.Hash(plain)
	if err != nil {
		return nil, err
	}

	var existing models.User
	err = db.Where("username = ?", username).First(&existing).Error
	switch {
	case err == nil:
		existing.Role = domain.RoleAdmin
		existing.Password = hashed
		existing.IsActive = true
		if err := db.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	admin := &models.User{
		Username:  username,
		Email:     email,
		Password:  hashed,
		FirstName: "System",
		LastName:  "Administrator",
		Role:      domain.RoleAdmin,
		IsActive:  true,
	}
	if err := db.Create(admin).Error; err != nil {
		return nil, err
	}
	return admin, nil
}
