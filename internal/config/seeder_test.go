package config

import (
	"testing"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/core/domain"
	"visaconsult/internal/pkg/password"
	"visaconsult/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func TestLoadVisaTypes(t *testing.T) {
	visaTypes, err := LoadVisaTypes()
	if err != nil {
		t.Fatalf("LoadVisaTypes: %v", err)
	}
	if len(visaTypes) == 0 {
		t.Fatal("no visa types in catalogue")
	}
	seen := map[string]bool{}
	for _, vt := range visaTypes {
		if seen[vt.Code] {
			t.Errorf("duplicate code %q", vt.Code)
		}
		seen[vt.Code] = true
	}
}

func TestSeederIsIdempotent(t *testing.T) {
	password.Cost = bcrypt.MinCost
	t.Cleanup(func() { password.Cost = password.DefaultCost })

	db := testutil.OpenDB(t)
	cfg := &Config{Admin: AdminConfig{Username: "root", Email: "root@example.com", Password: "supersecret"}}

	for i := 0; i < 2; i++ {
		if err := NewSeeder(db, cfg).Run(); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	var admins, settings, visaTypes int64
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&admins)
	db.Model(&models.Setting{}).Count(&settings)
	db.Model(&models.VisaType{}).Count(&visaTypes)

	if admins != 1 {
		t.Errorf("admins = %d, want 1", admins)
	}
	if settings != int64(len(DefaultSettings)) {
		t.Errorf("settings = %d, want %d", settings, len(DefaultSettings))
	}
	catalogue, _ := LoadVisaTypes()
	if visaTypes != int64(len(catalogue)) {
		t.Errorf("visa types = %d, want %d", visaTypes, len(catalogue))
	}
}

func TestSeederSkipsAdminWithoutPassword(t *testing.T) {
	db := testutil.OpenDB(t)
	if err := NewSeeder(db, &Config{}).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var admins int64
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&admins)
	if admins != 0 {
		t.Errorf("admins = %d, want 0", admins)
	}
}

func TestCreateAdminPromotesExistingUser(t *testing.T) {
	password.Cost = bcrypt.MinCost
	t.Cleanup(func() { password.Cost = password.DefaultCost })

	store := testutil.NewStore(t)
	user := testutil.CreateUser(t, store, domain.RoleUser)

	admin, err := CreateAdmin(store.DB(), user.Username, user.Email, "anotherpass")
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if admin.ID != user.ID || admin.Role != domain.RoleAdmin {
		t.Errorf("admin = %+v", admin)
	}
	if !password.Verify("anotherpass", admin.Password) {
		t.Error("password not updated")
	}

	if _, err := CreateAdmin(store.DB(), "x", "x@example.com", "short"); err == nil {
		t.Error("CreateAdmin accepted a short password")
	}
}
