package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/core/domain"
	"visaconsult/internal/testutil"

	"gorm.io/gorm"
)

func TestApplicationListFilters(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	alice := testutil.CreateUser(t, store, domain.RoleUser)
	bob := testutil.CreateUser(t, store, domain.RoleUser)

	testutil.CreateApplication(t, store, alice, domain.StatusSubmitted)
	testutil.CreateApplication(t, store, alice, domain.StatusDocumentsApproved)
	testutil.CreateApplication(t, store, bob, domain.StatusSubmitted)

	all, err := store.Applications.List(ctx, repositories.ApplicationFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("all = %d, want 3", len(all))
	}

	own, _ := store.Applications.List(ctx, repositories.ApplicationFilter{UserID: &alice.ID})
	if len(own) != 2 {
		t.Errorf("alice's = %d, want 2", len(own))
	}

	submitted, _ := store.Applications.List(ctx, repositories.ApplicationFilter{
		UserID: &alice.ID,
		Status: domain.StatusSubmitted,
	})
	if len(submitted) != 1 || submitted[0].VisaType == nil {
		t.Errorf("alice's submitted = %+v", submitted)
	}
}

func TestApplicationUpdateMissingRow(t *testing.T) {
	store := testutil.NewStore(t)
	err := store.Applications.Update(context.Background(), &models.Application{ID: 999, LastUpdated: time.Now()})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestApplicationGetDetailPreloads(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	owner := testutil.CreateUser(t, store, domain.RoleUser)
	app := testutil.CreateApplication(t, store, owner, domain.StatusDocumentsReviewing)
	testutil.CreateDocument(t, store, app, domain.DocumentPending)
	testutil.CreateDocument(t, store, app, domain.DocumentApproved)

	got, err := store.Applications.GetDetail(ctx, app.ID)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if got.User == nil || got.VisaType == nil || len(got.Documents) != 2 || got.Appointment != nil {
		t.Errorf("detail = %+v", got)
	}
}

func TestDocumentListPending(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	owner := testutil.CreateUser(t, store, domain.RoleUser)

	reviewing := testutil.CreateApplication(t, store, owner, domain.StatusDocumentsReviewing)
	closed := testutil.CreateApplication(t, store, owner, domain.StatusApproved)

	want := testutil.CreateDocument(t, store, reviewing, domain.DocumentPending)
	testutil.CreateDocument(t, store, reviewing, domain.DocumentApproved)
	testutil.CreateDocument(t, store, closed, domain.DocumentPending)

	docs, err := store.Documents.ListPending(ctx, domain.ReviewableStatuses)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != want.ID {
		t.Errorf("pending = %+v, want only document %d", docs, want.ID)
	}

	count, _ := store.Documents.CountPending(ctx)
	if count != 2 {
		t.Errorf("CountPending = %d, want 2", count)
	}
}

func TestAppointmentUniquePerApplication(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	officer := testutil.CreateUser(t, store, domain.RoleOfficer)
	app := testutil.CreateApplication(t, store, testutil.CreateUser(t, store, domain.RoleUser), domain.StatusDocumentsApproved)

	first := &models.Appointment{ApplicationID: app.ID, Date: time.Now().Add(48 * time.Hour), Location: "Office", Status: domain.AppointmentScheduled, CreatedBy: officer.ID}
	if err := store.Appointments.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	second := &models.Appointment{ApplicationID: app.ID, Date: time.Now().Add(72 * time.Hour), Location: "Office", Status: domain.AppointmentScheduled, CreatedBy: officer.ID}
	if err := store.Appointments.Create(ctx, second); err == nil {
		t.Fatal("second appointment for the same application was accepted")
	}

	exists, _ := store.Appointments.ExistsForApplication(ctx, app.ID)
	if !exists {
		t.Error("ExistsForApplication = false")
	}
}

func TestAppointmentListBetween(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	officer := testutil.CreateUser(t, store, domain.RoleOfficer)
	owner := testutil.CreateUser(t, store, domain.RoleUser)

	day := time.Date(2030, 5, 10, 0, 0, 0, 0, time.UTC)
	inRange := testutil.CreateApplication(t, store, owner, domain.StatusAppointmentScheduled)
	later := testutil.CreateApplication(t, store, owner, domain.StatusAppointmentScheduled)
	for _, a := range []struct {
		app  *models.Application
		date time.Time
	}{
		{inRange, day.Add(10 * time.Hour)},
		{later, day.Add(34 * time.Hour)},
	} {
		appt := &models.Appointment{ApplicationID: a.app.ID, Date: a.date, Location: "HQ", Status: domain.AppointmentScheduled, CreatedBy: officer.ID}
		if err := store.Appointments.Create(ctx, appt); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	appts, err := store.Appointments.ListBetween(ctx, day, day.Add(24*time.Hour), domain.AppointmentScheduled)
	if err != nil {
		t.Fatalf("ListBetween: %v", err)
	}
	if len(appts) != 1 || appts[0].ApplicationID != inRange.ID {
		t.Fatalf("appointments = %+v", appts)
	}
	if appts[0].Application == nil || appts[0].Application.User == nil {
		t.Error("owner not preloaded")
	}

	mine, _ := store.Appointments.List(ctx, &owner.ID)
	if len(mine) != 2 {
		t.Errorf("owner's appointments = %d, want 2", len(mine))
	}
	if n, _ := store.Appointments.CountUpcoming(ctx, day.Add(12*time.Hour)); n != 1 {
		t.Errorf("CountUpcoming = %d, want 1", n)
	}
}

func TestSettingUpsert(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)

	setting := &models.Setting{Category: domain.SettingGeneral, Key: "site_name", Value: "A"}
	if err := store.Settings.Upsert(ctx, setting); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := store.Settings.Upsert(ctx, &models.Setting{Category: domain.SettingGeneral, Key: "site_name", Value: "B"}); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}

	all, _ := store.Settings.List(ctx)
	if len(all) != 1 || all[0].Value != "B" {
		t.Errorf("settings = %+v", all)
	}

	created, err := store.Settings.CreateIfMissing(ctx, &models.Setting{Category: domain.SettingGeneral, Key: "site_name", Value: "C"})
	if err != nil || created {
		t.Errorf("CreateIfMissing = %v, %v; want false, nil", created, err)
	}
	got, _ := store.Settings.Get(ctx, domain.SettingGeneral, "site_name")
	if got.Value != "B" {
		t.Errorf("value = %q, want B", got.Value)
	}
}

func TestRefreshTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	user := testutil.CreateUser(t, store, domain.RoleUser)
	now := time.Now()

	live := &models.RefreshToken{UserID: user.ID, TokenHash: "live", ExpiresAt: now.Add(time.Hour)}
	stale := &models.RefreshToken{UserID: user.ID, TokenHash: "stale", ExpiresAt: now.Add(-time.Hour)}
	for _, tok := range []*models.RefreshToken{live, stale} {
		if err := store.RefreshTokens.Create(ctx, tok); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if err := store.RefreshTokens.RevokeByTokenHash(ctx, "live"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := store.RefreshTokens.GetByTokenHash(ctx, "live"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("revoked token still returned: %v", err)
	}

	n, err := store.RefreshTokens.DeleteExpired(ctx, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	user := testutil.CreateUser(t, store, domain.RoleUser)

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Feedback.Create(ctx, &models.Feedback{UserID: user.ID, Message: "hi"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	items, _ := store.Feedback.ListByUser(ctx, user.ID)
	if len(items) != 0 {
		t.Errorf("feedback survived rollback: %+v", items)
	}
}

func TestUserListSearchAndCounts(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	testutil.CreateUser(t, store, domain.RoleUser)
	testutil.CreateUser(t, store, domain.RoleUser)
	officer := testutil.CreateUser(t, store, domain.RoleOfficer)

	users, total, err := store.Users.List(ctx, repositories.UserFilter{Role: domain.RoleUser}, 0, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(users) != 1 {
		t.Errorf("total = %d page = %d, want 2 and 1", total, len(users))
	}

	found, total, _ := store.Users.List(ctx, repositories.UserFilter{Search: officer.Username}, 0, 10)
	if total != 1 || found[0].ID != officer.ID {
		t.Errorf("search = %+v", found)
	}

	counts, _ := store.Users.CountByRole(ctx)
	if counts[domain.RoleUser] != 2 || counts[domain.RoleOfficer] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestRevokeAllLeavesOtherUsers(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	alice := testutil.CreateUser(t, store, domain.RoleUser)
	bob := testutil.CreateUser(t, store, domain.RoleUser)
	exp := time.Now().Add(time.Hour)

	for _, tok := range []*models.RefreshToken{
		{UserID: alice.ID, TokenHash: "a1", ExpiresAt: exp},
		{UserID: alice.ID, TokenHash: "a2", ExpiresAt: exp},
		{UserID: bob.ID, TokenHash: "b1", ExpiresAt: exp},
	} {
		if err := store.RefreshTokens.Create(ctx, tok); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if err := store.RefreshTokens.RevokeAllByUserID(ctx, alice.ID); err != nil {
		t.Fatalf("RevokeAllByUserID: %v", err)
	}
	for _, hash := range []string{"a1", "a2"} {
		if _, err := store.RefreshTokens.GetByTokenHash(ctx, hash); !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Errorf("%s still live: %v", hash, err)
		}
	}
	if _, err := store.RefreshTokens.GetByTokenHash(ctx, "b1"); err != nil {
		t.Errorf("bob's token revoked: %v", err)
	}
}

func TestUserLookups(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	user := testutil.CreateUser(t, store, domain.RoleUser)

	got, err := store.Users.GetByEmail(ctx, user.Email)
	if err != nil || got.ID != user.ID {
		t.Fatalf("GetByEmail = %+v, %v", got, err)
	}
	if _, err := store.Users.GetByUsername(ctx, "nobody"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("GetByUsername(nobody) err = %v", err)
	}

	if ok, _ := store.Users.ExistsByUsername(ctx, user.Username); !ok {
		t.Error("ExistsByUsername = false for a stored user")
	}
	if ok, _ := store.Users.ExistsByEmail(ctx, "nobody@example.com"); ok {
		t.Error("ExistsByEmail = true for an unknown address")
	}
}
