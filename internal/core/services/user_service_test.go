package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/adapters/storage"
	"visaconsult/internal/core/domain"
	"visaconsult/internal/pkg/password"
	"visaconsult/internal/testutil"

	"gorm.io/gorm"
)

// seedOwnedRows gives user an application with a stored document, an
// appointment, feedback, an audit entry and a refresh token.
func seedOwnedRows(t *testing.T, svc *UserService, blobs storage.BlobStore, user *models.User) *models.Document {
	t.Helper()
	ctx := context.Background()
	store := svc.store

	app := testutil.CreateApplication(t, store, user, domain.StatusAppointmentScheduled)
	doc := testutil.CreateDocument(t, store, app, domain.DocumentApproved)
	if err := blobs.Put(ctx, doc.FilePath, bytes.NewReader(testutil.MinimalPDF), int64(len(testutil.MinimalPDF)), "application/pdf"); err != nil {
		t.Fatalf("put blob: %v", err)
	}
	appt := &models.Appointment{
		ApplicationID: app.ID,
		Date:          time.Now().Add(48 * time.Hour),
		Location:      "Embassy",
		Status:        domain.AppointmentScheduled,
		CreatedBy:     user.ID,
	}
	if err := store.Appointments.Create(ctx, appt); err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	if err := store.Feedback.Create(ctx, &models.Feedback{UserID: user.ID, Message: "great"}); err != nil {
		t.Fatalf("create feedback: %v", err)
	}
	if err := recordAdminLog(ctx, store, actorOf(user), "Test action", Details{}, time.Now()); err != nil {
		t.Fatalf("admin log: %v", err)
	}
	if err := store.RefreshTokens.Create(ctx, &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: testutil.UniqueID("hash"),
		ExpiresAt: time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("create token: %v", err)
	}
	return doc
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	blobs := newBlobStore(t)
	svc := NewUserService(store, blobs)

	admin := testutil.CreateUser(t, store, domain.RoleAdmin)
	officer := testutil.CreateUser(t, store, domain.RoleOfficer)
	victim := testutil.CreateUser(t, store, domain.RoleUser)
	bystander := testutil.CreateUser(t, store, domain.RoleUser)

	doc := seedOwnedRows(t, svc, blobs, victim)
	kept := testutil.CreateApplication(t, store, bystander, domain.StatusSubmitted)

	// The officer being deleted is assigned to someone else's case.
	kept.AssignedOfficerID = &officer.ID
	if err := store.Applications.Update(ctx, kept); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if err := svc.DeleteUser(ctx, victim.ID, actorOf(admin)); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if err := svc.DeleteUser(ctx, officer.ID, actorOf(admin)); err != nil {
		t.Fatalf("DeleteUser officer: %v", err)
	}

	if _, err := store.Users.GetByID(ctx, victim.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("user still present: %v", err)
	}
	if ids, _ := store.Applications.ListIDsByUser(ctx, victim.ID); len(ids) != 0 {
		t.Errorf("applications left: %v", ids)
	}
	if _, err := store.Documents.GetByID(ctx, doc.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("document still present: %v", err)
	}
	if fb, _ := store.Feedback.ListByUser(ctx, victim.ID); len(fb) != 0 {
		t.Errorf("feedback left: %d", len(fb))
	}
	if _, err := blobs.Get(ctx, doc.FilePath); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("blob still present: %v", err)
	}

	stillThere, err := store.Applications.GetByID(ctx, kept.ID)
	if err != nil {
		t.Fatalf("bystander application gone: %v", err)
	}
	if stillThere.AssignedOfficerID != nil {
		t.Errorf("assignment not cleared: %d", *stillThere.AssignedOfficerID)
	}

	if got := countLogs(t, store, models.ActionUserDelete); got != 2 {
		t.Errorf("delete logs = %d, want 2", got)
	}
}

func TestDeleteUserRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	blobs := newBlobStore(t)
	svc := NewUserService(store, blobs)

	admin := testutil.CreateUser(t, store, domain.RoleAdmin)
	victim := testutil.CreateUser(t, store, domain.RoleUser)
	doc := seedOwnedRows(t, svc, blobs, victim)

	boom := errors.New("feedback table unavailable")
	err := store.DB().Callback().Delete().Before("gorm:delete").Register("test:fail_feedback", func(db *gorm.DB) {
		if db.Statement.Table == "feedback" {
			db.AddError(boom)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	if err := svc.DeleteUser(ctx, victim.ID, actorOf(admin)); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}

	if _, err := store.Users.GetByID(ctx, victim.ID); err != nil {
		t.Errorf("user removed despite rollback: %v", err)
	}
	if _, err := store.Documents.GetByID(ctx, doc.ID); err != nil {
		t.Errorf("document removed despite rollback: %v", err)
	}
	if r, err := blobs.Get(ctx, doc.FilePath); err != nil {
		t.Errorf("blob removed despite rollback: %v", err)
	} else {
		r.Close()
	}
	if got := countLogs(t, store, models.ActionUserDelete); got != 0 {
		t.Errorf("delete logs = %d, want 0", got)
	}
}

func TestDeleteUserGuards(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewUserService(store, newBlobStore(t))
	admin := testutil.CreateUser(t, store, domain.RoleAdmin)

	if err := svc.DeleteUser(ctx, admin.ID, actorOf(admin)); !errors.Is(err, ErrCannotDeleteSelf) {
		t.Errorf("self err = %v, want %v", err, ErrCannotDeleteSelf)
	}
	if err := svc.DeleteUser(ctx, 9999, actorOf(admin)); !errors.Is(err, ErrUserNotFoundSvc) {
		t.Errorf("missing err = %v, want %v", err, ErrUserNotFoundSvc)
	}
}

func TestCreateAndUpdateUserByAdmin(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewUserService(store, newBlobStore(t))
	admin := testutil.CreateUser(t, store, domain.RoleAdmin)

	created, err := svc.CreateUser(ctx, &CreateUserInput{
		Username:  "officer.kim",
		Email:     "Kim@Example.com",
		Password:  "long-enough",
		FirstName: "Kim",
		Role:      domain.RoleOfficer,
	}, actorOf(admin))
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if created.Email != "kim@example.com" || created.Role != domain.RoleOfficer {
		t.Errorf("created = %+v", created)
	}

	if _, err := svc.CreateUser(ctx, &CreateUserInput{
		Username: "x-user", Email: "x@example.com", Password: "long-enough", FirstName: "X", Role: "root",
	}, actorOf(admin)); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("bad role err = %v", err)
	}

	inactive := false
	role := domain.RoleAdmin
	updated, err := svc.UpdateUserByAdmin(ctx, created.ID, &UpdateUserByAdminInput{Role: &role, IsActive: &inactive}, actorOf(admin))
	if err != nil {
		t.Fatalf("UpdateUserByAdmin: %v", err)
	}
	if updated.Role != domain.RoleAdmin || updated.IsActive {
		t.Errorf("updated = %+v", updated)
	}

	demote := domain.RoleUser
	if _, err := svc.UpdateUserByAdmin(ctx, admin.ID, &UpdateUserByAdminInput{Role: &demote}, actorOf(admin)); !errors.Is(err, ErrCannotChangeOwnRole) {
		t.Errorf("own role err = %v", err)
	}

	taken := admin.Email
	if _, err := svc.UpdateUserByAdmin(ctx, created.ID, &UpdateUserByAdminInput{Email: &taken}, actorOf(admin)); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("duplicate email err = %v", err)
	}

	if got := countLogs(t, store, models.ActionUserCreate); got != 1 {
		t.Errorf("create logs = %d, want 1", got)
	}
	if got := countLogs(t, store, models.ActionUserUpdate); got != 1 {
		t.Errorf("update logs = %d, want 1", got)
	}
}

func TestListUsersFiltersByRole(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewUserService(store, newBlobStore(t))
	testutil.CreateUser(t, store, domain.RoleAdmin)
	testutil.CreateUser(t, store, domain.RoleOfficer)
	testutil.CreateUser(t, store, domain.RoleOfficer)

	resp, err := svc.ListUsers(ctx, &ListUsersInput{Page: 1, Limit: 10, Role: "OFFICER"})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if resp.Meta.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Meta.Total)
	}
	if _, err := svc.ListUsers(ctx, &ListUsersInput{Role: "wizard"}); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("bad role err = %v", err)
	}
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewUserService(store, newBlobStore(t))

	user := testutil.CreateUser(t, store, domain.RoleUser)
	hash, _ := password.Hash("old-password")
	user.Password = hash
	if err := store.Users.Update(ctx, user); err != nil {
		t.Fatalf("Update: %v", err)
	}
	token := &models.RefreshToken{UserID: user.ID, TokenHash: "session-hash", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.RefreshTokens.Create(ctx, token); err != nil {
		t.Fatalf("create token: %v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, &ChangePasswordInput{OldPassword: "nope", NewPassword: "new-password"}); !errors.Is(err, ErrOldPasswordWrong) {
		t.Errorf("wrong old err = %v", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, &ChangePasswordInput{OldPassword: "old-password", NewPassword: "short"}); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("weak err = %v", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, &ChangePasswordInput{OldPassword: "old-password", NewPassword: "new-password"}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := store.RefreshTokens.GetByTokenHash(ctx, "session-hash"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("session still valid: %v", err)
	}
	stored, _ := store.Users.GetByID(ctx, user.ID)
	if !password.Verify("new-password", stored.Password) {
		t.Error("new password not stored")
	}
}
