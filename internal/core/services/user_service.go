package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/adapters/storage"
	"visaconsult/internal/core/domain"
	"visaconsult/internal/pkg/pagination"
	"visaconsult/internal/pkg/password"

	"gorm.io/gorm"
)

// User service errors
var (
	ErrUserNotFoundSvc     = errors.New("user not found")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrOldPasswordWrong    = errors.New("old password is incorrect")
	ErrCannotDeleteSelf    = errors.New("cannot delete your own account")
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
	ErrInvalidRole         = errors.New("invalid role")
	ErrWeakPassword        = fmt.Errorf("password must be at least %d characters", password.MinLength)
	ErrInvalidEmail        = errors.New("invalid email address")
)

// UserService handles user management business logic
type UserService struct {
	store *repositories.Store
	blobs storage.BlobStore
	now   func() time.Time
}

// NewUserService creates a new user service
func NewUserService(store *repositories.Store, blobs storage.BlobStore) *UserService {
	return &UserService{store: store, blobs: blobs, now: time.Now}
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	Page   int
	Limit  int
	Role   string
	Search string
}

// CreateUserInput represents user creation by an admin
type CreateUserInput struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Phone     *string     `json:"phone"`
	Role      domain.Role `json:"role"`
}

// UpdateUserByAdminInput represents update user input (for admin)
type UpdateUserByAdminInput struct {
	Email     *string      `json:"email"`
	FirstName *string      `json:"first_name"`
	LastName  *string      `json:"last_name"`
	Phone     *string      `json:"phone"`
	Role      *domain.Role `json:"role"`
	IsActive  *bool        `json:"is_active"`
}

// UpdateProfileInput represents update profile input (for self)
type UpdateProfileInput struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ListUsers lists users with pagination
func (s *UserService) ListUsers(ctx context.Context, input *ListUsersInput) (*pagination.Response[*models.UserResponse], error) {
	params := pagination.NewParams(input.Page, input.Limit)

	filter := repositories.UserFilter{Search: input.Search}
	if input.Role != "" {
		role := domain.Role(strings.ToLower(input.Role))
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		filter.Role = role
	}

	users, total, err := s.store.Users.List(ctx, filter, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	userResponses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = user.ToResponse()
	}
	return pagination.NewResponse(userResponses, params, total), nil
}

// GetUserByID gets a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.getUser(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// CreateUser creates a user with any role
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput, actor domain.Actor) (*models.UserResponse, error) {
	if input.Role == "" {
		input.Role = domain.RoleUser
	}
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := newUser(ctx, s.store, &RegisterInput{
		Username:  input.Username,
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
	}, input.Role)
	if err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUserAlreadyExists
			}
			return err
		}
		return recordAdminLog(ctx, tx, actor, models.ActionUserCreate, Details{
			"user_id":  user.ID,
			"username": user.Username,
			"role":     user.Role,
		}, s.now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// UpdateUserByAdmin updates a user by admin
func (s *UserService) UpdateUserByAdmin(ctx context.Context, id uint, input *UpdateUserByAdminInput, actor domain.Actor) (*models.UserResponse, error) {
	var user *models.User

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		user, err = s.getUser(ctx, tx, id)
		if err != nil {
			return err
		}

		// Prevent admin from changing own role
		if id == actor.ID && input.Role != nil && *input.Role != user.Role {
			return ErrCannotChangeOwnRole
		}

		changed := []string{}
		if input.Email != nil && *input.Email != user.Email {
			if err := s.applyEmail(ctx, tx, user, *input.Email); err != nil {
				return err
			}
			changed = append(changed, "email")
		}
		if input.Role != nil {
			if !input.Role.Valid() {
				return ErrInvalidRole
			}
			user.Role = *input.Role
			changed = append(changed, "role")
		}
		if input.IsActive != nil {
			user.IsActive = *input.IsActive
			changed = append(changed, "is_active")
		}
		changed = append(changed, applyNames(user, input.FirstName, input.LastName, input.Phone)...)

		if err := tx.Users.Update(ctx, user); err != nil {
			return err
		}
		return recordAdminLog(ctx, tx, actor, models.ActionUserUpdate, Details{
			"user_id":        user.ID,
			"changed_fields": changed,
		}, s.now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// DeleteUser removes a user and everything the user owns in one
// transaction: their applications with documents and appointments, their
// feedback, audit entries and refresh tokens. Applications assigned to
// the user are unassigned. Stored files are removed after commit.
func (s *UserService) DeleteUser(ctx context.Context, id uint, actor domain.Actor) error {
	if id == actor.ID {
		return ErrCannotDeleteSelf
	}

	var keys []string
	var username string

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		user, err := s.getUser(ctx, tx, id)
		if err != nil {
			return err
		}
		username = user.Username

		appIDs, err := tx.Applications.ListIDsByUser(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("list applications: %w", err)
		}
		docs, err := tx.Documents.ListByApplications(ctx, appIDs)
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}
		for _, d := range docs {
			keys = append(keys, d.FilePath)
		}

		if err := tx.Documents.DeleteByApplications(ctx, appIDs); err != nil {
			return fmt.Errorf("delete documents: %w", err)
		}
		if err := tx.Appointments.DeleteByApplications(ctx, appIDs); err != nil {
			return fmt.Errorf("delete appointments: %w", err)
		}
		if err := tx.Applications.DeleteByIDs(ctx, appIDs); err != nil {
			return fmt.Errorf("delete applications: %w", err)
		}
		if err := tx.Feedback.DeleteByUser(ctx, user.ID); err != nil {
			return fmt.Errorf("delete feedback: %w", err)
		}
		if err := tx.AdminLogs.DeleteByUser(ctx, user.ID); err != nil {
			return fmt.Errorf("delete admin logs: %w", err)
		}
		if err := tx.RefreshTokens.DeleteByUserID(ctx, user.ID); err != nil {
			return fmt.Errorf("delete refresh tokens: %w", err)
		}
		if err := tx.Applications.ClearAssignedOfficer(ctx, user.ID); err != nil {
			return fmt.Errorf("unassign applications: %w", err)
		}
		if err := tx.Users.Delete(ctx, user.ID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}

		return recordAdminLog(ctx, tx, actor, models.ActionUserDelete, Details{
			"user_id":              user.ID,
			"username":             user.Username,
			"applications_deleted": len(appIDs),
			"documents_deleted":    len(docs),
		}, s.now().UTC())
	})
	if err != nil {
		return err
	}

	removeBlobs(ctx, s.blobs, keys)
	log.Printf("🗑️ User deleted: %s (%d files)", username, len(keys))
	return nil
}

// GetProfile gets own profile
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.UserResponse, error) {
	return s.GetUserByID(ctx, userID)
}

// UpdateProfile updates own profile
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*models.UserResponse, error) {
	user, err := s.getUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		if err := s.applyEmail(ctx, s.store, user, *input.Email); err != nil {
			return nil, err
		}
	}
	applyNames(user, input.FirstName, input.LastName, input.Phone)

	if err := s.store.Users.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// ChangePassword changes user's password and ends every other session
func (s *UserService) ChangePassword(ctx context.Context, userID uint, input *ChangePasswordInput) error {
	user, err := s.getUser(ctx, s.store, userID)
	if err != nil {
		return err
	}

	// Verify old password
	if !password.Verify(input.OldPassword, user.Password) {
		return ErrOldPasswordWrong
	}
	if !password.ValidatePassword(input.NewPassword) {
		return ErrWeakPassword
	}

	hashedPassword, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	if err := s.store.Users.Update(ctx, user); err != nil {
		return err
	}
	return s.store.RefreshTokens.RevokeAllByUserID(ctx, user.ID)
}

func (s *UserService) getUser(ctx context.Context, store *repositories.Store, id uint) (*models.User, error) {
	user, err := store.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFoundSvc
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) applyEmail(ctx context.Context, store *repositories.Store, user *models.User, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	exists, err := store.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailAlreadyExists
	}
	user.Email = email
	return nil
}

// applyNames copies the non-nil name and phone fields and reports which changed
func applyNames(user *models.User, first, last, phone *string) []string {
	var changed []string
	if first != nil {
		user.FirstName = strings.TrimSpace(*first)
		changed = append(changed, "first_name")
	}
	if last != nil {
		user.LastName = strings.TrimSpace(*last)
		changed = append(changed, "last_name")
	}
	if phone != nil {
		p := strings.TrimSpace(*phone)
		if p == "" {
			user.Phone = nil
		} else {
			user.Phone = &p
		}
		changed = append(changed, "phone")
	}
	return changed
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
