package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"login-system-api/internal/logging"
	"login-system-api/internal/user"
)

const (
	msgFieldRequired     = "this field is required"
	msgInvalidEmail      = "invalid email format"
	msgPasswordsMismatch = "passwords do not match"
	msgUsernameTaken     = "username already taken"
	msgEmailRegistered   = "email already registered"
	msgWrongOldPassword  = "incorrect current password"
)

// UserStore is the persistence surface the service needs. *user.Repository
// satisfies it in production.
type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, u *user.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// Service handles account business logic: registration, profile updates and
// password changes, with field-keyed validation on every input.
type Service struct {
	store  UserStore
	policy PasswordPolicy
	logger *logging.Logger
}

func NewService(store UserStore, policy PasswordPolicy, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		policy: policy,
		logger: logger,
	}
}

// RegisterInput is the validated shape of a registration request.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
}

// ProfileUpdateInput carries a partial profile update. Nil fields are left
// untouched.
type ProfileUpdateInput struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// ChangePasswordInput is the shape of a password-change request.
type ChangePasswordInput struct {
	OldPassword        string
	NewPassword        string
	NewPasswordConfirm string
}

// Register validates the input, hashes the password and creates the user.
// All validation problems are collected into one FieldErrors value; the
// store's unique constraints are the last line of defense against duplicate
// submissions racing past the existence pre-checks.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*user.User, error) {
	fieldErrs := FieldErrors{}

	username := strings.TrimSpace(input.Username)
	emailAddr := normalizeEmail(input.Email)

	if username == "" {
		fieldErrs.Add("username", msgFieldRequired)
	}

	emailValid := false
	switch {
	case emailAddr == "":
		fieldErrs.Add("email", msgFieldRequired)
	case !isValidEmail(emailAddr):
		fieldErrs.Add("email", msgInvalidEmail)
	default:
		emailValid = true
	}

	if input.Password == "" {
		fieldErrs.Add("password", msgFieldRequired)
	}
	if input.PasswordConfirm == "" {
		fieldErrs.Add("password_confirm", msgFieldRequired)
	}
	if input.Password != "" && input.PasswordConfirm != "" && input.Password != input.PasswordConfirm {
		fieldErrs.Add("password", msgPasswordsMismatch)
	}
	if input.Password != "" {
		for _, problem := range s.policy.Validate(input.Password, username, emailAddr) {
			fieldErrs.Add("password", problem)
		}
	}

	if username != "" {
		taken, err := s.store.UsernameExists(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			fieldErrs.Add("username", msgUsernameTaken)
		}
	}
	if emailValid {
		registered, err := s.store.EmailExists(ctx, emailAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if registered {
			fieldErrs.Add("email", msgEmailRegistered)
		}
	}

	if fieldErrs.HasErrors() {
		return nil, fieldErrs
	}

	passwordHash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := &user.User{
		Username:     username,
		Email:        emailAddr,
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		IsActive:     true,
	}

	if err := s.store.Create(ctx, newUser); err != nil {
		// Another request with the same username or email won the race.
		if errors.Is(err, user.ErrDuplicateUsername) {
			fieldErrs.Add("username", msgUsernameTaken)
			return nil, fieldErrs
		}
		if errors.Is(err, user.ErrDuplicateEmail) {
			fieldErrs.Add("email", msgEmailRegistered)
			return nil, fieldErrs
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", newUser.ID, "username", newUser.Username)

	return newUser, nil
}

// GetProfile loads the user behind an authenticated principal.
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateProfile applies a partial update of the mutable profile fields. An
// email change is re-validated for syntax and uniqueness.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, input ProfileUpdateInput) (*user.User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fieldErrs := FieldErrors{}

	if input.Email != nil {
		emailAddr := normalizeEmail(*input.Email)
		switch {
		case emailAddr == "":
			fieldErrs.Add("email", msgFieldRequired)
		case !isValidEmail(emailAddr):
			fieldErrs.Add("email", msgInvalidEmail)
		case emailAddr != u.Email:
			registered, err := s.store.EmailExists(ctx, emailAddr)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if registered {
				fieldErrs.Add("email", msgEmailRegistered)
			} else {
				u.Email = emailAddr
			}
		}
	}
	if input.FirstName != nil {
		u.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		u.LastName = strings.TrimSpace(*input.LastName)
	}

	if fieldErrs.HasErrors() {
		return nil, fieldErrs
	}

	if err := s.store.UpdateProfile(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			fieldErrs.Add("email", msgEmailRegistered)
			return nil, fieldErrs
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("profile updated", "user_id", u.ID)

	return u, nil
}

// ChangePassword verifies the current password and replaces the stored hash
// with one derived from the new password. After it returns, the old password
// no longer authenticates.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, input ChangePasswordInput) error {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	fieldErrs := FieldErrors{}

	if input.OldPassword == "" {
		fieldErrs.Add("old_password", msgFieldRequired)
	} else if !VerifyPassword(u.PasswordHash, input.OldPassword) {
		fieldErrs.Add("old_password", msgWrongOldPassword)
	}

	if input.NewPassword == "" {
		fieldErrs.Add("new_password", msgFieldRequired)
	}
	if input.NewPasswordConfirm == "" {
		fieldErrs.Add("new_password_confirm", msgFieldRequired)
	}
	if input.NewPassword != "" && input.NewPasswordConfirm != "" && input.NewPassword != input.NewPasswordConfirm {
		fieldErrs.Add("new_password", msgPasswordsMismatch)
	}
	if input.NewPassword != "" {
		for _, problem := range s.policy.Validate(input.NewPassword, u.Username, u.Email) {
			fieldErrs.Add("new_password", problem)
		}
	}

	if fieldErrs.HasErrors() {
		return fieldErrs
	}

	passwordHash, err := HashPassword(input.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.store.UpdatePassword(ctx, id, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("password changed", "user_id", u.ID)

	return nil
}

// normalizeEmail trims and lower-cases an email address. Uniqueness checks
// and storage both see the normalized form; usernames are not normalized.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidEmail(email string) bool {
	if len(email) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
