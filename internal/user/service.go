package user

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	emailService "github.com/sebuszqo/FinanceLedger/internal/email"
	"github.com/sebuszqo/FinanceLedger/internal/logging"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxEmailLength    = 255
	maxUsernameLength = 100
	minUsernameLength = 3
	maxFullNameLength = 255
	minPasswordLength = 8
	bcryptCost        = 12
)

var (
	ErrInvalidEmail          = errors.New("email address is not valid")
	ErrUsernameLength        = fmt.Errorf("username must be between %d and %d characters", minUsernameLength, maxUsernameLength)
	ErrFullNameLength        = fmt.Errorf("full name must be at most %d characters", maxFullNameLength)
	ErrPasswordTooShort      = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrUsernameAlreadyExists = errors.New("username already taken")
	ErrInternalError         = errors.New("internal Server Error")
	ErrInvalidOldPassword    = errors.New("invalid old password")
)

type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Username         string    `json:"username"`
	FullName         string    `json:"full_name"`
	PasswordHash     string    `json:"-"`
	HashToken        string    `json:"-"`
	IsActive         bool      `json:"is_active"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
	FullName string
}

// ProfileUpdate carries the fields a user may change on their own profile.
type ProfileUpdate struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	FullName *string `json:"full_name"`
}

// CategorySeeder creates the starter categories of a new account.
type CategorySeeder interface {
	SeedDefaultCategories(ctx context.Context, userID string) error
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByLoginOrEmail(ctx context.Context, loginOrEmail string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*User, error)
	ChangePasswordWithOldPassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

type service struct {
	repo         Repository
	emailService emailService.EmailSender
	seeder       CategorySeeder
}

func NewUserService(repo Repository, emailService emailService.EmailSender, seeder CategorySeeder) Service {
	return &service{
		repo:         repo,
		emailService: emailService,
		seeder:       seeder,
	}
}

func hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashedPasswordBytes), err
}

func generateHashToken() (string, error) {
	token := make([]byte, 32)
	_, err := rand.Read(token)
	if err != nil {
		return "", fmt.Errorf("could not generate hash token: %w", err)
	}
	return hex.EncodeToString(token), nil
}

func validateEmailAddress(email string) error {
	if len(email) > maxEmailLength {
		return ErrInvalidEmail
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func validateUsername(username string) error {
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return ErrUsernameLength
	}
	return nil
}

// IsValidationError reports whether err is caused by bad client input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrUsernameLength) ||
		errors.Is(err, ErrFullNameLength) ||
		errors.Is(err, ErrPasswordTooShort) ||
		errors.Is(err, ErrEmailAlreadyExists) ||
		errors.Is(err, ErrUsernameAlreadyExists)
}

func isConflict(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists) || errors.Is(err, ErrUsernameAlreadyExists)
}

func (s *service) checkUniqueness(ctx context.Context, username, email, excludeID string) error {
	existingUser, err := s.repo.findConflictingUser(ctx, username, email, excludeID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		logging.FromContext(ctx).Error("uniqueness check failed", "error", err)
		return ErrInternalError
	}
	if existingUser.Username == username {
		return ErrUsernameAlreadyExists
	}
	return ErrEmailAlreadyExists
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	email := strings.TrimSpace(input.Email)
	username := strings.TrimSpace(input.Username)

	if err := validateEmailAddress(email); err != nil {
		return nil, err
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if len(input.FullName) > maxFullNameLength {
		return nil, ErrFullNameLength
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if err := s.checkUniqueness(ctx, username, email, ""); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		logging.FromContext(ctx).Error("error during hashing the password", "error", err)
		return nil, ErrInternalError
	}

	hashToken, err := generateHashToken()
	if err != nil {
		logging.FromContext(ctx).Error("error during generating a hash token", "error", err)
		return nil, ErrInternalError
	}

	now := time.Now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		FullName:     input.FullName,
		PasswordHash: passwordHash,
		HashToken:    hashToken,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.createUser(ctx, user); err != nil {
		if isConflict(err) {
			return nil, err
		}
		logging.FromContext(ctx).Error("error during creating the user", "error", err)
		return nil, ErrInternalError
	}

	if s.seeder != nil {
		if err := s.seeder.SeedDefaultCategories(ctx, user.ID); err != nil {
			logging.FromContext(ctx).Warn("could not seed default categories", "user_id", user.ID, "error", err)
		}
	}

	s.emailService.QueueEmail(user.Email, emailService.WelcomeData{UserName: user.Username})

	return user, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*User, error) {
	user, err := s.repo.getUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInternalError
	}

	changedIdentity := false
	if update.Email != nil && *update.Email != user.Email {
		email := strings.TrimSpace(*update.Email)
		if err := validateEmailAddress(email); err != nil {
			return nil, err
		}
		user.Email = email
		changedIdentity = true
	}
	if update.Username != nil && *update.Username != user.Username {
		username := strings.TrimSpace(*update.Username)
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		user.Username = username
		changedIdentity = true
	}
	if update.FullName != nil {
		if len(*update.FullName) > maxFullNameLength {
			return nil, ErrFullNameLength
		}
		user.FullName = *update.FullName
	}

	if changedIdentity {
		if err := s.checkUniqueness(ctx, user.Username, user.Email, user.ID); err != nil {
			return nil, err
		}
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.updateProfile(ctx, user); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		if isConflict(err) {
			return nil, err
		}
		logging.FromContext(ctx).Error("could not update profile", "user_id", userID, "error", err)
		return nil, ErrInternalError
	}
	return user, nil
}

func (s *service) ChangePasswordWithOldPassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.repo.getUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if !DoPasswordsMatch(user.PasswordHash, oldPassword) {
		return ErrInvalidOldPassword
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	return s.changePassword(ctx, userID, newPassword)
}

// changePassword also rotates the hash token, which invalidates every
// refresh token issued before the change.
func (s *service) changePassword(ctx context.Context, userID, newPassword string) error {
	newPasswordHash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("could not hash password: %w", err)
	}

	newHashToken, err := generateHashToken()
	if err != nil {
		return err
	}

	if err := s.repo.updateUserPasswordAndHashToken(ctx, userID, newPasswordHash, newHashToken); err != nil {
		return fmt.Errorf("could not update user password: %w", err)
	}
	return nil
}

func DoPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(currPassword))
	return err == nil
}

func (s *service) GetUserByID(ctx context.Context, userID string) (*User, error) {
	return s.repo.getUserByID(ctx, userID)
}

func (s *service) GetUserByLoginOrEmail(ctx context.Context, loginOrEmail string) (*User, error) {
	return s.repo.getUserByLoginOrEmail(ctx, loginOrEmail)
}
