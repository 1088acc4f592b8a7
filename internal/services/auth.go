package services

import (
	"context"
	"errors"

	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=services

// Error variables
var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserDoesNotExist   = errors.New("user does not exist")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("email and password are required")
)

// UserReader defines read-only operations for accounts.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error) // nil, nil when absent
	List(ctx context.Context) ([]models.User, error)
}

// UserWriter defines write operations for accounts.
type UserWriter interface {
	Save(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	UpdateRole(ctx context.Context, email, role string) error
}

// TokenGenerator issues access tokens for authenticated accounts.
type TokenGenerator interface {
	Generate(ctx context.Context, user *models.User) (string, error)
}

// AuthService handles registration, login and password resets.
type AuthService struct {
	reader UserReader
	writer UserWriter
	jwt    TokenGenerator
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, jwt TokenGenerator) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		jwt:    jwt,
	}
}

// Register creates a farmer account. username may be empty.
func (svc *AuthService) Register(ctx context.Context, username, email, password string) error {
	if email == "" || password == "" {
		return ErrInvalidInput
	}

	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return err
	}
	if user != nil {
		logger.Log.Errorw("user already exists", "email", email)
		return ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	newUser := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleFarmer,
	}
	if err := svc.writer.Save(ctx, newUser); err != nil {
		if errors.Is(err, models.ErrDuplicateKey) {
			logger.Log.Errorw("user already exists", "email", email)
			return ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return err
	}

	return nil
}

// Authenticate checks the credentials and returns the account with a fresh token.
func (svc *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrInvalidInput
	}

	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, "", err
	}
	if user == nil {
		logger.Log.Errorw("user does not exist", "email", email)
		return nil, "", ErrUserDoesNotExist
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Errorw("invalid credentials", "email", email)
		return nil, "", ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, user)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return nil, "", err
	}

	return user, token, nil
}

// ResetPassword replaces the password of an existing account.
func (svc *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if email == "" || newPassword == "" {
		return ErrInvalidInput
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	if err := svc.writer.UpdatePassword(ctx, email, string(hashedPassword)); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			logger.Log.Errorw("user does not exist", "email", email)
			return ErrUserDoesNotExist
		}
		logger.Log.Errorw("failed to update password", "err", err)
		return err
	}

	return nil
}

// ListAccounts returns every account.
func (svc *AuthService) ListAccounts(ctx context.Context) ([]models.User, error) {
	users, err := svc.reader.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list users", "err", err)
		return nil, err
	}
	return users, nil
}

// EnsureAdmin creates the admin account, or promotes an existing account with that email.
// An existing password is left unchanged. Empty email is a no-op.
func (svc *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}

	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if user == nil {
		if password == "" {
			return ErrInvalidInput
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		err = svc.writer.Save(ctx, &models.User{
			Username:     "admin",
			Email:        email,
			PasswordHash: string(hashedPassword),
			Role:         models.RoleAdmin,
		})
		if err == nil {
			logger.Log.Infow("admin account created", "email", email)
			return nil
		}
		if !errors.Is(err, models.ErrDuplicateKey) {
			return err
		}
		// Created concurrently by another instance; make sure it is an admin.
	} else if user.Role == models.RoleAdmin {
		return nil
	}

	if err := svc.writer.UpdateRole(ctx, email, models.RoleAdmin); err != nil {
		return err
	}
	logger.Log.Infow("account promoted to admin", "email", email)
	return nil
}
