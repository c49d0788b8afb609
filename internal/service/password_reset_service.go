package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edutrack/edutrack-api/internal/models"
	appErrors "github.com/edutrack/edutrack-api/pkg/errors"
)

type passwordResetRepository interface {
	Create(ctx context.Context, reset *models.PasswordReset) error
	Consume(ctx context.Context, token string) (*models.PasswordReset, error)
	Delete(ctx context.Context, token string) error
}

type resetUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
}

type resetMailer interface {
	SendPasswordReset(to, name, link string) error
}

// ResetConfig defines configuration for the password reset flow.
type ResetConfig struct {
	TokenTTL      time.Duration
	ClientBaseURL string
}

// PasswordResetService implements the forgot/reset password flow.
type PasswordResetService struct {
	resets    passwordResetRepository
	users     resetUserRepository
	mailer    resetMailer
	validator *validator.Validate
	logger    *zap.Logger
	config    ResetConfig
	now       func() time.Time
}

// NewPasswordResetService constructs a PasswordResetService.
func NewPasswordResetService(resets passwordResetRepository, users resetUserRepository, mailer resetMailer, validate *validator.Validate, logger *zap.Logger, config ResetConfig) *PasswordResetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PasswordResetService{
		resets:    resets,
		users:     users,
		mailer:    mailer,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Forgot issues a reset token for the account and mails the reset link. An
// unknown address reports not found without creating any token.
func (s *PasswordResetService) Forgot(ctx context.Context, req models.ForgotPasswordRequest) error {
	req.Email = NormalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "email is required")
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	reset := &models.PasswordReset{
		Email:     user.Email,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.config.TokenTTL),
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create reset token")
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.config.ClientBaseURL, reset.Token)
	if err := s.mailer.SendPasswordReset(user.Email, user.Name, link); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send reset email")
	}

	return nil
}

// Reset consumes the token and sets the new password. Consuming is a single
// conditional update, so a token can only ever win once.
func (s *PasswordResetService) Reset(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "token and password are required")
	}

	reset, err := s.resets.Consume(ctx, req.Token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "invalid or expired token")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to consume reset token")
	}

	if reset.Expired(s.now()) {
		return appErrors.Clone(appErrors.ErrValidation, "invalid or expired token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	if err := s.users.UpdatePasswordByEmail(ctx, reset.Email, string(hash)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update password")
	}

	if err := s.resets.Delete(ctx, req.Token); err != nil {
		s.logger.Warn("failed to remove consumed reset token", zap.Error(err))
	}

	return nil
}
