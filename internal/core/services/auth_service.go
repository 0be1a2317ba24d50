package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lorrc/lab-dashboard-backend/internal/core/domain"
	apperrors "github.com/lorrc/lab-dashboard-backend/internal/core/errors"
	"github.com/lorrc/lab-dashboard-backend/internal/core/ports"
)

// AuthService implements authentication business logic.
type AuthService struct {
	users  ports.UserRepository
	logger *slog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates a new authentication service.
func NewAuthService(users ports.UserRepository, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		logger: logger.With("component", "auth_service"),
	}
}

// Register creates a new dashboard account.
func (s *AuthService) Register(ctx context.Context, params domain.UserRegistrationParams) (*domain.User, error) {
	user, err := domain.NewUser(params)
	if err != nil {
		var validationErrs *apperrors.ValidationErrors
		if errors.As(err, &validationErrs) {
			details := make(map[string]interface{}, len(validationErrs.Errors))
			for field, msgs := range validationErrs.Errors {
				details[field] = msgs
			}
			return nil, apperrors.NewValidationError(err, "Registration validation failed", details)
		}
		return nil, apperrors.NewInternalError(err)
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserExists) {
			return nil, apperrors.NewBadRequestError(err, "An account with this email already exists")
		}
		return nil, err
	}

	s.logger.Info("user registered", "user_id", created.ID, "role", string(created.Role))
	return created, nil
}

// Login verifies credentials and returns the account. Unknown email and
// wrong password collapse into the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("Invalid email or password")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.NewUnauthorizedError("Account is disabled")
	}
	if !user.CheckPassword(password) {
		return nil, apperrors.NewUnauthorizedError("Invalid email or password")
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, nil
}
