package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/lab-dashboard-backend/internal/core/domain"
	apperrors "github.com/lorrc/lab-dashboard-backend/internal/core/errors"
	"github.com/lorrc/lab-dashboard-backend/internal/core/mocks"
)

func validRegistration() domain.UserRegistrationParams {
	return domain.UserRegistrationParams{
		FullName: "Alice Adams",
		Email:    "alice@example.com",
		Password: "Password123",
		Role:     domain.RoleAdmin,
	}
}

func TestAuthService_Register(t *testing.T) {
	stored, err := domain.NewUser(validRegistration())
	require.NoError(t, err)

	var passedToRepo *domain.User
	users := new(mocks.MockUserRepository)
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			passedToRepo = args.Get(1).(*domain.User)
		}).
		Return(stored, nil)

	svc := NewAuthService(users, testLogger())
	user, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.Equal(t, stored.ID, user.ID)
	require.NotNil(t, passedToRepo)
	assert.Equal(t, "alice@example.com", passedToRepo.Email)
	assert.Equal(t, domain.RoleAdmin, passedToRepo.Role)
	assert.True(t, passedToRepo.IsActive)
	assert.NotEqual(t, "Password123", passedToRepo.HashedPassword)
	users.AssertExpectations(t)
}

func TestAuthService_Register_ValidationFailure(t *testing.T) {
	users := new(mocks.MockUserRepository)
	svc := NewAuthService(users, testLogger())

	params := validRegistration()
	params.Password = "short"

	_, err := svc.Register(context.Background(), params)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 422, appErr.StatusCode)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("Create", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrUserExists)

	svc := NewAuthService(users, testLogger())
	_, err := svc.Register(context.Background(), validRegistration())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUserExists)
}

func TestAuthService_Login(t *testing.T) {
	stored, err := domain.NewUser(validRegistration())
	require.NoError(t, err)

	users := new(mocks.MockUserRepository)
	users.On("GetByEmail", mock.Anything, "alice@example.com").Return(stored, nil)

	svc := NewAuthService(users, testLogger())

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Login(context.Background(), "alice@example.com", "Password123")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "alice@example.com", "WrongPassword1")
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 401, appErr.StatusCode)
	})
}

func TestAuthService_Login_UnknownEmailSameError(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, apperrors.ErrUserNotFound)

	svc := NewAuthService(users, testLogger())
	_, err := svc.Login(context.Background(), "ghost@example.com", "Password123")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.StatusCode)
	assert.Equal(t, "Invalid email or password", appErr.Message)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	stored, err := domain.NewUser(validRegistration())
	require.NoError(t, err)
	stored.IsActive = false

	users := new(mocks.MockUserRepository)
	users.On("GetByEmail", mock.Anything, "alice@example.com").Return(stored, nil)

	svc := NewAuthService(users, testLogger())
	_, err = svc.Login(context.Background(), "alice@example.com", "Password123")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.StatusCode)
}
