package domain

import (
	"net/mail"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/lorrc/lab-dashboard-backend/internal/core/errors"
)

// Validation constants
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxFullNameLength = 255
	MaxEmailLength    = 255
)

// Role controls what a dashboard account may do. Admins upload payroll
// files and trigger snapshots; viewers only read.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// ValidRole reports whether r names a known role.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleViewer
}

// User is a dashboard login account.
type User struct {
	ID             uuid.UUID
	FullName       string
	Email          string
	HashedPassword string
	Role           Role
	CreatedAt      time.Time
	IsActive       bool
}

// CanUpload reports whether the user may run the efficiency pipeline.
func (u *User) CanUpload() bool {
	return u.Role == RoleAdmin
}

// UserRegistrationParams holds parameters for user registration.
type UserRegistrationParams struct {
	FullName string
	Email    string
	Password string
	Role     Role
}

// Validate validates user registration parameters.
func (p *UserRegistrationParams) Validate() error {
	errs := apperrors.NewValidationErrors()

	if p.FullName == "" {
		errs.Add("fullName", "Full name is required")
	} else if len(p.FullName) > MaxFullNameLength {
		errs.Add("fullName", "Full name must be 255 characters or less")
	}

	if p.Email == "" {
		errs.Add("email", "Email is required")
	} else if len(p.Email) > MaxEmailLength {
		errs.Add("email", "Email must be 255 characters or less")
	} else if !isValidEmail(p.Email) {
		errs.Add("email", "Invalid email format")
	}

	for _, msg := range ValidatePassword(p.Password) {
		errs.Add("password", msg)
	}

	if !ValidRole(p.Role) {
		errs.Add("role", "Role must be admin or viewer")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ValidatePassword checks if a password meets security requirements.
// Returns a slice of error messages (empty if valid).
func ValidatePassword(password string) []string {
	var errors []string

	if len(password) < MinPasswordLength {
		errors = append(errors, "Password must be at least 8 characters long")
	}
	if len(password) > MaxPasswordLength {
		errors = append(errors, "Password must be 128 characters or less")
	}

	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		errors = append(errors, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		errors = append(errors, "Password must contain at least one lowercase letter")
	}
	if !hasNumber {
		errors = append(errors, "Password must contain at least one number")
	}
	return errors
}

// NewUser creates a user with a freshly hashed password.
func NewUser(params UserRegistrationParams) (*User, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:             uuid.New(),
		FullName:       params.FullName,
		Email:          params.Email,
		HashedPassword: string(hashed),
		Role:           params.Role,
		CreatedAt:      time.Now().UTC(),
		IsActive:       true,
	}, nil
}

// CheckPassword compares a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)) == nil
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
