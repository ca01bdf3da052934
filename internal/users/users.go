// Package users manages accounts: credentials, profile settings, and the
// subscription plan attached to each account.
package users

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength is the minimum accepted password length on signup and
// password change.
const MinPasswordLength = 6

var (
	// ErrUserExists is returned when attempting to create a user that already exists.
	ErrUserExists = errors.New("a user with this email already exists")
	// ErrUserNotFound is returned when a user lookup fails.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when email/password verification fails.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrPasswordTooShort is returned for passwords under MinPasswordLength.
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// User represents an account holder.
type User struct {
	ID                string    `gorm:"primaryKey" json:"id"`
	Email             string    `gorm:"uniqueIndex;not null" json:"email"`
	EncryptedPassword string    `gorm:"not null" json:"-"`
	FullName          string    `json:"full_name"`
	Company           string    `json:"company"`
	Plan              string    `gorm:"not null;default:'free'" json:"plan"`
	IsActive          bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FindByEmail retrieves a user by email.
func FindByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByID retrieves a user by ID.
func FindByID(db *gorm.DB, id string) (*User, error) {
	var user User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create registers a new account. Returns ErrUserExists when the email is
// already taken and ErrPasswordTooShort for weak passwords.
func Create(db *gorm.DB, email, password, fullName, company string) (*User, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := FindByEmail(db, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &User{
		ID:                uuid.NewString(),
		Email:             email,
		EncryptedPassword: string(hashed),
		FullName:          fullName,
		Company:           company,
		Plan:              "free",
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies an email/password pair against the stored hash.
// Deactivated accounts cannot log in.
func Authenticate(db *gorm.DB, email, password string) (*User, error) {
	user, err := FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.EncryptedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// UpdateSettings changes full name, email, and company for an account.
func UpdateSettings(db *gorm.DB, id, fullName, email, company string) (*User, error) {
	user, err := FindByID(db, id)
	if err != nil {
		return nil, err
	}

	user.FullName = fullName
	user.Email = email
	user.Company = company
	user.UpdatedAt = time.Now().UTC()
	if err := db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// ChangePassword updates a user's password after verifying the current one.
func ChangePassword(db *gorm.DB, id, currentPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := FindByID(db, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.EncryptedPassword), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return db.Model(user).Updates(map[string]any{
		"encrypted_password": string(hashed),
		"updated_at":         time.Now().UTC(),
	}).Error
}

// Deactivate soft deletes a user by flagging the account inactive.
func Deactivate(db *gorm.DB, id string) (*User, error) {
	user, err := FindByID(db, id)
	if err != nil {
		return nil, err
	}

	user.IsActive = false
	user.UpdatedAt = time.Now().UTC()
	if err := db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to deactivate user: %w", err)
	}
	return user, nil
}

// GetPlan returns the user's subscription plan, defaulting to free.
func GetPlan(db *gorm.DB, id string) (string, error) {
	user, err := FindByID(db, id)
	if err != nil {
		return "", err
	}
	if user.Plan == "" {
		return "free", nil
	}
	return user.Plan, nil
}

// UpdatePlan sets the user's subscription plan. The caller validates the
// plan key against the billing catalog.
func UpdatePlan(db *gorm.DB, id, plan string) error {
	user, err := FindByID(db, id)
	if err != nil {
		return err
	}
	return db.Model(user).Updates(map[string]any{
		"plan":       plan,
		"updated_at": time.Now().UTC(),
	}).Error
}
