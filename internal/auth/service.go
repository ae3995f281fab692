package auth

import (
	"context"
	"errors"
	"strings"

	"propertyflow-backend/internal/models"
	"propertyflow-backend/internal/pkg/apperrors"
	"propertyflow-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service handles account signup, login and lookup.
type Service struct {
	DB *gorm.DB
}

type SignupInput struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	BusinessName *string `json:"business_name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates an account. Duplicate email is a Conflict, not a
// validation failure.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	if !validation.IsValidEmail(email) {
		return nil, apperrors.Validation(ErrInvalidEmailFormat.Error())
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, apperrors.Validation(ErrWeakPassword.Error())
	}

	var existing models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperrors.ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:            email,
		PasswordHash:     string(hash),
		BusinessName:     in.BusinessName,
		SubscriptionTier: models.TierFree,
	}
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		// unique index is the real enforcement point for concurrent signups
		return nil, err
	}
	return user, nil
}

// Login verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	var u models.User
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// GetByID loads the account for /me.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
