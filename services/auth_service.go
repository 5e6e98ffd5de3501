package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/bonhomie-fest/models"
	"github.com/Dosada05/bonhomie-fest/pkg/validator"
	"github.com/Dosada05/bonhomie-fest/repositories"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.Profile, error)
	Login(ctx context.Context, input LoginInput) (*models.Profile, error)
}

type RegisterInput struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
	ProfileFields
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authService struct {
	profileRepo repositories.ProfileRepository
}

func NewAuthService(profileRepo repositories.ProfileRepository) AuthService {
	return &authService{
		profileRepo: profileRepo,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.Profile, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.ProfileFields = input.ProfileFields.trimmed()
	if err := validator.Validate(ctx, input); err != nil {
		return nil, asValidationError(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	profile := &models.Profile{
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleStudent,
	}
	input.ProfileFields.applyTo(profile)

	err = s.profileRepo.Create(ctx, profile)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileEmailConflict) {
			return nil, ErrEmailConflict
		}
		return nil, fmt.Errorf("ошибка создания профиля: %w", err)
	}

	profile.PasswordHash = ""
	return profile, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find profile by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	profile.PasswordHash = ""

	return profile, nil
}
