package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/bonhomie-fest/models"
	"github.com/Dosada05/bonhomie-fest/pkg/validator"
	"github.com/Dosada05/bonhomie-fest/repositories"
	"github.com/google/uuid"
)

// ProfileFields — анкетные поля студента, общие для регистрации аккаунта и редактирования профиля.
type ProfileFields struct {
	FullName            string `json:"full_name" validate:"min=2"`
	RollNumber          string `json:"roll_number" validate:"required"`
	School              string `json:"school" validate:"oneof=SOP SOET SOA"`
	Department          string `json:"department" validate:"oneof=CO AIML DS ECS CE ME ECE Electrical 'Diploma Pharmacy' 'Degree Pharmacy' 'Diploma Architecture' 'Degree Architecture'"`
	Program             string `json:"program" validate:"oneof='Diploma Engineering' Pharmacy Architecture"`
	YearOfStudy         string `json:"year_of_study" validate:"required"`
	AdmissionYear       string `json:"admission_year" validate:"min=4"`
	ExpectedPassoutYear string `json:"expected_passout_year" validate:"min=4"`
	Phone               string `json:"phone" validate:"min=10"`
	Gender              string `json:"gender" validate:"oneof=Male Female Other"`
}

func (f ProfileFields) trimmed() ProfileFields {
	f.FullName = strings.TrimSpace(f.FullName)
	f.RollNumber = strings.TrimSpace(f.RollNumber)
	f.YearOfStudy = strings.TrimSpace(f.YearOfStudy)
	f.AdmissionYear = strings.TrimSpace(f.AdmissionYear)
	f.ExpectedPassoutYear = strings.TrimSpace(f.ExpectedPassoutYear)
	f.Phone = strings.TrimSpace(f.Phone)
	return f
}

func (f ProfileFields) applyTo(p *models.Profile) {
	p.FullName = f.FullName
	p.RollNumber = f.RollNumber
	p.School = f.School
	p.Department = f.Department
	p.Program = f.Program
	p.YearOfStudy = f.YearOfStudy
	p.AdmissionYear = f.AdmissionYear
	p.ExpectedPassoutYear = f.ExpectedPassoutYear
	p.Phone = f.Phone
	p.Gender = f.Gender
}

type ProfileService interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpsertProfile(ctx context.Context, id uuid.UUID, email string, fields ProfileFields) (*models.Profile, error)
	FindStudentByEmail(ctx context.Context, email string) (*models.Profile, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
}

func NewProfileService(profileRepo repositories.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}
	profile.PasswordHash = ""
	return profile, nil
}

// UpsertProfile создает или обновляет анкету пользователя. Роль и пароль не меняются.
func (s *profileService) UpsertProfile(ctx context.Context, id uuid.UUID, email string, fields ProfileFields) (*models.Profile, error) {
	fields = fields.trimmed()
	if err := validator.Validate(ctx, fields); err != nil {
		return nil, asValidationError(err)
	}

	profile := &models.Profile{ID: id, Email: email, Role: models.RoleStudent}
	fields.applyTo(profile)

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrProfileEmailConflict) {
			return nil, ErrEmailConflict
		}
		return nil, fmt.Errorf("failed to save profile %s: %w", id, err)
	}
	// перечитываем, чтобы вернуть фактическую роль
	return s.GetProfile(ctx, id)
}

// FindStudentByEmail ищет профиль по точному email без учета регистра.
func (s *profileService) FindStudentByEmail(ctx context.Context, email string) (*models.Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	profile, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrStudentLookupFailed, err)
	}
	profile.PasswordHash = ""
	return profile, nil
}
