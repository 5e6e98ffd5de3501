package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/bonhomie-fest/models"
	"github.com/Dosada05/bonhomie-fest/repositories"
	"github.com/google/uuid"
)

const (
	defaultProfilesPageSize = 20
	maxProfilesPageSize     = 100
)

type AdminProfileService interface {
	ListProfiles(ctx context.Context, filter models.ProfileFilter) (models.ProfileListResponse, error)
	SetRole(ctx context.Context, actorID, profileID uuid.UUID, role models.UserRole) (*models.Profile, error)
}

type adminProfileService struct {
	profileRepo repositories.ProfileRepository
}

func NewAdminProfileService(profileRepo repositories.ProfileRepository) AdminProfileService {
	return &adminProfileService{profileRepo: profileRepo}
}

func (s *adminProfileService) ListProfiles(ctx context.Context, filter models.ProfileFilter) (models.ProfileListResponse, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultProfilesPageSize
	}
	if filter.Limit > maxProfilesPageSize {
		filter.Limit = maxProfilesPageSize
	}
	if filter.Role != nil && !filter.Role.Valid() {
		return models.ProfileListResponse{}, ErrInvalidRole
	}

	profiles, total, err := s.profileRepo.List(ctx, filter)
	if err != nil {
		return models.ProfileListResponse{}, fmt.Errorf("failed to list profiles: %w", err)
	}

	for i := range profiles {
		profiles[i].PasswordHash = ""
	}
	return models.ProfileListResponse{
		Profiles:   profiles,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// SetRole меняет роль профиля. Администратор не может снять роль admin сам с себя.
func (s *adminProfileService) SetRole(ctx context.Context, actorID, profileID uuid.UUID, role models.UserRole) (*models.Profile, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if actorID == profileID && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: cannot change your own admin role", ErrForbiddenOperation)
	}

	if err := s.profileRepo.UpdateRole(ctx, profileID, role); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload profile: %w", err)
	}
	profile.PasswordHash = ""
	return profile, nil
}
