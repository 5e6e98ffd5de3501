package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/bonhomie-fest/models"
	"github.com/Dosada05/bonhomie-fest/repositories"
	"github.com/google/uuid"
)

// IdentityService — единая точка вычисления прав текущего пользователя.
type IdentityService interface {
	Capabilities(ctx context.Context, profileID uuid.UUID, role models.UserRole) (models.Capabilities, error)
}

type identityService struct {
	eventRepo repositories.EventRepository
}

func NewIdentityService(eventRepo repositories.EventRepository) IdentityService {
	return &identityService{eventRepo: eventRepo}
}

func (s *identityService) Capabilities(ctx context.Context, profileID uuid.UUID, role models.UserRole) (models.Capabilities, error) {
	caps := models.Capabilities{
		IsAdmin:             role == models.RoleAdmin,
		IsFaculty:           role == models.RoleFaculty,
		CoordinatedEventIDs: []int{},
	}

	events, err := s.eventRepo.ListOrderedByName(ctx)
	if err != nil {
		return caps, fmt.Errorf("failed to load events for capabilities: %w", err)
	}
	for _, e := range coordinatedBy(events, profileID) {
		caps.CoordinatedEventIDs = append(caps.CoordinatedEventIDs, e.ID)
	}
	caps.IsCoordinator = len(caps.CoordinatedEventIDs) > 0
	return caps, nil
}

// coordinatedBy — мероприятия, в списке студентов-координаторов которых есть профиль.
func coordinatedBy(events []models.Event, profileID uuid.UUID) []models.Event {
	out := make([]models.Event, 0)
	for _, e := range events {
		if e.StudentCoordinators.Contains(profileID) {
			out = append(out, e)
		}
	}
	return out
}
