package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/bonhomie-fest/models"
	"github.com/Dosada05/bonhomie-fest/repositories"
	"github.com/google/uuid"
)

type CoordinatorService interface {
	// Администрирование координаторов
	ListAllEvents(ctx context.Context) ([]models.Event, error)
	AssignCoordinator(ctx context.Context, eventID int, profileID uuid.UUID) (*models.Event, error)
	RemoveCoordinator(ctx context.Context, eventID int, profileID uuid.UUID) (*models.Event, error)

	// Кабинет студента-координатора
	MyEvents(ctx context.Context, profileID uuid.UUID) ([]CoordinatorEventView, error)
	UpdateMyEvent(ctx context.Context, profileID uuid.UUID, eventID int, input UpdateCoordinatorEventInput) (*CoordinatorEventView, error)
	EventRegistrants(ctx context.Context, profileID uuid.UUID, eventID int) (*models.Event, []models.RegistrationDetails, error)
}

// CoordinatorEventView — мероприятие с правилами в виде текста для формы редактирования.
type CoordinatorEventView struct {
	models.Event
	RulesText string `json:"rules_text"`
}

func newCoordinatorEventView(e models.Event) CoordinatorEventView {
	return CoordinatorEventView{Event: e, RulesText: e.RulesText()}
}

// UpdateCoordinatorEventInput — правила приходят многострочным текстом, по правилу на строку.
type UpdateCoordinatorEventInput struct {
	Description  string `json:"description"`
	Venue        string `json:"venue"`
	VenueDetails string `json:"venue_details"`
	Rules        string `json:"rules"`
}

type coordinatorService struct {
	eventRepo        repositories.EventRepository
	profileRepo      repositories.ProfileRepository
	registrationRepo repositories.RegistrationRepository
	logger           *slog.Logger
}

func NewCoordinatorService(
	eventRepo repositories.EventRepository,
	profileRepo repositories.ProfileRepository,
	registrationRepo repositories.RegistrationRepository,
	logger *slog.Logger,
) CoordinatorService {
	return &coordinatorService{
		eventRepo:        eventRepo,
		profileRepo:      profileRepo,
		registrationRepo: registrationRepo,
		logger:           logger,
	}
}

func (s *coordinatorService) getEvent(ctx context.Context, eventID int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", eventID, err)
	}
	return event, nil
}

func (s *coordinatorService) ListAllEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.eventRepo.ListOrderedByName(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// AssignCoordinator добавляет студента в список координаторов. Повторное добавление отклоняется,
// список при этом не меняется.
func (s *coordinatorService) AssignCoordinator(ctx context.Context, eventID int, profileID uuid.UUID) (*models.Event, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.StudentCoordinators.Contains(profileID) {
		return nil, ErrCoordinatorExists
	}

	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile %s: %w", profileID, err)
	}

	updated := make(models.StudentCoordinators, 0, len(event.StudentCoordinators)+1)
	updated = append(updated, event.StudentCoordinators...)
	updated = append(updated, models.StudentCoordinator{ProfileID: profile.ID, Name: profile.FullName})

	if err := s.saveCoordinators(ctx, event, updated); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Student coordinator assigned", slog.Int("event_id", eventID), slog.String("profile_id", profileID.String()))
	return event, nil
}

func (s *coordinatorService) RemoveCoordinator(ctx context.Context, eventID int, profileID uuid.UUID) (*models.Event, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.saveCoordinators(ctx, event, event.StudentCoordinators.Without(profileID)); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Student coordinator removed", slog.Int("event_id", eventID), slog.String("profile_id", profileID.String()))
	return event, nil
}

func (s *coordinatorService) saveCoordinators(ctx context.Context, event *models.Event, coordinators models.StudentCoordinators) error {
	if err := s.eventRepo.UpdateStudentCoordinators(ctx, event.ID, coordinators); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to update coordinators of event %d: %w", event.ID, err)
	}
	event.StudentCoordinators = coordinators
	return nil
}

func (s *coordinatorService) MyEvents(ctx context.Context, profileID uuid.UUID) ([]CoordinatorEventView, error) {
	events, err := s.eventRepo.ListOrderedByName(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	mine := coordinatedBy(events, profileID)
	views := make([]CoordinatorEventView, 0, len(mine))
	for _, e := range mine {
		views = append(views, newCoordinatorEventView(e))
	}
	return views, nil
}

// coordinatedEvent возвращает мероприятие, если профиль в числе его координаторов.
func (s *coordinatorService) coordinatedEvent(ctx context.Context, profileID uuid.UUID, eventID int) (*models.Event, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.StudentCoordinators.Contains(profileID) {
		return nil, ErrForbiddenOperation
	}
	return event, nil
}

func (s *coordinatorService) UpdateMyEvent(ctx context.Context, profileID uuid.UUID, eventID int, input UpdateCoordinatorEventInput) (*CoordinatorEventView, error) {
	event, err := s.coordinatedEvent(ctx, profileID, eventID)
	if err != nil {
		return nil, err
	}

	fields := repositories.EventEditableFields{
		Description:  input.Description,
		Venue:        strings.TrimSpace(input.Venue),
		VenueDetails: input.VenueDetails,
		Rules:        models.ParseRules(input.Rules),
	}
	if err := s.eventRepo.UpdateEditableFields(ctx, eventID, fields); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event %d: %w", eventID, err)
	}

	event.Description = fields.Description
	event.Venue = fields.Venue
	event.VenueDetails = fields.VenueDetails
	event.Rules = fields.Rules

	view := newCoordinatorEventView(*event)
	return &view, nil
}

func (s *coordinatorService) EventRegistrants(ctx context.Context, profileID uuid.UUID, eventID int) (*models.Event, []models.RegistrationDetails, error) {
	event, err := s.coordinatedEvent(ctx, profileID, eventID)
	if err != nil {
		return nil, nil, err
	}

	list, err := s.registrationRepo.ListDetailed(ctx, repositories.ListRegistrationsFilter{EventID: &eventID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list registrations of event %d: %w", eventID, err)
	}
	return event, list, nil
}
