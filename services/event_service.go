package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/bonhomie-fest/models"
	"github.com/Dosada05/bonhomie-fest/pkg/validator"
	"github.com/Dosada05/bonhomie-fest/repositories"
	"github.com/google/uuid"
)

type EventService interface {
	ListEvents(ctx context.Context, filter ListEventsFilter) ([]models.Event, error)
	GetEventDetail(ctx context.Context, eventID int, viewerID *uuid.UUID) (*EventDetail, error)
	GetRegistrationForm(ctx context.Context, eventID int) (*RegistrationForm, error)

	CreateEvent(ctx context.Context, input EventInput) (*models.Event, error)
	UpdateEvent(ctx context.Context, eventID int, input EventInput) (*models.Event, error)
	SetResults(ctx context.Context, eventID int, input EventResultsInput) (*models.Event, error)
}

type ListEventsFilter struct {
	Category    string
	Subcategory string
}

// EventDetail — мероприятие вместе с заявкой просматривающего (если он вошел и зарегистрирован).
type EventDetail struct {
	Event           *models.Event        `json:"event"`
	MyRegistration  *models.Registration `json:"my_registration,omitempty"`
	MinTeamSize     int                  `json:"min_team_size"`
	MaxTeamSize     int                  `json:"max_team_size"`
	RegistrationURL string               `json:"registration_url"`
}

// RegistrationForm — данные для формы регистрации на мероприятие.
type RegistrationForm struct {
	EventID      int    `json:"event_id"`
	EventName    string `json:"event_name"`
	Fee          int    `json:"fee"`
	IsGroup      bool   `json:"is_group"`
	MinTeamSize  int    `json:"min_team_size"`
	MaxTeamSize  int    `json:"max_team_size"`
	TeamCapacity int    `json:"team_capacity"`
	UPILink      string `json:"upi_link"`
}

type EventInput struct {
	Name                string                     `json:"name" validate:"required"`
	Description         string                     `json:"description"`
	Category            models.EventCategory       `json:"category" validate:"oneof=Cultural Technical Sports"`
	Subcategory         models.EventSubcategory    `json:"subcategory" validate:"oneof=Individual Group"`
	MinTeamSize         *int                       `json:"min_team_size" validate:"omitempty,gte=1"`
	MaxTeamSize         *int                       `json:"max_team_size" validate:"omitempty,gte=1"`
	Fee                 int                        `json:"fee" validate:"gte=0"`
	EventDate           *time.Time                 `json:"event_date"`
	Day                 string                     `json:"day"`
	StartTime           string                     `json:"start_time"`
	EndTime             string                     `json:"end_time"`
	Venue               string                     `json:"venue"`
	VenueDetails        string                     `json:"venue_details"`
	Rules               []string                   `json:"rules"`
	FacultyCoordinators models.FacultyCoordinators `json:"faculty_coordinators"`
	IsActive            bool                       `json:"is_active"`
	ImagePath           string                     `json:"image_path"`
}

type EventResultsInput struct {
	WinnerProfileID   *uuid.UUID `json:"winner_profile_id"`
	RunnerUpProfileID *uuid.UUID `json:"runnerup_profile_id"`
}

// UPIConfig — получатель платежей для ссылки upi://pay.
type UPIConfig struct {
	PayeeAddress string
	PayeeName    string
}

type eventService struct {
	eventRepo        repositories.EventRepository
	profileRepo      repositories.ProfileRepository
	registrationRepo repositories.RegistrationRepository
	upi              UPIConfig
	logger           *slog.Logger
}

func NewEventService(
	eventRepo repositories.EventRepository,
	profileRepo repositories.ProfileRepository,
	registrationRepo repositories.RegistrationRepository,
	upi UPIConfig,
	logger *slog.Logger,
) EventService {
	return &eventService{
		eventRepo:        eventRepo,
		profileRepo:      profileRepo,
		registrationRepo: registrationRepo,
		upi:              upi,
		logger:           logger,
	}
}

func (s *eventService) ListEvents(ctx context.Context, filter ListEventsFilter) ([]models.Event, error) {
	repoFilter := repositories.ListEventsFilter{}
	if filter.Category != "" {
		c := models.EventCategory(filter.Category)
		repoFilter.Category = &c
	}
	if filter.Subcategory != "" {
		sc := models.EventSubcategory(filter.Subcategory)
		repoFilter.Subcategory = &sc
	}

	events, err := s.eventRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *eventService) getEvent(ctx context.Context, eventID int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", eventID, err)
	}
	return event, nil
}

func (s *eventService) GetEventDetail(ctx context.Context, eventID int, viewerID *uuid.UUID) (*EventDetail, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	s.populateResultNames(ctx, event)

	min, max := event.TeamSizeBounds()
	detail := &EventDetail{
		Event:           event,
		MinTeamSize:     min,
		MaxTeamSize:     max,
		RegistrationURL: fmt.Sprintf("/events/%d/register", event.ID),
	}

	if viewerID != nil {
		reg, err := s.registrationRepo.FindByProfileAndEvent(ctx, *viewerID, eventID)
		switch {
		case err == nil:
			detail.MyRegistration = reg
		case errors.Is(err, repositories.ErrRegistrationNotFound):
		default:
			return nil, fmt.Errorf("failed to check registration for event %d: %w", eventID, err)
		}
	}
	return detail, nil
}

// populateResultNames подставляет имена победителя и призера. Ошибки только логируются.
func (s *eventService) populateResultNames(ctx context.Context, event *models.Event) {
	lookup := func(id *uuid.UUID) *string {
		if id == nil {
			return nil
		}
		p, err := s.profileRepo.GetByID(ctx, *id)
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to populate result profile", slog.Int("event_id", event.ID), slog.String("profile_id", id.String()), slog.Any("error", err))
			return nil
		}
		return &p.FullName
	}
	event.WinnerName = lookup(event.WinnerProfileID)
	event.RunnerUpName = lookup(event.RunnerUpProfileID)
}

func (s *eventService) GetRegistrationForm(ctx context.Context, eventID int) (*RegistrationForm, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, ErrEventInactive
	}
	min, max := event.TeamSizeBounds()
	return &RegistrationForm{
		EventID:      event.ID,
		EventName:    event.Name,
		Fee:          event.Fee,
		IsGroup:      event.IsGroup(),
		MinTeamSize:  min,
		MaxTeamSize:  max,
		TeamCapacity: models.NewTeamRoster(event).Capacity(),
		UPILink:      BuildUPILink(s.upi, event),
	}, nil
}

// BuildUPILink формирует ссылку upi://pay с суммой взноса.
func BuildUPILink(upi UPIConfig, event *models.Event) string {
	q := []string{
		"pa=" + url.QueryEscape(upi.PayeeAddress),
		"pn=" + url.PathEscape(upi.PayeeName),
		"am=" + strconv.Itoa(event.Fee),
		"cu=INR",
		"tn=" + url.PathEscape("Registration for "+event.Name),
	}
	return "upi://pay?" + strings.Join(q, "&")
}

func (s *eventService) validateEventInput(ctx context.Context, input *EventInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if err := validator.Validate(ctx, input); err != nil {
		return asValidationError(err)
	}
	if input.Subcategory == models.SubcategoryGroup {
		fields := map[string]string{}
		if input.MinTeamSize == nil {
			fields["min_team_size"] = "field is required for group events"
		}
		if input.MaxTeamSize == nil {
			fields["max_team_size"] = "field is required for group events"
		}
		if input.MinTeamSize != nil && input.MaxTeamSize != nil && *input.MinTeamSize > *input.MaxTeamSize {
			fields["max_team_size"] = "must be greater than or equal to min_team_size"
		}
		if len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}
	} else {
		input.MinTeamSize, input.MaxTeamSize = nil, nil
	}
	if input.Rules == nil {
		input.Rules = []string{}
	}
	return nil
}

func (input EventInput) applyTo(e *models.Event) {
	e.Name = input.Name
	e.Description = input.Description
	e.Category = input.Category
	e.Subcategory = input.Subcategory
	e.MinTeamSize = input.MinTeamSize
	e.MaxTeamSize = input.MaxTeamSize
	e.Fee = input.Fee
	e.EventDate = input.EventDate
	e.Day = input.Day
	e.StartTime = input.StartTime
	e.EndTime = input.EndTime
	e.Venue = input.Venue
	e.VenueDetails = input.VenueDetails
	e.Rules = input.Rules
	e.FacultyCoordinators = input.FacultyCoordinators
	e.IsActive = input.IsActive
	e.ImagePath = input.ImagePath
}

func (s *eventService) CreateEvent(ctx context.Context, input EventInput) (*models.Event, error) {
	if err := s.validateEventInput(ctx, &input); err != nil {
		return nil, err
	}

	event := &models.Event{StudentCoordinators: models.StudentCoordinators{}}
	input.applyTo(event)

	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, repositories.ErrEventNameConflict) {
			return nil, ErrEventNameConflict
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

// UpdateEvent меняет все поля, кроме студентов-координаторов и итогов.
func (s *eventService) UpdateEvent(ctx context.Context, eventID int, input EventInput) (*models.Event, error) {
	if err := s.validateEventInput(ctx, &input); err != nil {
		return nil, err
	}

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	input.applyTo(event)

	if err := s.eventRepo.Update(ctx, event); err != nil {
		switch {
		case errors.Is(err, repositories.ErrEventNotFound):
			return nil, ErrEventNotFound
		case errors.Is(err, repositories.ErrEventNameConflict):
			return nil, ErrEventNameConflict
		}
		return nil, fmt.Errorf("failed to update event %d: %w", eventID, err)
	}
	return event, nil
}

func (s *eventService) SetResults(ctx context.Context, eventID int, input EventResultsInput) (*models.Event, error) {
	err := s.eventRepo.UpdateResults(ctx, eventID, input.WinnerProfileID, input.RunnerUpProfileID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrEventNotFound):
			return nil, ErrEventNotFound
		case errors.Is(err, repositories.ErrEventInvalidProfile):
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to set results for event %d: %w", eventID, err)
	}

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	s.populateResultNames(ctx, event)
	return event, nil
}
