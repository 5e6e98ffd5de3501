package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/bonhomie-fest/models"
	"github.com/Dosada05/bonhomie-fest/pkg/validator"
	"github.com/Dosada05/bonhomie-fest/repositories"
	"github.com/Dosada05/bonhomie-fest/storage"
	"github.com/google/uuid"
)

type RegistrationService interface {
	Submit(ctx context.Context, profileID uuid.UUID, eventID int, input SubmitRegistrationInput, proof *PaymentProof) (*models.Registration, error)
}

type SubmitRegistrationInput struct {
	TransactionID string             `json:"transaction_id" validate:"min=5"`
	TeamMembers   models.TeamMembers `json:"team_members" validate:"dive"`
}

// PaymentProof — загруженный скриншот оплаты.
type PaymentProof struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

type registrationService struct {
	eventRepo        repositories.EventRepository
	registrationRepo repositories.RegistrationRepository
	uploader         storage.FileUploader
	logger           *slog.Logger
	now              func() time.Time
}

func NewRegistrationService(
	eventRepo repositories.EventRepository,
	registrationRepo repositories.RegistrationRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		uploader:         uploader,
		logger:           logger,
		now:              time.Now,
	}
}

// Submit загружает скриншот и создает заявку в статусе pending.
// Загрузка и вставка не атомарны: если вставка не удалась, объект остается в хранилище.
func (s *registrationService) Submit(ctx context.Context, profileID uuid.UUID, eventID int, input SubmitRegistrationInput, proof *PaymentProof) (*models.Registration, error) {
	input.TransactionID = strings.TrimSpace(input.TransactionID)
	for i := range input.TeamMembers {
		m := &input.TeamMembers[i]
		m.Name = strings.TrimSpace(m.Name)
		m.Email = strings.TrimSpace(m.Email)
		m.RollNumber = strings.TrimSpace(m.RollNumber)
	}
	if input.TeamMembers == nil {
		input.TeamMembers = models.TeamMembers{}
	}

	if err := validator.Validate(ctx, input); err != nil {
		return nil, asValidationError(err)
	}
	if proof == nil || proof.Reader == nil {
		return nil, ErrScreenshotRequired
	}
	ext, err := proofExtension(proof)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", eventID, err)
	}
	if !event.IsActive {
		return nil, ErrEventInactive
	}
	if err := CheckTeamSize(event, len(input.TeamMembers)); err != nil {
		return nil, err
	}

	_, err = s.registrationRepo.FindByProfileAndEvent(ctx, profileID, eventID)
	switch {
	case err == nil:
		return nil, ErrAlreadyRegistered
	case !errors.Is(err, repositories.ErrRegistrationNotFound):
		return nil, fmt.Errorf("failed to check existing registration: %w", err)
	}

	key := fmt.Sprintf("%s/%d_%d.%s", profileID, eventID, s.now().UnixMilli(), ext)
	uploaded, err := s.uploader.Upload(ctx, key, proof.ContentType, proof.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	reg := &models.Registration{
		EventID:               eventID,
		ProfileID:             profileID,
		TransactionID:         input.TransactionID,
		PaymentScreenshotPath: uploaded.Key,
		TeamMembers:           input.TeamMembers,
		Status:                models.RegistrationPending,
	}
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		s.logger.WarnContext(ctx, "Registration insert failed after upload, payment proof left orphaned",
			slog.String("key", uploaded.Key),
			slog.Int("event_id", eventID),
			slog.String("profile_id", profileID.String()),
			slog.Any("error", err),
		)
		if errors.Is(err, repositories.ErrRegistrationConflict) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	s.logger.InfoContext(ctx, "Registration submitted",
		slog.Int("registration_id", reg.ID),
		slog.Int("event_id", eventID),
		slog.String("profile_id", profileID.String()),
	)
	return reg, nil
}

// CheckTeamSize проверяет размер команды (дополнительные участники + регистрирующийся).
// Для индивидуальных мероприятий дополнительные участники не допускаются.
func CheckTeamSize(event *models.Event, extraMembers int) error {
	min, max := event.TeamSizeBounds()
	size := extraMembers + 1
	if size < min {
		return &TeamSizeError{Min: min, Max: max}
	}
	if size > max {
		return &TeamSizeError{Min: min, Max: max, TooMany: true}
	}
	return nil
}

func proofExtension(proof *PaymentProof) (string, error) {
	if ext := extensionFromFilename(proof.Filename); ext != "" {
		return ext, nil
	}
	return GetExtensionFromContentType(proof.ContentType)
}
