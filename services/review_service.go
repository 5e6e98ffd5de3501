package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/bonhomie-fest/models"
	"github.com/Dosada05/bonhomie-fest/repositories"
	"github.com/Dosada05/bonhomie-fest/storage"
	"golang.org/x/sync/errgroup"
)

// ScreenshotURLTTL — срок жизни подписанной ссылки на скриншот оплаты.
const ScreenshotURLTTL = 60 * time.Second

type ReviewService interface {
	ListRegistrations(ctx context.Context, filter RegistrationFilter) (*ReviewList, error)
	FilteredRegistrations(ctx context.Context, filter RegistrationFilter) ([]models.RegistrationDetails, error)
	UpdateStatus(ctx context.Context, registrationID int, status models.RegistrationStatus) (*models.Registration, error)
	ScreenshotURL(ctx context.Context, registrationID int) (string, error)
}

// ReviewList — отфильтрованные заявки, статистика по всем заявкам и варианты фильтров.
type ReviewList struct {
	Registrations []models.RegistrationDetails `json:"registrations"`
	Stats         models.RegistrationStats     `json:"stats"`
	FilterOptions models.FilterOptions         `json:"filter_options"`
	Filter        RegistrationFilter           `json:"filter"`
}

type reviewService struct {
	registrationRepo repositories.RegistrationRepository
	profileRepo      repositories.ProfileRepository
	eventRepo        repositories.EventRepository
	uploader         storage.FileUploader
	logger           *slog.Logger
}

func NewReviewService(
	registrationRepo repositories.RegistrationRepository,
	profileRepo repositories.ProfileRepository,
	eventRepo repositories.EventRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) ReviewService {
	return &reviewService{
		registrationRepo: registrationRepo,
		profileRepo:      profileRepo,
		eventRepo:        eventRepo,
		uploader:         uploader,
		logger:           logger,
	}
}

// ListRegistrations загружает список заявок и варианты фильтров параллельно.
// Ошибка загрузки вариантов фильтров не мешает отдать список.
func (s *reviewService) ListRegistrations(ctx context.Context, filter RegistrationFilter) (*ReviewList, error) {
	var (
		all     []models.RegistrationDetails
		options models.FilterOptions
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.registrationRepo.ListDetailed(gctx, repositories.ListRegistrationsFilter{})
		if err != nil {
			return fmt.Errorf("failed to list registrations: %w", err)
		}
		all = list
		return nil
	})
	g.Go(func() error {
		options = s.loadFilterOptions(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ReviewList{
		Registrations: ApplyRegistrationFilter(all, filter),
		Stats:         ComputeRegistrationStats(all),
		FilterOptions: options,
		Filter:        filter,
	}, nil
}

func (s *reviewService) loadFilterOptions(ctx context.Context) models.FilterOptions {
	options := models.FilterOptions{Schools: []string{}, Departments: []string{}, EventNames: []string{}}

	if schools, err := s.profileRepo.DistinctSchools(ctx); err != nil {
		s.logger.WarnContext(ctx, "Failed to load school filter options", slog.Any("error", err))
	} else {
		options.Schools = schools
	}
	if departments, err := s.profileRepo.DistinctDepartments(ctx); err != nil {
		s.logger.WarnContext(ctx, "Failed to load department filter options", slog.Any("error", err))
	} else {
		options.Departments = departments
	}
	if names, err := s.eventRepo.DistinctNames(ctx); err != nil {
		s.logger.WarnContext(ctx, "Failed to load event name filter options", slog.Any("error", err))
	} else {
		options.EventNames = names
	}
	return options
}

func (s *reviewService) FilteredRegistrations(ctx context.Context, filter RegistrationFilter) ([]models.RegistrationDetails, error) {
	all, err := s.registrationRepo.ListDetailed(ctx, repositories.ListRegistrationsFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return ApplyRegistrationFilter(all, filter), nil
}

// UpdateStatus переводит заявку из pending в confirmed или rejected.
func (s *reviewService) UpdateStatus(ctx context.Context, registrationID int, status models.RegistrationStatus) (*models.Registration, error) {
	if !models.RegistrationPending.CanTransitionTo(status) {
		return nil, ErrInvalidStatus
	}

	err := s.registrationRepo.UpdateStatusIfPending(ctx, registrationID, status)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrRegistrationNotFound):
			return nil, ErrRegistrationNotFound
		case errors.Is(err, repositories.ErrRegistrationNotPending):
			return nil, ErrRegistrationNotPending
		}
		return nil, fmt.Errorf("failed to update registration %d status: %w", registrationID, err)
	}

	reg, err := s.registrationRepo.FindByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to reload registration %d: %w", registrationID, err)
	}

	s.logger.InfoContext(ctx, "Registration status updated",
		slog.Int("registration_id", registrationID),
		slog.String("status", string(status)),
	)
	return reg, nil
}

func (s *reviewService) ScreenshotURL(ctx context.Context, registrationID int) (string, error) {
	reg, err := s.registrationRepo.FindByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return "", ErrRegistrationNotFound
		}
		return "", fmt.Errorf("failed to get registration %d: %w", registrationID, err)
	}
	if reg.PaymentScreenshotPath == "" {
		return "", ErrScreenshotUnavailable
	}

	url, err := s.uploader.PresignGetURL(ctx, reg.PaymentScreenshotPath, ScreenshotURLTTL)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to presign payment screenshot",
			slog.Int("registration_id", registrationID),
			slog.String("key", reg.PaymentScreenshotPath),
			slog.Any("error", err),
		)
		return "", ErrScreenshotUnavailable
	}
	return url, nil
}
