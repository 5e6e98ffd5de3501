package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/Dosada05/bonhomie-fest/models"
	"github.com/Dosada05/bonhomie-fest/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	GetStats(ctx context.Context) (models.DashboardStats, error)
}

type dashboardService struct {
	profileRepo      repositories.ProfileRepository
	eventRepo        repositories.EventRepository
	registrationRepo repositories.RegistrationRepository
}

func NewDashboardService(
	profileRepo repositories.ProfileRepository,
	eventRepo repositories.EventRepository,
	registrationRepo repositories.RegistrationRepository,
) DashboardService {
	return &dashboardService{
		profileRepo:      profileRepo,
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	var (
		stats models.DashboardStats
		list  []models.RegistrationDetails
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.ProfilesTotal, err = s.profileRepo.Count(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.StudentsTotal, err = s.profileRepo.Count(gctx, map[string]interface{}{"role": models.RoleStudent})
		return err
	})
	g.Go(func() (err error) {
		stats.EventsTotal, err = s.eventRepo.Count(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveEvents, err = s.eventRepo.Count(gctx, map[string]interface{}{"is_active": true})
		return err
	})
	g.Go(func() (err error) {
		list, err = s.registrationRepo.ListDetailed(gctx, repositories.ListRegistrationsFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, fmt.Errorf("failed to load dashboard stats: %w", err)
	}

	summary := BuildRegistrationBreakdown(list)
	summary.ProfilesTotal = stats.ProfilesTotal
	summary.StudentsTotal = stats.StudentsTotal
	summary.EventsTotal = stats.EventsTotal
	summary.ActiveEvents = stats.ActiveEvents
	return summary, nil
}

// BuildRegistrationBreakdown раскладывает заявки по статусам, категориям и мероприятиям.
// Выручка считается только по подтвержденным заявкам.
func BuildRegistrationBreakdown(list []models.RegistrationDetails) models.DashboardStats {
	stats := models.DashboardStats{
		RegistrationsTotal: len(list),
		ByCategory:         []models.CategoryBreakdown{},
		ByEvent:            []models.EventBreakdown{},
	}

	categories := map[models.EventCategory]*models.CategoryBreakdown{}
	events := map[int]*models.EventBreakdown{}

	for _, reg := range list {
		cat, ok := categories[reg.Event.Category]
		if !ok {
			cat = &models.CategoryBreakdown{Category: reg.Event.Category}
			categories[reg.Event.Category] = cat
		}
		ev, ok := events[reg.EventID]
		if !ok {
			ev = &models.EventBreakdown{EventID: reg.EventID, EventName: reg.Event.Name, Category: reg.Event.Category}
			events[reg.EventID] = ev
		}

		cat.Registrations++
		ev.Registrations++

		switch reg.Status {
		case models.RegistrationPending:
			stats.Pending++
			ev.Pending++
		case models.RegistrationConfirmed:
			stats.Confirmed++
			stats.ConfirmedRevenue += reg.Event.Fee
			cat.Confirmed++
			cat.ConfirmedRevenue += reg.Event.Fee
			ev.Confirmed++
			ev.ConfirmedRevenue += reg.Event.Fee
		case models.RegistrationRejected:
			stats.Rejected++
			ev.Rejected++
		}
	}

	for _, c := range categories {
		stats.ByCategory = append(stats.ByCategory, *c)
	}
	sort.Slice(stats.ByCategory, func(i, j int) bool {
		return stats.ByCategory[i].Category < stats.ByCategory[j].Category
	})

	for _, e := range events {
		stats.ByEvent = append(stats.ByEvent, *e)
	}
	sort.Slice(stats.ByEvent, func(i, j int) bool {
		if stats.ByEvent[i].Registrations != stats.ByEvent[j].Registrations {
			return stats.ByEvent[i].Registrations > stats.ByEvent[j].Registrations
		}
		return stats.ByEvent[i].EventName < stats.ByEvent[j].EventName
	})

	return stats
}
