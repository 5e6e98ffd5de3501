package services

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/Dosada05/bonhomie-fest/models"
	"github.com/google/uuid"
)

func detail(id int, status models.RegistrationStatus, fee int, school, name string) models.RegistrationDetails {
	return models.RegistrationDetails{
		Registration: models.Registration{
			ID:            id,
			EventID:       100 + id%2,
			ProfileID:     uuid.New(),
			TransactionID: "UPI00000" + name,
			Status:        status,
			RegisteredAt:  time.Date(2025, 2, 14, 15, 4, 0, 0, time.UTC),
		},
		Event: models.RegistrationEventSummary{
			Name:        "Hackathon",
			Fee:         fee,
			Category:    models.CategoryTechnical,
			Subcategory: models.SubcategoryGroup,
		},
		Profile: models.RegistrationProfileSummary{
			FullName:    name,
			Email:       name + "@college.edu",
			RollNumber:  "R" + name,
			School:      school,
			Department:  "CO",
			Gender:      "Female",
			YearOfStudy: "2",
			Program:     "Diploma Engineering",
		},
	}
}

func sampleDetails() []models.RegistrationDetails {
	return []models.RegistrationDetails{
		detail(1, models.RegistrationConfirmed, 300, "SOET", "Asha"),
		detail(2, models.RegistrationPending, 300, "SOET", "Bilal"),
		detail(3, models.RegistrationConfirmed, 200, "SOP", "Chitra"),
		detail(4, models.RegistrationRejected, 300, "SOET", "Dev"),
		detail(5, models.RegistrationConfirmed, 300, "SOET", "Esha"),
	}
}

func TestFilterState_SearchThenClearRestoresFullList(t *testing.T) {
	all := sampleDetails()
	state := NewRegistrationFilterState()

	state.Draft.Status = string(models.RegistrationConfirmed)
	state.Draft.School = "SOET"

	// черновик не применяется до поиска
	if got := len(state.View(all)); got != len(all) {
		t.Fatalf("draft must not filter before Search, got %d", got)
	}

	state.Search()
	filtered := state.View(all)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 confirmed SOET registrations, got %d", len(filtered))
	}
	for _, r := range filtered {
		if r.Status != models.RegistrationConfirmed || r.Profile.School != "SOET" {
			t.Errorf("unexpected row in filtered list: %+v", r)
		}
	}

	state.Clear()
	if got := len(state.View(all)); got != len(all) {
		t.Errorf("expected full list after Clear, got %d", got)
	}
	if state.Applied.Status != StatusAll || state.Draft.Status != StatusAll {
		t.Errorf("status should reset to %q, got applied=%q draft=%q", StatusAll, state.Applied.Status, state.Draft.Status)
	}
	if state.Applied.School != "" || state.Draft.School != "" {
		t.Error("school should be cleared")
	}
}

func TestRegistrationFilter_SubstringAndExactMatches(t *testing.T) {
	all := sampleDetails()

	tests := []struct {
		name   string
		filter RegistrationFilter
		want   int
	}{
		{"empty filter keeps all", DefaultRegistrationFilter(), 5},
		{"name substring is case-insensitive", RegistrationFilter{StudentName: "SHA"}, 2},
		{"email substring", RegistrationFilter{Email: "chitra@"}, 1},
		{"transaction id substring", RegistrationFilter{TransactionID: "upi00000dev"}, 1},
		{"school is exact", RegistrationFilter{School: "SOE"}, 0},
		{"event name is exact", RegistrationFilter{EventName: "Hackathon"}, 5},
		{"conditions are combined", RegistrationFilter{Status: "pending", School: "SOP"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(ApplyRegistrationFilter(all, tt.filter)); got != tt.want {
				t.Errorf("got %d rows, want %d", got, tt.want)
			}
		})
	}
}

func TestRegistrationFilterFromQuery(t *testing.T) {
	f := RegistrationFilterFromQuery(url.Values{"school": {" SOET "}, "student_name": {"asha"}})
	if f.Status != StatusAll || f.School != "SOET" || f.StudentName != "asha" {
		t.Errorf("unexpected filter: %+v", f)
	}
}

func TestComputeRegistrationStats(t *testing.T) {
	stats := ComputeRegistrationStats(sampleDetails())
	if stats.Total != 5 || stats.Pending != 1 || stats.ConfirmedRevenue != 800 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func newReviewFixture(t *testing.T) (*fakeRegistrationRepo, *fakeProfileRepo, *fakeUploader, ReviewService) {
	t.Helper()
	regs := newFakeRegistrationRepo()
	profiles := newFakeProfileRepo()
	uploader := newFakeUploader()
	svc := NewReviewService(regs, profiles, newFakeEventRepo(groupEvent(3)), uploader, discardLogger())
	return regs, profiles, uploader, svc
}

func TestListRegistrations_StatsOverFullListAndOptionsBestEffort(t *testing.T) {
	regs, profiles, _, svc := newReviewFixture(t)
	regs.details = sampleDetails()
	profiles.distinctErr = errors.New("timeout")

	list, err := svc.ListRegistrations(context.Background(), RegistrationFilter{Status: "pending"})
	if err != nil {
		t.Fatalf("ListRegistrations: %v", err)
	}
	if len(list.Registrations) != 1 {
		t.Errorf("expected 1 pending registration, got %d", len(list.Registrations))
	}
	if list.Stats.Total != 5 {
		t.Errorf("stats must cover the unfiltered list, got %+v", list.Stats)
	}
	if len(list.FilterOptions.Schools) != 0 || len(list.FilterOptions.EventNames) != 1 {
		t.Errorf("unexpected filter options: %+v", list.FilterOptions)
	}
}

func TestListRegistrations_ListFailureIsReturned(t *testing.T) {
	regs, _, _, svc := newReviewFixture(t)
	regs.listErr = errors.New("db down")

	if _, err := svc.ListRegistrations(context.Background(), DefaultRegistrationFilter()); err == nil {
		t.Fatal("expected error")
	}
}

func TestUpdateStatus_OnlyFromPending(t *testing.T) {
	regs, _, _, svc := newReviewFixture(t)
	regs.regs[1] = &models.Registration{ID: 1, Status: models.RegistrationPending}
	ctx := context.Background()

	if _, err := svc.UpdateStatus(ctx, 1, models.RegistrationPending); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}

	reg, err := svc.UpdateStatus(ctx, 1, models.RegistrationConfirmed)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if reg.Status != models.RegistrationConfirmed {
		t.Errorf("status = %s, want confirmed", reg.Status)
	}

	if _, err := svc.UpdateStatus(ctx, 1, models.RegistrationRejected); !errors.Is(err, ErrRegistrationNotPending) {
		t.Errorf("expected ErrRegistrationNotPending, got %v", err)
	}
	if regs.regs[1].Status != models.RegistrationConfirmed {
		t.Error("terminal status must not change")
	}

	if _, err := svc.UpdateStatus(ctx, 42, models.RegistrationRejected); !errors.Is(err, ErrRegistrationNotFound) {
		t.Errorf("expected ErrRegistrationNotFound, got %v", err)
	}
}

func TestScreenshotURL(t *testing.T) {
	regs, _, uploader, svc := newReviewFixture(t)
	regs.regs[1] = &models.Registration{ID: 1, PaymentScreenshotPath: "u/1_1.png"}
	uploader.objects["u/1_1.png"] = uploadedObject{}

	url, err := svc.ScreenshotURL(context.Background(), 1)
	if err != nil {
		t.Fatalf("ScreenshotURL: %v", err)
	}
	if url != "https://storage.test/u/1_1.png?expires=1m0s" {
		t.Errorf("unexpected url %q", url)
	}

	uploader.presignErr = errors.New("signature failure")
	if _, err := svc.ScreenshotURL(context.Background(), 1); !errors.Is(err, ErrScreenshotUnavailable) {
		t.Errorf("expected ErrScreenshotUnavailable, got %v", err)
	}
}
