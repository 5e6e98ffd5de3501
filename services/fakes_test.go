package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Dosada05/bonhomie-fest/models"
	"github.com/Dosada05/bonhomie-fest/repositories"
	"github.com/Dosada05/bonhomie-fest/storage"
	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

// --- events ---

type fakeEventRepo struct {
	events map[int]*models.Event
	nextID int

	getErr  error
	listErr error
	calls   int
}

func newFakeEventRepo(events ...models.Event) *fakeEventRepo {
	r := &fakeEventRepo{events: map[int]*models.Event{}, nextID: 1}
	for i := range events {
		e := events[i]
		r.events[e.ID] = &e
		if e.ID >= r.nextID {
			r.nextID = e.ID + 1
		}
	}
	return r
}

func (r *fakeEventRepo) Create(_ context.Context, event *models.Event) error {
	for _, e := range r.events {
		if e.Name == event.Name {
			return repositories.ErrEventNameConflict
		}
	}
	event.ID = r.nextID
	r.nextID++
	cp := *event
	r.events[event.ID] = &cp
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id int) (*models.Event, error) {
	r.calls++
	if r.getErr != nil {
		return nil, r.getErr
	}
	e, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEventRepo) sorted() []models.Event {
	out := make([]models.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *fakeEventRepo) List(_ context.Context, filter repositories.ListEventsFilter) ([]models.Event, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []models.Event{}
	for _, e := range r.sorted() {
		if filter.Category != nil && e.Category != *filter.Category {
			continue
		}
		if filter.Subcategory != nil && e.Subcategory != *filter.Subcategory {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeEventRepo) ListOrderedByName(_ context.Context) ([]models.Event, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.sorted(), nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *models.Event) error {
	if _, ok := r.events[event.ID]; !ok {
		return repositories.ErrEventNotFound
	}
	cp := *event
	r.events[event.ID] = &cp
	return nil
}

func (r *fakeEventRepo) UpdateEditableFields(_ context.Context, id int, fields repositories.EventEditableFields) error {
	e, ok := r.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	e.Description = fields.Description
	e.Venue = fields.Venue
	e.VenueDetails = fields.VenueDetails
	e.Rules = fields.Rules
	return nil
}

func (r *fakeEventRepo) UpdateStudentCoordinators(_ context.Context, id int, coordinators models.StudentCoordinators) error {
	e, ok := r.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	e.StudentCoordinators = coordinators
	return nil
}

func (r *fakeEventRepo) UpdateResults(_ context.Context, id int, winnerID, runnerUpID *uuid.UUID) error {
	e, ok := r.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	e.WinnerProfileID = winnerID
	e.RunnerUpProfileID = runnerUpID
	return nil
}

func (r *fakeEventRepo) DistinctNames(_ context.Context) ([]string, error) {
	names := []string{}
	for _, e := range r.sorted() {
		names = append(names, e.Name)
	}
	return names, nil
}

func (r *fakeEventRepo) Count(_ context.Context, filters map[string]interface{}) (int, error) {
	n := 0
	for _, e := range r.events {
		if active, ok := filters["is_active"]; ok && e.IsActive != active.(bool) {
			continue
		}
		n++
	}
	return n, nil
}

// --- profiles ---

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*models.Profile

	getByEmailErr error
	distinctErr   error
}

func newFakeProfileRepo(profiles ...models.Profile) *fakeProfileRepo {
	r := &fakeProfileRepo{profiles: map[uuid.UUID]*models.Profile{}}
	for i := range profiles {
		p := profiles[i]
		r.profiles[p.ID] = &p
	}
	return r
}

func (r *fakeProfileRepo) Create(_ context.Context, p *models.Profile) error {
	for _, existing := range r.profiles {
		if strings.EqualFold(existing.Email, p.Email) {
			return repositories.ErrProfileEmailConflict
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.profiles[p.ID] = &cp
	return nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	if r.getByEmailErr != nil {
		return nil, r.getByEmailErr
	}
	for _, p := range r.profiles {
		if strings.EqualFold(p.Email, email) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (r *fakeProfileRepo) Upsert(_ context.Context, p *models.Profile) error {
	existing, ok := r.profiles[p.ID]
	if !ok {
		cp := *p
		r.profiles[p.ID] = &cp
		return nil
	}
	role, hash := existing.Role, existing.PasswordHash
	*existing = *p
	existing.Role, existing.PasswordHash = role, hash
	return nil
}

func (r *fakeProfileRepo) Count(_ context.Context, filters map[string]interface{}) (int, error) {
	n := 0
	for _, p := range r.profiles {
		if role, ok := filters["role"]; ok && p.Role != role.(models.UserRole) {
			continue
		}
		n++
	}
	return n, nil
}

func (r *fakeProfileRepo) List(_ context.Context, filter models.ProfileFilter) ([]models.Profile, int, error) {
	matched := []models.Profile{}
	for _, p := range r.profiles {
		if filter.Role != nil && p.Role != *filter.Role {
			continue
		}
		if filter.Search != "" && !containsFold(p.FullName, filter.Search) && !containsFold(p.Email, filter.Search) {
			continue
		}
		matched = append(matched, *p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].FullName < matched[j].FullName })

	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], len(matched), nil
}

func (r *fakeProfileRepo) UpdateRole(_ context.Context, id uuid.UUID, role models.UserRole) error {
	p, ok := r.profiles[id]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.Role = role
	return nil
}

func (r *fakeProfileRepo) DistinctSchools(_ context.Context) ([]string, error) {
	if r.distinctErr != nil {
		return nil, r.distinctErr
	}
	return []string{"SOA", "SOET", "SOP"}, nil
}

func (r *fakeProfileRepo) DistinctDepartments(_ context.Context) ([]string, error) {
	if r.distinctErr != nil {
		return nil, r.distinctErr
	}
	return []string{"AIML", "CO"}, nil
}

// --- registrations ---

type fakeRegistrationRepo struct {
	regs    map[int]*models.Registration
	details []models.RegistrationDetails
	nextID  int

	createErr error
	listErr   error
	calls     int
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{regs: map[int]*models.Registration{}, nextID: 1}
}

func (r *fakeRegistrationRepo) Create(_ context.Context, reg *models.Registration) error {
	r.calls++
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.regs {
		if existing.ProfileID == reg.ProfileID && existing.EventID == reg.EventID {
			return repositories.ErrRegistrationConflict
		}
	}
	reg.ID = r.nextID
	r.nextID++
	reg.RegisteredAt = time.Date(2025, 2, 14, 10, 30, 0, 0, time.UTC)
	cp := *reg
	r.regs[reg.ID] = &cp
	return nil
}

func (r *fakeRegistrationRepo) FindByID(_ context.Context, id int) (*models.Registration, error) {
	reg, ok := r.regs[id]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	cp := *reg
	return &cp, nil
}

func (r *fakeRegistrationRepo) FindByProfileAndEvent(_ context.Context, profileID uuid.UUID, eventID int) (*models.Registration, error) {
	r.calls++
	for _, reg := range r.regs {
		if reg.ProfileID == profileID && reg.EventID == eventID {
			cp := *reg
			return &cp, nil
		}
	}
	return nil, repositories.ErrRegistrationNotFound
}

func (r *fakeRegistrationRepo) ListDetailed(_ context.Context, filter repositories.ListRegistrationsFilter) ([]models.RegistrationDetails, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []models.RegistrationDetails{}
	for _, d := range r.details {
		if filter.EventID != nil && d.EventID != *filter.EventID {
			continue
		}
		if filter.ProfileID != nil && d.ProfileID != *filter.ProfileID {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeRegistrationRepo) UpdateStatusIfPending(_ context.Context, id int, status models.RegistrationStatus) error {
	reg, ok := r.regs[id]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	if reg.Status != models.RegistrationPending {
		return repositories.ErrRegistrationNotPending
	}
	reg.Status = status
	return nil
}

// --- storage ---

type uploadedObject struct {
	ContentType string
	Body        []byte
}

type fakeUploader struct {
	objects map[string]uploadedObject

	uploadErr  error
	presignErr error
	calls      int
}

var _ storage.FileUploader = (*fakeUploader)(nil)

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string]uploadedObject{}}
}

func (u *fakeUploader) Upload(_ context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	u.calls++
	if u.uploadErr != nil {
		return nil, u.uploadErr
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.objects[key] = uploadedObject{ContentType: contentType, Body: body}
	return &storage.UploadResult{Key: key, ETag: `"etag"`}, nil
}

func (u *fakeUploader) PresignGetURL(_ context.Context, key string, expires time.Duration) (string, error) {
	u.calls++
	if u.presignErr != nil {
		return "", u.presignErr
	}
	if _, ok := u.objects[key]; !ok {
		return "", errors.New("no such key")
	}
	return "https://storage.test/" + key + "?expires=" + expires.String(), nil
}
