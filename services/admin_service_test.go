package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Dosada05/bonhomie-fest/models"
	"github.com/google/uuid"
)

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:           " priya@college.edu ",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		ProfileFields: ProfileFields{
			FullName:            "Priya Shah",
			RollNumber:          "23CO101",
			School:              "SOET",
			Department:          "CO",
			Program:             "Diploma Engineering",
			YearOfStudy:         "2",
			AdmissionYear:       "2023",
			ExpectedPassoutYear: "2026",
			Phone:               "9876543210",
			Gender:              "Female",
		},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	profiles := newFakeProfileRepo()
	svc := NewAuthService(profiles)
	ctx := context.Background()

	p, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if p.Role != models.RoleStudent || p.Email != "priya@college.edu" || p.PasswordHash != "" {
		t.Errorf("unexpected profile: %+v", p)
	}

	if _, err := svc.Register(ctx, validRegisterInput()); !errors.Is(err, ErrEmailConflict) {
		t.Errorf("expected ErrEmailConflict, got %v", err)
	}

	if _, err := svc.Login(ctx, LoginInput{Email: "PRIYA@college.edu", Password: "secret1"}); err != nil {
		t.Errorf("Login: %v", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Email: "priya@college.edu", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Email: "nobody@college.edu", Password: "secret1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegister_ValidationMessages(t *testing.T) {
	input := validRegisterInput()
	input.ConfirmPassword = "other"
	input.Phone = "12345"
	input.School = "SOM"

	_, err := NewAuthService(newFakeProfileRepo()).Register(context.Background(), input)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	want := map[string]string{
		"confirm_password": "passwords do not match",
		"phone":            "must be at least 10 characters",
		"school":           "must be one of: SOP, SOET, SOA",
	}
	for field, msg := range want {
		if vErr.Fields[field] != msg {
			t.Errorf("%s: got %q, want %q", field, vErr.Fields[field], msg)
		}
	}
}

func TestFindStudentByEmail(t *testing.T) {
	student := models.Profile{ID: uuid.New(), Email: "Rahul@College.edu", FullName: "Rahul", PasswordHash: "hash"}
	profiles := newFakeProfileRepo(student)
	svc := NewProfileService(profiles)
	ctx := context.Background()

	p, err := svc.FindStudentByEmail(ctx, " rahul@college.edu ")
	if err != nil {
		t.Fatalf("FindStudentByEmail: %v", err)
	}
	if p.ID != student.ID || p.PasswordHash != "" {
		t.Errorf("unexpected profile: %+v", p)
	}

	if _, err := svc.FindStudentByEmail(ctx, "ghost@college.edu"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}
	if _, err := svc.FindStudentByEmail(ctx, "  "); !errors.Is(err, ErrEmailRequired) {
		t.Errorf("expected ErrEmailRequired, got %v", err)
	}

	profiles.getByEmailErr = errors.New("db down")
	if _, err := svc.FindStudentByEmail(ctx, "rahul@college.edu"); !errors.Is(err, ErrStudentLookupFailed) {
		t.Errorf("expected ErrStudentLookupFailed, got %v", err)
	}
}

func TestListProfiles_PagingAndRoleFilter(t *testing.T) {
	var seed []models.Profile
	for i := 0; i < 5; i++ {
		seed = append(seed, models.Profile{ID: uuid.New(), FullName: fmt.Sprintf("Student %d", i), Role: models.RoleStudent, PasswordHash: "hash"})
	}
	seed = append(seed, models.Profile{ID: uuid.New(), FullName: "Prof X", Role: models.RoleFaculty})
	svc := NewAdminProfileService(newFakeProfileRepo(seed...))
	ctx := context.Background()

	student := models.RoleStudent
	res, err := svc.ListProfiles(ctx, models.ProfileFilter{Role: &student, Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if res.TotalCount != 5 || len(res.Profiles) != 2 || res.Profiles[0].FullName != "Student 2" {
		t.Errorf("unexpected page: %+v", res)
	}
	for _, p := range res.Profiles {
		if p.PasswordHash != "" {
			t.Error("password hash must not be returned")
		}
	}

	res, err = svc.ListProfiles(ctx, models.ProfileFilter{Page: 0, Limit: 1000})
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if res.Page != 1 || res.Limit != maxProfilesPageSize || len(res.Profiles) != 6 {
		t.Errorf("unexpected defaults: page=%d limit=%d n=%d", res.Page, res.Limit, len(res.Profiles))
	}

	bogus := models.UserRole("root")
	if _, err := svc.ListProfiles(ctx, models.ProfileFilter{Role: &bogus}); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

func TestSetRole(t *testing.T) {
	admin := models.Profile{ID: uuid.New(), FullName: "Admin", Role: models.RoleAdmin}
	student := models.Profile{ID: uuid.New(), FullName: "Student", Role: models.RoleStudent}
	svc := NewAdminProfileService(newFakeProfileRepo(admin, student))
	ctx := context.Background()

	p, err := svc.SetRole(ctx, admin.ID, student.ID, models.RoleFaculty)
	if err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if p.Role != models.RoleFaculty {
		t.Errorf("role = %s, want faculty", p.Role)
	}

	if _, err := svc.SetRole(ctx, admin.ID, admin.ID, models.RoleStudent); !errors.Is(err, ErrForbiddenOperation) {
		t.Errorf("expected ErrForbiddenOperation, got %v", err)
	}
	if _, err := svc.SetRole(ctx, admin.ID, student.ID, "superuser"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := svc.SetRole(ctx, admin.ID, uuid.New(), models.RoleStudent); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}
