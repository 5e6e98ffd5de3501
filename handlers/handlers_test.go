package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/bonhomie-fest/middleware"
	"github.com/Dosada05/bonhomie-fest/models"
	"github.com/Dosada05/bonhomie-fest/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// --- stubs ---

type stubRegistrationService struct {
	submit func(ctx context.Context, profileID uuid.UUID, eventID int, input services.SubmitRegistrationInput, proof *services.PaymentProof) (*models.Registration, error)
}

func (s *stubRegistrationService) Submit(ctx context.Context, profileID uuid.UUID, eventID int, input services.SubmitRegistrationInput, proof *services.PaymentProof) (*models.Registration, error) {
	return s.submit(ctx, profileID, eventID, input, proof)
}

type stubReviewService struct {
	list       []models.RegistrationDetails
	updateErr  error
	presignURL string
	presignErr error
}

func (s *stubReviewService) ListRegistrations(_ context.Context, filter services.RegistrationFilter) (*services.ReviewList, error) {
	return &services.ReviewList{
		Registrations: services.ApplyRegistrationFilter(s.list, filter),
		Stats:         services.ComputeRegistrationStats(s.list),
		Filter:        filter,
	}, nil
}

func (s *stubReviewService) FilteredRegistrations(_ context.Context, filter services.RegistrationFilter) ([]models.RegistrationDetails, error) {
	return services.ApplyRegistrationFilter(s.list, filter), nil
}

func (s *stubReviewService) UpdateStatus(_ context.Context, id int, status models.RegistrationStatus) (*models.Registration, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &models.Registration{ID: id, Status: status}, nil
}

func (s *stubReviewService) ScreenshotURL(_ context.Context, _ int) (string, error) {
	return s.presignURL, s.presignErr
}

type stubProfileService struct {
	findErr error
	profile *models.Profile
}

func (s *stubProfileService) GetProfile(context.Context, uuid.UUID) (*models.Profile, error) {
	return s.profile, nil
}

func (s *stubProfileService) UpsertProfile(context.Context, uuid.UUID, string, services.ProfileFields) (*models.Profile, error) {
	return s.profile, nil
}

func (s *stubProfileService) FindStudentByEmail(context.Context, string) (*models.Profile, error) {
	return s.profile, s.findErr
}

// --- helpers ---

func withUser(r *http.Request, id uuid.UUID, role models.UserRole) *http.Request {
	return r.WithContext(middleware.WithClaims(r.Context(), id, role))
}

func serve(t *testing.T, method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	router.Method(method, pattern, h)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return body
}

func multipartRegistration(t *testing.T, transactionID string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("transaction_id", transactionID); err != nil {
		t.Fatal(err)
	}
	if withFile {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="payment_screenshot"; filename="proof.png"`)
		header.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write([]byte("png-bytes")); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

// --- registration ---

func TestSubmitRegistration_CreatedWithLocation(t *testing.T) {
	userID := uuid.New()
	var gotProof *services.PaymentProof
	var gotBody string
	svc := &stubRegistrationService{submit: func(_ context.Context, profileID uuid.UUID, eventID int, input services.SubmitRegistrationInput, proof *services.PaymentProof) (*models.Registration, error) {
		if profileID != userID || eventID != 7 || input.TransactionID != "UPI123456789" {
			t.Errorf("unexpected submit args: %s %d %+v", profileID, eventID, input)
		}
		gotProof = proof
		if proof != nil {
			b, _ := io.ReadAll(proof.Reader)
			gotBody = string(b)
		}
		return &models.Registration{ID: 1, EventID: eventID, ProfileID: profileID, Status: models.RegistrationPending}, nil
	}}
	h := NewRegistrationHandler(svc, 5<<20)

	body, contentType := multipartRegistration(t, "UPI123456789", true)
	req := httptest.NewRequest(http.MethodPost, "/events/7/registrations", body)
	req.Header.Set("Content-Type", contentType)
	rr := serve(t, http.MethodPost, "/events/{eventID}/registrations", h.SubmitRegistration, withUser(req, userID, models.RoleStudent))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/events/7" {
		t.Errorf("Location = %q, want /events/7", loc)
	}
	if gotProof == nil || gotProof.Filename != "proof.png" || gotProof.ContentType != "image/png" || gotBody != "png-bytes" {
		t.Errorf("unexpected proof passed to service: %+v body=%q", gotProof, gotBody)
	}
}

func TestSubmitRegistration_MissingScreenshotIs400(t *testing.T) {
	svc := &stubRegistrationService{submit: func(_ context.Context, _ uuid.UUID, _ int, _ services.SubmitRegistrationInput, proof *services.PaymentProof) (*models.Registration, error) {
		if proof != nil {
			t.Error("expected nil proof")
		}
		return nil, services.ErrScreenshotRequired
	}}
	h := NewRegistrationHandler(svc, 5<<20)

	body, contentType := multipartRegistration(t, "UPI123456789", false)
	req := httptest.NewRequest(http.MethodPost, "/events/7/registrations", body)
	req.Header.Set("Content-Type", contentType)
	rr := serve(t, http.MethodPost, "/events/{eventID}/registrations", h.SubmitRegistration, withUser(req, uuid.New(), models.RoleStudent))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if msg := decodeBody(t, rr)["error"]; msg != "payment screenshot is required" {
		t.Errorf("unexpected error message %v", msg)
	}
}

func TestSubmitRegistration_ServiceErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"transaction_id": "must be at least 5 characters"}}, http.StatusUnprocessableEntity},
		{"team size", &services.TeamSizeError{Min: 3, Max: 5}, http.StatusBadRequest},
		{"duplicate", services.ErrAlreadyRegistered, http.StatusConflict},
		{"inactive", services.ErrEventInactive, http.StatusForbidden},
		{"missing event", services.ErrEventNotFound, http.StatusNotFound},
		{"storage", errors.Join(services.ErrSubmissionFailed, errors.New("bucket down")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubRegistrationService{submit: func(context.Context, uuid.UUID, int, services.SubmitRegistrationInput, *services.PaymentProof) (*models.Registration, error) {
				return nil, tt.err
			}}
			h := NewRegistrationHandler(svc, 5<<20)
			body, contentType := multipartRegistration(t, "UPI123456789", true)
			req := httptest.NewRequest(http.MethodPost, "/events/7/registrations", body)
			req.Header.Set("Content-Type", contentType)
			rr := serve(t, http.MethodPost, "/events/{eventID}/registrations", h.SubmitRegistration, withUser(req, uuid.New(), models.RoleStudent))

			if rr.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestSubmitRegistration_RequiresUser(t *testing.T) {
	h := NewRegistrationHandler(&stubRegistrationService{}, 5<<20)
	body, contentType := multipartRegistration(t, "UPI123456789", true)
	req := httptest.NewRequest(http.MethodPost, "/events/7/registrations", body)
	req.Header.Set("Content-Type", contentType)
	rr := serve(t, http.MethodPost, "/events/{eventID}/registrations", h.SubmitRegistration, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

// --- review ---

func TestUpdateStatus_NotPendingIs409(t *testing.T) {
	h := NewReviewHandler(&stubReviewService{updateErr: services.ErrRegistrationNotPending})
	req := httptest.NewRequest(http.MethodPatch, "/admin/registrations/5/status", strings.NewReader(`{"status":"rejected"}`))
	rr := serve(t, http.MethodPatch, "/admin/registrations/{registrationID}/status", h.UpdateStatus, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestApprove(t *testing.T) {
	h := NewReviewHandler(&stubReviewService{})
	req := httptest.NewRequest(http.MethodPost, "/admin/registrations/5/approve", nil)
	rr := serve(t, http.MethodPost, "/admin/registrations/{registrationID}/approve", h.Approve, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	reg, _ := decodeBody(t, rr)["registration"].(map[string]interface{})
	if reg["status"] != "confirmed" {
		t.Errorf("unexpected registration %v", reg)
	}
}

func TestGetScreenshotURL(t *testing.T) {
	h := NewReviewHandler(&stubReviewService{presignURL: "https://storage.test/signed"})
	req := httptest.NewRequest(http.MethodGet, "/admin/registrations/5/screenshot", nil)
	rr := serve(t, http.MethodGet, "/admin/registrations/{registrationID}/screenshot", h.GetScreenshotURL, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["url"] != "https://storage.test/signed" || body["expires_in"] != float64(60) {
		t.Errorf("unexpected body %v", body)
	}

	h = NewReviewHandler(&stubReviewService{presignErr: services.ErrScreenshotUnavailable})
	rr = serve(t, http.MethodGet, "/admin/registrations/{registrationID}/screenshot", h.GetScreenshotURL,
		httptest.NewRequest(http.MethodGet, "/admin/registrations/5/screenshot", nil))
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
	if msg := decodeBody(t, rr)["error"]; msg != "could not load screenshot" {
		t.Errorf("unexpected error %v", msg)
	}
}

func TestExportRegistrations_CSVHeadersAndRows(t *testing.T) {
	list := []models.RegistrationDetails{
		{Registration: models.Registration{ID: 1, Status: models.RegistrationConfirmed}, Profile: models.RegistrationProfileSummary{FullName: "Asha", School: "SOET"}},
		{Registration: models.Registration{ID: 2, Status: models.RegistrationPending}, Profile: models.RegistrationProfileSummary{FullName: "Bilal", School: "SOET"}},
		{Registration: models.Registration{ID: 3, Status: models.RegistrationConfirmed}, Profile: models.RegistrationProfileSummary{FullName: "Chitra", School: "SOP"}},
	}
	h := NewReviewHandler(&stubReviewService{list: list})
	h.now = func() time.Time { return time.Date(2025, 2, 14, 18, 45, 0, 0, time.UTC) }

	req := httptest.NewRequest(http.MethodGet, "/admin/registrations/export?status=confirmed&school=SOET", nil)
	rr := serve(t, http.MethodGet, "/admin/registrations/export", h.ExportRegistrations, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != `attachment; filename="registrations_2025-02-14_18-45.csv"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	lines := strings.Split(rr.Body.String(), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], `"Asha",`) {
		t.Errorf("expected header + 1 row, got %q", rr.Body.String())
	}
}

// --- coordinator lookup ---

func TestLookupStudent(t *testing.T) {
	tests := []struct {
		name    string
		svc     *stubProfileService
		want    int
		wantMsg string
	}{
		{"found", &stubProfileService{profile: &models.Profile{ID: uuid.New(), FullName: "Neha", Email: "neha@college.edu"}}, http.StatusOK, ""},
		{"not found", &stubProfileService{findErr: services.ErrStudentNotFound}, http.StatusNotFound, "student not found with this email"},
		{"lookup failure", &stubProfileService{findErr: errors.Join(services.ErrStudentLookupFailed, errors.New("db down"))}, http.StatusInternalServerError, "error searching for student"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCoordinatorHandler(nil, tt.svc)
			req := httptest.NewRequest(http.MethodGet, "/admin/profiles/lookup?email=neha@college.edu", nil)
			rr := serve(t, http.MethodGet, "/admin/profiles/lookup", h.LookupStudent, req)

			if rr.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rr.Code)
			}
			body := decodeBody(t, rr)
			if tt.wantMsg != "" && body["error"] != tt.wantMsg {
				t.Errorf("error = %v, want %q", body["error"], tt.wantMsg)
			}
			if tt.want == http.StatusOK {
				profile, _ := body["profile"].(map[string]interface{})
				if profile["email"] != "neha@college.edu" {
					t.Errorf("unexpected profile %v", profile)
				}
			}
		})
	}
}
