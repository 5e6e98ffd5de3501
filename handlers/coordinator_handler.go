package handlers

import (
	"net/http"
	"strings"

	"github.com/Dosada05/bonhomie-fest/middleware"
	"github.com/Dosada05/bonhomie-fest/services"
	"github.com/google/uuid"
)

type CoordinatorHandler struct {
	coordinatorService services.CoordinatorService
	profileService     services.ProfileService
}

func NewCoordinatorHandler(cs services.CoordinatorService, ps services.ProfileService) *CoordinatorHandler {
	return &CoordinatorHandler{
		coordinatorService: cs,
		profileService:     ps,
	}
}

// ListAllEvents godoc
// @Summary Все мероприятия с координаторами
// @Tags coordinators
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/events [get]
func (h *CoordinatorHandler) ListAllEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.coordinatorService.ListAllEvents(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// LookupStudent godoc
// @Summary Найти студента по email
// @Tags coordinators
// @Produce json
// @Param email query string true "Email (без учета регистра)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "student not found with this email"
// @Failure 500 {object} map[string]string "error searching for student"
// @Security BearerAuth
// @Router /admin/profiles/lookup [get]
func (h *CoordinatorHandler) LookupStudent(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.FindStudentByEmail(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"profile": jsonResponse{
		"id":        profile.ID,
		"full_name": profile.FullName,
		"email":     profile.Email,
	}}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AssignCoordinator godoc
// @Summary Назначить студента координатором
// @Tags coordinators
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param body body object true "{\"profile_id\": \"uuid\"}"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Мероприятие или профиль не найден"
// @Failure 409 {object} map[string]string "this student is already a coordinator for this event"
// @Security BearerAuth
// @Router /admin/events/{eventID}/coordinators [post]
func (h *CoordinatorHandler) AssignCoordinator(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		ProfileID string `json:"profile_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	profileID, err := uuid.Parse(strings.TrimSpace(input.ProfileID))
	if err != nil {
		failedValidationResponse(w, r, map[string]string{"profile_id": "invalid format"})
		return
	}

	event, err := h.coordinatorService.AssignCoordinator(r.Context(), eventID, profileID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemoveCoordinator godoc
// @Summary Снять студента с роли координатора
// @Tags coordinators
// @Produce json
// @Param eventID path int true "Event ID"
// @Param profileID path string true "Profile ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Мероприятие не найдено"
// @Security BearerAuth
// @Router /admin/events/{eventID}/coordinators/{profileID} [delete]
func (h *CoordinatorHandler) RemoveCoordinator(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	profileID, err := getUUIDFromURL(r, "profileID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.coordinatorService.RemoveCoordinator(r.Context(), eventID, profileID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MyEvents godoc
// @Summary Мероприятия, где текущий студент координатор
// @Tags coordinator
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /coordinator/events [get]
func (h *CoordinatorHandler) MyEvents(w http.ResponseWriter, r *http.Request) {
	profileID, err := middleware.GetProfileIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	events, err := h.coordinatorService.MyEvents(r.Context(), profileID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateMyEvent godoc
// @Summary Изменить описание, площадку и правила своего мероприятия
// @Tags coordinator
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param body body services.UpdateCoordinatorEventInput true "rules — по правилу на строку"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Не координатор этого мероприятия"
// @Security BearerAuth
// @Router /coordinator/events/{eventID} [patch]
func (h *CoordinatorHandler) UpdateMyEvent(w http.ResponseWriter, r *http.Request) {
	profileID, err := middleware.GetProfileIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateCoordinatorEventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.coordinatorService.UpdateMyEvent(r.Context(), profileID, eventID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// EventRegistrations godoc
// @Summary Участники своего мероприятия
// @Tags coordinator
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Не координатор этого мероприятия"
// @Security BearerAuth
// @Router /coordinator/events/{eventID}/registrations [get]
func (h *CoordinatorHandler) EventRegistrations(w http.ResponseWriter, r *http.Request) {
	profileID, eventID, ok := h.coordinatorParams(w, r)
	if !ok {
		return
	}

	_, list, err := h.coordinatorService.EventRegistrants(r.Context(), profileID, eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"registrations": list}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ExportEventRegistrations godoc
// @Summary Выгрузка участников своего мероприятия в CSV
// @Tags coordinator
// @Produce text/csv
// @Param eventID path int true "Event ID"
// @Success 200 {file} file "CSV"
// @Failure 403 {object} map[string]string "Не координатор этого мероприятия"
// @Security BearerAuth
// @Router /coordinator/events/{eventID}/registrations/export [get]
func (h *CoordinatorHandler) ExportEventRegistrations(w http.ResponseWriter, r *http.Request) {
	profileID, eventID, ok := h.coordinatorParams(w, r)
	if !ok {
		return
	}

	event, list, err := h.coordinatorService.EventRegistrants(r.Context(), profileID, eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeCSV(w, r, services.EventRegistrationsExportFilename(event.Name), list)
}

func (h *CoordinatorHandler) coordinatorParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, int, bool) {
	profileID, err := middleware.GetProfileIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return uuid.Nil, 0, false
	}
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return uuid.Nil, 0, false
	}
	return profileID, eventID, true
}
