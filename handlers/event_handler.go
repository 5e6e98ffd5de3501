package handlers

import (
	"net/http"

	"github.com/Dosada05/bonhomie-fest/middleware"
	"github.com/Dosada05/bonhomie-fest/services"
	"github.com/google/uuid"
)

type EventHandler struct {
	eventService services.EventService
}

func NewEventHandler(es services.EventService) *EventHandler {
	return &EventHandler{eventService: es}
}

// ListEvents godoc
// @Summary Список мероприятий
// @Tags events
// @Produce json
// @Param category query string false "Cultural | Technical | Sports"
// @Param subcategory query string false "Individual | Group"
// @Success 200 {object} map[string]interface{}
// @Router /events [get]
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	events, err := h.eventService.ListEvents(r.Context(), services.ListEventsFilter{
		Category:    q.Get("category"),
		Subcategory: q.Get("subcategory"),
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetEvent godoc
// @Summary Детали мероприятия
// @Tags events
// @Description Для вошедшего пользователя дополнительно возвращается его заявка.
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} services.EventDetail
// @Failure 404 {object} map[string]string "Мероприятие не найдено"
// @Router /events/{eventID} [get]
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var viewerID *uuid.UUID
	if id, err := middleware.GetProfileIDFromContext(r.Context()); err == nil {
		viewerID = &id
	}

	detail, err := h.eventService.GetEventDetail(r.Context(), eventID, viewerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, detail, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetRegistrationForm godoc
// @Summary Данные для формы регистрации
// @Tags registrations
// @Description Взнос, ссылка на оплату UPI и допустимый размер команды.
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} services.RegistrationForm
// @Failure 403 {object} map[string]string "Регистрация закрыта"
// @Failure 404 {object} map[string]string "Мероприятие не найдено"
// @Security BearerAuth
// @Router /events/{eventID}/registration-form [get]
func (h *EventHandler) GetRegistrationForm(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	form, err := h.eventService.GetRegistrationForm(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, form, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateEvent godoc
// @Summary Создать мероприятие
// @Tags admin
// @Accept json
// @Produce json
// @Param body body services.EventInput true "Поля мероприятия"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Название занято"
// @Failure 422 {object} map[string]interface{} "Ошибки валидации по полям"
// @Security BearerAuth
// @Router /admin/events [post]
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var input services.EventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.CreateEvent(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateEvent godoc
// @Summary Обновить мероприятие
// @Tags admin
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param body body services.EventInput true "Поля мероприятия"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Мероприятие не найдено"
// @Failure 422 {object} map[string]interface{} "Ошибки валидации по полям"
// @Security BearerAuth
// @Router /admin/events/{eventID} [put]
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.EventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.UpdateEvent(r.Context(), eventID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetResults godoc
// @Summary Записать победителя и призера
// @Tags admin
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param body body services.EventResultsInput true "ID профилей"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Мероприятие или профиль не найден"
// @Security BearerAuth
// @Router /admin/events/{eventID}/results [put]
func (h *EventHandler) SetResults(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.EventResultsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.SetResults(r.Context(), eventID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
