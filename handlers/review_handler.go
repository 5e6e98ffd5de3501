package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/Dosada05/bonhomie-fest/models"
	"github.com/Dosada05/bonhomie-fest/services"
)

type ReviewHandler struct {
	reviewService services.ReviewService
	now           func() time.Time
}

func NewReviewHandler(rs services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: rs, now: time.Now}
}

// ListRegistrations godoc
// @Summary Заявки с фильтрами, статистикой и вариантами фильтров
// @Tags review
// @Description Статистика считается по всем заявкам, список отфильтрован. Статус по умолчанию all.
// @Produce json
// @Param category query string false "Категория мероприятия"
// @Param subcategory query string false "Подкатегория мероприятия"
// @Param event_name query string false "Название мероприятия"
// @Param status query string false "all | pending | confirmed | rejected"
// @Param student_name query string false "Подстрока имени"
// @Param email query string false "Подстрока email"
// @Param roll_number query string false "Подстрока roll number"
// @Param transaction_id query string false "Подстрока transaction id"
// @Param school query string false "Школа"
// @Param department query string false "Отделение"
// @Param gender query string false "Пол"
// @Param year_of_study query string false "Курс"
// @Success 200 {object} services.ReviewList
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Только admin или faculty"
// @Security BearerAuth
// @Router /admin/registrations [get]
func (h *ReviewHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	filter := services.RegistrationFilterFromQuery(r.URL.Query())

	list, err := h.reviewService.ListRegistrations(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, list, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateStatus godoc
// @Summary Подтвердить или отклонить заявку
// @Tags review
// @Accept json
// @Produce json
// @Param registrationID path int true "Registration ID"
// @Param body body object true "{\"status\": \"confirmed\" | \"rejected\"}"
// @Success 200 {object} map[string]interface{} "Обновленная заявка"
// @Failure 400 {object} map[string]string "Недопустимый статус"
// @Failure 404 {object} map[string]string "Заявка не найдена"
// @Failure 409 {object} map[string]string "Заявка уже рассмотрена"
// @Security BearerAuth
// @Router /admin/registrations/{registrationID}/status [patch]
func (h *ReviewHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Status models.RegistrationStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.setStatus(w, r, input.Status)
}

// Approve godoc
// @Summary Подтвердить заявку
// @Tags review
// @Produce json
// @Param registrationID path int true "Registration ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Заявка уже рассмотрена"
// @Security BearerAuth
// @Router /admin/registrations/{registrationID}/approve [post]
func (h *ReviewHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.RegistrationConfirmed)
}

// Reject godoc
// @Summary Отклонить заявку
// @Tags review
// @Produce json
// @Param registrationID path int true "Registration ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Заявка уже рассмотрена"
// @Security BearerAuth
// @Router /admin/registrations/{registrationID}/reject [post]
func (h *ReviewHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.RegistrationRejected)
}

func (h *ReviewHandler) setStatus(w http.ResponseWriter, r *http.Request, status models.RegistrationStatus) {
	registrationID, err := getIDFromURL(r, "registrationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reg, err := h.reviewService.UpdateStatus(r.Context(), registrationID, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"registration": reg}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ExportRegistrations godoc
// @Summary Выгрузка отфильтрованных заявок в CSV
// @Tags review
// @Produce text/csv
// @Param status query string false "all | pending | confirmed | rejected"
// @Success 200 {file} file "CSV"
// @Security BearerAuth
// @Router /admin/registrations/export [get]
func (h *ReviewHandler) ExportRegistrations(w http.ResponseWriter, r *http.Request) {
	filter := services.RegistrationFilterFromQuery(r.URL.Query())

	list, err := h.reviewService.FilteredRegistrations(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeCSV(w, r, services.RegistrationsExportFilename(h.now()), list)
}

// GetScreenshotURL godoc
// @Summary Временная ссылка на скриншот оплаты
// @Tags review
// @Description Ссылка действует 60 секунд.
// @Produce json
// @Param registrationID path int true "Registration ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Заявка не найдена"
// @Failure 502 {object} map[string]string "Не удалось получить скриншот"
// @Security BearerAuth
// @Router /admin/registrations/{registrationID}/screenshot [get]
func (h *ReviewHandler) GetScreenshotURL(w http.ResponseWriter, r *http.Request) {
	registrationID, err := getIDFromURL(r, "registrationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	url, err := h.reviewService.ScreenshotURL(r.Context(), registrationID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"url": url, "expires_in": int(services.ScreenshotURLTTL.Seconds())}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// writeCSV буферизует выгрузку целиком, чтобы ошибку можно было отдать как JSON.
func writeCSV(w http.ResponseWriter, r *http.Request, filename string, list []models.RegistrationDetails) {
	var buf bytes.Buffer
	if err := services.WriteRegistrationsCSV(&buf, list); err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
