package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Dosada05/bonhomie-fest/middleware"
	"github.com/Dosada05/bonhomie-fest/models"
	"github.com/Dosada05/bonhomie-fest/services"
)

type RegistrationHandler struct {
	registrationService services.RegistrationService
	maxUploadBytes      int64
}

func NewRegistrationHandler(rs services.RegistrationService, maxUploadBytes int64) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: rs,
		maxUploadBytes:      maxUploadBytes,
	}
}

// SubmitRegistration godoc
// @Summary Зарегистрироваться на мероприятие
// @Tags registrations
// @Description Multipart форма: transaction_id, team_members (JSON массив {name, email, roll_number}), payment_screenshot (файл).
// @Accept multipart/form-data
// @Produce json
// @Param eventID path int true "Event ID"
// @Param transaction_id formData string true "UPI transaction ID"
// @Param team_members formData string false "JSON массив участников команды"
// @Param payment_screenshot formData file true "Скриншот оплаты"
// @Success 201 {object} map[string]interface{} "Заявка создана"
// @Failure 400 {object} map[string]string "Нет скриншота / неверный размер команды"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Регистрация закрыта"
// @Failure 404 {object} map[string]string "Мероприятие не найдено"
// @Failure 409 {object} map[string]string "Уже зарегистрирован"
// @Failure 422 {object} map[string]interface{} "Ошибки валидации по полям"
// @Security BearerAuth
// @Router /events/{eventID}/registrations [post]
func (h *RegistrationHandler) SubmitRegistration(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profileID, err := middleware.GetProfileIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	input := services.SubmitRegistrationInput{
		TransactionID: r.FormValue("transaction_id"),
		TeamMembers:   models.TeamMembers{},
	}
	if raw := strings.TrimSpace(r.FormValue("team_members")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.TeamMembers); err != nil {
			badRequestResponse(w, r, errors.New("team_members must be a JSON array of {name, email, roll_number}"))
			return
		}
	}

	var proof *services.PaymentProof
	file, header, err := r.FormFile("payment_screenshot")
	switch {
	case err == nil:
		defer file.Close()
		if header.Size > h.maxUploadBytes {
			badRequestResponse(w, r, fmt.Errorf("payment screenshot must not be larger than %d bytes", h.maxUploadBytes))
			return
		}
		proof = &services.PaymentProof{
			Reader:      file,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
		}
	case errors.Is(err, http.ErrMissingFile):
		// проверка обязательности скриншота делается сервисом после валидации полей
	default:
		badRequestResponse(w, r, fmt.Errorf("failed to read payment screenshot: %w", err))
		return
	}

	reg, err := h.registrationService.Submit(r.Context(), profileID, eventID, input, proof)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/events/%d", eventID))

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"registration": reg}, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}
