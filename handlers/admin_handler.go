package handlers

import (
	"net/http"
	"strconv"

	"github.com/Dosada05/bonhomie-fest/middleware"
	"github.com/Dosada05/bonhomie-fest/models"
	"github.com/Dosada05/bonhomie-fest/services"
)

type AdminProfileHandler struct {
	adminProfileService services.AdminProfileService
}

func NewAdminProfileHandler(s services.AdminProfileService) *AdminProfileHandler {
	return &AdminProfileHandler{adminProfileService: s}
}

type setRoleRequest struct {
	Role models.UserRole `json:"role"`
}

// ListProfiles godoc
// @Summary Список профилей
// @Description Постраничный поиск по имени, email и номеру зачетки; фильтр по роли.
// @Tags admin
// @Produce json
// @Param search query string false "Поиск"
// @Param role query string false "student | faculty | admin"
// @Param page query int false "Страница (с 1)"
// @Param limit query int false "Размер страницы (до 100)"
// @Success 200 {object} models.ProfileListResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /admin/profiles [get]
func (h *AdminProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ProfileFilter{
		Search: q.Get("search"),
		Page:   toInt(q.Get("page"), 1),
		Limit:  toInt(q.Get("limit"), 20),
	}
	if role := q.Get("role"); role != "" {
		userRole := models.UserRole(role)
		filter.Role = &userRole
	}

	res, err := h.adminProfileService.ListProfiles(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, res, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetRole godoc
// @Summary Изменить роль профиля
// @Tags admin
// @Accept json
// @Produce json
// @Param profileID path string true "Profile ID (uuid)"
// @Param body body setRoleRequest true "Новая роль"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string "Нельзя снять роль admin с себя"
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/profiles/{profileID}/role [patch]
func (h *AdminProfileHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetProfileIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	profileID, err := getUUIDFromURL(r, "profileID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input setRoleRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.adminProfileService.SetRole(r.Context(), actorID, profileID, input.Role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func toInt(s string, def int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return def
}
