package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Dosada05/bonhomie-fest/middleware"
	"github.com/Dosada05/bonhomie-fest/services"
)

type AuthHandler struct {
	authService     services.AuthService
	profileService  services.ProfileService
	identityService services.IdentityService
	jwtSecret       string
}

func NewAuthHandler(authService services.AuthService, profileService services.ProfileService, identityService services.IdentityService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		profileService:  profileService,
		identityService: identityService,
		jwtSecret:       jwtSecret,
	}
}

// Register godoc
// @Summary Регистрация аккаунта студента
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Email, пароль и анкета"
// @Success 201 {object} map[string]interface{} "Профиль создан"
// @Failure 400 {object} map[string]string "Некорректный JSON"
// @Failure 409 {object} map[string]string "Email уже занят"
// @Failure 422 {object} map[string]interface{} "Ошибки валидации по полям"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput

	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Login godoc
// @Summary Вход по email и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Email и пароль"
// @Success 200 {object} map[string]string "JWT токен"
// @Failure 400 {object} map[string]string "Некорректный запрос"
// @Failure 401 {object} map[string]string "Неверный email или пароль"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput

	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if input.Email == "" || input.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	profile, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret, profile.ID, profile.Role, time.Now())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": token}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Me godoc
// @Summary Текущий пользователь и его права
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{} "Профиль и capabilities"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	profileID, err := middleware.GetProfileIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), profileID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	caps, err := h.identityService.Capabilities(r.Context(), profileID, role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile, "capabilities": caps}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
