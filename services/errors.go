package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Dosada05/bonhomie-fest/pkg/validator"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден
	ErrNotFound             = errors.New("requested resource not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrStudentNotFound      = errors.New("student not found with this email")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed     = errors.New("validation failed")
	ErrScreenshotRequired   = errors.New("payment screenshot is required")
	ErrUnsupportedImageType = errors.New("payment screenshot must be an image")
	ErrTeamSizeOutOfRange   = errors.New("team size is out of range")
	ErrInvalidStatus        = errors.New("status must be either confirmed or rejected")
	ErrInvalidRole          = errors.New("role must be one of: student, faculty, admin")
	ErrEmailRequired        = errors.New("email is required")

	// Ошибки конфликтов
	ErrAlreadyRegistered      = errors.New("you are already registered for this event")
	ErrRegistrationNotPending = errors.New("only pending registrations can be approved or rejected")
	ErrCoordinatorExists      = errors.New("this student is already a coordinator for this event")
	ErrEmailConflict          = errors.New("email address is already in use")
	ErrEventNameConflict      = errors.New("event name already exists")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
	ErrEventInactive        = errors.New("registration is closed for this event")

	// Внешние зависимости
	ErrSubmissionFailed      = errors.New("registration failed")
	ErrScreenshotUnavailable = errors.New("could not load screenshot")
	ErrStudentLookupFailed   = errors.New("error searching for student")
)

// ValidationError — все невалидные поля формы, по одному сообщению на поле.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// asValidationError переводит ошибку pkg/validator в *ValidationError.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.Errors
	if errors.As(err, &fieldErrs) {
		return &ValidationError{Fields: map[string]string(fieldErrs)}
	}
	return fmt.Errorf("%w: %w", ErrValidationFailed, err)
}

// TeamSizeError сообщает нарушенную границу размера команды (с учетом регистрирующегося).
type TeamSizeError struct {
	Min     int
	Max     int
	TooMany bool
}

func (e *TeamSizeError) Error() string {
	if e.TooMany {
		return fmt.Sprintf("maximum team size is %d (including you)", e.Max)
	}
	return fmt.Sprintf("minimum team size is %d (including you)", e.Min)
}

func (e *TeamSizeError) Unwrap() error { return ErrTeamSizeOutOfRange }
