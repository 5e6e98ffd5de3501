package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleFaculty UserRole = "faculty"
	RoleAdmin   UserRole = "admin"
)

// Profile — учетная запись студента/преподавателя вместе с анкетными данными.
type Profile struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	FullName            string    `json:"full_name" db:"full_name"`
	Email               string    `json:"email" db:"email"`
	RollNumber          string    `json:"roll_number" db:"roll_number"`
	School              string    `json:"school" db:"school"`
	Department          string    `json:"department" db:"department"`
	Program             string    `json:"program" db:"program"`
	YearOfStudy         string    `json:"year_of_study" db:"year_of_study"`
	AdmissionYear       string    `json:"admission_year" db:"admission_year"`
	ExpectedPassoutYear string    `json:"expected_passout_year" db:"expected_passout_year"`
	Phone               string    `json:"phone" db:"phone"`
	Gender              string    `json:"gender" db:"gender"`
	Role                UserRole  `json:"role" db:"role"`
	PasswordHash        string    `json:"-" db:"password_hash"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// Capabilities объединяет все признаки доступа текущего пользователя.
type Capabilities struct {
	IsAdmin             bool  `json:"is_admin"`
	IsFaculty           bool  `json:"is_faculty"`
	IsCoordinator       bool  `json:"is_coordinator"`
	CoordinatedEventIDs []int `json:"coordinated_event_ids"`
}

func (c Capabilities) CanReview() bool {
	return c.IsAdmin || c.IsFaculty
}

func (c Capabilities) Coordinates(eventID int) bool {
	for _, id := range c.CoordinatedEventIDs {
		if id == eventID {
			return true
		}
	}
	return false
}

// ProfileFilter — параметры постраничного списка профилей для администратора.
type ProfileFilter struct {
	Search string
	Role   *UserRole
	Page   int
	Limit  int
}

type ProfileListResponse struct {
	Profiles   []Profile `json:"profiles"`
	TotalCount int       `json:"total_count"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
}

func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}
