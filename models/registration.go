package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationRejected  RegistrationStatus = "rejected"
)

// CanTransitionTo — из pending можно перейти только в confirmed или rejected,
// остальные статусы терминальные.
func (s RegistrationStatus) CanTransitionTo(next RegistrationStatus) bool {
	return s == RegistrationPending && (next == RegistrationConfirmed || next == RegistrationRejected)
}

type TeamMember struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	RollNumber string `json:"roll_number" validate:"required"`
}

type TeamMembers []TeamMember

func (m TeamMembers) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	return marshalJSONB(m)
}

func (m *TeamMembers) Scan(src interface{}) error { return unmarshalJSONB(src, m) }

// Registration — заявка студента (или команды) на мероприятие.
type Registration struct {
	ID                    int                `json:"id" db:"id"`
	EventID               int                `json:"event_id" db:"event_id"`
	ProfileID             uuid.UUID          `json:"profile_id" db:"profile_id"`
	TransactionID         string             `json:"transaction_id" db:"transaction_id"`
	PaymentScreenshotPath string             `json:"payment_screenshot_path" db:"payment_screenshot_path"`
	TeamMembers           TeamMembers        `json:"team_members" db:"team_members"`
	Status                RegistrationStatus `json:"status" db:"status"`
	RegisteredAt          time.Time          `json:"registered_at" db:"registered_at"`
}

// RegistrationEventSummary — поля мероприятия, нужные для просмотра заявок.
type RegistrationEventSummary struct {
	Name        string           `json:"name"`
	Fee         int              `json:"fee"`
	Category    EventCategory    `json:"category"`
	Subcategory EventSubcategory `json:"subcategory"`
}

// RegistrationProfileSummary — поля профиля, нужные для просмотра заявок.
type RegistrationProfileSummary struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	RollNumber  string `json:"roll_number"`
	Phone       string `json:"phone"`
	School      string `json:"school"`
	Department  string `json:"department"`
	Gender      string `json:"gender"`
	YearOfStudy string `json:"year_of_study"`
	Program     string `json:"program"`
}

// RegistrationDetails — заявка вместе с данными мероприятия и профиля.
type RegistrationDetails struct {
	Registration
	Event   RegistrationEventSummary   `json:"event"`
	Profile RegistrationProfileSummary `json:"profile"`
}

// TeamRoster — состояние списка участников команды в форме регистрации.
// Add ничего не делает, если команда (вместе с регистрирующимся) уже максимального размера.
type TeamRoster struct {
	maxTeamSize int
	members     TeamMembers
}

func NewTeamRoster(event *Event) *TeamRoster {
	_, max := event.TeamSizeBounds()
	return &TeamRoster{maxTeamSize: max, members: TeamMembers{}}
}

// Capacity — сколько дополнительных участников можно добавить к регистрирующемуся.
func (t *TeamRoster) Capacity() int {
	if t.maxTeamSize <= 1 {
		return 0
	}
	return t.maxTeamSize - 1
}

func (t *TeamRoster) Add(m TeamMember) bool {
	if len(t.members)+1 >= t.maxTeamSize {
		return false
	}
	t.members = append(t.members, m)
	return true
}

func (t *TeamRoster) Remove(index int) {
	if index < 0 || index >= len(t.members) {
		return
	}
	t.members = append(t.members[:index], t.members[index+1:]...)
}

func (t *TeamRoster) Members() TeamMembers {
	return t.members
}

// Size учитывает самого регистрирующегося.
func (t *TeamRoster) Size() int {
	return len(t.members) + 1
}
