package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventCategory string

const (
	CategoryCultural  EventCategory = "Cultural"
	CategoryTechnical EventCategory = "Technical"
	CategorySports    EventCategory = "Sports"
)

type EventSubcategory string

const (
	SubcategoryIndividual EventSubcategory = "Individual"
	SubcategoryGroup      EventSubcategory = "Group"
)

type FacultyCoordinator struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type StudentCoordinator struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Name      string    `json:"name"`
}

// FacultyCoordinators хранится в JSONB колонке.
type FacultyCoordinators []FacultyCoordinator

func (c FacultyCoordinators) Value() (driver.Value, error) { return marshalJSONB(c) }

func (c *FacultyCoordinators) Scan(src interface{}) error { return unmarshalJSONB(src, c) }

// StudentCoordinators хранится в JSONB колонке и всегда перезаписывается целиком.
type StudentCoordinators []StudentCoordinator

func (c StudentCoordinators) Value() (driver.Value, error) { return marshalJSONB(c) }

func (c *StudentCoordinators) Scan(src interface{}) error { return unmarshalJSONB(src, c) }

func (c StudentCoordinators) Contains(profileID uuid.UUID) bool {
	for _, sc := range c {
		if sc.ProfileID == profileID {
			return true
		}
	}
	return false
}

// Without возвращает новый список без указанного профиля.
func (c StudentCoordinators) Without(profileID uuid.UUID) StudentCoordinators {
	out := make(StudentCoordinators, 0, len(c))
	for _, sc := range c {
		if sc.ProfileID != profileID {
			out = append(out, sc)
		}
	}
	return out
}

// Event представляет мероприятие феста.
type Event struct {
	ID                  int                 `json:"id" db:"id"`
	Name                string              `json:"name" db:"name"`
	Description         string              `json:"description" db:"description"`
	Category            EventCategory       `json:"category" db:"category"`
	Subcategory         EventSubcategory    `json:"subcategory" db:"subcategory"`
	MinTeamSize         *int                `json:"min_team_size,omitempty" db:"min_team_size"`
	MaxTeamSize         *int                `json:"max_team_size,omitempty" db:"max_team_size"`
	Fee                 int                 `json:"fee" db:"fee"`
	EventDate           *time.Time          `json:"event_date,omitempty" db:"event_date"`
	Day                 string              `json:"day" db:"day"`
	StartTime           string              `json:"start_time" db:"start_time"`
	EndTime             string              `json:"end_time" db:"end_time"`
	Venue               string              `json:"venue" db:"venue"`
	VenueDetails        string              `json:"venue_details" db:"venue_details"`
	Rules               []string            `json:"rules" db:"rules"`
	FacultyCoordinators FacultyCoordinators `json:"faculty_coordinators" db:"faculty_coordinators"`
	StudentCoordinators StudentCoordinators `json:"student_coordinators" db:"student_coordinators"`
	WinnerProfileID     *uuid.UUID          `json:"winner_profile_id,omitempty" db:"winner_profile_id"`
	RunnerUpProfileID   *uuid.UUID          `json:"runnerup_profile_id,omitempty" db:"runnerup_profile_id"`
	IsActive            bool                `json:"is_active" db:"is_active"`
	ImagePath           string              `json:"image_path,omitempty" db:"image_path"`
	CreatedAt           time.Time           `json:"created_at" db:"created_at"`

	// Заполняются при выдаче деталей мероприятия
	WinnerName   *string `json:"winner_name,omitempty" db:"-"`
	RunnerUpName *string `json:"runnerup_name,omitempty" db:"-"`
}

func (e *Event) IsGroup() bool {
	return e.Subcategory == SubcategoryGroup
}

// TeamSizeBounds возвращает допустимый размер команды (включая самого регистрирующегося).
// Для индивидуальных мероприятий это всегда [1, 1].
func (e *Event) TeamSizeBounds() (min, max int) {
	if !e.IsGroup() {
		return 1, 1
	}
	min, max = 1, 1
	if e.MinTeamSize != nil {
		min = *e.MinTeamSize
	}
	if e.MaxTeamSize != nil {
		max = *e.MaxTeamSize
	}
	return min, max
}

// RulesText склеивает правила в многострочный текст для формы редактирования.
func (e *Event) RulesText() string {
	return strings.Join(e.Rules, "\n")
}

// ParseRules превращает многострочный текст в упорядоченный список правил, пустые строки отбрасываются.
func ParseRules(text string) []string {
	rules := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rules = append(rules, line)
	}
	return rules
}

func marshalJSONB(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func unmarshalJSONB(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("unsupported JSONB source type")
	}
}
