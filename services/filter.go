package services

import (
	"net/url"
	"strings"

	"github.com/Dosada05/bonhomie-fest/models"
)

// StatusAll — значение фильтра статуса, отключающее его.
const StatusAll = "all"

// RegistrationFilter — фильтр списка заявок. Пустое поле не участвует в отборе,
// все заданные условия объединяются через И.
type RegistrationFilter struct {
	Category      string `json:"category"`
	Subcategory   string `json:"subcategory"`
	EventName     string `json:"event_name"`
	Status        string `json:"status"`
	StudentName   string `json:"student_name"`
	Email         string `json:"email"`
	RollNumber    string `json:"roll_number"`
	TransactionID string `json:"transaction_id"`
	School        string `json:"school"`
	Department    string `json:"department"`
	Gender        string `json:"gender"`
	YearOfStudy   string `json:"year_of_study"`
}

func DefaultRegistrationFilter() RegistrationFilter {
	return RegistrationFilter{Status: StatusAll}
}

// RegistrationFilterFromQuery читает фильтр из query-параметров запроса.
func RegistrationFilterFromQuery(q url.Values) RegistrationFilter {
	f := DefaultRegistrationFilter()
	f.Category = strings.TrimSpace(q.Get("category"))
	f.Subcategory = strings.TrimSpace(q.Get("subcategory"))
	f.EventName = strings.TrimSpace(q.Get("event_name"))
	if s := strings.TrimSpace(q.Get("status")); s != "" {
		f.Status = s
	}
	f.StudentName = strings.TrimSpace(q.Get("student_name"))
	f.Email = strings.TrimSpace(q.Get("email"))
	f.RollNumber = strings.TrimSpace(q.Get("roll_number"))
	f.TransactionID = strings.TrimSpace(q.Get("transaction_id"))
	f.School = strings.TrimSpace(q.Get("school"))
	f.Department = strings.TrimSpace(q.Get("department"))
	f.Gender = strings.TrimSpace(q.Get("gender"))
	f.YearOfStudy = strings.TrimSpace(q.Get("year_of_study"))
	return f
}

func (f RegistrationFilter) Matches(r *models.RegistrationDetails) bool {
	if f.Status != "" && f.Status != StatusAll && string(r.Status) != f.Status {
		return false
	}

	if f.Category != "" && string(r.Event.Category) != f.Category {
		return false
	}
	if f.Subcategory != "" && string(r.Event.Subcategory) != f.Subcategory {
		return false
	}
	if f.EventName != "" && r.Event.Name != f.EventName {
		return false
	}

	if !containsFold(r.Profile.FullName, f.StudentName) ||
		!containsFold(r.Profile.Email, f.Email) ||
		!containsFold(r.Profile.RollNumber, f.RollNumber) ||
		!containsFold(r.TransactionID, f.TransactionID) {
		return false
	}

	if f.School != "" && r.Profile.School != f.School {
		return false
	}
	if f.Department != "" && r.Profile.Department != f.Department {
		return false
	}
	if f.Gender != "" && r.Profile.Gender != f.Gender {
		return false
	}
	if f.YearOfStudy != "" && r.Profile.YearOfStudy != f.YearOfStudy {
		return false
	}
	return true
}

// ApplyRegistrationFilter возвращает подмножество заявок в исходном порядке.
func ApplyRegistrationFilter(list []models.RegistrationDetails, f RegistrationFilter) []models.RegistrationDetails {
	out := make([]models.RegistrationDetails, 0, len(list))
	for i := range list {
		if f.Matches(&list[i]) {
			out = append(out, list[i])
		}
	}
	return out
}

func containsFold(value, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}

// RegistrationFilterState хранит черновик фильтра (редактируется) и примененный фильтр.
type RegistrationFilterState struct {
	Draft   RegistrationFilter
	Applied RegistrationFilter
}

func NewRegistrationFilterState() *RegistrationFilterState {
	return &RegistrationFilterState{
		Draft:   DefaultRegistrationFilter(),
		Applied: DefaultRegistrationFilter(),
	}
}

// Search применяет черновик.
func (s *RegistrationFilterState) Search() {
	s.Applied = s.Draft
}

// Clear сбрасывает и черновик, и примененный фильтр.
func (s *RegistrationFilterState) Clear() {
	s.Draft = DefaultRegistrationFilter()
	s.Applied = DefaultRegistrationFilter()
}

func (s *RegistrationFilterState) View(list []models.RegistrationDetails) []models.RegistrationDetails {
	return ApplyRegistrationFilter(list, s.Applied)
}

// ComputeRegistrationStats считает статистику по полному (нефильтрованному) списку.
func ComputeRegistrationStats(list []models.RegistrationDetails) models.RegistrationStats {
	stats := models.RegistrationStats{Total: len(list)}
	for _, r := range list {
		switch r.Status {
		case models.RegistrationPending:
			stats.Pending++
		case models.RegistrationConfirmed:
			stats.ConfirmedRevenue += r.Event.Fee
		}
	}
	return stats
}
