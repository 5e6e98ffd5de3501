package models

// DashboardStats — сводка для страницы расширенной статистики.
type DashboardStats struct {
	ProfilesTotal      int `json:"profiles_total"`
	StudentsTotal      int `json:"students_total"`
	EventsTotal        int `json:"events_total"`
	ActiveEvents       int `json:"active_events"`
	RegistrationsTotal int `json:"registrations_total"`
	Pending            int `json:"pending"`
	Confirmed          int `json:"confirmed"`
	Rejected           int `json:"rejected"`
	ConfirmedRevenue   int `json:"confirmed_revenue"`

	ByCategory []CategoryBreakdown `json:"by_category"`
	ByEvent    []EventBreakdown    `json:"by_event"`
}

type CategoryBreakdown struct {
	Category         EventCategory `json:"category"`
	Registrations    int           `json:"registrations"`
	Confirmed        int           `json:"confirmed"`
	ConfirmedRevenue int           `json:"confirmed_revenue"`
}

type EventBreakdown struct {
	EventID          int           `json:"event_id"`
	EventName        string        `json:"event_name"`
	Category         EventCategory `json:"category"`
	Registrations    int           `json:"registrations"`
	Pending          int           `json:"pending"`
	Confirmed        int           `json:"confirmed"`
	Rejected         int           `json:"rejected"`
	ConfirmedRevenue int           `json:"confirmed_revenue"`
}
