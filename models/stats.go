package models

type RegistrationStats struct {
	Total            int `json:"total"`
	Pending          int `json:"pending"`
	ConfirmedRevenue int `json:"confirmed_revenue"`
}

type FilterOptions struct {
	Schools     []string `json:"schools"`
	Departments []string `json:"departments"`
	EventNames  []string `json:"event_names"`
}
