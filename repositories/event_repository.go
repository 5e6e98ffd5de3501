package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/bonhomie-fest/models"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrEventNameConflict   = errors.New("event name conflict")
	ErrEventInvalidProfile = errors.New("invalid winner or runner-up profile reference")
)

type ListEventsFilter struct {
	Category    *models.EventCategory
	Subcategory *models.EventSubcategory
}

// EventEditableFields — поля, которые может менять студент-координатор.
type EventEditableFields struct {
	Description  string
	Venue        string
	VenueDetails string
	Rules        []string
}

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context, filter ListEventsFilter) ([]models.Event, error)
	ListOrderedByName(ctx context.Context) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateEditableFields(ctx context.Context, id int, fields EventEditableFields) error
	UpdateStudentCoordinators(ctx context.Context, id int, coordinators models.StudentCoordinators) error
	UpdateResults(ctx context.Context, id int, winnerID, runnerUpID *uuid.UUID) error
	DistinctNames(ctx context.Context) ([]string, error)
	Count(ctx context.Context, filters map[string]interface{}) (int, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

var eventColumns = []string{
	"id", "name", "description", "category", "subcategory", "min_team_size", "max_team_size", "fee",
	"event_date", "day", "start_time", "end_time", "venue", "venue_details", "rules",
	"faculty_coordinators", "student_coordinators", "winner_profile_id", "runnerup_profile_id",
	"is_active", "image_path", "created_at",
}

func (r *postgresEventRepository) Create(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO events (
			name, description, category, subcategory, min_team_size, max_team_size, fee,
			event_date, day, start_time, end_time, venue, venue_details, rules,
			faculty_coordinators, student_coordinators, is_active, image_path
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at`

	if e.StudentCoordinators == nil {
		e.StudentCoordinators = models.StudentCoordinators{}
	}
	if e.FacultyCoordinators == nil {
		e.FacultyCoordinators = models.FacultyCoordinators{}
	}

	err := r.db.QueryRowContext(ctx, query,
		e.Name, e.Description, e.Category, e.Subcategory, e.MinTeamSize, e.MaxTeamSize, e.Fee,
		e.EventDate, e.Day, e.StartTime, e.EndTime, e.Venue, e.VenueDetails, pq.Array(e.Rules),
		e.FacultyCoordinators, e.StudentCoordinators, e.IsActive, e.ImagePath,
	).Scan(&e.ID, &e.CreatedAt)

	return handleEventError(err)
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query, args, err := psql.Select(eventColumns...).From("events").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build event query: %w", err)
	}

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return e, nil
}

func (r *postgresEventRepository) List(ctx context.Context, filter ListEventsFilter) ([]models.Event, error) {
	builder := psql.Select(eventColumns...).From("events")
	if filter.Category != nil {
		builder = builder.Where(sq.Eq{"category": *filter.Category})
	}
	if filter.Subcategory != nil {
		builder = builder.Where(sq.Eq{"subcategory": *filter.Subcategory})
	}
	builder = builder.OrderBy("event_date ASC NULLS LAST", "name ASC")
	return r.queryEvents(ctx, builder)
}

func (r *postgresEventRepository) ListOrderedByName(ctx context.Context) ([]models.Event, error) {
	return r.queryEvents(ctx, psql.Select(eventColumns...).From("events").OrderBy("name ASC"))
}

func (r *postgresEventRepository) Update(ctx context.Context, e *models.Event) error {
	query := `
		UPDATE events SET
			name = $1, description = $2, category = $3, subcategory = $4, min_team_size = $5, max_team_size = $6,
			fee = $7, event_date = $8, day = $9, start_time = $10, end_time = $11, venue = $12,
			venue_details = $13, rules = $14, faculty_coordinators = $15, is_active = $16, image_path = $17
		WHERE id = $18`

	if e.FacultyCoordinators == nil {
		e.FacultyCoordinators = models.FacultyCoordinators{}
	}

	result, err := r.db.ExecContext(ctx, query,
		e.Name, e.Description, e.Category, e.Subcategory, e.MinTeamSize, e.MaxTeamSize,
		e.Fee, e.EventDate, e.Day, e.StartTime, e.EndTime, e.Venue,
		e.VenueDetails, pq.Array(e.Rules), e.FacultyCoordinators, e.IsActive, e.ImagePath,
		e.ID,
	)
	if err != nil {
		return handleEventError(err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) UpdateEditableFields(ctx context.Context, id int, f EventEditableFields) error {
	query := `UPDATE events SET description = $1, venue = $2, venue_details = $3, rules = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, f.Description, f.Venue, f.VenueDetails, pq.Array(f.Rules), id)
	if err != nil {
		return fmt.Errorf("failed to update event fields: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

// UpdateStudentCoordinators перезаписывает весь список координаторов одним UPDATE.
func (r *postgresEventRepository) UpdateStudentCoordinators(ctx context.Context, id int, coordinators models.StudentCoordinators) error {
	if coordinators == nil {
		coordinators = models.StudentCoordinators{}
	}
	query := `UPDATE events SET student_coordinators = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, coordinators, id)
	if err != nil {
		return fmt.Errorf("failed to update student coordinators: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) UpdateResults(ctx context.Context, id int, winnerID, runnerUpID *uuid.UUID) error {
	query := `UPDATE events SET winner_profile_id = $1, runnerup_profile_id = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, winnerID, runnerUpID, id)
	if err != nil {
		return handleEventError(err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) DistinctNames(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, r.db, `SELECT DISTINCT name FROM events WHERE name <> '' ORDER BY name`)
}

func (r *postgresEventRepository) Count(ctx context.Context, filters map[string]interface{}) (int, error) {
	return countRows(ctx, r.db, "events", filters)
}

func (r *postgresEventRepository) queryEvents(ctx context.Context, builder sq.SelectBuilder) ([]models.Event, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build events query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, *e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

func scanEvent(rowScanner interface {
	Scan(dest ...interface{}) error
}) (*models.Event, error) {
	e := &models.Event{}
	var rules pq.StringArray
	err := rowScanner.Scan(
		&e.ID, &e.Name, &e.Description, &e.Category, &e.Subcategory, &e.MinTeamSize, &e.MaxTeamSize, &e.Fee,
		&e.EventDate, &e.Day, &e.StartTime, &e.EndTime, &e.Venue, &e.VenueDetails, &rules,
		&e.FacultyCoordinators, &e.StudentCoordinators, &e.WinnerProfileID, &e.RunnerUpProfileID,
		&e.IsActive, &e.ImagePath, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Rules = []string(rules)
	if e.Rules == nil {
		e.Rules = []string{}
	}
	if e.StudentCoordinators == nil {
		e.StudentCoordinators = models.StudentCoordinators{}
	}
	if e.FacultyCoordinators == nil {
		e.FacultyCoordinators = models.FacultyCoordinators{}
	}
	return e, nil
}

func handleEventError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			if pqErr.Constraint == "events_name_key" {
				return ErrEventNameConflict
			}
		case "23503": // foreign_key_violation
			return ErrEventInvalidProfile
		}
	}
	return fmt.Errorf("event query failed: %w", err)
}
