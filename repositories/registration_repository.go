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
	ErrRegistrationNotFound   = errors.New("registration not found")
	ErrRegistrationConflict   = errors.New("registration conflict: profile already registered for this event")
	ErrRegistrationNotPending = errors.New("registration is not pending")
	ErrRegistrationInvalidRef = errors.New("registration event or profile reference is invalid")
)

// ListRegistrationsFilter — предикаты, которые выполняет сама БД. Остальная фильтрация делается в сервисе.
type ListRegistrationsFilter struct {
	EventID   *int
	ProfileID *uuid.UUID
}

type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.Registration) error
	FindByID(ctx context.Context, id int) (*models.Registration, error)
	FindByProfileAndEvent(ctx context.Context, profileID uuid.UUID, eventID int) (*models.Registration, error)
	ListDetailed(ctx context.Context, filter ListRegistrationsFilter) ([]models.RegistrationDetails, error)
	UpdateStatusIfPending(ctx context.Context, id int, status models.RegistrationStatus) error
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (event_id, profile_id, transaction_id, payment_screenshot_path, team_members, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, registered_at`

	err := r.db.QueryRowContext(ctx, query,
		reg.EventID,
		reg.ProfileID,
		reg.TransactionID,
		reg.PaymentScreenshotPath,
		reg.TeamMembers,
		reg.Status,
	).Scan(&reg.ID, &reg.RegisteredAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "registrations_profile_id_event_id_key" {
					return ErrRegistrationConflict
				}
			case "23503": // foreign_key_violation
				return ErrRegistrationInvalidRef
			}
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (r *postgresRegistrationRepository) scanRegistration(rowScanner interface {
	Scan(dest ...interface{}) error
}, reg *models.Registration) error {
	return rowScanner.Scan(
		&reg.ID,
		&reg.EventID,
		&reg.ProfileID,
		&reg.TransactionID,
		&reg.PaymentScreenshotPath,
		&reg.TeamMembers,
		&reg.Status,
		&reg.RegisteredAt,
	)
}

func (r *postgresRegistrationRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Registration, error) {
	reg := &models.Registration{}
	err := r.scanRegistration(r.db.QueryRowContext(ctx, query, args...), reg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to find registration: %w", err)
	}
	if reg.TeamMembers == nil {
		reg.TeamMembers = models.TeamMembers{}
	}
	return reg, nil
}

func (r *postgresRegistrationRepository) FindByID(ctx context.Context, id int) (*models.Registration, error) {
	query := `SELECT id, event_id, profile_id, transaction_id, payment_screenshot_path, team_members, status, registered_at
		FROM registrations WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresRegistrationRepository) FindByProfileAndEvent(ctx context.Context, profileID uuid.UUID, eventID int) (*models.Registration, error) {
	query := `SELECT id, event_id, profile_id, transaction_id, payment_screenshot_path, team_members, status, registered_at
		FROM registrations WHERE profile_id = $1 AND event_id = $2`
	return r.findOne(ctx, query, profileID, eventID)
}

// ListDetailed возвращает заявки вместе с данными мероприятия и профиля, новые первыми.
func (r *postgresRegistrationRepository) ListDetailed(ctx context.Context, filter ListRegistrationsFilter) ([]models.RegistrationDetails, error) {
	builder := psql.Select(
		"r.id", "r.event_id", "r.profile_id", "r.transaction_id", "r.payment_screenshot_path",
		"r.team_members", "r.status", "r.registered_at",
		"e.name", "e.fee", "e.category", "e.subcategory",
		"p.full_name", "p.email", "p.roll_number", "p.phone", "p.school", "p.department",
		"p.gender", "p.year_of_study", "p.program",
	).
		From("registrations r").
		Join("events e ON e.id = r.event_id").
		Join("profiles p ON p.id = r.profile_id")

	if filter.EventID != nil {
		builder = builder.Where(sq.Eq{"r.event_id": *filter.EventID})
	}
	if filter.ProfileID != nil {
		builder = builder.Where(sq.Eq{"r.profile_id": *filter.ProfileID})
	}
	builder = builder.OrderBy("r.registered_at DESC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build registrations query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	list := make([]models.RegistrationDetails, 0)
	for rows.Next() {
		var d models.RegistrationDetails
		err := rows.Scan(
			&d.ID, &d.EventID, &d.ProfileID, &d.TransactionID, &d.PaymentScreenshotPath,
			&d.TeamMembers, &d.Status, &d.RegisteredAt,
			&d.Event.Name, &d.Event.Fee, &d.Event.Category, &d.Event.Subcategory,
			&d.Profile.FullName, &d.Profile.Email, &d.Profile.RollNumber, &d.Profile.Phone, &d.Profile.School,
			&d.Profile.Department, &d.Profile.Gender, &d.Profile.YearOfStudy, &d.Profile.Program,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", err)
		}
		if d.TeamMembers == nil {
			d.TeamMembers = models.TeamMembers{}
		}
		list = append(list, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration rows: %w", err)
	}
	return list, nil
}

// UpdateStatusIfPending меняет статус только у заявки в статусе pending.
// Если заявка есть, но уже рассмотрена, возвращается ErrRegistrationNotPending.
func (r *postgresRegistrationRepository) UpdateStatusIfPending(ctx context.Context, id int, status models.RegistrationStatus) error {
	query := `UPDATE registrations SET status = $1 WHERE id = $2 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, status, id, models.RegistrationPending)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	if err := checkAffectedRows(result, ErrRegistrationNotPending); err == nil || !errors.Is(err, ErrRegistrationNotPending) {
		return err
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return ErrRegistrationNotPending
}
