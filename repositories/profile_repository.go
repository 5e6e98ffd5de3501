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
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileEmailConflict = errors.New("profile email conflict")
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) error
	Count(ctx context.Context, filters map[string]interface{}) (int, error)
	List(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, int, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role models.UserRole) error
	DistinctSchools(ctx context.Context) ([]string, error)
	DistinctDepartments(ctx context.Context) ([]string, error)
}

type postgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

const profileColumns = `id, full_name, email, roll_number, school, department, program, year_of_study,
			admission_year, expected_passout_year, phone, gender, role, password_hash, created_at, updated_at`

func (r *postgresProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	query := `
		INSERT INTO profiles (id, full_name, email, roll_number, school, department, program, year_of_study,
			admission_year, expected_passout_year, phone, gender, role, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.FullName, p.Email, p.RollNumber, p.School, p.Department, p.Program, p.YearOfStudy,
		p.AdmissionYear, p.ExpectedPassoutYear, p.Phone, p.Gender, p.Role, p.PasswordHash,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	return mapProfileError(err)
}

func (r *postgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return r.scanProfile(ctx, query, id)
}

// GetByEmail ищет профиль по точному совпадению email без учета регистра.
func (r *postgresProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE lower(email) = lower($1)`
	return r.scanProfile(ctx, query, email)
}

// Upsert обновляет анкетные поля профиля. Роль, email и пароль здесь не меняются.
func (r *postgresProfileRepository) Upsert(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (id, full_name, email, roll_number, school, department, program, year_of_study,
			admission_year, expected_passout_year, phone, gender, role, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			roll_number = EXCLUDED.roll_number,
			school = EXCLUDED.school,
			department = EXCLUDED.department,
			program = EXCLUDED.program,
			year_of_study = EXCLUDED.year_of_study,
			admission_year = EXCLUDED.admission_year,
			expected_passout_year = EXCLUDED.expected_passout_year,
			phone = EXCLUDED.phone,
			gender = EXCLUDED.gender,
			updated_at = now()
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.FullName, p.Email, p.RollNumber, p.School, p.Department, p.Program, p.YearOfStudy,
		p.AdmissionYear, p.ExpectedPassoutYear, p.Phone, p.Gender, p.Role, p.PasswordHash,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	return mapProfileError(err)
}

func (r *postgresProfileRepository) DistinctSchools(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, r.db, `SELECT DISTINCT school FROM profiles WHERE school <> '' ORDER BY school`)
}

func (r *postgresProfileRepository) DistinctDepartments(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, r.db, `SELECT DISTINCT department FROM profiles WHERE department <> '' ORDER BY department`)
}

func (r *postgresProfileRepository) scanProfile(ctx context.Context, query string, args ...interface{}) (*models.Profile, error) {
	p := &models.Profile{}
	err := scanProfileRow(r.db.QueryRowContext(ctx, query, args...), p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	return p, nil
}

func scanProfileRow(rowScanner interface {
	Scan(dest ...interface{}) error
}, p *models.Profile) error {
	return rowScanner.Scan(
		&p.ID,
		&p.FullName,
		&p.Email,
		&p.RollNumber,
		&p.School,
		&p.Department,
		&p.Program,
		&p.YearOfStudy,
		&p.AdmissionYear,
		&p.ExpectedPassoutYear,
		&p.Phone,
		&p.Gender,
		&p.Role,
		&p.PasswordHash,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func mapProfileError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" &&
		(pqErr.Constraint == "profiles_email_key" || pqErr.Constraint == "profiles_email_lower_idx") {
		return ErrProfileEmailConflict
	}
	return fmt.Errorf("failed to save profile: %w", err)
}

func (r *postgresProfileRepository) Count(ctx context.Context, filters map[string]interface{}) (int, error) {
	return countRows(ctx, r.db, "profiles", filters)
}

// List возвращает страницу профилей и общее количество, подходящее под фильтр.
// Search ищет по имени, email и номеру зачетки без учета регистра.
func (r *postgresProfileRepository) List(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, int, error) {
	where := sq.And{}
	if filter.Role != nil {
		where = append(where, sq.Eq{"role": *filter.Role})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where = append(where, sq.Or{
			sq.ILike{"full_name": pattern},
			sq.ILike{"email": pattern},
			sq.ILike{"roll_number": pattern},
		})
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("profiles").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build profile count query: %w", err)
	}
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	query, args, err := psql.Select(profileColumns).
		From("profiles").
		Where(where).
		OrderBy("full_name ASC", "email ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64((filter.Page - 1) * filter.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build profile list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0, filter.Limit)
	for rows.Next() {
		var p models.Profile
		if err := scanProfileRow(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("failed to scan profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating profile rows: %w", err)
	}
	return profiles, total, nil
}

func (r *postgresProfileRepository) UpdateRole(ctx context.Context, id uuid.UUID, role models.UserRole) error {
	query := `UPDATE profiles SET role = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, role, id)
	if err != nil {
		return fmt.Errorf("failed to update profile role: %w", err)
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}
