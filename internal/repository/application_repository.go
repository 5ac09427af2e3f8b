package repository

import (
	"context"
	"errors"
	"strings"

	"job-tracker/internal/database"
	dbpostgres "job-tracker/internal/database/postgres"
	"job-tracker/internal/domain/application"
	"job-tracker/internal/domain/user"

	"github.com/google/uuid"
)

const applicationColumns = `id, user_id, company, job_title, status, application_date,
	job_description, job_url, salary_min, salary_max, notes,
	contact_name, contact_email, contact_phone, created_at, updated_at`

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter application.ListFilter) ([]application.Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationColumns+`
		 FROM job_applications
		 WHERE user_id = $1
		   AND ($2 = '' OR company ILIKE $4 ESCAPE '\' OR job_title ILIKE $4 ESCAPE '\')
		   AND ($3 = '' OR status = $3)
		 ORDER BY application_date DESC, created_at DESC`,
		ownerID, strings.TrimSpace(filter.Search), string(filter.Status), containsPattern(filter.Search),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (application.Application, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM job_applications WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	return scanApplication(row)
}

func (r *PostgresApplicationRepository) Insert(ctx context.Context, a application.Application) (application.Application, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO job_applications (
			id, user_id, company, job_title, status, application_date,
			job_description, job_url, salary_min, salary_max, notes,
			contact_name, contact_email, contact_phone
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+applicationColumns,
		a.ID, a.UserID, a.Company, a.JobTitle, string(a.Status), a.ApplicationDate,
		a.JobDescription, a.JobURL, a.SalaryMin, a.SalaryMax, a.Notes,
		a.ContactName, a.ContactEmail, a.ContactPhone,
	)
	out, err := scanApplication(row)
	if dbpostgres.IsForeignKeyViolation(err) {
		return application.Application{}, user.ErrNotFound
	}
	return out, err
}

func (r *PostgresApplicationRepository) Update(ctx context.Context, a application.Application) (application.Application, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE job_applications SET
			company = $3, job_title = $4, status = $5, application_date = $6,
			job_description = $7, job_url = $8, salary_min = $9, salary_max = $10, notes = $11,
			contact_name = $12, contact_email = $13, contact_phone = $14,
			updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+applicationColumns,
		a.ID, a.UserID, a.Company, a.JobTitle, string(a.Status), a.ApplicationDate,
		a.JobDescription, a.JobURL, a.SalaryMin, a.SalaryMax, a.Notes,
		a.ContactName, a.ContactEmail, a.ContactPhone,
	)
	return scanApplication(row)
}

func (r *PostgresApplicationRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM job_applications WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if n == 0 {
		return application.ErrNotFound
	}
	return nil
}

func scanApplication(row database.Row) (application.Application, error) {
	var a application.Application
	var status string
	err := row.Scan(
		&a.ID, &a.UserID, &a.Company, &a.JobTitle, &status, &a.ApplicationDate,
		&a.JobDescription, &a.JobURL, &a.SalaryMin, &a.SalaryMax, &a.Notes,
		&a.ContactName, &a.ContactEmail, &a.ContactPhone, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	return a, nil
}
