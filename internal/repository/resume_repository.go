package repository

import (
	"context"
	"errors"
	"strings"

	"job-tracker/internal/database"
	dbpostgres "job-tracker/internal/database/postgres"
	"job-tracker/internal/domain/resume"
	"job-tracker/internal/domain/user"

	"github.com/google/uuid"
)

const resumeColumns = `id, user_id, profile_title, resume_description, resume_url, created_at, updated_at`

type PostgresResumeRepository struct {
	db database.DB
}

func NewPostgresResumeRepository(db database.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db}
}

func (r *PostgresResumeRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, search string) ([]resume.Resume, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+resumeColumns+`
		 FROM resumes
		 WHERE user_id = $1
		   AND ($2 = '' OR profile_title ILIKE $3 ESCAPE '\')
		 ORDER BY created_at DESC`,
		ownerID, strings.TrimSpace(search), containsPattern(search),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]resume.Resume, 0)
	for rows.Next() {
		rec, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresResumeRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (resume.Resume, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	return scanResume(row)
}

// Upsert never moves a row between owners: the conflict branch only fires
// for the caller's own row, so a foreign id yields no RETURNING row.
func (r *PostgresResumeRepository) Upsert(ctx context.Context, rec resume.Resume) (resume.Resume, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO resumes (id, user_id, profile_title, resume_description, resume_url)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
			profile_title = EXCLUDED.profile_title,
			resume_description = EXCLUDED.resume_description,
			resume_url = EXCLUDED.resume_url,
			updated_at = now()
		 WHERE resumes.user_id = EXCLUDED.user_id
		 RETURNING `+resumeColumns,
		rec.ID, rec.UserID, rec.ProfileTitle, rec.ResumeDescription, rec.ResumeURL,
	)
	out, err := scanResume(row)
	if dbpostgres.IsForeignKeyViolation(err) {
		return resume.Resume{}, user.ErrNotFound
	}
	return out, err
}

func (r *PostgresResumeRepository) ClearURL(ctx context.Context, ownerID, id uuid.UUID) (resume.Resume, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE resumes SET resume_url = NULL, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+resumeColumns,
		id, ownerID,
	)
	return scanResume(row)
}

func (r *PostgresResumeRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM resumes WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if n == 0 {
		return resume.ErrNotFound
	}
	return nil
}

func scanResume(row database.Row) (resume.Resume, error) {
	var rec resume.Resume
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.ProfileTitle, &rec.ResumeDescription, &rec.ResumeURL,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return resume.Resume{}, resume.ErrNotFound
		}
		return resume.Resume{}, err
	}
	return rec, nil
}
