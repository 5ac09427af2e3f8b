package seeder

import (
	"context"
	"time"

	"job-tracker/internal/database"
	"job-tracker/internal/domain/application"

	"github.com/google/uuid"
)

type DemoApplicationsSeeder struct{}

func (DemoApplicationsSeeder) Name() string { return "demo_applications" }

func (DemoApplicationsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "job_applications", "id", "user_id", "company", "job_title", "status", "application_date"); err != nil {
		return err
	}

	var existing int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM job_applications WHERE user_id = $1`, DemoUserID).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	items := []struct {
		Company  string
		JobTitle string
		Status   application.Status
		DaysAgo  int
	}{
		{Company: "Acme Corp", JobTitle: "Backend Engineer", Status: application.StatusApplied, DaysAgo: 2},
		{Company: "Globex", JobTitle: "Platform Engineer", Status: application.StatusInterviewing, DaysAgo: 5},
		{Company: "Initech", JobTitle: "Go Developer", Status: application.StatusSaved, DaysAgo: 1},
		{Company: "Umbrella", JobTitle: "Site Reliability Engineer", Status: application.StatusRejected, DaysAgo: 21},
		{Company: "Hooli", JobTitle: "Software Engineer", Status: application.StatusOffered, DaysAgo: 14},
		{Company: "Stark Industries", JobTitle: "Staff Engineer", Status: application.StatusDeclined, DaysAgo: 30},
		{Company: "Wayne Enterprises", JobTitle: "Data Engineer", Status: application.StatusAccepted, DaysAgo: 45},
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range items {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO job_applications (id, user_id, company, job_title, status, application_date)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				uuid.New(),
				DemoUserID,
				it.Company,
				it.JobTitle,
				string(it.Status),
				today.AddDate(0, 0, -it.DaysAgo),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
