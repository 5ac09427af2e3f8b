package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"job-tracker/internal/config"
	"job-tracker/internal/database/migration"
	dbpostgres "job-tracker/internal/database/postgres"
	"job-tracker/internal/domain/application"
	"job-tracker/internal/domain/resume"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/infrastructure/blob"
	"job-tracker/internal/repository"
	"job-tracker/internal/usecase"

	"github.com/google/uuid"
)

func connectTestDB(t *testing.T, ctx context.Context) *dbpostgres.Pool {
	t.Helper()

	host := stringsOrDefault(os.Getenv("TRACKER_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("TRACKER_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("TRACKER_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	usr := stringsOrDefault(os.Getenv("TRACKER_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("TRACKER_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("TRACKER_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || port == "" || name == "" || usr == "" {
		t.Skip("missing test DB env vars: set TRACKER_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}
	if ssl == "" {
		ssl = "disable"
	}

	db, err := dbpostgres.Connect(ctx, config.DatabaseConfig{
		DBHost:     host,
		DBPort:     port,
		DBName:     name,
		DBUser:     usr,
		DBPassword: pass,
		DBSSLMode:  ssl,
	})
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := (migration.Runner{}).Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return db
}

func stringsOrDefault(v, def string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func seedUser(t *testing.T, ctx context.Context, db *dbpostgres.Pool) usecase.Identity {
	t.Helper()

	u := user.User{
		ID:           uuid.New(),
		Email:        "it-" + uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FullName:     "Integration Tester",
	}
	if err := repository.NewPostgresUserRepository(db).CreateUser(ctx, u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() {
		_, _ = db.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, u.ID)
	})
	return usecase.Identity{UserID: u.ID, Email: u.Email}
}

func TestIntegration_ResumeLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	id := seedUser(t, ctx, db)

	blobs, err := blob.NewLocalStore(t.TempDir(), "http://localhost:0/blobs")
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	uc := usecase.NewResumeUsecase(repository.NewPostgresResumeRepository(db), blobs, nil, nil, nil, nil, usecase.NewInFlightGuard(nil, 0, nil), nil)

	doc := func(name string) *usecase.UploadFile {
		return &usecase.UploadFile{Name: name, Data: []byte("PK\x03\x04 " + name)}
	}
	fileOf := func(rec resume.Resume) string {
		p, err := blobs.ObjectPath(*rec.ResumeURL)
		if err != nil {
			t.Fatalf("object path: %v", err)
		}
		return filepath.Join(blobs.Root(), filepath.FromSlash(p))
	}

	created, err := uc.Create(ctx, id, usecase.ResumeForm{ProfileTitle: "Backend", File: doc("a.docx")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	first := fileOf(created)
	if _, err := os.Stat(first); err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}

	updated, err := uc.Update(ctx, id, created.ID, usecase.ResumeForm{ProfileTitle: "Platform", File: doc("b.docx")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ProfileTitle != "Platform" {
		t.Fatalf("update: expected title Platform, got %q", updated.ProfileTitle)
	}
	if _, err := os.Stat(first); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("superseded file still present: %v", err)
	}
	second := fileOf(updated)

	other := seedUser(t, ctx, db)
	if err := uc.Delete(ctx, other, created.ID, usecase.Confirmed(true)); !errors.Is(err, resume.ErrNotFound) {
		t.Fatalf("delete by other owner: expected not found, got %v", err)
	}

	if err := uc.Delete(ctx, id, created.ID, usecase.Confirmed(true)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(second); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("deleted file still present: %v", err)
	}
	if _, err := uc.Get(ctx, id, created.ID); !errors.Is(err, resume.ErrNotFound) {
		t.Fatalf("get after delete: expected not found, got %v", err)
	}
}

func TestIntegration_ApplicationsAndStats(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	id := seedUser(t, ctx, db)

	repo := repository.NewPostgresApplicationRepository(db)
	apps := usecase.NewApplicationUsecase(repo, nil, nil, nil, nil, nil)
	statsUC := usecase.NewStatsUsecase(repo, nil, nil)

	str := func(s string) *string { return &s }
	for i, st := range []string{"applied", "interviewing", "applied"} {
		_, err := apps.Create(ctx, id, usecase.ApplicationForm{
			Company:         str("Company"),
			JobTitle:        str("Engineer"),
			Status:          str(st),
			ApplicationDate: str(time.Date(2024, 1, 10+i, 0, 0, 0, 0, time.UTC).Format(application.DateLayout)),
			SalaryMin:       str("1000.50"),
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	s, err := statsUC.Get(ctx, id)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if s.Total != 3 {
		t.Fatalf("stats: expected total 3, got %d", s.Total)
	}
	if s.Count(application.StatusApplied) != 2 || s.Count(application.StatusInterviewing) != 1 {
		t.Fatalf("stats: unexpected by_status %+v", s.ByStatus)
	}
	if got := s.RecentApplications[0].ApplicationDate.Format(application.DateLayout); got != "2024-01-12" {
		t.Fatalf("stats: expected latest first, got %s", got)
	}

	items, err := apps.List(ctx, id, application.ListFilter{Status: application.StatusInterviewing})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].SalaryMin == nil || *items[0].SalaryMin != 1000.5 {
		t.Fatalf("list: unexpected items %+v", items)
	}

	if _, err := apps.Create(ctx, id, usecase.ApplicationForm{
		Company:         str("100% Remote"),
		JobTitle:        str("Engineer"),
		Status:          str("saved"),
		ApplicationDate: str("2024-01-20"),
	}); err != nil {
		t.Fatalf("create remote: %v", err)
	}
	for term, want := range map[string]int{"%": 1, "_": 0, "0% r": 1, "company": 3} {
		got, err := apps.List(ctx, id, application.ListFilter{Search: term})
		if err != nil {
			t.Fatalf("search %q: %v", term, err)
		}
		if len(got) != want {
			t.Fatalf("search %q: expected %d literal matches, got %d", term, want, len(got))
		}
	}
}
