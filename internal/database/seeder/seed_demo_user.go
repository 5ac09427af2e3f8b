package seeder

import (
	"context"

	"job-tracker/internal/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var DemoUserID = uuid.MustParse("6f1d2a4e-3c55-4d0b-9a3e-2f8c7b1e5d90")

const (
	DemoEmail    = "demo@jobtracker.local"
	DemoPassword = "demo-password"
	demoFullName = "Demo User"
)

type DemoUserSeeder struct{}

func (DemoUserSeeder) Name() string { return "demo_user" }

func (DemoUserSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "users", "id", "email", "password_hash", "full_name"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.Exec(
		ctx,
		`INSERT INTO users (id, email, password_hash, full_name) VALUES ($1, $2, $3, $4) ON CONFLICT (email) DO NOTHING`,
		DemoUserID,
		DemoEmail,
		string(hash),
		demoFullName,
	)
	return err
}
