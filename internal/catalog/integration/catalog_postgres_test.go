package integration_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"synthgrid/internal/catalog"
	catalogrepo "synthgrid/internal/catalog/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	_, thisFile, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(thisFile), "..", "..", "..")
	content, err := os.ReadFile(filepath.Join(root, "migrations", "001_generation_runs.sql"))
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if _, err := db.Exec(string(content)); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
}

func TestPostgresRepository_CreateAndList(t *testing.T) {
	db := openDB(t)
	defer db.Close()
	applyMigrations(t, db)

	ctx := context.Background()
	_, _ = db.ExecContext(ctx, "DELETE FROM generation_runs")

	repo := catalogrepo.NewRepository(db)
	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	runs := []catalog.Run{
		{
			ID: "it-run-1", StartedAt: base, Zone: "kuala_lumpur", Source: "osm",
			Buildings: 120, Observations: 20160, Frequency: "H",
			QualityScore: 97.5, Format: "csv",
			Files:  []string{"buildings_x.csv", "timeseries_x.csv"},
			Status: catalog.StatusCompleted,
		},
		{
			ID: "it-run-2", StartedAt: base.Add(time.Hour), Zone: "penang", Source: "synthetic",
			Buildings: 50, Observations: 1200, Frequency: "D",
			QualityScore: 99.1, Status: catalog.StatusPartial,
		},
	}
	for i := range runs {
		if err := repo.Create(ctx, &runs[i]); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	// Duplicate id must be a no-op.
	if err := repo.Create(ctx, &runs[0]); err != nil {
		t.Fatalf("Create duplicate: %v", err)
	}

	got, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d runs, want 2", len(got))
	}
	if got[0].ID != "it-run-2" {
		t.Fatalf("runs not newest first: %s", got[0].ID)
	}
	if len(got[1].Files) != 2 {
		t.Fatalf("files not round-tripped: %v", got[1].Files)
	}
}
