package integration_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"synthgrid/internal/audit"

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
	content, err := os.ReadFile(filepath.Join(root, "migrations", "002_audit_logs.sql"))
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if _, err := db.Exec(string(content)); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
}

func TestRepository_Log(t *testing.T) {
	db := openDB(t)
	defer db.Close()
	applyMigrations(t, db)

	ctx := context.Background()
	_, _ = db.ExecContext(ctx, "DELETE FROM audit_logs WHERE actor = 'it-operator'")

	repo := audit.NewRepository(db)
	metadata, _ := json.Marshal(map[string]int{"removed": 12})
	entry := audit.Entry{
		Actor:    "it-operator",
		Role:     "admin",
		Action:   audit.ActionCacheClear,
		Resource: "osm_cache",
		Metadata: metadata,
	}
	if err := repo.Log(ctx, entry); err != nil {
		t.Fatalf("Log: %v", err)
	}

	var got struct {
		action string
		digest string
	}
	row := db.QueryRowContext(ctx, "SELECT action, payload_digest FROM audit_logs WHERE actor = 'it-operator'")
	if err := row.Scan(&got.action, &got.digest); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if got.action != audit.ActionCacheClear {
		t.Fatalf("action = %s", got.action)
	}
	if got.digest != audit.DigestJSON(metadata) {
		t.Fatalf("digest = %s", got.digest)
	}
}
