package memory

import (
	"context"
	"testing"
	"time"

	"synthgrid/internal/catalog"
)

func TestCreateAndListNewestFirst(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		err := repo.Create(ctx, &catalog.Run{
			ID:        id,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			Zone:      "kuala_lumpur",
			Source:    "osm",
			Status:    catalog.StatusCompleted,
		})
		if err != nil {
			t.Fatalf("Create(%s): %v", id, err)
		}
	}

	runs, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	if runs[0].ID != "run-c" || runs[2].ID != "run-a" {
		t.Fatalf("runs not newest first: %s, %s, %s", runs[0].ID, runs[1].ID, runs[2].ID)
	}
}

func TestListHonorsLimit(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_ = repo.Create(ctx, &catalog.Run{
			ID:        string(rune('a' + i)),
			StartedAt: time.Now().Add(time.Duration(i) * time.Minute),
			Status:    catalog.StatusCompleted,
		})
	}
	runs, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
}

func TestCreateIgnoresDuplicateID(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	run := catalog.Run{ID: "run-1", Zone: "penang", Status: catalog.StatusCompleted}
	if err := repo.Create(ctx, &run); err != nil {
		t.Fatalf("Create: %v", err)
	}
	dup := catalog.Run{ID: "run-1", Zone: "johor_bahru", Status: catalog.StatusFailed}
	if err := repo.Create(ctx, &dup); err != nil {
		t.Fatalf("Create duplicate: %v", err)
	}

	runs, _ := repo.List(ctx, 0)
	if len(runs) != 1 || runs[0].Zone != "penang" {
		t.Fatalf("duplicate overwrote original: %+v", runs)
	}
}

func TestCreateRejectsEmptyID(t *testing.T) {
	repo := NewRepository()
	if err := repo.Create(context.Background(), &catalog.Run{}); err == nil {
		t.Fatal("expected error for empty id")
	}
}
