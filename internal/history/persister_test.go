package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"runtracker/internal/store"
)

func setupTestDB(t *testing.T) *store.DB {
	t.Helper()

	db, err := store.OpenPath(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStorePersister_PrunesToMaxRuns(t *testing.T) {
	db := setupTestDB(t)
	p := NewStorePersister(db, store.LocalOwner)
	ctx := context.Background()

	for i := 0; i < MaxRuns+3; i++ {
		if _, err := p.Save(ctx, run(fmt.Sprintf("run-%02d", i), time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	runs, err := p.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != MaxRuns {
		t.Fatalf("len = %d, want %d", len(runs), MaxRuns)
	}
	if runs[0].ID != fmt.Sprintf("run-%02d", MaxRuns+2) {
		t.Errorf("newest = %s", runs[0].ID)
	}
}

func TestStorePersister_OwnersAreSeparate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	local := NewStorePersister(db, store.LocalOwner)
	user := NewStorePersister(db, "user-1")

	if _, err := local.Save(ctx, run("local", 0)); err != nil {
		t.Fatal(err)
	}
	if _, err := user.Save(ctx, run("remote", 0)); err != nil {
		t.Fatal(err)
	}

	runs, err := user.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != "remote" {
		t.Errorf("user runs = %+v", runs)
	}
}

func TestHistory_LocalRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	p := NewStorePersister(db, store.LocalOwner)

	h := New(p, nil, nil, nil)
	h.Append(run("run-1", 0))
	h.Wait()

	fresh := New(p, nil, nil, nil)
	runs := fresh.LoadAll(context.Background())
	if len(runs) != 1 || runs[0].ID != "run-1" || runs[0].DistanceKm != 2.0 {
		t.Errorf("reloaded history = %+v", runs)
	}
}
