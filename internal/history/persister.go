package history

import (
	"context"
	"fmt"

	"runtracker/internal/store"
)

// StorePersister keeps one owner's runs in the SQLite store, pruned to MaxRuns
type StorePersister struct {
	db    *store.DB
	owner string
}

// NewStorePersister creates a persister for owner. Use store.LocalOwner for runs
// recorded on this device.
func NewStorePersister(db *store.DB, owner string) *StorePersister {
	return &StorePersister{db: db, owner: owner}
}

// Save upserts the run and drops the owner's oldest runs beyond MaxRuns
func (p *StorePersister) Save(_ context.Context, run store.RunSummary) (store.RunSummary, error) {
	if err := p.db.SaveRun(p.owner, &run); err != nil {
		return run, fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	if _, err := p.db.PruneRuns(p.owner, MaxRuns); err != nil {
		return run, fmt.Errorf("pruning runs: %w", err)
	}
	return run, nil
}

// List returns the owner's runs, newest first
func (p *StorePersister) List(_ context.Context) ([]store.RunSummary, error) {
	runs, err := p.db.ListRuns(p.owner, MaxRuns)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}
