package history

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"runtracker/internal/store"
)

// MaxRuns is how many runs the history keeps
const MaxRuns = 50

// saveTimeout bounds a single background write
const saveTimeout = 30 * time.Second

// Persister is a durable home for run summaries.
// Save returns the stored copy, which may carry a server-assigned id and date.
type Persister interface {
	Save(ctx context.Context, run store.RunSummary) (store.RunSummary, error)
	List(ctx context.Context) ([]store.RunSummary, error)
}

// CredentialSource reports whether a remote session credential is available
type CredentialSource interface {
	Authenticated() bool
}

// History is the in-memory run collection, newest first, backed by a local
// and an optional remote persister
type History struct {
	local  Persister
	remote Persister
	creds  CredentialSource
	logger *slog.Logger

	mu   sync.Mutex
	runs []store.RunSummary

	wg sync.WaitGroup
}

// New creates an empty history. remote and creds may be nil for local-only use.
func New(local, remote Persister, creds CredentialSource, logger *slog.Logger) *History {
	if logger == nil {
		logger = slog.Default()
	}
	return &History{
		local:  local,
		remote: remote,
		creds:  creds,
		logger: logger,
	}
}

// Append adds a finished run to the front of the collection and writes it
// durably in the background. A failed write is logged and not retried.
func (h *History) Append(run store.RunSummary) {
	h.mu.Lock()
	h.runs = append([]store.RunSummary{run}, h.runs...)
	if len(h.runs) > MaxRuns {
		h.runs = h.runs[:MaxRuns]
	}
	h.mu.Unlock()

	p, target := h.target()
	if p == nil {
		return
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		saved, err := p.Save(ctx, run)
		if err != nil {
			h.logger.Warn("saving run failed", "target", target, "id", run.ID, "error", err)
			return
		}
		h.logger.Debug("run saved", "target", target, "id", saved.ID)

		if saved.ID != "" && (saved.ID != run.ID || !saved.Date.Equal(run.Date)) {
			h.confirm(run.ID, saved)
		}
	}()
}

// Record makes History a session recorder
func (h *History) Record(run store.RunSummary) {
	h.Append(run)
}

// LoadAll replaces the collection from the remote persister when authenticated,
// otherwise from the local one. On a remote failure the current collection is kept;
// an unreadable local set loads as empty.
func (h *History) LoadAll(ctx context.Context) []store.RunSummary {
	p, target := h.target()
	if p == nil {
		return h.Runs()
	}

	runs, err := p.List(ctx)
	if err != nil {
		if target == "local" && errors.Is(err, store.ErrMalformedRecord) {
			h.logger.Warn("discarding unreadable local history", "error", err)
			runs = nil
		} else {
			h.logger.Warn("loading history failed", "target", target, "error", err)
			return h.Runs()
		}
	}

	runs = slices.Clone(runs)
	slices.SortStableFunc(runs, func(a, b store.RunSummary) int {
		return b.Date.Compare(a.Date)
	})
	if len(runs) > MaxRuns {
		runs = runs[:MaxRuns]
	}

	h.mu.Lock()
	h.runs = runs
	h.mu.Unlock()

	return h.Runs()
}

// Runs returns a copy of the collection, newest first
func (h *History) Runs() []store.RunSummary {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.runs)
}

// Wait blocks until background writes finish
func (h *History) Wait() {
	h.wg.Wait()
}

func (h *History) target() (Persister, string) {
	if h.remote != nil && h.creds != nil && h.creds.Authenticated() {
		return h.remote, "remote"
	}
	if h.local != nil {
		return h.local, "local"
	}
	return nil, ""
}

// confirm swaps in the server's id and date for a run still in the collection
func (h *History) confirm(id string, saved store.RunSummary) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.runs {
		if h.runs[i].ID == id {
			h.runs[i].ID = saved.ID
			h.runs[i].Date = saved.Date
			return
		}
	}
}
