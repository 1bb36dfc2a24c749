package report_repo

import (
	"context"
	"sync"
	"time"

	"stockreport/internal/domain/catalog"
	"stockreport/internal/domain/kit"
	"stockreport/internal/domain/movement"
	"stockreport/internal/domain/reports"
	"stockreport/internal/infrastructure/storage/postgres"
)

// Store opens read-only REPEATABLE READ transactions over the ERP
// database. Attached views import the leader's exported snapshot, so every
// worker reads the same point in time on its own connection.
type Store struct {
	txm              *postgres.TxManager
	repo             *Repo
	statementTimeout time.Duration
}

var _ reports.Store = (*Store)(nil)

// NewStore creates a store reading translatable names in lang.
func NewStore(txm *postgres.TxManager, statementTimeout time.Duration, lang string) *Store {
	return &Store{txm: txm, repo: NewRepo(txm, lang), statementTimeout: statementTimeout}
}

// View implements reports.Store.
func (s *Store) View(ctx context.Context, fn func(ctx context.Context, snap reports.Snapshot) error) error {
	return s.txm.ReadOnly(ctx, s.statementTimeout, func(ctx context.Context) error {
		return fn(ctx, &leader{view: view{repo: s.repo}, store: s, ctx: ctx})
	})
}

type view struct {
	repo *Repo
}

func (v view) Catalog() catalog.Repository { return v.repo }
func (v view) Ledger() movement.Ledger     { return v.repo }
func (v view) BoMs() kit.Repository        { return v.repo }

// leader is the snapshot owning the exporting transaction.
type leader struct {
	view
	store *Store
	// ctx carries the exporting transaction.
	ctx context.Context

	once       sync.Once
	snapshotID string
	exportErr  error
}

func (l *leader) Attach(ctx context.Context, fn func(ctx context.Context, v reports.Snapshot) error) error {
	// The export runs on the leader's connection; once serialises callers.
	l.once.Do(func() {
		l.snapshotID, l.exportErr = l.store.txm.ExportSnapshot(l.ctx)
	})
	if l.exportErr != nil {
		return l.exportErr
	}
	return l.store.txm.Attach(ctx, l.snapshotID, l.store.statementTimeout, func(ctx context.Context) error {
		return fn(ctx, &follower{view: l.view, leader: l})
	})
}

// follower is a view importing the leader's snapshot. Attaching from a
// follower opens another transaction on the same snapshot.
type follower struct {
	view
	leader *leader
}

func (f *follower) Attach(ctx context.Context, fn func(ctx context.Context, v reports.Snapshot) error) error {
	return f.leader.Attach(ctx, fn)
}
