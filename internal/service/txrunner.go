package service

import (
	"context"

	"supportdesk.app/engine/core/db"
	"supportdesk.app/engine/core/db/sqlc"
	"supportdesk.app/engine/internal/store"
)

// StoreProvider exposes the stores a facade operation may touch. Inside
// WithTx every store is bound to the same transaction.
type StoreProvider interface {
	Conversations() store.ConversationStore
	SlaTimers() store.SlaTimerStore
	SlaPolicies() store.SlaPolicyStore
	SlaEvents() store.SlaEventStore
	Shifts() store.ShiftStore
	Pauses() store.PauseStore
	Agents() store.AgentStore
	AuditLogs() store.AuditLogStore
}

// TxRunner runs functions within a transaction and provides stores bound to that transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	db *db.DB
}

// NewTxRunner builds a TxRunner backed by the core DB.
func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithTx(ctx, func(q *sqlc.Queries) error {
		stores := store.NewStores(q)
		return fn(stores)
	})
}
