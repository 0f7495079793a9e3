// Package store declares the persistence ports the HTTP layer and the
// services depend on. The sqlite and memory backends both satisfy them.
package store

import (
	"context"
	"errors"
	"time"

	"trackmate/internal/core"
)

// ErrNotFound is returned when a record with the given ID does not exist.
var ErrNotFound = errors.New("record not found")

type (
	TransactionStore interface {
		CreateTransaction(ctx context.Context, t core.Transaction) error
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		// ListTransactions returns every transaction, newest first.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) error
	}

	GoalStore interface {
		CreateGoal(ctx context.Context, g core.Goal) error
		GetGoal(ctx context.Context, id string) (core.Goal, error)
		ListGoals(ctx context.Context) ([]core.Goal, error)
		// DepositToGoal atomically adds amount to the goal's current balance.
		DepositToGoal(ctx context.Context, id string, amount core.Money) (core.Goal, error)
		DeleteGoal(ctx context.Context, id string) error
	}

	DebtStore interface {
		CreateDebt(ctx context.Context, d core.Debt) error
		GetDebt(ctx context.Context, id string) (core.Debt, error)
		ListDebts(ctx context.Context) ([]core.Debt, error)
		DeleteDebt(ctx context.Context, id string) error
	}

	CategoryStore interface {
		ListCategories(ctx context.Context) ([]string, error)
		AddCategory(ctx context.Context, name string) error
	}

	SettingsStore interface {
		MonthlyBudget(ctx context.Context) (core.Money, error)
		SetMonthlyBudget(ctx context.Context, budget core.Money) error
	}
)

// Store is the full persistence surface the application wires up.
type Store interface {
	TransactionStore
	GoalStore
	DebtStore
	CategoryStore
	SettingsStore
	Close() error
}

// PendingSyncTransaction is the minimal record the sync queue carries for a
// transaction awaiting upload to the spreadsheet mirror.
type PendingSyncTransaction struct {
	ID        string
	CreatedAt time.Time
}

// SyncQueue is implemented by backends that track which transactions still
// need mirroring to Google Sheets.
type SyncQueue interface {
	ListPendingSync(ctx context.Context, limit int) ([]PendingSyncTransaction, error)
	MarkSynced(ctx context.Context, id string) error
	MarkSyncError(ctx context.Context, id string) error
}
