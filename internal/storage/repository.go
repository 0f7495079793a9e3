package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"trackmate/internal/core"
	"trackmate/internal/store"

	_ "modernc.org/sqlite"
)

const budgetSettingKey = "monthly_budget_cents"

// SQLiteRepository implements store.Store and store.SyncQueue on a local
// sqlite database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, type, amount_cents, category, description, date, is_recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Type), t.Amount.Cents, t.Category, t.Description,
		t.Date.ISO(), boolToInt(t.IsRecurring), t.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, type, amount_cents, category, description, date, is_recurring, created_at
		FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, amount_cents, category, description, date, is_recurring, created_at
		FROM transactions ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (id, title, target_cents, current_cents, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.Title, g.Target.Cents, g.Current.Cents, g.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	var g core.Goal
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, target_cents, current_cents, created_at
		FROM goals WHERE id = ?`, id).
		Scan(&g.ID, &g.Title, &g.Target.Cents, &g.Current.Cents, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, store.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, target_cents, current_cents, created_at
		FROM goals ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		var g core.Goal
		if err := rows.Scan(&g.ID, &g.Title, &g.Target.Cents, &g.Current.Cents, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *SQLiteRepository) DepositToGoal(ctx context.Context, id string, amount core.Money) (core.Goal, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE goals SET current_cents = current_cents + ? WHERE id = ?`,
		amount.Cents, id)
	if err != nil {
		return core.Goal{}, fmt.Errorf("deposit to goal: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return core.Goal{}, err
	}
	return r.GetGoal(ctx, id)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) CreateDebt(ctx context.Context, d core.Debt) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO debts (id, person, amount_cents, description, date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Person, d.Amount.Cents, d.Description, d.Date.ISO(), d.Status, d.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert debt: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetDebt(ctx context.Context, id string) (core.Debt, error) {
	var (
		d    core.Debt
		date string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, person, amount_cents, description, date, status, created_at
		FROM debts WHERE id = ?`, id).
		Scan(&d.ID, &d.Person, &d.Amount.Cents, &d.Description, &date, &d.Status, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Debt{}, store.ErrNotFound
	}
	if err != nil {
		return core.Debt{}, fmt.Errorf("get debt: %w", err)
	}
	if d.Date, err = core.ParseDate(date); err != nil {
		return core.Debt{}, fmt.Errorf("parse debt date %q: %w", date, err)
	}
	return d, nil
}

func (r *SQLiteRepository) ListDebts(ctx context.Context) ([]core.Debt, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, person, amount_cents, description, date, status, created_at
		FROM debts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()

	var debts []core.Debt
	for rows.Next() {
		var (
			d    core.Debt
			date string
		)
		if err := rows.Scan(&d.ID, &d.Person, &d.Amount.Cents, &d.Description, &date, &d.Status, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		if d.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse debt date %q: %w", date, err)
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

func (r *SQLiteRepository) DeleteDebt(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM debts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *SQLiteRepository) AddCategory(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO categories (name, position)
		SELECT ?, COALESCE(MAX(position), 0) + 1 FROM categories`, name)
	if err != nil {
		return fmt.Errorf("add category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MonthlyBudget(ctx context.Context) (core.Money, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, budgetSettingKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{}, nil
	}
	if err != nil {
		return core.Money{}, fmt.Errorf("get monthly budget: %w", err)
	}
	cents, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return core.Money{}, fmt.Errorf("parse monthly budget %q: %w", value, err)
	}
	return core.Money{Cents: cents}, nil
}

func (r *SQLiteRepository) SetMonthlyBudget(ctx context.Context, budget core.Money) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		budgetSettingKey, strconv.FormatInt(budget.Cents, 10))
	if err != nil {
		return fmt.Errorf("set monthly budget: %w", err)
	}
	return nil
}

// ListPendingSync implements store.SyncQueue.
func (r *SQLiteRepository) ListPendingSync(ctx context.Context, limit int) ([]store.PendingSyncTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at FROM transactions
		WHERE sync_status = 'pending'
		ORDER BY created_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending sync: %w", err)
	}
	defer rows.Close()

	var pending []store.PendingSyncTransaction
	for rows.Next() {
		var p store.PendingSyncTransaction
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkSynced implements store.SyncQueue.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET sync_status = 'synced', synced_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return requireAffected(res)
}

// MarkSyncError implements store.SyncQueue.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET sync_status = 'error' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark sync error: %w", err)
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t         core.Transaction
		typ       string
		date      string
		recurring int
	)
	if err := row.Scan(&t.ID, &typ, &t.Amount.Cents, &t.Category, &t.Description, &date, &recurring, &t.CreatedAt); err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.TransactionType(typ)
	t.IsRecurring = recurring != 0
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date %q: %w", date, err)
	}
	t.Date = d
	return t, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
