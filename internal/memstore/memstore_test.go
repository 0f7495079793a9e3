package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"trackmate/internal/core"
	"trackmate/internal/store"
)

func TestTransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New(core.Money{Cents: 20000_00})

	older := core.Transaction{
		ID:          "t1",
		Type:        core.Expense,
		Amount:      core.Money{Cents: 500_00},
		Category:    "Food",
		Description: "groceries",
		Date:        core.NewDate(2025, time.March, 1),
		CreatedAt:   time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := older
	newer.ID = "t2"
	newer.Date = core.NewDate(2025, time.March, 5)

	if err := s.CreateTransaction(ctx, older); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateTransaction(ctx, newer); err != nil {
		t.Fatal(err)
	}

	txs, err := s.ListTransactions(ctx)
	if err != nil || len(txs) != 2 {
		t.Fatalf("list: %v err=%v", txs, err)
	}
	if txs[0].ID != "t2" {
		t.Fatalf("expected newest first, got %s", txs[0].ID)
	}

	if err := s.DeleteTransaction(ctx, "t1"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteTransaction(ctx, "t1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := s.GetTransaction(ctx, "t1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("get deleted: %v", err)
	}
}

func TestGoalDeposit(t *testing.T) {
	ctx := context.Background()
	s := New(core.Money{})

	if err := s.CreateGoal(ctx, core.Goal{ID: "g1", Title: "Bike", Target: core.Money{Cents: 30000_00}}); err != nil {
		t.Fatal(err)
	}

	g, err := s.DepositToGoal(ctx, "g1", core.Money{Cents: 1000_00})
	if err != nil {
		t.Fatal(err)
	}
	if g.Current.Cents != 1000_00 {
		t.Fatalf("Current = %d", g.Current.Cents)
	}

	g, err = s.DepositToGoal(ctx, "g1", core.Money{Cents: 250_00})
	if err != nil || g.Current.Cents != 1250_00 {
		t.Fatalf("second deposit: %+v err=%v", g, err)
	}

	if _, err := s.DepositToGoal(ctx, "missing", core.Money{Cents: 1}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("deposit to missing goal: %v", err)
	}
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	s := New(core.Money{})

	cats, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != len(core.DefaultCategories) || cats[0] != "Food" {
		t.Fatalf("default categories: %v", cats)
	}

	if err := s.AddCategory(ctx, "Travel"); err != nil {
		t.Fatal(err)
	}
	// duplicates are a no-op
	if err := s.AddCategory(ctx, "Travel"); err != nil {
		t.Fatal(err)
	}
	cats, _ = s.ListCategories(ctx)
	if len(cats) != len(core.DefaultCategories)+1 || cats[len(cats)-1] != "Travel" {
		t.Fatalf("after add: %v", cats)
	}

	if err := s.AddCategory(ctx, "  "); !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("blank category: %v", err)
	}
}

func TestMonthlyBudget(t *testing.T) {
	ctx := context.Background()
	s := New(core.Money{Cents: 20000_00})

	b, err := s.MonthlyBudget(ctx)
	if err != nil || b.Cents != 20000_00 {
		t.Fatalf("initial budget: %v err=%v", b, err)
	}

	if err := s.SetMonthlyBudget(ctx, core.Money{Cents: 15000_00}); err != nil {
		t.Fatal(err)
	}
	b, _ = s.MonthlyBudget(ctx)
	if b.Cents != 15000_00 {
		t.Fatalf("updated budget: %v", b)
	}
}
