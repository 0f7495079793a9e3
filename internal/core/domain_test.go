package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.March || d.Day() != 9 {
		t.Fatalf("unexpected date %v", d)
	}
	if d.ISO() != "2025-03-09" {
		t.Fatalf("ISO() = %q", d.ISO())
	}
	if d.MonthKey() != "2025-03" {
		t.Fatalf("MonthKey() = %q", d.MonthKey())
	}

	for _, bad := range []string{"", "2025-13-01", "09/03/2025", "yesterday"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) expected error", bad)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Type:        Expense,
		Amount:      Money{Cents: 4200},
		Category:    "Food",
		Description: "lunch",
		Date:        NewDate(2025, 1, 15),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		name string
		mut  func(Transaction) Transaction
	}{
		{"bad type", func(tx Transaction) Transaction { tx.Type = "transfer"; return tx }},
		{"zero date", func(tx Transaction) Transaction { tx.Date = Date{}; return tx }},
		{"zero amount", func(tx Transaction) Transaction { tx.Amount = Money{}; return tx }},
		{"empty description", func(tx Transaction) Transaction { tx.Description = "  "; return tx }},
		{"empty category", func(tx Transaction) Transaction { tx.Category = ""; return tx }},
	}
	for _, tc := range bads {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.mut(good).Validate(); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestGoalValidate(t *testing.T) {
	good := Goal{Title: "Emergency fund", Target: Money{Cents: 100_000_00}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Goal{Title: "", Target: Money{Cents: 100}}).Validate(); err == nil {
		t.Error("expected error for empty title")
	}
	if err := (Goal{Title: "x", Target: Money{Cents: 0}}).Validate(); err == nil {
		t.Error("expected error for zero target")
	}
	if err := (Goal{Title: "x", Target: Money{Cents: 100}, Current: Money{Cents: -1}}).Validate(); err == nil {
		t.Error("expected error for negative current")
	}
}

func TestDebtValidate(t *testing.T) {
	good := Debt{Person: "Sam", Amount: Money{Cents: 250_00}, Date: NewDate(2025, 2, 1)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Debt{Person: "", Amount: Money{Cents: 1}, Date: good.Date}).Validate(); err == nil {
		t.Error("expected error for empty person")
	}
	if err := (Debt{Person: "Sam", Amount: Money{}, Date: good.Date}).Validate(); err == nil {
		t.Error("expected error for zero amount")
	}
}
