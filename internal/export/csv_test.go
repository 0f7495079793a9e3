package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"trackmate/internal/core"
)

func TestWriteCSV(t *testing.T) {
	txs := []core.Transaction{
		{
			Type:        core.Expense,
			Amount:      core.Money{Cents: 450_00},
			Category:    "Food",
			Description: "dinner, with friends",
			Date:        core.NewDate(2025, time.March, 14),
			IsRecurring: false,
		},
		{
			Type:        core.Income,
			Amount:      core.Money{Cents: 50000_00},
			Category:    "Other",
			Description: "salary",
			Date:        core.NewDate(2025, time.March, 1),
			IsRecurring: true,
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, txs); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	if lines[0] != "Date,Description,Category,Type,Amount,Recurring" {
		t.Fatalf("header = %q", lines[0])
	}
	// commas inside fields get quoted
	if lines[1] != `2025-03-14,"dinner, with friends",Food,expense,450.00,No` {
		t.Fatalf("row 1 = %q", lines[1])
	}
	if lines[2] != "2025-03-01,salary,Other,income,50000.00,Yes" {
		t.Fatalf("row 2 = %q", lines[2])
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimRight(buf.String(), "\n"); got != "Date,Description,Category,Type,Amount,Recurring" {
		t.Fatalf("empty export = %q", got)
	}
}
