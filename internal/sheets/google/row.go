package google

import (
	"fmt"
	"strings"

	"trackmate/internal/core"
)

// transactionRow builds the sheet row for a transaction. Column order is
// ID, Date, Description, Category, Type, Amount, Recurring.
func transactionRow(t core.Transaction) []any {
	recurring := "No"
	if t.IsRecurring {
		recurring = "Yes"
	}
	return []any{
		t.ID,
		t.Date.ISO(),
		t.Description,
		t.Category,
		string(t.Type),
		t.Amount.Units(),
		recurring,
	}
}

// findRowIndex returns the zero-based row index whose first cell equals id,
// or -1 when absent.
func findRowIndex(rows [][]any, id string) int {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i
		}
	}
	return -1
}
