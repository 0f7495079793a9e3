// Package export renders transaction history as a CSV download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"trackmate/internal/core"
)

// Filename is the attachment name offered to the browser.
const Filename = "trackmate_export.csv"

var header = []string{"Date", "Description", "Category", "Type", "Amount", "Recurring"}

// WriteCSV writes the full transaction history, one row per transaction, in
// the order given.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range txs {
		row := []string{
			t.Date.ISO(),
			t.Description,
			t.Category,
			string(t.Type),
			t.Amount.DecimalString(),
			yesNo(t.IsRecurring),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
