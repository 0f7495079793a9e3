package sheets

import (
	"context"

	"trackmate/internal/core"
)

// TransactionMirror is the outbound port for the spreadsheet copy of the
// transaction log. The Google adapter implements it.
type TransactionMirror interface {
	// Append adds the transaction as a new row and returns a row reference.
	Append(ctx context.Context, t core.Transaction) (rowRef string, err error)

	// DeleteByID removes the row whose first column holds the given
	// transaction ID. Deleting an ID that is not present is not an error.
	DeleteByID(ctx context.Context, id string) error
}
