// Package worker drains the sync queue and mirrors transactions into the
// Google Sheets copy of the log.
package worker

import (
	"context"
	"errors"
	"fmt"

	"trackmate/internal/amqp"
	"trackmate/internal/log"
	"trackmate/internal/sheets"
	"trackmate/internal/store"
)

// SyncWorker applies queued transaction changes to the spreadsheet mirror.
// A periodic poll over the pending set backs up lost queue messages.
type SyncWorker struct {
	store     store.TransactionStore
	queue     store.SyncQueue
	mirror    sheets.TransactionMirror
	batchSize int
	logger    *log.Logger
}

func NewSyncWorker(s store.TransactionStore, queue store.SyncQueue, mirror sheets.TransactionMirror, batchSize int, logger *log.Logger) *SyncWorker {
	return &SyncWorker{
		store:     s,
		queue:     queue,
		mirror:    mirror,
		batchSize: batchSize,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// HandleMessage processes a single sync message from the queue.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	switch msg.Action {
	case amqp.ActionUpsert:
		return w.syncTransaction(ctx, msg.ID)
	case amqp.ActionDelete:
		if err := w.mirror.DeleteByID(ctx, msg.ID); err != nil {
			return fmt.Errorf("delete from mirror: %w", err)
		}
		w.logger.InfoContext(ctx, "Mirror row deleted", log.FieldTransactionID, msg.ID)
		return nil
	default:
		// validated at decode time, but a bad queue entry must not requeue forever
		w.logger.WarnContext(ctx, "Dropping message with unknown action",
			log.FieldTransactionID, msg.ID,
			log.FieldOperation, msg.Action)
		return nil
	}
}

// ProcessPending mirrors transactions still marked pending. This is the
// backup path for queue messages lost before delivery.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.queue.ListPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending sync: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	w.logger.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		if err := w.syncTransaction(ctx, p.ID); err != nil {
			w.logger.ErrorContext(ctx, "Failed to sync pending transaction",
				log.FieldTransactionID, p.ID,
				log.FieldError, err.Error())
		}
	}
	return nil
}

// StartupSyncCheck drains a larger pending batch once at startup to recover
// from worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.queue.ListPendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending sync at startup: %w", err)
	}
	if len(pending) == 0 {
		w.logger.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	w.logger.InfoContext(ctx, "Found pending transactions on startup", "count", len(pending))

	synced, failed := 0, 0
	for _, p := range pending {
		if err := w.syncTransaction(ctx, p.ID); err != nil {
			w.logger.ErrorContext(ctx, "Startup sync failed for transaction",
				log.FieldTransactionID, p.ID,
				log.FieldError, err.Error())
			failed++
			continue
		}
		synced++
	}

	w.logger.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)
	return nil
}

func (w *SyncWorker) syncTransaction(ctx context.Context, id string) error {
	tx, err := w.store.GetTransaction(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		// deleted between enqueue and delivery; the delete message handles
		// the mirror side
		w.logger.WarnContext(ctx, "Transaction vanished before sync", log.FieldTransactionID, id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}

	ref, err := w.mirror.Append(ctx, tx)
	if err != nil {
		if markErr := w.queue.MarkSyncError(ctx, id); markErr != nil {
			w.logger.ErrorContext(ctx, "Failed to mark sync error",
				log.FieldTransactionID, id,
				log.FieldError, markErr.Error())
		}
		return fmt.Errorf("append to mirror: %w", err)
	}

	if err := w.queue.MarkSynced(ctx, id); err != nil {
		// the mirror write succeeded, only the bookkeeping failed
		w.logger.ErrorContext(ctx, "Failed to mark as synced",
			log.FieldTransactionID, id,
			log.FieldError, err.Error())
	}

	w.logger.InfoContext(ctx, "Transaction mirrored",
		log.FieldTransactionID, id,
		log.FieldSheetsRef, ref,
		log.FieldAmountCents, tx.Amount.Cents)
	return nil
}
