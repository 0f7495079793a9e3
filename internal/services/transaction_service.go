package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"trackmate/internal/amqp"
	"trackmate/internal/core"
	"trackmate/internal/log"
	"trackmate/internal/store"
)

// NewTransaction is the input for recording a transaction. SplitWith lists
// people sharing an expense: the amount is divided equally among them plus
// the user, only the user's share is recorded as the expense, and each
// person's share becomes a pending debt.
type NewTransaction struct {
	Type        core.TransactionType
	Amount      core.Money
	Category    string
	Description string
	Date        core.Date
	IsRecurring bool
	SplitWith   []string
}

// TransactionService orchestrates transaction writes across the store, the
// sync queue and connected clients.
type TransactionService struct {
	store     store.Store
	publisher SyncPublisher
	notifier  ChangeNotifier
	logger    *log.Logger

	newID func() string
	now   func() time.Time
}

func NewTransactionService(s store.Store, publisher SyncPublisher, notifier ChangeNotifier, logger *log.Logger) *TransactionService {
	return &TransactionService{
		store:     s,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger.WithComponent(log.ComponentTransaction),
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Record validates and stores a transaction. For split expenses it records
// only the user's share and opens a debt per listed person.
func (s *TransactionService) Record(ctx context.Context, input NewTransaction) (core.Transaction, error) {
	tx := core.Transaction{
		ID:          s.newID(),
		Type:        input.Type,
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		Date:        input.Date,
		IsRecurring: input.IsRecurring,
		CreatedAt:   s.now(),
	}

	var debts []core.Debt
	if len(input.SplitWith) > 0 && input.Type == core.Expense {
		share := input.Amount.Cents / int64(len(input.SplitWith)+1)
		if share <= 0 {
			return core.Transaction{}, core.ErrInvalidAmount
		}
		// rounding remainder stays on the user's share
		tx.Amount = core.Money{Cents: input.Amount.Cents - share*int64(len(input.SplitWith))}
		for _, person := range input.SplitWith {
			debts = append(debts, core.Debt{
				ID:          s.newID(),
				Person:      person,
				Amount:      core.Money{Cents: share},
				Description: input.Description,
				Date:        input.Date,
				Status:      core.DebtPending,
				CreatedAt:   tx.CreatedAt,
			})
		}
	}

	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	for _, d := range debts {
		if err := d.Validate(); err != nil {
			return core.Transaction{}, err
		}
	}

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	for _, d := range debts {
		if err := s.store.CreateDebt(ctx, d); err != nil {
			return core.Transaction{}, fmt.Errorf("save split debt: %w", err)
		}
	}

	s.publish(ctx, tx.ID, amqp.ActionUpsert)
	s.notify(EntityTransaction, log.OpCreate, tx.ID)
	if len(debts) > 0 {
		s.notify(EntityDebt, log.OpCreate, "")
	}

	s.logger.InfoContext(ctx, "Transaction recorded",
		log.FieldTransactionID, tx.ID,
		log.FieldTransactionType, string(tx.Type),
		log.FieldCategory, tx.Category,
		log.FieldAmountCents, tx.Amount.Cents)

	return tx, nil
}

// Delete removes a transaction and queues the mirror removal.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, id, amqp.ActionDelete)
	s.notify(EntityTransaction, log.OpDelete, id)

	s.logger.InfoContext(ctx, "Transaction deleted", log.FieldTransactionID, id)
	return nil
}

func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx)
}

func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *TransactionService) publish(ctx context.Context, id, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, id, action); err != nil {
		// mirroring is best effort, the local write already succeeded
		s.logger.ErrorContext(ctx, "Failed to publish sync message",
			log.FieldTransactionID, id,
			log.FieldOperation, action,
			log.FieldError, err.Error())
	}
}

func (s *TransactionService) notify(entity, action, id string) {
	if s.notifier != nil {
		s.notifier.NotifyChange(entity, action, id)
	}
}
