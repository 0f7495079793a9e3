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

// DebtService tracks shares of split expenses owed by other people.
type DebtService struct {
	store     store.Store
	publisher SyncPublisher
	notifier  ChangeNotifier
	logger    *log.Logger

	newID func() string
	now   func() time.Time
}

func NewDebtService(s store.Store, publisher SyncPublisher, notifier ChangeNotifier, logger *log.Logger) *DebtService {
	return &DebtService{
		store:     s,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger.WithComponent(log.ComponentDebt),
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

func (s *DebtService) Create(ctx context.Context, person string, amount core.Money, description string, date core.Date) (core.Debt, error) {
	d := core.Debt{
		ID:          s.newID(),
		Person:      person,
		Amount:      amount,
		Description: description,
		Date:        date,
		Status:      core.DebtPending,
		CreatedAt:   s.now(),
	}
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}
	if err := s.store.CreateDebt(ctx, d); err != nil {
		return core.Debt{}, fmt.Errorf("save debt: %w", err)
	}

	s.notify(log.OpCreate, d.ID)
	s.logger.InfoContext(ctx, "Debt created",
		log.FieldDebtID, d.ID,
		log.FieldPerson, d.Person,
		log.FieldAmountCents, d.Amount.Cents)
	return d, nil
}

// Settle closes a debt: the record is removed and the repayment lands as an
// income transaction dated today.
func (s *DebtService) Settle(ctx context.Context, id string) (core.Transaction, error) {
	d, err := s.store.GetDebt(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}

	if err := s.store.DeleteDebt(ctx, id); err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		ID:          s.newID(),
		Type:        core.Income,
		Amount:      d.Amount,
		Category:    "Other",
		Description: fmt.Sprintf("Settled by %s", d.Person),
		Date:        core.DateOf(s.now()),
		CreatedAt:   s.now(),
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("record settlement: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionSync(ctx, tx.ID, amqp.ActionUpsert); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish settlement sync",
				log.FieldTransactionID, tx.ID,
				log.FieldError, err.Error())
		}
	}
	s.notify(log.OpSettle, id)
	if s.notifier != nil {
		s.notifier.NotifyChange(EntityTransaction, log.OpCreate, tx.ID)
	}

	s.logger.InfoContext(ctx, "Debt settled",
		log.FieldDebtID, id,
		log.FieldPerson, d.Person,
		log.FieldTransactionID, tx.ID,
		log.FieldAmountCents, d.Amount.Cents)
	return tx, nil
}

func (s *DebtService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteDebt(ctx, id); err != nil {
		return err
	}
	s.notify(log.OpDelete, id)
	return nil
}

func (s *DebtService) List(ctx context.Context) ([]core.Debt, error) {
	return s.store.ListDebts(ctx)
}

func (s *DebtService) notify(action, id string) {
	if s.notifier != nil {
		s.notifier.NotifyChange(EntityDebt, action, id)
	}
}
