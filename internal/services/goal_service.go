package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"trackmate/internal/core"
	"trackmate/internal/log"
	"trackmate/internal/store"
)

// GoalService manages savings goals and deposits into them.
type GoalService struct {
	store    store.GoalStore
	notifier ChangeNotifier
	logger   *log.Logger

	newID func() string
	now   func() time.Time
}

func NewGoalService(s store.GoalStore, notifier ChangeNotifier, logger *log.Logger) *GoalService {
	return &GoalService{
		store:    s,
		notifier: notifier,
		logger:   logger.WithComponent(log.ComponentGoal),
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

func (s *GoalService) Create(ctx context.Context, title string, target core.Money) (core.Goal, error) {
	g := core.Goal{
		ID:        s.newID(),
		Title:     title,
		Target:    target,
		CreatedAt: s.now(),
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	if err := s.store.CreateGoal(ctx, g); err != nil {
		return core.Goal{}, fmt.Errorf("save goal: %w", err)
	}

	s.notify(log.OpCreate, g.ID)
	s.logger.InfoContext(ctx, "Goal created", log.FieldGoalID, g.ID)
	return g, nil
}

// Deposit adds a strictly positive amount to the goal's saved balance.
func (s *GoalService) Deposit(ctx context.Context, id string, amount core.Money) (core.Goal, error) {
	if amount.Cents <= 0 {
		return core.Goal{}, core.ErrInvalidAmount
	}

	g, err := s.store.DepositToGoal(ctx, id, amount)
	if err != nil {
		return core.Goal{}, err
	}

	s.notify(log.OpDeposit, id)
	s.logger.InfoContext(ctx, "Goal deposit",
		log.FieldGoalID, id,
		log.FieldAmountCents, amount.Cents)
	return g, nil
}

func (s *GoalService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		return err
	}
	s.notify(log.OpDelete, id)
	return nil
}

func (s *GoalService) List(ctx context.Context) ([]core.Goal, error) {
	return s.store.ListGoals(ctx)
}

func (s *GoalService) notify(action, id string) {
	if s.notifier != nil {
		s.notifier.NotifyChange(EntityGoal, action, id)
	}
}
