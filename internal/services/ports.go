package services

import "context"

// SyncPublisher queues a transaction for mirroring to the spreadsheet. The
// AMQP client implements it; a nil publisher disables mirroring.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id, action string) error
}

// ChangeNotifier fans a data change out to connected clients so dashboards
// refresh without polling. The websocket hub implements it.
type ChangeNotifier interface {
	NotifyChange(entity, action, id string)
}

// Entities named in change notifications.
const (
	EntityTransaction = "transaction"
	EntityGoal        = "goal"
	EntityDebt        = "debt"
	EntityCategory    = "category"
	EntityBudget      = "budget"
)
