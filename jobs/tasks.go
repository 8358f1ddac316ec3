// Package jobs holds the background work: the restock task enqueued when
// returned goods come back, and the nightly return-lifecycle integrity scan.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	jobmetrics "github.com/orderdesk/orderdesk/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeReturnsRestock credits stock for a received return.
	TaskTypeReturnsRestock = "returns:restock"
	// TaskTypeReturnsIntegrity scans open returns for lifecycle violations.
	TaskTypeReturnsIntegrity = "returns:integrity"
)

// RestockPayload identifies the return whose goods should be restocked.
type RestockPayload struct {
	ReturnID uuid.UUID `json:"return_id"`
	OrderID  int64     `json:"order_id"`
}

// NewRestockTask constructs an Asynq task for the restock job.
func NewRestockTask(payload RestockPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeReturnsRestock, data), nil
}

// NewReturnsIntegrityTask constructs the cron-scheduled integrity task.
func NewReturnsIntegrityTask() *asynq.Task {
	return asynq.NewTask(TaskTypeReturnsIntegrity, nil)
}

// Restocker posts the stock credit. Satisfied by inventory.Service.
type Restocker interface {
	PostRestock(ctx context.Context, returnID uuid.UUID, orderID int64) error
}

// NewRestockHandler builds the Asynq handler for restock tasks. The posting
// itself is idempotent per return, so Asynq retries are safe.
func NewRestockHandler(svc Restocker, metrics *jobmetrics.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track("returns_restock")
		var payload RestockPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return tracker.End(asynq.SkipRetry)
		}
		if payload.ReturnID == uuid.Nil || payload.OrderID == 0 {
			logger.Warn("restock task with empty payload")
			return tracker.End(asynq.SkipRetry)
		}
		return tracker.End(svc.PostRestock(ctx, payload.ReturnID, payload.OrderID))
	}
}
