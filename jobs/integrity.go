package jobs

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	jobmetrics "github.com/orderdesk/orderdesk/internal/jobs"
	"github.com/orderdesk/orderdesk/internal/returns"
)

// OpenReturns supplies the rows to scan. Satisfied by returns.PGRepository.
type OpenReturns interface {
	ListOpen(ctx context.Context, limit int) ([]returns.Return, error)
}

const integrityScanLimit = 5000

// RunReturnsIntegrityScan checks every open return against the lifecycle
// invariants and logs the ones that break them. A violation means some
// write bypassed the transition policy and needs a human look.
func RunReturnsIntegrityScan(ctx context.Context, source OpenReturns, logger *slog.Logger) error {
	open, err := source.ListOpen(ctx, integrityScanLimit)
	if err != nil {
		return err
	}

	var flagged atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, ret := range open {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for _, violation := range returns.Violations(ret.State()) {
				flagged.Add(1)
				logger.Error("return lifecycle violation",
					slog.String("return_id", ret.ID.String()),
					slog.Int64("order_id", ret.OrderID),
					slog.String("violation", violation))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("returns integrity scan finished",
		slog.Int("scanned", len(open)),
		slog.Int64("flagged", flagged.Load()))
	return nil
}

// NewReturnsIntegrityHandler builds the Asynq handler for the nightly scan.
func NewReturnsIntegrityHandler(source OpenReturns, metrics *jobmetrics.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track("returns_integrity")
		return tracker.End(RunReturnsIntegrityScan(ctx, source, logger))
	}
}
