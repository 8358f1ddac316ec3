package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

const refTypeReturn = "return"

// Service applies stock side effects.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// PostRestock credits the order's lines back into stock for a received
// return. Safe to call more than once per return; only the first call
// writes anything.
func (s *Service) PostRestock(ctx context.Context, returnID uuid.UUID, orderID int64) error {
	done, err := s.repo.HasMovement(ctx, refTypeReturn, returnID)
	if err != nil {
		return fmt.Errorf("check restock movement: %w", err)
	}
	if done {
		s.logger.Info("restock already posted", slog.String("return_id", returnID.String()))
		return nil
	}

	lines, err := s.repo.ListOrderLines(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order lines: %w", err)
	}
	if len(lines) == 0 {
		s.logger.Warn("restock with no order lines",
			slog.String("return_id", returnID.String()),
			slog.Int64("order_id", orderID))
		return nil
	}

	if err := s.repo.ApplyRestock(ctx, refTypeReturn, returnID, lines); err != nil {
		return fmt.Errorf("apply restock: %w", err)
	}

	s.logger.Info("restock posted",
		slog.String("return_id", returnID.String()),
		slog.Int64("order_id", orderID),
		slog.Int("lines", len(lines)))
	return nil
}

// Balance reads the current on-hand quantity for a product.
func (s *Service) Balance(ctx context.Context, productID int64) (*Balance, error) {
	return s.repo.GetBalance(ctx, productID)
}
