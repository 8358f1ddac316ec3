package orders

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/orderdesk/orderdesk/internal/rbac"
)

// Auditor records committed status changes. Satisfied by shared.AuditLogger.
type Auditor interface {
	RecordStatusChange(ctx context.Context, actorID int64, entity, entityID, field, from, to string) error
}

// Service wraps order business rules.
type Service struct {
	repo   Repository
	audit  Auditor
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, audit Auditor, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// Create validates and persists a new order in pending status.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest, createdBy int64) (*Order, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptyLines
	}

	var total float64
	lines := make([]OrderLine, 0, len(req.Lines))
	for i, lineReq := range req.Lines {
		if lineReq.Quantity <= 0 {
			return nil, fmt.Errorf("line %d: %w", i+1, ErrInvalidQuantity)
		}
		lineTotal := lineReq.Quantity * lineReq.UnitPrice
		total += lineTotal
		line := OrderLine{
			ProductID: lineReq.ProductID,
			Quantity:  lineReq.Quantity,
			UnitPrice: lineReq.UnitPrice,
			LineTotal: lineTotal,
			LineOrder: lineReq.LineOrder,
		}
		if line.LineOrder == 0 {
			line.LineOrder = i + 1
		}
		lines = append(lines, line)
	}

	docNumber, err := s.repo.GenerateNumber(ctx, req.CompanyID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("generate doc number: %w", err)
	}

	order := Order{
		DocNumber:   docNumber,
		CompanyID:   req.CompanyID,
		CustomerID:  req.CustomerID,
		Status:      StatusPending,
		Currency:    req.Currency,
		TotalAmount: total,
		Notes:       req.Notes,
		CreatedBy:   createdBy,
		Lines:       lines,
	}

	id, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Get fetches a single order.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.Get(ctx, id)
}

// List returns orders matching the filter.
func (s *Service) List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error) {
	return s.repo.List(ctx, req)
}

// Transitions computes the labelled transition options the actor may perform
// on the order.
func (s *Service) Transitions(ctx context.Context, id int64, role rbac.Role) (*TransitionsResponse, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed := AllowedTransitions(order.Status, role)
	if len(allowed) == 0 && !order.Status.Terminal() && s.logger != nil {
		// An empty set outside a terminal state is worth a look upstream.
		s.logger.Warn("no transitions available",
			slog.Int64("order_id", id),
			slog.String("status", string(order.Status)),
			slog.String("role", role.String()))
	}
	return &TransitionsResponse{
		Current: order.Status,
		Options: TransitionOptions(allowed),
	}, nil
}

// ChangeStatus applies a role-checked status transition. Requesting the
// status the order already holds is a successful no-op; nothing is written.
func (s *Service) ChangeStatus(ctx context.Context, id int64, actor rbac.Actor, requested Status) (*Order, error) {
	if !requested.Valid() {
		return nil, ErrUnknownStatus
	}

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == requested {
		return order, nil
	}

	if !CanTransition(order.Status, requested, actor.Role) {
		return nil, ErrTransitionNotAllowed
	}

	if err := s.repo.UpdateStatus(ctx, id, order.Status, requested); err != nil {
		return nil, err
	}

	if s.audit != nil {
		if err := s.audit.RecordStatusChange(ctx, actor.UserID, "order", strconv.FormatInt(id, 10), "status", string(order.Status), string(requested)); err != nil && s.logger != nil {
			s.logger.Warn("audit status change", slog.Any("error", err))
		}
	}

	return s.repo.Get(ctx, id)
}
