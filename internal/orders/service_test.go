package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orderdesk/orderdesk/internal/rbac"
	"github.com/orderdesk/orderdesk/internal/shared"
)

type memoryRepo struct {
	orders map[int64]*Order
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{orders: make(map[int64]*Order)}
}

func (r *memoryRepo) Create(ctx context.Context, order Order) (int64, error) {
	r.nextID++
	order.ID = r.nextID
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = &order
	return order.ID, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *memoryRepo) List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error) {
	var result []Order
	for _, o := range r.orders {
		if o.CompanyID != req.CompanyID {
			continue
		}
		if req.Status != nil && o.Status != *req.Status {
			continue
		}
		result = append(result, *o)
	}
	return result, len(result), nil
}

func (r *memoryRepo) UpdateStatus(ctx context.Context, id int64, from, to Status) error {
	order, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	if order.Status != from {
		return shared.ErrStaleState
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	return nil
}

func (r *memoryRepo) GenerateNumber(ctx context.Context, companyID int64, date time.Time) (string, error) {
	return fmt.Sprintf("ORD/%s/%04d", date.Format("20060102"), r.nextID+1), nil
}

type recordedChange struct {
	entity, entityID, field, from, to string
}

type memoryAuditor struct {
	changes []recordedChange
}

func (a *memoryAuditor) RecordStatusChange(ctx context.Context, actorID int64, entity, entityID, field, from, to string) error {
	a.changes = append(a.changes, recordedChange{entity, entityID, field, from, to})
	return nil
}

func seedOrder(t *testing.T, repo *memoryRepo, status Status) int64 {
	t.Helper()
	id, err := repo.Create(context.Background(), Order{
		DocNumber:  "ORD/TEST",
		CompanyID:  1,
		CustomerID: 1,
		Status:     status,
		Currency:   "USD",
	})
	require.NoError(t, err)
	return id
}

func TestChangeStatusDeliveryOnAssignedOrder(t *testing.T) {
	repo := newMemoryRepo()
	audit := &memoryAuditor{}
	svc := NewService(repo, audit, nil)
	ctx := context.Background()
	id := seedOrder(t, repo, StatusAssigned)
	courier := rbac.Actor{UserID: 42, Role: rbac.RoleDelivery}

	order, err := svc.ChangeStatus(ctx, id, courier, StatusDelivered)
	require.NoError(t, err)
	require.Equal(t, StatusDelivered, order.Status)
	require.Len(t, audit.changes, 1)
	require.Equal(t, "order", audit.changes[0].entity)
	require.Equal(t, string(StatusAssigned), audit.changes[0].from)
	require.Equal(t, string(StatusDelivered), audit.changes[0].to)
}

func TestChangeStatusDeliveryCannotCancel(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()
	id := seedOrder(t, repo, StatusAssigned)
	courier := rbac.Actor{UserID: 42, Role: rbac.RoleDelivery}

	_, err := svc.ChangeStatus(ctx, id, courier, StatusCancelled)
	require.ErrorIs(t, err, ErrTransitionNotAllowed)

	order, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, StatusAssigned, order.Status)
}

func TestChangeStatusNoOpSkipsWrite(t *testing.T) {
	repo := newMemoryRepo()
	audit := &memoryAuditor{}
	svc := NewService(repo, audit, nil)
	ctx := context.Background()
	id := seedOrder(t, repo, StatusConfirmed)
	admin := rbac.Actor{UserID: 1, Role: rbac.RoleAdmin}

	order, err := svc.ChangeStatus(ctx, id, admin, StatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, order.Status)
	require.Empty(t, audit.changes, "no-op must not reach the audit log")
}

func TestChangeStatusStaleStateSurfaces(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()
	id := seedOrder(t, repo, StatusConfirmed)
	admin := rbac.Actor{UserID: 1, Role: rbac.RoleAdmin}

	// Another actor moves the order between read and commit.
	original := svc.repo
	svc.repo = &racingRepo{Repository: original, inner: repo, raceTo: StatusShipped}

	_, err := svc.ChangeStatus(ctx, id, admin, StatusCancelled)
	require.ErrorIs(t, err, shared.ErrStaleState)
}

// racingRepo flips the order's status after the service has read it, right
// before the optimistic commit.
type racingRepo struct {
	Repository
	inner  *memoryRepo
	raceTo Status
}

func (r *racingRepo) UpdateStatus(ctx context.Context, id int64, from, to Status) error {
	r.inner.orders[id].Status = r.raceTo
	return r.inner.UpdateStatus(ctx, id, from, to)
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	id := seedOrder(t, repo, StatusPending)
	admin := rbac.Actor{UserID: 1, Role: rbac.RoleAdmin}

	_, err := svc.ChangeStatus(context.Background(), id, admin, Status("limbo"))
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestCreateComputesTotalsAndDocNumber(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		CompanyID:  1,
		CustomerID: 3,
		Currency:   "USD",
		Lines: []CreateOrderLineRequest{
			{ProductID: 10, Quantity: 2, UnitPrice: 19.99},
			{ProductID: 11, Quantity: 1, UnitPrice: 5.00},
		},
	}, 42)
	require.NoError(t, err)
	require.Equal(t, StatusPending, order.Status)
	require.InDelta(t, 44.98, order.TotalAmount, 0.001)
	require.NotEmpty(t, order.DocNumber)
}

func TestCreateRejectsNonPositiveQuantity(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		CompanyID:  1,
		CustomerID: 3,
		Currency:   "USD",
		Lines:      []CreateOrderLineRequest{{ProductID: 10, Quantity: 0, UnitPrice: 1}},
	}, 42)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}
