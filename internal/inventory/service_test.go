package inventory

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	movements map[string][]Movement
	balances  map[int64]float64
	lines     map[int64][]RestockLine
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		movements: make(map[string][]Movement),
		balances:  make(map[int64]float64),
		lines:     make(map[int64][]RestockLine),
	}
}

func movementKey(refType string, refID uuid.UUID) string {
	return refType + ":" + refID.String()
}

func (r *memoryRepo) HasMovement(ctx context.Context, refType string, refID uuid.UUID) (bool, error) {
	_, ok := r.movements[movementKey(refType, refID)]
	return ok, nil
}

func (r *memoryRepo) ListOrderLines(ctx context.Context, orderID int64) ([]RestockLine, error) {
	return r.lines[orderID], nil
}

func (r *memoryRepo) ApplyRestock(ctx context.Context, refType string, refID uuid.UUID, lines []RestockLine) error {
	key := movementKey(refType, refID)
	for _, line := range lines {
		r.movements[key] = append(r.movements[key], Movement{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Kind:      MovementRestock,
			RefType:   refType,
			RefID:     refID,
			At:        time.Now(),
		})
		r.balances[line.ProductID] += line.Quantity
	}
	return nil
}

func (r *memoryRepo) GetBalance(ctx context.Context, productID int64) (*Balance, error) {
	return &Balance{ProductID: productID, OnHand: r.balances[productID]}, nil
}

func newTestService(t *testing.T) (*Service, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, logger), repo
}

func TestPostRestockCreditsBalances(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	repo.lines[7] = []RestockLine{
		{ProductID: 10, Quantity: 2},
		{ProductID: 11, Quantity: 1},
	}

	require.NoError(t, svc.PostRestock(ctx, uuid.New(), 7))

	balance, err := svc.Balance(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 2.0, balance.OnHand)

	balance, err = svc.Balance(ctx, 11)
	require.NoError(t, err)
	require.Equal(t, 1.0, balance.OnHand)
}

func TestPostRestockIsIdempotentPerReturn(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	repo.lines[7] = []RestockLine{{ProductID: 10, Quantity: 2}}
	returnID := uuid.New()

	require.NoError(t, svc.PostRestock(ctx, returnID, 7))
	require.NoError(t, svc.PostRestock(ctx, returnID, 7))

	balance, err := svc.Balance(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 2.0, balance.OnHand, "repeat restock for one return must not double-credit")

	// A different return for the same order credits again.
	require.NoError(t, svc.PostRestock(ctx, uuid.New(), 7))
	balance, err = svc.Balance(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 4.0, balance.OnHand)
}

func TestPostRestockNoLinesIsNoOp(t *testing.T) {
	svc, repo := newTestService(t)
	require.NoError(t, svc.PostRestock(context.Background(), uuid.New(), 99))
	require.Empty(t, repo.movements)
}
