package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/orderdesk/internal/returns"
)

type staticReturns []returns.Return

func (s staticReturns) ListOpen(ctx context.Context, limit int) ([]returns.Return, error) {
	return s, nil
}

func TestReturnsIntegrityScanPassesHealthyRows(t *testing.T) {
	source := staticReturns{
		{
			ID:               uuid.New(),
			ApprovalStatus:   returns.ApprovalPending,
			ReceiptStatus:    returns.ReceiptPending,
			ProcessingStatus: returns.ProcessingPending,
		},
		{
			ID:               uuid.New(),
			ApprovalStatus:   returns.ApprovalApproved,
			ReceiptStatus:    returns.ReceiptReceived,
			ProcessingStatus: returns.ProcessingPending,
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, RunReturnsIntegrityScan(context.Background(), source, logger))
}

func TestReturnsIntegrityScanSurvivesBrokenRows(t *testing.T) {
	// The scan must log and keep going, not fail the job.
	source := staticReturns{
		{
			ID:               uuid.New(),
			ApprovalStatus:   returns.ApprovalPending,
			ReceiptStatus:    returns.ReceiptReceived,
			ProcessingStatus: returns.ProcessingProcessed,
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, RunReturnsIntegrityScan(context.Background(), source, logger))
}

type recordingRestocker struct {
	returnIDs []uuid.UUID
}

func (r *recordingRestocker) PostRestock(ctx context.Context, returnID uuid.UUID, orderID int64) error {
	r.returnIDs = append(r.returnIDs, returnID)
	return nil
}

func TestRestockHandlerRoundTrip(t *testing.T) {
	restocker := &recordingRestocker{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewRestockHandler(restocker, nil, logger)

	returnID := uuid.New()
	task, err := NewRestockTask(RestockPayload{ReturnID: returnID, OrderID: 7})
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), task))
	require.Equal(t, []uuid.UUID{returnID}, restocker.returnIDs)
}

func TestRestockHandlerSkipsEmptyPayload(t *testing.T) {
	restocker := &recordingRestocker{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewRestockHandler(restocker, nil, logger)

	task, err := NewRestockTask(RestockPayload{})
	require.NoError(t, err)

	require.Error(t, handler(context.Background(), task))
	require.Empty(t, restocker.returnIDs)
}
