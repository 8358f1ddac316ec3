package shared

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventTimeDefaultsUnsetTimestampToNow(t *testing.T) {
	before := time.Now().UTC()
	got := eventTime(time.Time{})
	after := time.Now().UTC()

	require.False(t, got.IsZero(), "an unset timestamp must not reach the database as year 1")
	require.False(t, got.Before(before))
	require.False(t, got.After(after))
}

func TestEventTimeKeepsExplicitTimestamp(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)
	require.Equal(t, at, eventTime(at))
}

func TestAuditRecordValidatesBeforeWriting(t *testing.T) {
	logger := NewAuditLogger(nil)

	err := logger.Record(context.Background(), AuditLog{Action: "status_change"})
	require.Error(t, err, "entity and entity id are required")

	err = logger.Record(context.Background(), AuditLog{Entity: "order", EntityID: "1"})
	require.Error(t, err, "action is required")
}

func TestApprovalRecordValidatesBeforeWriting(t *testing.T) {
	recorder := &ApprovalRecorder{}

	err := recorder.Record(context.Background(), ApprovalLog{Module: "returns", ActorID: 1, Action: ApprovalApprove})
	require.Error(t, err, "ref id is required")

	err = recorder.Record(context.Background(), ApprovalLog{ActorID: 1, Action: ApprovalApprove})
	require.Error(t, err, "module is required")
}
