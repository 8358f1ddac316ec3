package returns

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func allPending() State {
	return State{
		Approval:   ApprovalPending,
		Receipt:    ReceiptPending,
		Processing: ProcessingPending,
	}
}

func TestReceiptGatedByApproval(t *testing.T) {
	state := allPending()
	require.False(t, IsValidChange(FieldReceipt, string(ReceiptReceived), state),
		"receipt must wait for the approval decision")
	require.False(t, IsValidChange(FieldReceipt, string(ReceiptRejected), state))
	require.Empty(t, AllowedValues(FieldReceipt, state))
}

func TestApprovalDecidesOnce(t *testing.T) {
	state := allPending()
	require.True(t, IsValidChange(FieldApproval, string(ApprovalApproved), state))
	require.True(t, IsValidChange(FieldApproval, string(ApprovalRejected), state))
	require.False(t, IsValidChange(FieldApproval, string(ApprovalPending), state),
		"approval can never go back to pending")

	for _, decided := range []ApprovalStatus{ApprovalApproved, ApprovalRejected} {
		state.Approval = decided
		require.False(t, IsValidChange(FieldApproval, string(ApprovalApproved), state))
		require.False(t, IsValidChange(FieldApproval, string(ApprovalRejected), state))
	}
}

func TestReceiptAfterApproval(t *testing.T) {
	state := allPending()
	state.Approval = ApprovalApproved
	require.True(t, IsValidChange(FieldReceipt, string(ReceiptReceived), state))
	require.True(t, IsValidChange(FieldReceipt, string(ReceiptRejected), state))
	require.ElementsMatch(t,
		[]string{string(ReceiptReceived), string(ReceiptRejected)},
		AllowedValues(FieldReceipt, state))
}

func TestReceiptFrozenOnceReceived(t *testing.T) {
	state := State{
		Approval:   ApprovalApproved,
		Receipt:    ReceiptReceived,
		Processing: ProcessingPending,
	}
	require.False(t, IsValidChange(FieldReceipt, string(ReceiptRejected), state))
	require.False(t, IsValidChange(FieldReceipt, string(ReceiptInspected), state))
	require.Empty(t, AllowedValues(FieldReceipt, state))
}

func TestRejectedApprovalOnlyRejectsReceipt(t *testing.T) {
	state := allPending()
	state.Approval = ApprovalRejected
	require.True(t, IsValidChange(FieldReceipt, string(ReceiptRejected), state))
	require.False(t, IsValidChange(FieldReceipt, string(ReceiptReceived), state))
}

func TestCascadeOnApprovalRejection(t *testing.T) {
	effects := CascadingEffects(FieldApproval, string(ApprovalRejected))
	require.Equal(t, map[Field]string{FieldReceipt: string(ReceiptRejected)}, effects)

	require.Nil(t, CascadingEffects(FieldApproval, string(ApprovalApproved)))
	require.Nil(t, CascadingEffects(FieldReceipt, string(ReceiptRejected)))
}

func TestProcessingRequiresReceivedGoods(t *testing.T) {
	state := State{
		Approval:   ApprovalApproved,
		Receipt:    ReceiptPending,
		Processing: ProcessingPending,
	}
	require.False(t, IsValidChange(FieldProcessing, string(ProcessingProcessed), state))

	state.Receipt = ReceiptReceived
	require.True(t, IsValidChange(FieldProcessing, string(ProcessingProcessed), state))

	// A rejected receipt can never be processed.
	state.Receipt = ReceiptRejected
	require.False(t, IsValidChange(FieldProcessing, string(ProcessingProcessed), state))
	require.Empty(t, AllowedValues(FieldProcessing, state))
}

func TestProcessedIsTerminal(t *testing.T) {
	state := State{
		Approval:   ApprovalApproved,
		Receipt:    ReceiptReceived,
		Processing: ProcessingProcessed,
	}
	require.False(t, IsValidChange(FieldProcessing, string(ProcessingProcessed), state))
	require.False(t, IsValidChange(FieldProcessing, string(ProcessingPending), state))
}

func TestUnknownFieldsAndValuesFailClosed(t *testing.T) {
	state := allPending()
	require.False(t, IsValidChange(Field("refund_status"), "approved", state))
	require.False(t, IsValidChange(FieldApproval, "maybe", state))
	require.False(t, IsValidChange(FieldReceipt, "", state))
	require.Nil(t, AllowedValues(Field("refund_status"), state))

	_, ok := ParseField("refund_status")
	require.False(t, ok)
}

func TestViolationsOnHealthyStates(t *testing.T) {
	healthy := []State{
		allPending(),
		{Approval: ApprovalApproved, Receipt: ReceiptPending, Processing: ProcessingPending},
		{Approval: ApprovalApproved, Receipt: ReceiptReceived, Processing: ProcessingProcessed},
		{Approval: ApprovalRejected, Receipt: ReceiptRejected, Processing: ProcessingPending},
	}
	for _, state := range healthy {
		require.Empty(t, Violations(state), "state %+v", state)
	}
}

func TestViolationsFlagBrokenStates(t *testing.T) {
	require.NotEmpty(t, Violations(State{
		Approval:   ApprovalPending,
		Receipt:    ReceiptReceived,
		Processing: ProcessingPending,
	}), "receipt settled before approval")

	require.NotEmpty(t, Violations(State{
		Approval:   ApprovalRejected,
		Receipt:    ReceiptReceived,
		Processing: ProcessingPending,
	}), "rejected approval with received goods")

	require.NotEmpty(t, Violations(State{
		Approval:   ApprovalApproved,
		Receipt:    ReceiptRejected,
		Processing: ProcessingProcessed,
	}), "processed without received goods")
}
