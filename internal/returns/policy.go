package returns

// The transition policy is pure: it never touches storage and never
// returns errors. Anything it does not recognise is simply not allowed.

// IsValidChange reports whether the requested value may be written to the
// given field, evaluated against the full current state of the return.
// Unknown fields and unknown values fail closed.
func IsValidChange(field Field, requested string, state State) bool {
	switch field {
	case FieldApproval:
		return validApprovalChange(ApprovalStatus(requested), state)
	case FieldReceipt:
		return validReceiptChange(ReceiptStatus(requested), state)
	case FieldProcessing:
		return validProcessingChange(ProcessingStatus(requested), state)
	default:
		return false
	}
}

// validApprovalChange: pending may become approved or rejected, once.
func validApprovalChange(requested ApprovalStatus, state State) bool {
	if requested != ApprovalApproved && requested != ApprovalRejected {
		return false
	}
	return state.Approval == ApprovalPending
}

// validReceiptChange: the approval decision gates everything. A rejected
// approval only ever lets the receipt become rejected too; an approved one
// lets a pending receipt settle as received or rejected. Received is frozen.
func validReceiptChange(requested ReceiptStatus, state State) bool {
	if !requested.Valid() || requested == ReceiptPending {
		return false
	}
	switch state.Approval {
	case ApprovalPending:
		return false
	case ApprovalRejected:
		return requested == ReceiptRejected && state.Receipt == ReceiptPending
	case ApprovalApproved:
		if state.Receipt != ReceiptPending {
			return false
		}
		return requested == ReceiptReceived || requested == ReceiptRejected
	default:
		return false
	}
}

// validProcessingChange: the completion flag flips exactly once, and only
// for goods that actually came back. A rejected receipt never processes.
func validProcessingChange(requested ProcessingStatus, state State) bool {
	if requested != ProcessingProcessed {
		return false
	}
	if state.Processing == ProcessingProcessed {
		return false
	}
	return state.Receipt == ReceiptReceived
}

// CascadingEffects lists the additional field writes a change implies, so
// the commit can apply them atomically with the requested one. Rejecting
// the approval also rejects the receipt; nothing else cascades.
func CascadingEffects(field Field, requested string) map[Field]string {
	if field == FieldApproval && ApprovalStatus(requested) == ApprovalRejected {
		return map[Field]string{FieldReceipt: string(ReceiptRejected)}
	}
	return nil
}

// AllowedValues enumerates every value currently accepted for the field.
// Used by the UI to render only actionable choices.
func AllowedValues(field Field, state State) []string {
	var candidates []string
	switch field {
	case FieldApproval:
		candidates = []string{string(ApprovalApproved), string(ApprovalRejected)}
	case FieldReceipt:
		candidates = []string{string(ReceiptReceived), string(ReceiptRejected), string(ReceiptInspected)}
	case FieldProcessing:
		candidates = []string{string(ProcessingProcessed)}
	default:
		return nil
	}
	allowed := make([]string, 0, len(candidates))
	for _, value := range candidates {
		if IsValidChange(field, value, state) {
			allowed = append(allowed, value)
		}
	}
	return allowed
}

// Violations reports which lifecycle invariants the stored state tuple
// breaks. A healthy database yields none; the nightly integrity scan logs
// any row that produces output here.
func Violations(state State) []string {
	var out []string
	if state.Receipt != ReceiptPending && state.Approval == ApprovalPending {
		out = append(out, "receipt settled before approval decision")
	}
	if state.Approval == ApprovalRejected &&
		(state.Receipt == ReceiptReceived || state.Receipt == ReceiptInspected) {
		out = append(out, "rejected approval with received goods")
	}
	if state.Processing == ProcessingProcessed && state.Receipt != ReceiptReceived {
		out = append(out, "processed without received goods")
	}
	return out
}
