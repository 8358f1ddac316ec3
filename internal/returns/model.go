// Package returns manages return requests and their three-dimensional
// status lifecycle: administrative approval, physical receipt, and final
// processing. Each dimension only ever narrows forward; none resets.
package returns

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus is the administrative accept/reject decision on a return.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Valid checks if the value is recognised.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether the approval decision is settled for good.
func (s ApprovalStatus) Terminal() bool {
	return s == ApprovalApproved || s == ApprovalRejected
}

// ReceiptStatus tracks the physical goods, independent of approval.
type ReceiptStatus string

const (
	ReceiptPending   ReceiptStatus = "pending"
	ReceiptReceived  ReceiptStatus = "received"
	ReceiptRejected  ReceiptStatus = "rejected"
	ReceiptInspected ReceiptStatus = "inspected"
)

// Valid checks if the value is recognised.
func (s ReceiptStatus) Valid() bool {
	switch s {
	case ReceiptPending, ReceiptReceived, ReceiptRejected, ReceiptInspected:
		return true
	default:
		return false
	}
}

// Terminal reports whether the receipt outcome can no longer change.
func (s ReceiptStatus) Terminal() bool {
	return s == ReceiptReceived || s == ReceiptRejected
}

// ProcessingStatus is the final bookkeeping completion flag.
type ProcessingStatus string

const (
	ProcessingPending   ProcessingStatus = "pending"
	ProcessingProcessed ProcessingStatus = "processed"
)

// Valid checks if the value is recognised.
func (s ProcessingStatus) Valid() bool {
	return s == ProcessingPending || s == ProcessingProcessed
}

// Terminal reports whether processing is complete.
func (s ProcessingStatus) Terminal() bool {
	return s == ProcessingProcessed
}

// Field names one of the three status dimensions on a return.
type Field string

const (
	// FieldApproval is the administrative decision dimension.
	FieldApproval Field = "approval_status"
	// FieldReceipt is the physical receipt dimension.
	FieldReceipt Field = "receipt_status"
	// FieldProcessing is the completion dimension, named plain "status"
	// on the wire for compatibility with the storefront clients.
	FieldProcessing Field = "status"
)

// ParseField resolves a wire-level field name; unknown names fail closed.
func ParseField(raw string) (Field, bool) {
	switch Field(raw) {
	case FieldApproval, FieldReceipt, FieldProcessing:
		return Field(raw), true
	default:
		return "", false
	}
}

// State is the full status tuple the transition policy evaluates against.
type State struct {
	Approval   ApprovalStatus
	Receipt    ReceiptStatus
	Processing ProcessingStatus
}

// Return represents a return request handled by the back office.
type Return struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	OrderID          int64            `json:"order_id" db:"order_id"`
	CompanyID        int64            `json:"company_id" db:"company_id"`
	Reason           string           `json:"reason" db:"reason"`
	ApprovalStatus   ApprovalStatus   `json:"approval_status" db:"approval_status"`
	ReceiptStatus    ReceiptStatus    `json:"receipt_status" db:"receipt_status"`
	ProcessingStatus ProcessingStatus `json:"status" db:"status"`
	RequestedBy      int64            `json:"requested_by" db:"requested_by"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// State projects the return onto its policy-relevant tuple.
func (r *Return) State() State {
	return State{
		Approval:   r.ApprovalStatus,
		Receipt:    r.ReceiptStatus,
		Processing: r.ProcessingStatus,
	}
}
