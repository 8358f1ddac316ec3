package orders

import "errors"

// Domain errors for orders.
var (
	// ErrNotFound indicates the requested order was not found.
	ErrNotFound = errors.New("order not found")

	// ErrTransitionNotAllowed indicates the requested status change is not in
	// the actor's allowed set.
	ErrTransitionNotAllowed = errors.New("status transition not allowed for role")
	// ErrUnknownStatus indicates the requested status is not a recognised value.
	ErrUnknownStatus = errors.New("unknown order status")

	// ErrEmptyLines indicates an order without line items.
	ErrEmptyLines = errors.New("at least one line is required")
	// ErrInvalidQuantity indicates a non-positive line quantity.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	// ErrDuplicateDocNumber indicates a doc number collision on insert.
	ErrDuplicateDocNumber = errors.New("duplicate document number")
)
