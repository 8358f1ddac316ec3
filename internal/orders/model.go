// Package orders manages customer order records and their status lifecycle.
package orders

import "time"

// Status represents the lifecycle of an order.
//
// pending is the initial state of a freshly placed order; assigned marks an
// order routed to a back-office actor before its first real status. The
// three terminal states never change again once reached.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
	StatusReturned  Status = "returned"
)

// statusOrder fixes the canonical ordering of allowed-transition sets.
var statusOrder = []Status{
	StatusAssigned,
	StatusConfirmed,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
	StatusReturned,
}

// Valid checks if the status is a recognised value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusConfirmed, StatusShipped,
		StatusDelivered, StatusCancelled, StatusReturned:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is permitted by any role.
func (s Status) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusReturned:
		return true
	default:
		return false
	}
}

// Order represents a customer order handled by the back office.
type Order struct {
	ID          int64       `json:"id" db:"id"`
	DocNumber   string      `json:"doc_number" db:"doc_number"`
	CompanyID   int64       `json:"company_id" db:"company_id"`
	CustomerID  int64       `json:"customer_id" db:"customer_id"`
	Status      Status      `json:"status" db:"status"`
	Currency    string      `json:"currency" db:"currency"`
	TotalAmount float64     `json:"total_amount" db:"total_amount"`
	Notes       *string     `json:"notes,omitempty" db:"notes"`
	CreatedBy   int64       `json:"created_by" db:"created_by"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
	Lines       []OrderLine `json:"lines,omitempty" db:"-"`
}

// OrderLine represents a single item on an order.
type OrderLine struct {
	ID        int64   `json:"id" db:"id"`
	OrderID   int64   `json:"order_id" db:"order_id"`
	ProductID int64   `json:"product_id" db:"product_id"`
	Quantity  float64 `json:"quantity" db:"quantity"`
	UnitPrice float64 `json:"unit_price" db:"unit_price"`
	LineTotal float64 `json:"line_total" db:"line_total"`
	LineOrder int     `json:"line_order" db:"line_order"`
}
