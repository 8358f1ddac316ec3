// Package inventory tracks on-hand stock balances and the movements that
// change them. Its main consumer is the restock job that runs when
// returned goods are received.
package inventory

import (
	"time"

	"github.com/google/uuid"
)

// MovementKind classifies a stock movement.
type MovementKind string

const (
	// MovementRestock credits stock from a received return.
	MovementRestock MovementKind = "restock"
)

// Movement is one stock change, linked to the document that caused it.
type Movement struct {
	ID        int64        `json:"id" db:"id"`
	ProductID int64        `json:"product_id" db:"product_id"`
	Quantity  float64      `json:"quantity" db:"quantity"`
	Kind      MovementKind `json:"kind" db:"kind"`
	RefType   string       `json:"ref_type" db:"ref_type"`
	RefID     uuid.UUID    `json:"ref_id" db:"ref_id"`
	At        time.Time    `json:"at" db:"at"`
}

// Balance is the current on-hand quantity for a product.
type Balance struct {
	ProductID int64     `json:"product_id" db:"product_id"`
	OnHand    float64   `json:"on_hand" db:"on_hand"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RestockLine is one product/quantity pair to credit back into stock.
type RestockLine struct {
	ProductID int64
	Quantity  float64
}
