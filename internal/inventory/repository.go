package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderdesk/orderdesk/internal/platform/db"
)

// Repository defines persistence operations for stock.
type Repository interface {
	// HasMovement reports whether a movement for the given document was
	// already recorded, so retried jobs stay idempotent.
	HasMovement(ctx context.Context, refType string, refID uuid.UUID) (bool, error)
	// ListOrderLines fetches the product/quantity pairs of an order.
	ListOrderLines(ctx context.Context, orderID int64) ([]RestockLine, error)
	// ApplyRestock records the movements and credits the balances in one
	// transaction.
	ApplyRestock(ctx context.Context, refType string, refID uuid.UUID, lines []RestockLine) error
	// GetBalance returns the current on-hand quantity for a product.
	GetBalance(ctx context.Context, productID int64) (*Balance, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// HasMovement checks for an existing movement on the document.
func (r *PGRepository) HasMovement(ctx context.Context, refType string, refID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM stock_movements WHERE ref_type = $1 AND ref_id = $2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, refType, refID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListOrderLines fetches restockable lines for the order.
func (r *PGRepository) ListOrderLines(ctx context.Context, orderID int64) ([]RestockLine, error) {
	const query = `SELECT product_id, quantity FROM order_lines WHERE order_id = $1 ORDER BY line_order, id`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []RestockLine
	for rows.Next() {
		var line RestockLine
		if err := rows.Scan(&line.ProductID, &line.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// ApplyRestock inserts one movement per line and upserts the balances.
func (r *PGRepository) ApplyRestock(ctx context.Context, refType string, refID uuid.UUID, lines []RestockLine) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const insertMovement = `INSERT INTO stock_movements (product_id, quantity, kind, ref_type, ref_id, at)
VALUES ($1, $2, $3, $4, $5, NOW())`
		const upsertBalance = `INSERT INTO stock_balances (product_id, on_hand, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (product_id) DO UPDATE SET on_hand = stock_balances.on_hand + EXCLUDED.on_hand, updated_at = NOW()`
		for _, line := range lines {
			if _, err := tx.Exec(ctx, insertMovement,
				line.ProductID, line.Quantity, string(MovementRestock), refType, refID); err != nil {
				return fmt.Errorf("insert movement: %w", err)
			}
			if _, err := tx.Exec(ctx, upsertBalance, line.ProductID, line.Quantity); err != nil {
				return fmt.Errorf("upsert balance: %w", err)
			}
		}
		return nil
	})
}

// GetBalance reads the on-hand balance for the product; a product with no
// recorded movements reports zero.
func (r *PGRepository) GetBalance(ctx context.Context, productID int64) (*Balance, error) {
	const query = `SELECT product_id, on_hand, updated_at FROM stock_balances WHERE product_id = $1`
	var balance Balance
	err := r.pool.QueryRow(ctx, query, productID).Scan(&balance.ProductID, &balance.OnHand, &balance.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &Balance{ProductID: productID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &balance, nil
}
