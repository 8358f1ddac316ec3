package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderdesk/orderdesk/internal/platform/db"
	"github.com/orderdesk/orderdesk/internal/shared"
)

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, order Order) (int64, error)
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error)
	// UpdateStatus commits a transition with an optimistic guard on the
	// expected current status. Returns shared.ErrStaleState when another
	// actor moved the order first.
	UpdateStatus(ctx context.Context, id int64, from, to Status) error
	GenerateNumber(ctx context.Context, companyID int64, date time.Time) (string, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts the order and its lines in one transaction.
func (r *PGRepository) Create(ctx context.Context, order Order) (int64, error) {
	var orderID int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders
(doc_number, company_id, customer_id, status, currency, total_amount, notes, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
RETURNING id`
		if err := tx.QueryRow(ctx, insertOrder,
			order.DocNumber,
			order.CompanyID,
			order.CustomerID,
			string(order.Status),
			order.Currency,
			order.TotalAmount,
			order.Notes,
			order.CreatedBy,
		).Scan(&orderID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ErrDuplicateDocNumber
			}
			return fmt.Errorf("insert order: %w", err)
		}

		const insertLine = `INSERT INTO order_lines
(order_id, product_id, quantity, unit_price, line_total, line_order)
VALUES ($1, $2, $3, $4, $5, $6)`
		for _, line := range order.Lines {
			if _, err := tx.Exec(ctx, insertLine,
				orderID,
				line.ProductID,
				line.Quantity,
				line.UnitPrice,
				line.LineTotal,
				line.LineOrder,
			); err != nil {
				return fmt.Errorf("insert order line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

// Get fetches an order with its lines.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Order, error) {
	const query = `SELECT id, doc_number, company_id, customer_id, status, currency, total_amount, notes, created_by, created_at, updated_at
FROM orders WHERE id = $1`
	var (
		order  Order
		status string
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.DocNumber,
		&order.CompanyID,
		&order.CustomerID,
		&status,
		&order.Currency,
		&order.TotalAmount,
		&order.Notes,
		&order.CreatedBy,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	order.Status = Status(status)

	const lineQuery = `SELECT id, order_id, product_id, quantity, unit_price, line_total, line_order
FROM order_lines WHERE order_id = $1 ORDER BY line_order, id`
	rows, err := r.pool.Query(ctx, lineQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var line OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Quantity, &line.UnitPrice, &line.LineTotal, &line.LineOrder); err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns orders matching the filter plus the total count.
func (r *PGRepository) List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, doc_number, company_id, customer_id, status, currency, total_amount, notes, created_by, created_at, updated_at
FROM orders WHERE company_id = $1`
	countQuery := `SELECT COUNT(*) FROM orders WHERE company_id = $1`
	args := []any{req.CompanyID}
	if req.Status != nil {
		query += ` AND status = $2`
		countQuery += ` AND status = $2`
		args = append(args, string(*req.Status))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, req.Offset)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Order
	for rows.Next() {
		var (
			order  Order
			status string
		)
		if err := rows.Scan(
			&order.ID,
			&order.DocNumber,
			&order.CompanyID,
			&order.CustomerID,
			&status,
			&order.Currency,
			&order.TotalAmount,
			&order.Notes,
			&order.CreatedBy,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		order.Status = Status(status)
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// UpdateStatus performs the optimistic single-row status commit.
func (r *PGRepository) UpdateStatus(ctx context.Context, id int64, from, to Status) error {
	const query = `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`
	tag, err := r.pool.Exec(ctx, query, string(to), id, string(from))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either the order vanished or another actor committed first.
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT true FROM orders WHERE id = $1`, id).Scan(&exists); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		return shared.ErrStaleState
	}
	return nil
}

// GenerateNumber produces the next document number for a company and date.
func (r *PGRepository) GenerateNumber(ctx context.Context, companyID int64, date time.Time) (string, error) {
	const query = `SELECT COUNT(*) + 1 FROM orders WHERE company_id = $1 AND created_at::date = $2::date`
	var seq int64
	if err := r.pool.QueryRow(ctx, query, companyID, date).Scan(&seq); err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD/%s/%04d", date.Format("20060102"), seq), nil
}
