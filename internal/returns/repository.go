package returns

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderdesk/orderdesk/internal/platform/db"
	"github.com/orderdesk/orderdesk/internal/shared"
)

// Repository defines persistence operations for returns.
type Repository interface {
	Create(ctx context.Context, ret Return) error
	Get(ctx context.Context, id uuid.UUID) (*Return, error)
	List(ctx context.Context, req ListReturnsRequest) ([]Return, int, error)
	// ApplyChanges commits one or more field writes atomically, guarded on
	// the expected current state tuple. Returns shared.ErrStaleState when
	// another actor moved the return first.
	ApplyChanges(ctx context.Context, id uuid.UUID, expected State, changes map[Field]string) error
	// ListOpen streams returns whose lifecycle is not yet settled, for the
	// nightly integrity scan.
	ListOpen(ctx context.Context, limit int) ([]Return, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const returnColumns = `id, order_id, company_id, reason, approval_status, receipt_status, status, requested_by, created_at, updated_at`

func scanReturn(row pgx.Row) (*Return, error) {
	var (
		ret        Return
		approval   string
		receipt    string
		processing string
	)
	err := row.Scan(
		&ret.ID,
		&ret.OrderID,
		&ret.CompanyID,
		&ret.Reason,
		&approval,
		&receipt,
		&processing,
		&ret.RequestedBy,
		&ret.CreatedAt,
		&ret.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	ret.ApprovalStatus = ApprovalStatus(approval)
	ret.ReceiptStatus = ReceiptStatus(receipt)
	ret.ProcessingStatus = ProcessingStatus(processing)
	return &ret, nil
}

// Create inserts a freshly opened return.
func (r *PGRepository) Create(ctx context.Context, ret Return) error {
	const query = `INSERT INTO returns
(id, order_id, company_id, reason, approval_status, receipt_status, status, requested_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`
	_, err := r.pool.Exec(ctx, query,
		ret.ID,
		ret.OrderID,
		ret.CompanyID,
		ret.Reason,
		string(ret.ApprovalStatus),
		string(ret.ReceiptStatus),
		string(ret.ProcessingStatus),
		ret.RequestedBy,
	)
	if err != nil {
		return fmt.Errorf("insert return: %w", err)
	}
	return nil
}

// Get fetches a single return.
func (r *PGRepository) Get(ctx context.Context, id uuid.UUID) (*Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns WHERE id = $1`
	return scanReturn(r.pool.QueryRow(ctx, query, id))
}

// List returns a company's returns, newest first, plus the total count.
func (r *PGRepository) List(ctx context.Context, req ListReturnsRequest) ([]Return, int, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM returns WHERE company_id = $1`, req.CompanyID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM returns WHERE company_id = $1 ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		returnColumns, limit, req.Offset)
	rows, err := r.pool.Query(ctx, query, req.CompanyID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Return
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *ret)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// ApplyChanges writes the requested fields plus any cascading ones in a
// single statement, guarded on the full expected state tuple so concurrent
// actors cannot both commit against stale reads.
func (r *PGRepository) ApplyChanges(ctx context.Context, id uuid.UUID, expected State, changes map[Field]string) error {
	if len(changes) == 0 {
		return nil
	}

	sets := make([]string, 0, len(changes)+1)
	args := []any{id, string(expected.Approval), string(expected.Receipt), string(expected.Processing)}
	for _, field := range []Field{FieldApproval, FieldReceipt, FieldProcessing} {
		value, ok := changes[field]
		if !ok {
			continue
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", columnFor(field), len(args)))
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE returns SET %s
WHERE id = $1 AND approval_status = $2 AND receipt_status = $3 AND status = $4`,
		strings.Join(sets, ", "))

	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("apply return changes: %w", err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT true FROM returns WHERE id = $1`, id).Scan(&exists); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return ErrNotFound
				}
				return err
			}
			return shared.ErrStaleState
		}
		return nil
	})
}

// ListOpen fetches returns with at least one dimension still pending.
func (r *PGRepository) ListOpen(ctx context.Context, limit int) ([]Return, error) {
	if limit <= 0 {
		limit = 500
	}
	query := fmt.Sprintf(`SELECT %s FROM returns
WHERE approval_status = 'pending' OR receipt_status = 'pending' OR status = 'pending'
ORDER BY created_at LIMIT %d`, returnColumns, limit)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Return
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ret)
	}
	return result, rows.Err()
}

func columnFor(field Field) string {
	switch field {
	case FieldApproval:
		return "approval_status"
	case FieldReceipt:
		return "receipt_status"
	default:
		return "status"
	}
}
