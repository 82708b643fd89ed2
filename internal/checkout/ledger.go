package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// PostgresLedger stores created checkout sessions and their outcome.
type PostgresLedger struct {
	pool DBPool
}

func NewPostgresLedger(pool DBPool) *PostgresLedger {
	return &PostgresLedger{pool: pool}
}

func (l *PostgresLedger) RecordCreated(ctx context.Context, rec Record) (err error) {
	tx, err := l.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `
		INSERT INTO checkout_sessions (id, url, status, amount_total, currency, correlation_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (id) DO NOTHING
	`, rec.SessionID, rec.URL, string(rec.Status), rec.AmountTotal, rec.Currency, rec.CorrelationID, rec.CreatedAt); err != nil {
		return fmt.Errorf("insert checkout session: %w", err)
	}

	for i, it := range rec.LineItems {
		if _, err = tx.Exec(ctx, `
			INSERT INTO checkout_line_items (session_id, position, price_id, quantity)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (session_id, position) DO NOTHING
		`, rec.SessionID, i, it.Price, it.Quantity); err != nil {
			return fmt.Errorf("insert line item %d: %w", i, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// MarkOutcome moves a session to a terminal status. Completed is final; a
// canceled session may still complete if the visitor pays later.
func (l *PostgresLedger) MarkOutcome(ctx context.Context, sessionID string, status Status) error {
	tag, err := l.pool.Exec(ctx, `
		UPDATE checkout_sessions
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status <> 'completed'
	`, sessionID, string(status))
	if err != nil {
		return fmt.Errorf("update checkout session: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var current string
	err = l.pool.QueryRow(ctx, `SELECT status FROM checkout_sessions WHERE id = $1`, sessionID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("select checkout session status: %w", err)
	}
	return ErrSessionFinished
}

// Get loads a session record with its line items.
func (l *PostgresLedger) Get(ctx context.Context, sessionID string) (*Record, error) {
	var (
		rec    Record
		status string
	)
	err := l.pool.QueryRow(ctx, `
		SELECT id, url, status, amount_total, currency, correlation_id, created_at, updated_at
		FROM checkout_sessions
		WHERE id = $1
	`, sessionID).Scan(&rec.SessionID, &rec.URL, &status, &rec.AmountTotal, &rec.Currency, &rec.CorrelationID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("select checkout session: %w", err)
	}
	rec.Status = Status(status)

	rows, err := l.pool.Query(ctx, `
		SELECT price_id, quantity
		FROM checkout_line_items
		WHERE session_id = $1
		ORDER BY position
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("select line items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it LineItem
		if err := rows.Scan(&it.Price, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		rec.LineItems = append(rec.LineItems, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line items: %w", err)
	}
	return &rec, nil
}
