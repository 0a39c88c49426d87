package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"contas/internal/core"
)

// InsertMonthlyBalance creates the immutable record for a closed month
// with status OPEN. The (month, year) UNIQUE constraint is the source
// of truth for duplicates; a violation surfaces as ErrDuplicatePeriod.
func (r *SQLiteRepository) InsertMonthlyBalance(ctx context.Context, b *core.MonthlyBalance) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Status == "" {
		b.Status = core.BalanceOpen
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("validate monthly balance: %w", err)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO monthly_balances
			(id, month, year, debtor_id, creditor_id, final_balance_cents, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Month, b.Year, b.DebtorID, b.CreditorID,
		b.FinalBalance.Cents, string(b.Status), b.CreatedAt.Unix(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("period %d/%d: %w", b.Month, b.Year, ErrDuplicatePeriod)
	}
	if err != nil {
		return fmt.Errorf("insert monthly balance: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetMonthlyBalance(ctx context.Context, month, year int) (core.MonthlyBalance, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, month, year, debtor_id, creditor_id, final_balance_cents, status, created_at
		FROM monthly_balances WHERE month = ? AND year = ?`,
		month, year,
	)
	b, err := scanBalance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.MonthlyBalance{}, fmt.Errorf("balance %d/%d: %w", month, year, ErrNotFound)
	}
	if err != nil {
		return core.MonthlyBalance{}, fmt.Errorf("get monthly balance: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) GetMonthlyBalanceByID(ctx context.Context, id string) (core.MonthlyBalance, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, month, year, debtor_id, creditor_id, final_balance_cents, status, created_at
		FROM monthly_balances WHERE id = ?`, id,
	)
	b, err := scanBalance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.MonthlyBalance{}, fmt.Errorf("balance %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.MonthlyBalance{}, fmt.Errorf("get monthly balance: %w", err)
	}
	return b, nil
}

// MarkBalancePaid flips an OPEN balance to PAID and returns the
// record. Marking an already-PAID balance is a no-op returning the
// unchanged record; status is the only mutable column.
func (r *SQLiteRepository) MarkBalancePaid(ctx context.Context, id string) (core.MonthlyBalance, error) {
	_, err := r.db.ExecContext(ctx,
		"UPDATE monthly_balances SET status = ? WHERE id = ? AND status = ?",
		string(core.BalancePaid), id, string(core.BalanceOpen),
	)
	if err != nil {
		return core.MonthlyBalance{}, fmt.Errorf("mark balance paid: %w", err)
	}
	return r.GetMonthlyBalanceByID(ctx, id)
}

func (r *SQLiteRepository) ListMonthlyBalances(ctx context.Context) ([]core.MonthlyBalance, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, month, year, debtor_id, creditor_id, final_balance_cents, status, created_at
		FROM monthly_balances ORDER BY year DESC, month DESC`)
	if err != nil {
		return nil, fmt.Errorf("list monthly balances: %w", err)
	}
	defer rows.Close()

	var balances []core.MonthlyBalance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan monthly balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly balances: %w", err)
	}
	return balances, nil
}

func scanBalance(row rowScanner) (core.MonthlyBalance, error) {
	var (
		b       core.MonthlyBalance
		cents   int64
		created int64
	)
	err := row.Scan(&b.ID, &b.Month, &b.Year, &b.DebtorID, &b.CreditorID,
		&cents, (*string)(&b.Status), &created)
	if err != nil {
		return core.MonthlyBalance{}, err
	}
	b.FinalBalance = core.Money{Cents: cents}
	b.CreatedAt = time.Unix(created, 0).UTC()
	return b, nil
}
