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

// CreateTransaction validates and persists a transaction, generating
// an ID when absent. Invalid split shares never reach the database.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t *core.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions
			(id, description, amount_cents, purchase_date, type, split_type, split_share, payer_id, owner_id, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Description, t.Amount.Cents, t.PurchaseDate.Unix(),
		string(t.Type), nullString(string(t.SplitType)), t.SplitShare,
		t.PayerID, nullString(t.OwnerID), t.Category, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, description, amount_cents, purchase_date, type, split_type, split_share, payer_id, owner_id, category
		FROM transactions WHERE id = ?`, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns transactions with purchase date in the
// half-open window [from, to), newest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, from, to time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, amount_cents, purchase_date, type, split_type, split_share, payer_id, owner_id, category
		FROM transactions
		WHERE purchase_date >= ? AND purchase_date < ?
		ORDER BY purchase_date DESC`,
		from.Unix(), to.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t *core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET
			description = ?, amount_cents = ?, purchase_date = ?, type = ?,
			split_type = ?, split_share = ?, payer_id = ?, owner_id = ?, category = ?
		WHERE id = ?`,
		t.Description, t.Amount.Cents, t.PurchaseDate.Unix(), string(t.Type),
		nullString(string(t.SplitType)), t.SplitShare, t.PayerID,
		nullString(t.OwnerID), t.Category, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %s: %w", t.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t         core.Transaction
		cents     int64
		purchased int64
		splitType sql.NullString
		split     sql.NullFloat64
		owner     sql.NullString
	)
	err := row.Scan(&t.ID, &t.Description, &cents, &purchased, (*string)(&t.Type),
		&splitType, &split, &t.PayerID, &owner, &t.Category)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Amount = core.Money{Cents: cents}
	t.PurchaseDate = time.Unix(purchased, 0).UTC()
	if splitType.Valid {
		t.SplitType = core.SplitType(splitType.String)
	}
	if split.Valid {
		v := split.Float64
		t.SplitShare = &v
	}
	if owner.Valid {
		t.OwnerID = owner.String
	}
	return t, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
