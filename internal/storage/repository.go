// Package storage persists partners, transactions, the household
// configuration and closed monthly balances in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	sqlite3 "modernc.org/sqlite"

	"contas/internal/core"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicatePeriod is returned when a monthly balance already
	// exists for the requested (month, year). It is raised by the
	// database UNIQUE constraint, never by a check-then-insert, so two
	// concurrent closings of the same period cannot both succeed.
	ErrDuplicatePeriod = errors.New("monthly balance already exists for period")
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreatePartner persists a partner, generating an ID when absent.
func (r *SQLiteRepository) CreatePartner(ctx context.Context, p *core.Partner) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Name == "" {
		return fmt.Errorf("create partner: %w", core.ErrEmptyDescription)
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO partners (id, name, created_at) VALUES (?, ?, ?)",
		p.ID, p.Name, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert partner: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetPartner(ctx context.Context, id string) (core.Partner, error) {
	var p core.Partner
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name FROM partners WHERE id = ?", id,
	).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Partner{}, fmt.Errorf("partner %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Partner{}, fmt.Errorf("get partner: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListPartners(ctx context.Context) ([]core.Partner, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM partners ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()

	var partners []core.Partner
	for rows.Next() {
		var p core.Partner
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		partners = append(partners, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partners: %w", err)
	}
	return partners, nil
}

// GetHousehold returns the single household configuration with partner
// names resolved. ErrNotFound means the household is not configured yet.
func (r *SQLiteRepository) GetHousehold(ctx context.Context) (core.Household, error) {
	var h core.Household
	err := r.db.QueryRowContext(ctx, `
		SELECT c.partner1_id, p1.name, c.partner2_id, p2.name, c.partner1_share
		FROM household_config c
		JOIN partners p1 ON p1.id = c.partner1_id
		JOIN partners p2 ON p2.id = c.partner2_id
		LIMIT 1`,
	).Scan(&h.Partner1.ID, &h.Partner1.Name, &h.Partner2.ID, &h.Partner2.Name, &h.Partner1Share)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Household{}, fmt.Errorf("household config: %w", ErrNotFound)
	}
	if err != nil {
		return core.Household{}, fmt.Errorf("get household config: %w", err)
	}
	return h, nil
}

// UpsertHousehold creates or replaces the single household row. There
// is only ever one configuration; the core treats it as read-only.
func (r *SQLiteRepository) UpsertHousehold(ctx context.Context, partner1ID, partner2ID string, partner1Share float64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existingID string
	err = tx.QueryRowContext(ctx, "SELECT id FROM household_config LIMIT 1").Scan(&existingID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			"INSERT INTO household_config (id, partner1_id, partner2_id, partner1_share, updated_at) VALUES (?, ?, ?, ?, ?)",
			uuid.New().String(), partner1ID, partner2ID, partner1Share, time.Now().Unix(),
		)
	case err == nil:
		_, err = tx.ExecContext(ctx,
			"UPDATE household_config SET partner1_id = ?, partner2_id = ?, partner1_share = ?, updated_at = ? WHERE id = ?",
			partner1ID, partner2ID, partner1Share, time.Now().Unix(), existingID,
		)
	default:
		return fmt.Errorf("query household config: %w", err)
	}
	if err != nil {
		return fmt.Errorf("upsert household config: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation recognizes SQLite UNIQUE/PRIMARY KEY constraint
// failures across driver error shapes.
func isUniqueViolation(err error) bool {
	var serr *sqlite3.Error
	if errors.As(err, &serr) {
		// SQLITE_CONSTRAINT_UNIQUE and SQLITE_CONSTRAINT_PRIMARYKEY.
		return serr.Code() == 2067 || serr.Code() == 1555
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
