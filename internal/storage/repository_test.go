package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"contas/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "contas.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedPartners(t *testing.T, repo *SQLiteRepository) (core.Partner, core.Partner) {
	t.Helper()
	ctx := context.Background()
	p1 := core.Partner{Name: "Ana"}
	p2 := core.Partner{Name: "Bruno"}
	if err := repo.CreatePartner(ctx, &p1); err != nil {
		t.Fatalf("create partner: %v", err)
	}
	if err := repo.CreatePartner(ctx, &p2); err != nil {
		t.Fatalf("create partner: %v", err)
	}
	return p1, p2
}

func TestHouseholdConfig(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetHousehold(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before setup, got %v", err)
	}

	p1, p2 := seedPartners(t, repo)
	if err := repo.UpsertHousehold(ctx, p1.ID, p2.ID, 0.6); err != nil {
		t.Fatalf("upsert household: %v", err)
	}

	h, err := repo.GetHousehold(ctx)
	if err != nil {
		t.Fatalf("get household: %v", err)
	}
	if h.Partner1.Name != "Ana" || h.Partner2.Name != "Bruno" || h.Partner1Share != 0.6 {
		t.Fatalf("unexpected household: %+v", h)
	}

	// Upsert updates the single row rather than adding another.
	if err := repo.UpsertHousehold(ctx, p2.ID, p1.ID, 0.4); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	h, err = repo.GetHousehold(ctx)
	if err != nil {
		t.Fatalf("get household after update: %v", err)
	}
	if h.Partner1.ID != p2.ID || h.Partner1Share != 0.4 {
		t.Fatalf("upsert did not replace config: %+v", h)
	}
}

func TestTransactionCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	p1, p2 := seedPartners(t, repo)

	shareVal := 0.3
	tx := core.Transaction{
		Description:  "mercado",
		Amount:       core.Money{Cents: 12345},
		PurchaseDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Type:         core.Expense,
		SplitType:    core.SharedProportional,
		SplitShare:   &shareVal,
		PayerID:      p1.ID,
		Category:     "Mercado",
	}
	if err := repo.CreateTransaction(ctx, &tx); err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if tx.ID == "" {
		t.Fatal("expected generated ID")
	}

	got, err := repo.GetTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if got.Amount.Cents != 12345 || got.SplitType != core.SharedProportional {
		t.Fatalf("unexpected transaction: %+v", got)
	}
	if got.SplitShare == nil || *got.SplitShare != 0.3 {
		t.Fatalf("split share lost: %+v", got.SplitShare)
	}
	if !got.PurchaseDate.Equal(tx.PurchaseDate) {
		t.Fatalf("purchase date = %v, want %v", got.PurchaseDate, tx.PurchaseDate)
	}

	got.Description = "mercado grande"
	got.Amount = core.Money{Cents: 20000}
	got.OwnerID = p2.ID
	got.SplitType = core.Individual
	got.SplitShare = nil
	if err := repo.UpdateTransaction(ctx, &got); err != nil {
		t.Fatalf("update transaction: %v", err)
	}
	updated, err := repo.GetTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("get updated: %v", err)
	}
	if updated.Description != "mercado grande" || updated.OwnerID != p2.ID || updated.SplitShare != nil {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := repo.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, tx.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeleteTransaction(ctx, tx.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleting missing transaction: got %v", err)
	}
}

func TestCreateTransactionRejectsInvalidSplitShare(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	p1, _ := seedPartners(t, repo)

	bad := 1.5
	tx := core.Transaction{
		Description:  "errado",
		Amount:       core.Money{Cents: 100},
		PurchaseDate: time.Now(),
		Type:         core.Expense,
		SplitType:    core.SharedProportional,
		SplitShare:   &bad,
		PayerID:      p1.ID,
	}
	if err := repo.CreateTransaction(ctx, &tx); !errors.Is(err, core.ErrInvalidSplitShare) {
		t.Fatalf("expected ErrInvalidSplitShare, got %v", err)
	}
}

func TestListTransactionsWindow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	p1, _ := seedPartners(t, repo)

	mk := func(day int) core.Transaction {
		return core.Transaction{
			Description:  "t",
			Amount:       core.Money{Cents: 100},
			PurchaseDate: time.Date(2025, 3, day, 12, 0, 0, 0, time.UTC),
			Type:         core.Expense,
			SplitType:    core.Shared,
			PayerID:      p1.ID,
		}
	}
	outside := core.Transaction{
		Description:  "fora",
		Amount:       core.Money{Cents: 100},
		PurchaseDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Type:         core.Expense,
		SplitType:    core.Shared,
		PayerID:      p1.ID,
	}
	for _, tx := range []core.Transaction{mk(1), mk(20), outside} {
		if err := repo.CreateTransaction(ctx, &tx); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	from, to := core.PeriodBounds(2025, 3)
	txs, err := repo.ListTransactions(ctx, from, to)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if !txs[0].PurchaseDate.After(txs[1].PurchaseDate) {
		t.Fatal("expected newest-first ordering")
	}
}

func TestMonthlyBalanceUniquePeriod(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	p1, p2 := seedPartners(t, repo)

	b := core.MonthlyBalance{
		Month: 3, Year: 2025,
		DebtorID: p2.ID, CreditorID: p1.ID,
		FinalBalance: core.Money{Cents: 5000},
	}
	if err := repo.InsertMonthlyBalance(ctx, &b); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if b.ID == "" || b.Status != core.BalanceOpen {
		t.Fatalf("expected generated OPEN record, got %+v", b)
	}

	dup := core.MonthlyBalance{
		Month: 3, Year: 2025,
		DebtorID: p1.ID, CreditorID: p2.ID,
		FinalBalance: core.Money{Cents: 999},
	}
	if err := repo.InsertMonthlyBalance(ctx, &dup); !errors.Is(err, ErrDuplicatePeriod) {
		t.Fatalf("expected ErrDuplicatePeriod, got %v", err)
	}

	// Same month, different year is fine.
	other := core.MonthlyBalance{
		Month: 3, Year: 2026,
		DebtorID: p2.ID, CreditorID: p1.ID,
		FinalBalance: core.Money{Cents: 100},
	}
	if err := repo.InsertMonthlyBalance(ctx, &other); err != nil {
		t.Fatalf("different year insert: %v", err)
	}
}

func TestMarkBalancePaidIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	p1, p2 := seedPartners(t, repo)

	b := core.MonthlyBalance{
		Month: 5, Year: 2025,
		DebtorID: p2.ID, CreditorID: p1.ID,
		FinalBalance: core.Money{Cents: 4200},
	}
	if err := repo.InsertMonthlyBalance(ctx, &b); err != nil {
		t.Fatalf("insert: %v", err)
	}

	paid, err := repo.MarkBalancePaid(ctx, b.ID)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if paid.Status != core.BalancePaid {
		t.Fatalf("status = %q, want PAID", paid.Status)
	}

	// Second call is a no-op, never an error.
	again, err := repo.MarkBalancePaid(ctx, b.ID)
	if err != nil {
		t.Fatalf("second mark paid: %v", err)
	}
	if again.Status != core.BalancePaid || again.FinalBalance != paid.FinalBalance {
		t.Fatalf("record changed on repeat: %+v", again)
	}

	if _, err := repo.MarkBalancePaid(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing id, got %v", err)
	}
}

func TestGetMonthlyBalanceAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	p1, p2 := seedPartners(t, repo)

	for _, period := range []struct{ m, y int }{{1, 2025}, {2, 2025}, {12, 2024}} {
		b := core.MonthlyBalance{
			Month: period.m, Year: period.y,
			DebtorID: p2.ID, CreditorID: p1.ID,
			FinalBalance: core.Money{Cents: 1000},
		}
		if err := repo.InsertMonthlyBalance(ctx, &b); err != nil {
			t.Fatalf("insert %d/%d: %v", period.m, period.y, err)
		}
	}

	got, err := repo.GetMonthlyBalance(ctx, 2, 2025)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Month != 2 || got.Year != 2025 {
		t.Fatalf("unexpected balance: %+v", got)
	}

	all, err := repo.ListMonthlyBalances(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d balances, want 3", len(all))
	}
	if all[0].Year != 2025 || all[0].Month != 2 {
		t.Fatalf("expected newest first, got %+v", all[0])
	}
}
