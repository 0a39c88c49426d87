package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"contas/internal/core"
	"contas/internal/storage"
)

type fakeSettlementRepo struct {
	household core.Household
	missing   bool
	txs       []core.Transaction
}

func (f *fakeSettlementRepo) GetHousehold(_ context.Context) (core.Household, error) {
	if f.missing {
		return core.Household{}, storage.ErrNotFound
	}
	return f.household, nil
}

func (f *fakeSettlementRepo) ListTransactions(_ context.Context, from, to time.Time) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range f.txs {
		if !t.PurchaseDate.Before(from) && t.PurchaseDate.Before(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func svcHousehold() core.Household {
	return core.Household{
		Partner1:      core.Partner{ID: "p1", Name: "Ana"},
		Partner2:      core.Partner{ID: "p2", Name: "Bruno"},
		Partner1Share: 0.5,
	}
}

func svcTx(cents int64, payer string) core.Transaction {
	return core.Transaction{
		ID:           "t1",
		Description:  "mercado",
		Amount:       core.Money{Cents: cents},
		PurchaseDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Type:         core.Expense,
		SplitType:    core.Shared,
		PayerID:      payer,
	}
}

func TestSettlementNotConfigured(t *testing.T) {
	svc := NewSettlementService(&fakeSettlementRepo{missing: true})

	if _, err := svc.Settlement(context.Background(), 2025, 3); !errors.Is(err, core.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := svc.Fairness(context.Background(), 2025, 3); !errors.Is(err, core.ErrNotConfigured) {
		t.Fatalf("fairness: expected ErrNotConfigured, got %v", err)
	}
}

func TestSettlementForMonth(t *testing.T) {
	repo := &fakeSettlementRepo{
		household: svcHousehold(),
		txs:       []core.Transaction{svcTx(10000, "p1")},
	}
	svc := NewSettlementService(repo)

	res, err := svc.Settlement(context.Background(), 2025, 3)
	if err != nil {
		t.Fatalf("settlement: %v", err)
	}
	if res.Summary.Payer != core.SidePartner2 {
		t.Errorf("payer = %q, want partner2", res.Summary.Payer)
	}
	if res.Summary.Amount.Cents != 5000 {
		t.Errorf("amount = %d, want 5000", res.Summary.Amount.Cents)
	}
}

func TestCoupleFeedFiltersOwnExpenses(t *testing.T) {
	own := core.Transaction{
		ID:           "t2",
		Description:  "livro",
		Amount:       core.Money{Cents: 3000},
		PurchaseDate: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Type:         core.Expense,
		SplitType:    core.Individual,
		PayerID:      "p1",
		OwnerID:      "p1",
	}
	repo := &fakeSettlementRepo{
		household: svcHousehold(),
		txs:       []core.Transaction{svcTx(10000, "p1"), own},
	}
	svc := NewSettlementService(repo)

	feed, err := svc.CoupleFeed(context.Background(), 2025, 3)
	if err != nil {
		t.Fatalf("couple feed: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("got %d entries, want 1", len(feed))
	}
	if feed[0].ID != "t1" {
		t.Errorf("unexpected feed entry: %+v", feed[0])
	}
}

func TestConfigureHousehold(t *testing.T) {
	repo := &fakeHouseholdRepo{partners: map[string]core.Partner{
		"p1": {ID: "p1", Name: "Ana"},
		"p2": {ID: "p2", Name: "Bruno"},
	}}
	svc := NewHouseholdService(repo)

	h, err := svc.Configure(context.Background(), "p1", "p2", 0.6)
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if h.Partner1Share != 0.6 || h.Partner2.Name != "Bruno" {
		t.Fatalf("unexpected household: %+v", h)
	}

	if _, err := svc.Configure(context.Background(), "p1", "p1", 0.5); !errors.Is(err, core.ErrSamePartner) {
		t.Fatalf("expected ErrSamePartner, got %v", err)
	}
	if _, err := svc.Configure(context.Background(), "p1", "p2", 1.5); !errors.Is(err, core.ErrInvalidPartnerShare) {
		t.Fatalf("expected ErrInvalidPartnerShare, got %v", err)
	}
	if _, err := svc.Configure(context.Background(), "p1", "ghost", 0.5); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown partner, got %v", err)
	}
}

type fakeHouseholdRepo struct {
	partners map[string]core.Partner
	saved    *core.Household
}

func (f *fakeHouseholdRepo) CreatePartner(_ context.Context, p *core.Partner) error {
	p.ID = "gen"
	f.partners[p.ID] = *p
	return nil
}

func (f *fakeHouseholdRepo) GetPartner(_ context.Context, id string) (core.Partner, error) {
	p, ok := f.partners[id]
	if !ok {
		return core.Partner{}, storage.ErrNotFound
	}
	return p, nil
}

func (f *fakeHouseholdRepo) ListPartners(_ context.Context) ([]core.Partner, error) {
	out := make([]core.Partner, 0, len(f.partners))
	for _, p := range f.partners {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeHouseholdRepo) GetHousehold(_ context.Context) (core.Household, error) {
	if f.saved == nil {
		return core.Household{}, storage.ErrNotFound
	}
	return *f.saved, nil
}

func (f *fakeHouseholdRepo) UpsertHousehold(_ context.Context, p1, p2 string, share float64) error {
	f.saved = &core.Household{
		Partner1:      f.partners[p1],
		Partner2:      f.partners[p2],
		Partner1Share: share,
	}
	return nil
}
