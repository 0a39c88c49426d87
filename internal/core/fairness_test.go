package core

import (
	"testing"
)

func TestComputeFairnessNotConfigured(t *testing.T) {
	_, err := ComputeFairness(nil, Household{}, periodFrom, periodTo)
	if err != ErrNotConfigured {
		t.Fatalf("got %v, want ErrNotConfigured", err)
	}
}

func TestComputeFairnessShared(t *testing.T) {
	txs := []Transaction{
		tx(Expense, Shared, 10000, "p1"),
		tx(Expense, Shared, 6000, "p2"),
	}

	res, err := ComputeFairness(txs, testHousehold, periodFrom, periodTo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Partner1.Paid.Cents != 10000 || res.Partner2.Paid.Cents != 6000 {
		t.Fatalf("paid = %d/%d, want 10000/6000",
			res.Partner1.Paid.Cents, res.Partner2.Paid.Cents)
	}
	if res.Partner1.IdealShare.Cents != 8000 || res.Partner2.IdealShare.Cents != 8000 {
		t.Fatalf("ideal = %d/%d, want 8000/8000",
			res.Partner1.IdealShare.Cents, res.Partner2.IdealShare.Cents)
	}
	if res.Partner1.Name != "Ana" || res.Partner2.Name != "Bruno" {
		t.Fatalf("names = %q/%q", res.Partner1.Name, res.Partner2.Name)
	}
}

func TestComputeFairnessProportional(t *testing.T) {
	x := tx(Expense, SharedProportional, 10000, "p1")
	x.SplitShare = share(0.3)

	res, err := ComputeFairness([]Transaction{x}, testHousehold, periodFrom, periodTo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Partner1.Paid.Cents != 10000 || res.Partner2.Paid.Cents != 0 {
		t.Fatalf("paid = %d/%d", res.Partner1.Paid.Cents, res.Partner2.Paid.Cents)
	}
	if res.Partner1.IdealShare.Cents != 7000 {
		t.Fatalf("payer ideal = %d, want 7000", res.Partner1.IdealShare.Cents)
	}
	if res.Partner2.IdealShare.Cents != 3000 {
		t.Fatalf("non-payer ideal = %d, want 3000", res.Partner2.IdealShare.Cents)
	}
}

func TestComputeFairnessConservation(t *testing.T) {
	// Ideal shares must sum exactly to each amount even when the ratio
	// does not divide the cents evenly.
	shares := []float64{0.3, 0.33, 0.5, 0.66, 1}
	amounts := []int64{101, 333, 9999, 1}

	for _, r := range shares {
		for _, cents := range amounts {
			x := tx(Expense, SharedProportional, cents, "p2")
			x.SplitShare = share(r)

			res, err := ComputeFairness([]Transaction{x}, testHousehold, periodFrom, periodTo)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			sum := res.Partner1.IdealShare.Cents + res.Partner2.IdealShare.Cents
			if sum != cents {
				t.Fatalf("share %v amount %d: ideal shares sum to %d", r, cents, sum)
			}
		}
	}
}

func TestComputeFairnessIgnoresNonShared(t *testing.T) {
	crossed := tx(Expense, Individual, 5000, "p1")
	crossed.OwnerID = "p2"
	txs := []Transaction{
		crossed,
		tx(Transfer, "", 5000, "p1"),
		tx(Income, "", 5000, "p1"),
	}

	res, err := ComputeFairness(txs, testHousehold, periodFrom, periodTo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Partner1.Paid.Cents != 0 || res.Partner1.IdealShare.Cents != 0 {
		t.Fatalf("non-shared transactions leaked into fairness: %+v", res)
	}
}
