package core

import "time"

type (
	// FairnessShare compares what a partner actually disbursed against
	// the amount they ideally should have borne.
	FairnessShare struct {
		Name       string
		Paid       Money
		IdealShare Money
	}

	FairnessResult struct {
		Partner1 FairnessShare
		Partner2 FairnessShare
	}
)

// ComputeFairness builds the paid-vs-ideal comparison over the shared
// expenses in [from, to). Only SHARED and SHARED_PROPORTIONAL expenses
// participate; transfers, incomes and individual expenses are not a
// fairness matter.
//
// For every transaction the two ideal-share increments sum exactly to
// the amount: the non-payer's share is rounded and the payer takes the
// complement, so no cent leaks.
func ComputeFairness(txs []Transaction, h Household, from, to time.Time) (FairnessResult, error) {
	if !h.Configured() {
		return FairnessResult{}, ErrNotConfigured
	}

	res := FairnessResult{
		Partner1: FairnessShare{Name: h.Partner1.Name},
		Partner2: FairnessShare{Name: h.Partner2.Name},
	}

	for _, t := range txs {
		if t.Type != Expense || !inPeriod(t, from, to) {
			continue
		}
		if t.SplitType != Shared && t.SplitType != SharedProportional {
			continue
		}
		paidByP1 := t.PayerID == h.Partner1.ID
		paidByP2 := t.PayerID == h.Partner2.ID
		if !paidByP1 && !paidByP2 {
			continue
		}

		if paidByP1 {
			res.Partner1.Paid = res.Partner1.Paid.Add(t.Amount)
		} else {
			res.Partner2.Paid = res.Partner2.Paid.Add(t.Amount)
		}

		var ratio float64
		if t.SplitType == Shared {
			ratio = 0.5
		} else {
			ratio = h.otherShare(t)
		}
		otherIdeal := t.Amount.Share(ratio)
		payerIdeal := t.Amount.Sub(otherIdeal)

		if paidByP1 {
			res.Partner1.IdealShare = res.Partner1.IdealShare.Add(payerIdeal)
			res.Partner2.IdealShare = res.Partner2.IdealShare.Add(otherIdeal)
		} else {
			res.Partner2.IdealShare = res.Partner2.IdealShare.Add(payerIdeal)
			res.Partner1.IdealShare = res.Partner1.IdealShare.Add(otherIdeal)
		}
	}
	return res, nil
}
