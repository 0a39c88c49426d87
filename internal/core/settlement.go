package core

import "time"

// DebtorSide names which partner owes the other in a settlement summary.
type DebtorSide string

const (
	SideNone     DebtorSide = ""
	SidePartner1 DebtorSide = "partner1"
	SidePartner2 DebtorSide = "partner2"
)

type (
	// Breakdown explains a settlement by the split policy that produced
	// it. All values are reported positive from the debtor's perspective
	// so a caller can present "why you owe this much" without any sign
	// arithmetic. Transfer is usually negative (it discharges debt).
	Breakdown struct {
		SharedFiftyFifty   Money
		SharedProportional Money
		Individual         Money
		Transfer           Money
	}

	Summary struct {
		// Payer is the debtor, or SideNone when the period nets to zero.
		Payer  DebtorSide
		Amount Money
	}

	SettlementResult struct {
		Partner1  Partner
		Partner2  Partner
		Summary   Summary
		Breakdown Breakdown
	}
)

// ComputeSettlement folds the classified contributions of every
// transaction in [from, to) into a net balance between the two
// partners. The result is antisymmetric under swapping the partner
// labels: the amount is identical, only the payer side flips.
//
// A household with missing partners yields ErrNotConfigured; this is an
// expected pre-setup state, not a fault.
func ComputeSettlement(txs []Transaction, h Household, from, to time.Time) (SettlementResult, error) {
	if !h.Configured() {
		return SettlementResult{}, ErrNotConfigured
	}

	// Per-category nets, each as partner1's credit minus partner2's.
	var netShared, netProp, netInd, netTransfer int64

	for _, t := range txs {
		if !inPeriod(t, from, to) {
			continue
		}
		c := Classify(t, h)
		delta := c.Partner1Cents - c.Partner2Cents
		switch {
		case t.Type == Transfer:
			netTransfer += delta
		case t.SplitType == Shared:
			netShared += delta
		case t.SplitType == SharedProportional:
			netProp += delta
		case t.SplitType == Individual:
			netInd += delta
		}
	}

	net := netShared + netProp + netInd + netTransfer

	res := SettlementResult{Partner1: h.Partner1, Partner2: h.Partner2}
	sign := int64(1)
	switch {
	case net > 0:
		res.Summary = Summary{Payer: SidePartner2, Amount: Money{Cents: net}}
	case net < 0:
		res.Summary = Summary{Payer: SidePartner1, Amount: Money{Cents: -net}}
		sign = -1
	default:
		res.Summary = Summary{Payer: SideNone}
	}

	res.Breakdown = Breakdown{
		SharedFiftyFifty:   Money{Cents: netShared * sign},
		SharedProportional: Money{Cents: netProp * sign},
		Individual:         Money{Cents: netInd * sign},
		Transfer:           Money{Cents: netTransfer * sign},
	}
	return res, nil
}

// CoupleRelevant reports whether a transaction matters for the
// two-partner view: transfers and shared expenses always do, individual
// expenses only when crossed.
func CoupleRelevant(t Transaction) bool {
	if t.Type == Transfer {
		return true
	}
	if t.SplitType == Shared || t.SplitType == SharedProportional {
		return true
	}
	if t.SplitType == Individual {
		return t.Crossed()
	}
	return false
}

func inPeriod(t Transaction, from, to time.Time) bool {
	return !t.PurchaseDate.Before(from) && t.PurchaseDate.Before(to)
}
