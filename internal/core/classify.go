package core

// Contribution is the signed credit, in cents, that one transaction
// adds to each partner's side of the running ledger. A partner earns
// credit by paying for something the other partner (partly) owes.
type Contribution struct {
	Partner1Cents int64
	Partner2Cents int64
}

// Classify maps a transaction onto the ledger:
//
//   - SHARED: the payer is credited half the amount.
//   - SHARED_PROPORTIONAL: the payer is credited the portion ideally
//     borne by the non-payer (splitShare, or the household default
//     relative to whoever paid).
//   - INDIVIDUAL crossed (owner != payer): the payer fronted the whole
//     amount and is credited all of it. Non-crossed individual expenses
//     are purely personal and contribute nothing.
//   - TRANSFER: a repayment. The sender is credited the full amount,
//     which cancels debt accumulated on the other side instead of
//     creating new debt.
//   - INCOME: never contributes.
//
// Transactions whose payer is neither configured partner are excluded
// upstream; Classify returns a zero contribution for them.
func Classify(t Transaction, h Household) Contribution {
	paidByP1 := t.PayerID == h.Partner1.ID
	paidByP2 := t.PayerID == h.Partner2.ID
	if !paidByP1 && !paidByP2 {
		return Contribution{}
	}

	credit := func(cents int64) Contribution {
		if paidByP1 {
			return Contribution{Partner1Cents: cents}
		}
		return Contribution{Partner2Cents: cents}
	}

	switch t.Type {
	case Income:
		return Contribution{}
	case Transfer:
		return credit(t.Amount.Cents)
	}

	switch t.SplitType {
	case Shared:
		return credit(t.Amount.Half().Cents)
	case SharedProportional:
		return credit(t.Amount.Share(h.otherShare(t)).Cents)
	case Individual:
		if t.Crossed() {
			return credit(t.Amount.Cents)
		}
	}
	return Contribution{}
}

// otherShare resolves the ideal ratio borne by the non-payer: the
// transaction's own splitShare when present, otherwise the household
// default relative to whichever partner paid.
func (h Household) otherShare(t Transaction) float64 {
	if t.SplitShare != nil {
		return *t.SplitShare
	}
	if t.PayerID == h.Partner1.ID {
		return 1 - h.Partner1Share
	}
	return h.Partner1Share
}
