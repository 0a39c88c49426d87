package core

import (
	"errors"
	"time"
)

const (
	BalanceOpen BalanceStatus = "OPEN"
	BalancePaid BalanceStatus = "PAID"
)

type (
	// BalanceStatus is the one-way lifecycle of a closed month:
	// OPEN -> PAID, terminal at PAID.
	BalanceStatus string

	// MonthlyBalance freezes a computed settlement for one (month, year).
	// Everything except Status is immutable once created, and at most one
	// record may exist per period.
	MonthlyBalance struct {
		ID           string
		Month        int
		Year         int
		DebtorID     string
		CreditorID   string
		FinalBalance Money
		Status       BalanceStatus
		CreatedAt    time.Time
	}
)

var (
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
	ErrInvalidYear  = errors.New("invalid year")
)

func (b MonthlyBalance) Validate() error {
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	if b.Year < 1970 || b.Year > 9999 {
		return ErrInvalidYear
	}
	if b.DebtorID == "" || b.CreditorID == "" {
		return ErrEmptyPayer
	}
	if b.DebtorID == b.CreditorID {
		return ErrSamePartner
	}
	if b.FinalBalance.Cents <= 0 {
		return ErrInvalidClosingAmount
	}
	return nil
}

// PeriodBounds returns the half-open [start, end) window covering the
// balance's calendar month.
func PeriodBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
