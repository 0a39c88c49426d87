package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Expense  TransactionType = "EXPENSE"
	Income   TransactionType = "INCOME"
	Transfer TransactionType = "TRANSFER"
)

const (
	Shared             SplitType = "SHARED"
	SharedProportional SplitType = "SHARED_PROPORTIONAL"
	Individual         SplitType = "INDIVIDUAL"
)

type (
	TransactionType string

	SplitType string

	Partner struct {
		ID   string
		Name string
	}

	// Household binds the two reconciled parties by explicit identity.
	// Partner1Share is the default proportional ratio: the share of a
	// SHARED_PROPORTIONAL expense ideally borne by partner1 when the
	// transaction carries no splitShare of its own.
	Household struct {
		Partner1      Partner
		Partner2      Partner
		Partner1Share float64
	}

	Transaction struct {
		ID           string
		Description  string
		Amount       Money
		PurchaseDate time.Time
		Type         TransactionType
		SplitType    SplitType
		// SplitShare is the ideal share borne by the NON-payer, in [0,1].
		// Nil means the household default applies.
		SplitShare *float64
		PayerID    string
		// OwnerID is set for INDIVIDUAL expenses; when it differs from
		// PayerID the expense is "crossed" and creates settlement debt.
		OwnerID  string
		Category string
	}
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrInvalidSplitType     = errors.New("invalid split type")
	ErrInvalidSplitShare    = errors.New("split share outside [0,1]")
	ErrEmptyPayer           = errors.New("empty payer")
	ErrEmptyDescription     = errors.New("empty description")
	ErrNotConfigured        = errors.New("household not configured")
	ErrInvalidPartnerShare  = errors.New("partner share outside [0,1]")
	ErrSamePartner          = errors.New("partners must be distinct")
	ErrInvalidClosingAmount = errors.New("closing amount must be positive")
)

// Configured reports whether both partners are bound.
func (h Household) Configured() bool {
	return h.Partner1.ID != "" && h.Partner2.ID != ""
}

func (h Household) Validate() error {
	if h.Partner1.ID == "" || h.Partner2.ID == "" {
		return ErrNotConfigured
	}
	if h.Partner1.ID == h.Partner2.ID {
		return ErrSamePartner
	}
	if h.Partner1Share < 0 || h.Partner1Share > 1 {
		return ErrInvalidPartnerShare
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.PurchaseDate.IsZero() {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if t.PayerID == "" {
		return ErrEmptyPayer
	}
	switch t.Type {
	case Income, Transfer:
		// No split semantics.
	case Expense:
		switch t.SplitType {
		case Shared, SharedProportional, Individual:
		default:
			return ErrInvalidSplitType
		}
	default:
		return ErrInvalidType
	}
	if t.SplitShare != nil {
		if *t.SplitShare < 0 || *t.SplitShare > 1 {
			return ErrInvalidSplitShare
		}
	}
	return nil
}

// Crossed reports whether an INDIVIDUAL expense was fronted by the
// partner who does not own it.
func (t Transaction) Crossed() bool {
	return t.SplitType == Individual && t.OwnerID != "" && t.OwnerID != t.PayerID
}
