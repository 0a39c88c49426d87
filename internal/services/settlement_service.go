package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contas/internal/core"
	"contas/internal/storage"
)

// SettlementRepository is the storage surface the settlement service needs.
type SettlementRepository interface {
	GetHousehold(ctx context.Context) (core.Household, error)
	ListTransactions(ctx context.Context, from, to time.Time) ([]core.Transaction, error)
}

// SettlementService computes who owes whom for a month.
type SettlementService struct {
	repo SettlementRepository
}

func NewSettlementService(repo SettlementRepository) *SettlementService {
	return &SettlementService{repo: repo}
}

func (s *SettlementService) load(ctx context.Context, year, month int) (core.Household, []core.Transaction, time.Time, time.Time, error) {
	from, to := core.PeriodBounds(year, month)

	h, err := s.repo.GetHousehold(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return core.Household{}, nil, from, to, core.ErrNotConfigured
		}
		return core.Household{}, nil, from, to, fmt.Errorf("load household: %w", err)
	}

	txs, err := s.repo.ListTransactions(ctx, from, to)
	if err != nil {
		return core.Household{}, nil, from, to, fmt.Errorf("list transactions: %w", err)
	}
	return h, txs, from, to, nil
}

// Settlement returns the net ledger for the given month.
func (s *SettlementService) Settlement(ctx context.Context, year, month int) (core.SettlementResult, error) {
	h, txs, from, to, err := s.load(ctx, year, month)
	if err != nil {
		return core.SettlementResult{}, err
	}
	return core.ComputeSettlement(txs, h, from, to)
}

// Fairness returns paid-versus-ideal shares for the given month.
func (s *SettlementService) Fairness(ctx context.Context, year, month int) (core.FairnessResult, error) {
	h, txs, from, to, err := s.load(ctx, year, month)
	if err != nil {
		return core.FairnessResult{}, err
	}
	return core.ComputeFairness(txs, h, from, to)
}

// CoupleFeed returns the month's transactions that move money between
// the partners: shared expenses, crossed individual expenses and
// transfers.
func (s *SettlementService) CoupleFeed(ctx context.Context, year, month int) ([]core.Transaction, error) {
	_, txs, _, _, err := s.load(ctx, year, month)
	if err != nil {
		return nil, err
	}

	feed := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if core.CoupleRelevant(t) {
			feed = append(feed, t)
		}
	}
	return feed, nil
}
