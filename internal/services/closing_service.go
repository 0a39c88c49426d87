package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contas/internal/core"
	"contas/internal/log"
	"contas/internal/resilience"
	"contas/internal/storage"
)

// BalanceRepository is the storage surface the closing service needs.
type BalanceRepository interface {
	InsertMonthlyBalance(ctx context.Context, b *core.MonthlyBalance) error
	GetMonthlyBalance(ctx context.Context, month, year int) (core.MonthlyBalance, error)
	GetMonthlyBalanceByID(ctx context.Context, id string) (core.MonthlyBalance, error)
	MarkBalancePaid(ctx context.Context, id string) (core.MonthlyBalance, error)
	ListMonthlyBalances(ctx context.Context) ([]core.MonthlyBalance, error)
}

// ClosingPublisher notifies downstream consumers that a month was closed.
type ClosingPublisher interface {
	PublishMonthClosed(ctx context.Context, balanceID string, month, year int) error
}

// ClosingMetrics is the slice of observability the service reports to.
type ClosingMetrics interface {
	IncrClosing(outcome string)
	IncrPublishError()
}

// ClosingService freezes a month's debt into a MonthlyBalance record and
// announces the closing over AMQP.
type ClosingService struct {
	repo      BalanceRepository
	publisher ClosingPublisher
	metrics   ClosingMetrics
	retry     resilience.Config
	logger    *log.Logger
}

func NewClosingService(repo BalanceRepository, publisher ClosingPublisher, metrics ClosingMetrics, retry resilience.Config, logger *log.Logger) *ClosingService {
	return &ClosingService{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		retry:     retry,
		logger:    logger,
	}
}

// CloseMonth records the period's final balance as an OPEN monthly
// balance. A period can only be closed once; a second attempt returns
// storage.ErrDuplicatePeriod without retrying. Transient storage errors
// are retried with backoff. The AMQP notification is best-effort: a
// publish failure never rolls back the closing.
func (s *ClosingService) CloseMonth(ctx context.Context, month, year int, debtorID, creditorID string, finalBalance core.Money) (core.MonthlyBalance, error) {
	if finalBalance.Cents <= 0 {
		s.metrics.IncrClosing("error")
		return core.MonthlyBalance{}, core.ErrInvalidClosingAmount
	}

	b := core.MonthlyBalance{
		Month:        month,
		Year:         year,
		DebtorID:     debtorID,
		CreditorID:   creditorID,
		FinalBalance: finalBalance,
	}
	if err := b.Validate(); err != nil {
		s.metrics.IncrClosing("error")
		return core.MonthlyBalance{}, err
	}

	err := resilience.RetryWithBackoff(ctx, s.retry, func() error {
		insertErr := s.repo.InsertMonthlyBalance(ctx, &b)
		if errors.Is(insertErr, storage.ErrDuplicatePeriod) {
			return resilience.Permanent(insertErr)
		}
		return insertErr
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicatePeriod) {
			s.metrics.IncrClosing("duplicate")
		} else {
			s.metrics.IncrClosing("error")
		}
		return core.MonthlyBalance{}, fmt.Errorf("close month: %w", err)
	}

	s.metrics.IncrClosing("success")
	s.logger.InfoContext(ctx, "Month closed",
		"balance_id", b.ID,
		"month", month,
		"year", year,
		"final_balance", finalBalance.String())

	if s.publisher != nil {
		if err := s.publisher.PublishMonthClosed(ctx, b.ID, month, year); err != nil {
			s.metrics.IncrPublishError()
			s.logger.ErrorContext(ctx, "Failed to publish month closed event",
				"balance_id", b.ID, "error", err)
		}
	}

	return b, nil
}

// MarkAsPaid flips an OPEN balance to PAID. Calling it on a balance
// that is already PAID returns the record unchanged.
func (s *ClosingService) MarkAsPaid(ctx context.Context, id string) (core.MonthlyBalance, error) {
	b, err := s.repo.MarkBalancePaid(ctx, id)
	if err != nil {
		return core.MonthlyBalance{}, fmt.Errorf("mark balance paid: %w", err)
	}
	s.logger.InfoContext(ctx, "Balance marked as paid",
		"balance_id", b.ID, "month", b.Month, "year", b.Year)
	return b, nil
}

// Balance returns the closing record for a period.
func (s *ClosingService) Balance(ctx context.Context, month, year int) (core.MonthlyBalance, error) {
	return s.repo.GetMonthlyBalance(ctx, month, year)
}

// History lists all closed months, newest first.
func (s *ClosingService) History(ctx context.Context) ([]core.MonthlyBalance, error) {
	return s.repo.ListMonthlyBalances(ctx)
}

// DefaultRetry returns the retry settings used when none are configured.
func DefaultRetry() resilience.Config {
	return resilience.Config{MaxRetries: 3, InitialBackoff: 200 * time.Millisecond}
}
