package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"contas/internal/amqp"
	"contas/internal/core"
	"contas/internal/observability"
	"contas/internal/report"
	"contas/internal/resilience"
	"contas/internal/storage"

	"github.com/sony/gobreaker"
)

// BalanceReader is the storage surface the report worker needs.
type BalanceReader interface {
	GetMonthlyBalanceByID(ctx context.Context, id string) (core.MonthlyBalance, error)
	GetPartner(ctx context.Context, id string) (core.Partner, error)
	GetHousehold(ctx context.Context) (core.Household, error)
	ListTransactions(ctx context.Context, from, to time.Time) ([]core.Transaction, error)
}

// ReportWorker consumes month-closed events and appends one report row
// per closing to the configured sink. The sink call goes through a
// circuit breaker so a dead spreadsheet backend does not pile up
// requeued messages forever.
type ReportWorker struct {
	storage BalanceReader
	sink    report.Writer
	breaker *gobreaker.CircuitBreaker
	metrics *observability.Metrics
	retry   resilience.Config
}

func NewReportWorker(storage BalanceReader, sink report.Writer, metrics *observability.Metrics, retry resilience.Config) *ReportWorker {
	return &ReportWorker{
		storage: storage,
		sink:    sink,
		breaker: resilience.NewCircuitBreaker("report-sink"),
		metrics: metrics,
		retry:   retry,
	}
}

// HandleMonthClosed processes a single month-closed message.
func (w *ReportWorker) HandleMonthClosed(ctx context.Context, msg *amqp.MonthClosedMessage) error {
	slog.InfoContext(ctx, "Processing month closed message",
		"balance_id", msg.BalanceID,
		"month", msg.Month,
		"year", msg.Year)

	b, err := w.storage.GetMonthlyBalanceByID(ctx, msg.BalanceID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Nothing to report on; do not requeue.
			slog.WarnContext(ctx, "Balance not found, dropping message",
				"balance_id", msg.BalanceID)
			return nil
		}
		return fmt.Errorf("get balance: %w", err)
	}

	row, err := w.buildReport(ctx, b)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	err = resilience.RetryWithBackoff(ctx, w.retry, func() error {
		_, breakerErr := w.breaker.Execute(func() (any, error) {
			ref, appendErr := w.sink.Append(ctx, row)
			return ref, appendErr
		})
		if errors.Is(breakerErr, gobreaker.ErrOpenState) || errors.Is(breakerErr, gobreaker.ErrTooManyRequests) {
			return resilience.Permanent(breakerErr)
		}
		return breakerErr
	})
	if err != nil {
		w.metrics.IncrReportWritten("error")
		return fmt.Errorf("append report row: %w", err)
	}

	w.metrics.IncrReportWritten("success")
	slog.InfoContext(ctx, "Report row written",
		"balance_id", b.ID,
		"month", b.Month,
		"year", b.Year)
	return nil
}

// buildReport resolves partner names and recomputes the period's
// breakdown from the transaction log.
func (w *ReportWorker) buildReport(ctx context.Context, b core.MonthlyBalance) (report.ClosingReport, error) {
	debtor, err := w.storage.GetPartner(ctx, b.DebtorID)
	if err != nil {
		return report.ClosingReport{}, fmt.Errorf("debtor: %w", err)
	}
	creditor, err := w.storage.GetPartner(ctx, b.CreditorID)
	if err != nil {
		return report.ClosingReport{}, fmt.Errorf("creditor: %w", err)
	}

	row := report.ClosingReport{
		Month:        b.Month,
		Year:         b.Year,
		DebtorName:   debtor.Name,
		CreditorName: creditor.Name,
		FinalBalance: b.FinalBalance,
		ClosedAt:     b.CreatedAt,
	}

	// The breakdown is informative; a missing household config should
	// not block the closing row.
	h, err := w.storage.GetHousehold(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return row, nil
		}
		return report.ClosingReport{}, fmt.Errorf("household: %w", err)
	}

	from, to := core.PeriodBounds(b.Year, b.Month)
	txs, err := w.storage.ListTransactions(ctx, from, to)
	if err != nil {
		return report.ClosingReport{}, fmt.Errorf("list transactions: %w", err)
	}

	res, err := core.ComputeSettlement(txs, h, from, to)
	if err != nil {
		return report.ClosingReport{}, fmt.Errorf("compute settlement: %w", err)
	}
	row.SharedFiftyFifty = res.Breakdown.SharedFiftyFifty
	row.SharedProportional = res.Breakdown.SharedProportional
	row.Individual = res.Breakdown.Individual
	row.Transfer = res.Breakdown.Transfer

	return row, nil
}
