package report

import (
	"context"
	"time"

	"contas/internal/core"
)

// ClosingReport is one row of the monthly closing history.
type ClosingReport struct {
	Month              int
	Year               int
	DebtorName         string
	CreditorName       string
	FinalBalance       core.Money
	SharedFiftyFifty   core.Money
	SharedProportional core.Money
	Individual         core.Money
	Transfer           core.Money
	ClosedAt           time.Time
}

// Writer is the outbound port for closing report sinks.
type Writer interface {
	Append(ctx context.Context, r ClosingReport) (rowRef string, err error)
}
