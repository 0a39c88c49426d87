package memory

import (
	"context"
	"fmt"
	"sync"

	"contas/internal/report"
)

// Store keeps closing reports in memory. Used for local development and
// as the worker's default sink when no spreadsheet is configured.
type Store struct {
	mu    sync.Mutex
	items []report.ClosingReport
}

var _ report.Writer = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Append stores the report and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, r report.ClosingReport) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, r)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Reports returns a copy of everything appended so far.
func (s *Store) Reports() []report.ClosingReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]report.ClosingReport(nil), s.items...)
}
