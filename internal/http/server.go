package http

import (
	"context"
	"net/http"
	"time"

	"contas/internal/core"
	"contas/internal/log"
	"contas/internal/observability"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TransactionStore is the storage surface the transaction handlers need.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t *core.Transaction) error
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	ListTransactions(ctx context.Context, from, to time.Time) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, t *core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
}

// SettlementProvider computes monthly settlement views.
type SettlementProvider interface {
	Settlement(ctx context.Context, year, month int) (core.SettlementResult, error)
	Fairness(ctx context.Context, year, month int) (core.FairnessResult, error)
	CoupleFeed(ctx context.Context, year, month int) ([]core.Transaction, error)
}

// ClosingProvider manages monthly balances.
type ClosingProvider interface {
	CloseMonth(ctx context.Context, month, year int, debtorID, creditorID string, finalBalance core.Money) (core.MonthlyBalance, error)
	MarkAsPaid(ctx context.Context, id string) (core.MonthlyBalance, error)
	Balance(ctx context.Context, month, year int) (core.MonthlyBalance, error)
	History(ctx context.Context) ([]core.MonthlyBalance, error)
}

// HouseholdProvider manages partners and the split configuration.
type HouseholdProvider interface {
	CreatePartner(ctx context.Context, name string) (core.Partner, error)
	ListPartners(ctx context.Context) ([]core.Partner, error)
	Get(ctx context.Context) (core.Household, error)
	Configure(ctx context.Context, partner1ID, partner2ID string, partner1Share float64) (core.Household, error)
}

type Server struct {
	http.Server

	transactions TransactionStore
	settlements  SettlementProvider
	closings     ClosingProvider
	households   HouseholdProvider
	metrics      *observability.Metrics
	logger       *log.Logger
	started      time.Time
}

func NewServer(addr string, txs TransactionStore, st SettlementProvider, cl ClosingProvider, hh HouseholdProvider, metrics *observability.Metrics, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		transactions: txs,
		settlements:  st,
		closings:     cl,
		households:   hh,
		metrics:      metrics,
		logger:       logger.WithComponent("http"),
		started:      time.Now(),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /transactions", s.instrument("transactions", s.handleCreateTransaction))
	mux.HandleFunc("GET /transactions", s.instrument("transactions", s.handleListTransactions))
	mux.HandleFunc("GET /transactions/{id}", s.instrument("transaction", s.handleGetTransaction))
	mux.HandleFunc("PUT /transactions/{id}", s.instrument("transaction", s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /transactions/{id}", s.instrument("transaction", s.handleDeleteTransaction))

	mux.HandleFunc("POST /partners", s.instrument("partners", s.handleCreatePartner))
	mux.HandleFunc("GET /partners", s.instrument("partners", s.handleListPartners))
	mux.HandleFunc("GET /household", s.instrument("household", s.handleGetHousehold))
	mux.HandleFunc("PUT /household", s.instrument("household", s.handleConfigureHousehold))

	mux.HandleFunc("GET /settlement", s.instrument("settlement", s.handleSettlement))
	mux.HandleFunc("GET /fairness", s.instrument("fairness", s.handleFairness))
	mux.HandleFunc("GET /couple-feed", s.instrument("couple_feed", s.handleCoupleFeed))

	mux.HandleFunc("POST /closings", s.instrument("closings", s.handleCloseMonth))
	mux.HandleFunc("GET /closings", s.instrument("closings", s.handleListClosings))
	mux.HandleFunc("GET /closings/current", s.instrument("closing", s.handleGetClosing))
	mux.HandleFunc("POST /closings/{id}/pay", s.instrument("closing_pay", s.handleMarkPaid))

	return s
}

// instrument wraps a handler with request logging and metrics.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		elapsed := time.Since(start)
		s.metrics.RecordRequest(route, statusClass(rec.status), elapsed)
		s.logger.InfoContext(r.Context(), "Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Ready once the household can be read, even if unconfigured.
	if _, err := s.households.ListPartners(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Server.Shutdown(ctx)
}
