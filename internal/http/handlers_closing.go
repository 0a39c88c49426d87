package http

import (
	"encoding/json"
	"net/http"

	"contas/internal/core"
)

type balanceResponse struct {
	ID           string        `json:"id"`
	Month        int           `json:"month"`
	Year         int           `json:"year"`
	DebtorID     string        `json:"debtor_id"`
	CreditorID   string        `json:"creditor_id"`
	FinalBalance moneyResponse `json:"final_balance"`
	Status       string        `json:"status"`
	CreatedAt    string        `json:"created_at"`
}

func toBalanceResponse(b core.MonthlyBalance) balanceResponse {
	return balanceResponse{
		ID:           b.ID,
		Month:        b.Month,
		Year:         b.Year,
		DebtorID:     b.DebtorID,
		CreditorID:   b.CreditorID,
		FinalBalance: toMoneyResponse(b.FinalBalance),
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *Server) handleCloseMonth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month        int    `json:"month"`
		Year         int    `json:"year"`
		DebtorID     string `json:"debtor_id"`
		CreditorID   string `json:"creditor_id"`
		FinalBalance string `json:"final_balance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.FinalBalance)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "invalid final_balance: " + err.Error()})
		return
	}

	b, err := s.closings.CloseMonth(r.Context(), req.Month, req.Year, req.DebtorID, req.CreditorID, core.Money{Cents: cents})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBalanceResponse(b))
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	b, err := s.closings.MarkAsPaid(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceResponse(b))
}

func (s *Server) handleGetClosing(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, err)
		return
	}

	b, err := s.closings.Balance(r.Context(), month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceResponse(b))
}

func (s *Server) handleListClosings(w http.ResponseWriter, r *http.Request) {
	balances, err := s.closings.History(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]balanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, toBalanceResponse(b))
	}
	writeJSON(w, http.StatusOK, map[string]any{"closings": out})
}
