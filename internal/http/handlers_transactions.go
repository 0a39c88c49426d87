package http

import (
	"encoding/json"
	"net/http"

	"contas/internal/core"
)

type transactionRequest struct {
	Description  string   `json:"description"`
	Amount       string   `json:"amount"`
	PurchaseDate string   `json:"purchase_date"`
	Type         string   `json:"type"`
	SplitType    string   `json:"split_type,omitempty"`
	SplitShare   *float64 `json:"split_share,omitempty"`
	PayerID      string   `json:"payer_id"`
	OwnerID      string   `json:"owner_id,omitempty"`
	Category     string   `json:"category,omitempty"`
}

type transactionResponse struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	Amount       string   `json:"amount"`
	AmountCents  int64    `json:"amount_cents"`
	PurchaseDate string   `json:"purchase_date"`
	Type         string   `json:"type"`
	SplitType    string   `json:"split_type,omitempty"`
	SplitShare   *float64 `json:"split_share,omitempty"`
	PayerID      string   `json:"payer_id"`
	OwnerID      string   `json:"owner_id,omitempty"`
	Category     string   `json:"category,omitempty"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:           t.ID,
		Description:  t.Description,
		Amount:       t.Amount.String(),
		AmountCents:  t.Amount.Cents,
		PurchaseDate: t.PurchaseDate.Format("2006-01-02"),
		Type:         string(t.Type),
		SplitType:    string(t.SplitType),
		SplitShare:   t.SplitShare,
		PayerID:      t.PayerID,
		OwnerID:      t.OwnerID,
		Category:     t.Category,
	}
}

// decodeTransaction builds a core.Transaction from the request body and
// validates it. Validation failures are reported as 422.
func (s *Server) decodeTransaction(w http.ResponseWriter, r *http.Request) (core.Transaction, bool) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return core.Transaction{}, false
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "invalid amount: " + err.Error()})
		return core.Transaction{}, false
	}

	date, err := parseDate(req.PurchaseDate)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "invalid purchase_date, expected YYYY-MM-DD"})
		return core.Transaction{}, false
	}

	t := core.Transaction{
		Description:  sanitizeInput(req.Description),
		Amount:       core.Money{Cents: cents},
		PurchaseDate: date,
		Type:         core.TransactionType(req.Type),
		SplitType:    core.SplitType(req.SplitType),
		SplitShare:   req.SplitShare,
		PayerID:      req.PayerID,
		OwnerID:      req.OwnerID,
		Category:     sanitizeInput(req.Category),
	}
	if err := t.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error()})
		return core.Transaction{}, false
	}
	return t, true
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	t, ok := s.decodeTransaction(w, r)
	if !ok {
		return
	}

	if err := s.transactions.CreateTransaction(r.Context(), &t); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, err)
		return
	}
	from, to := core.PeriodBounds(year, month)

	txs, err := s.transactions.ListTransactions(r.Context(), from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"year":         year,
		"month":        month,
		"transactions": out,
	})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.transactions.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	t, ok := s.decodeTransaction(w, r)
	if !ok {
		return
	}
	t.ID = r.PathValue("id")

	if err := s.transactions.UpdateTransaction(r.Context(), &t); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.transactions.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
