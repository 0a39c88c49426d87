package http

import (
	"net/http"

	"contas/internal/core"
)

type moneyResponse struct {
	Cents  int64  `json:"cents"`
	Amount string `json:"amount"`
}

func toMoneyResponse(m core.Money) moneyResponse {
	return moneyResponse{Cents: m.Cents, Amount: m.String()}
}

type settlementResponse struct {
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Partner1 partnerResponse `json:"partner1"`
	Partner2 partnerResponse `json:"partner2"`
	Summary  struct {
		Payer  string        `json:"payer"`
		Amount moneyResponse `json:"amount"`
	} `json:"summary"`
	Breakdown struct {
		SharedFiftyFifty   moneyResponse `json:"shared_fifty_fifty"`
		SharedProportional moneyResponse `json:"shared_proportional"`
		Individual         moneyResponse `json:"individual"`
		Transfer           moneyResponse `json:"transfer"`
	} `json:"breakdown"`
}

func (s *Server) handleSettlement(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.settlements.Settlement(r.Context(), year, month)
	if err != nil {
		writeError(w, err)
		return
	}

	out := settlementResponse{
		Year:     year,
		Month:    month,
		Partner1: partnerResponse{ID: res.Partner1.ID, Name: res.Partner1.Name},
		Partner2: partnerResponse{ID: res.Partner2.ID, Name: res.Partner2.Name},
	}
	out.Summary.Payer = string(res.Summary.Payer)
	out.Summary.Amount = toMoneyResponse(res.Summary.Amount)
	out.Breakdown.SharedFiftyFifty = toMoneyResponse(res.Breakdown.SharedFiftyFifty)
	out.Breakdown.SharedProportional = toMoneyResponse(res.Breakdown.SharedProportional)
	out.Breakdown.Individual = toMoneyResponse(res.Breakdown.Individual)
	out.Breakdown.Transfer = toMoneyResponse(res.Breakdown.Transfer)

	writeJSON(w, http.StatusOK, out)
}

type fairnessShareResponse struct {
	Name       string        `json:"name"`
	Paid       moneyResponse `json:"paid"`
	IdealShare moneyResponse `json:"ideal_share"`
}

func (s *Server) handleFairness(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.settlements.Fairness(r.Context(), year, month)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"year":  year,
		"month": month,
		"partner1": fairnessShareResponse{
			Name:       res.Partner1.Name,
			Paid:       toMoneyResponse(res.Partner1.Paid),
			IdealShare: toMoneyResponse(res.Partner1.IdealShare),
		},
		"partner2": fairnessShareResponse{
			Name:       res.Partner2.Name,
			Paid:       toMoneyResponse(res.Partner2.Paid),
			IdealShare: toMoneyResponse(res.Partner2.IdealShare),
		},
	})
}

func (s *Server) handleCoupleFeed(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, err)
		return
	}

	txs, err := s.settlements.CoupleFeed(r.Context(), year, month)
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
