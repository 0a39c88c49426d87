package http

import (
	"encoding/json"
	"net/http"

	"contas/internal/core"
)

type householdResponse struct {
	Partner1      partnerResponse `json:"partner1"`
	Partner2      partnerResponse `json:"partner2"`
	Partner1Share float64         `json:"partner1_share"`
	Configured    bool            `json:"configured"`
}

type partnerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toHouseholdResponse(h core.Household) householdResponse {
	return householdResponse{
		Partner1:      partnerResponse{ID: h.Partner1.ID, Name: h.Partner1.Name},
		Partner2:      partnerResponse{ID: h.Partner2.ID, Name: h.Partner2.Name},
		Partner1Share: h.Partner1Share,
		Configured:    h.Configured(),
	}
}

func (s *Server) handleCreatePartner(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	p, err := s.households.CreatePartner(r.Context(), sanitizeInput(req.Name))
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, partnerResponse{ID: p.ID, Name: p.Name})
}

func (s *Server) handleListPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := s.households.ListPartners(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]partnerResponse, 0, len(partners))
	for _, p := range partners {
		out = append(out, partnerResponse{ID: p.ID, Name: p.Name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"partners": out})
}

func (s *Server) handleGetHousehold(w http.ResponseWriter, r *http.Request) {
	h, err := s.households.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHouseholdResponse(h))
}

func (s *Server) handleConfigureHousehold(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Partner1ID    string  `json:"partner1_id"`
		Partner2ID    string  `json:"partner2_id"`
		Partner1Share float64 `json:"partner1_share"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	h, err := s.households.Configure(r.Context(), req.Partner1ID, req.Partner2ID, req.Partner1Share)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHouseholdResponse(h))
}
