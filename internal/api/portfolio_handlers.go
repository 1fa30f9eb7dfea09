package api

import (
	"net/http"
	"strings"

	"github.com/SambhavSurthi/StockInsight/internal/auth"
	"github.com/SambhavSurthi/StockInsight/internal/model"
)

type companyInput struct {
	ScreenerID int64  `json:"screenerId"`
	Name       string `json:"name"`
	CategoryID int64  `json:"categoryId"`
}

func (in *companyInput) validate(w http.ResponseWriter) bool {
	in.Name = strings.TrimSpace(in.Name)
	if in.ScreenerID == 0 || in.Name == "" || in.CategoryID == 0 {
		writeError(w, http.StatusBadRequest, "screenerId, name, and categoryId are required")
		return false
	}
	return true
}

type bulkInput struct {
	ScreenerIDs []int64 `json:"screenerIds"`
}

func (s *Server) handleListHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := s.store.Holdings(auth.UserID(r.Context()))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if holdings == nil {
		holdings = []model.Holding{}
	}
	writeJSON(w, http.StatusOK, holdings)
}

func (s *Server) handleAddHolding(w http.ResponseWriter, r *http.Request) {
	var in companyInput
	if !decodeBody(w, r, &in) || !in.validate(w) {
		return
	}
	holding, err := s.store.AddHolding(auth.UserID(r.Context()), in.ScreenerID, in.Name, in.CategoryID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, holding)
}

func (s *Server) handleDeleteHoldings(w http.ResponseWriter, r *http.Request) {
	var in bulkInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := s.store.DeleteHoldings(auth.UserID(r.Context()), in.ScreenerIDs); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "selected companies removed from portfolio"})
}
