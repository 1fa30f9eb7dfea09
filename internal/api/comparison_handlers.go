package api

import (
	"net/http"
	"strings"

	"github.com/SambhavSurthi/StockInsight/internal/auth"
	"github.com/SambhavSurthi/StockInsight/internal/model"
)

type comparisonInput struct {
	Name         string   `json:"name"`
	ScreenerIDs  []int64  `json:"screenerIds"`
	CompanyNames []string `json:"companyNames"`
	Type         string   `json:"type"`
}

func (s *Server) handleListComparisons(w http.ResponseWriter, r *http.Request) {
	comparisons, err := s.store.Comparisons(auth.UserID(r.Context()))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if comparisons == nil {
		comparisons = []model.Comparison{}
	}
	writeJSON(w, http.StatusOK, comparisons)
}

func (s *Server) handleGetComparison(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	comparison, err := s.store.ComparisonByID(auth.UserID(r.Context()), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comparison)
}

func (s *Server) handleCreateComparison(w http.ResponseWriter, r *http.Request) {
	var in comparisonInput
	if !decodeBody(w, r, &in) {
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || len(in.ScreenerIDs) == 0 {
		writeError(w, http.StatusBadRequest, "name and screenerIds array are required")
		return
	}
	if len(in.ScreenerIDs) < 2 || len(in.ScreenerIDs) > 3 {
		writeError(w, http.StatusBadRequest, "you can compare 2-3 companies at a time")
		return
	}

	comparison, err := s.store.CreateComparison(&model.Comparison{
		UserID:       auth.UserID(r.Context()),
		Name:         in.Name,
		ScreenerIDs:  in.ScreenerIDs,
		CompanyNames: in.CompanyNames,
		Kind:         model.ComparisonKind(in.Type),
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comparison)
}

func (s *Server) handleUpdateComparison(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in comparisonInput
	if !decodeBody(w, r, &in) {
		return
	}
	if len(in.ScreenerIDs) > 0 && (len(in.ScreenerIDs) < 2 || len(in.ScreenerIDs) > 3) {
		writeError(w, http.StatusBadRequest, "you can compare 2-3 companies at a time")
		return
	}

	comparison, err := s.store.UpdateComparison(auth.UserID(r.Context()), id, &model.Comparison{
		Name:         strings.TrimSpace(in.Name),
		ScreenerIDs:  in.ScreenerIDs,
		CompanyNames: in.CompanyNames,
		Kind:         model.ComparisonKind(in.Type),
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comparison)
}

func (s *Server) handleDeleteComparison(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteComparison(auth.UserID(r.Context()), id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "comparison deleted successfully"})
}
