package api

import (
	"net/http"

	"github.com/SambhavSurthi/StockInsight/internal/auth"
	"github.com/SambhavSurthi/StockInsight/internal/model"
)

func (s *Server) handleListWatchlist(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.Watchlist(auth.UserID(r.Context()))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if items == nil {
		items = []model.WatchItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddWatchItem(w http.ResponseWriter, r *http.Request) {
	var in companyInput
	if !decodeBody(w, r, &in) || !in.validate(w) {
		return
	}
	item, err := s.store.AddWatchItem(auth.UserID(r.Context()), in.ScreenerID, in.Name, in.CategoryID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleDeleteWatchItems(w http.ResponseWriter, r *http.Request) {
	var in bulkInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := s.store.DeleteWatchItems(auth.UserID(r.Context()), in.ScreenerIDs); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "selected companies removed from future analysis"})
}

func (s *Server) handleMoveToPortfolio(w http.ResponseWriter, r *http.Request) {
	var in bulkInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := s.store.MoveToPortfolio(auth.UserID(r.Context()), in.ScreenerIDs); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "selected companies moved to portfolio"})
}
