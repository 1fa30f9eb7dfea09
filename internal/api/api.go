// Package api exposes the REST surface: auth, portfolio, watchlist,
// categories, saved comparisons and the market-data proxy.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/SambhavSurthi/StockInsight/internal/auth"
	"github.com/SambhavSurthi/StockInsight/internal/screener"
	"github.com/SambhavSurthi/StockInsight/internal/store"
)

// Server holds the handler dependencies.
type Server struct {
	store    *store.Store
	auth     *auth.Service
	screener *screener.Client
}

// New creates the API server.
func New(st *store.Store, authSvc *auth.Service, sc *screener.Client) *Server {
	return &Server{store: st, auth: authSvc, screener: sc}
}

// Handler builds the route table. Everything except signup/login and the
// health check sits behind the bearer-token middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, s.auth.Middleware(h))
	}

	protected("GET /api/portfolio", s.handleListHoldings)
	protected("POST /api/portfolio", s.handleAddHolding)
	protected("POST /api/portfolio/bulk-delete", s.handleDeleteHoldings)

	protected("GET /api/future", s.handleListWatchlist)
	protected("POST /api/future", s.handleAddWatchItem)
	protected("POST /api/future/bulk-delete", s.handleDeleteWatchItems)
	protected("POST /api/future/move-to-portfolio", s.handleMoveToPortfolio)

	protected("GET /api/categories", s.handleListCategories)
	protected("POST /api/categories", s.handleCreateCategory)
	protected("PUT /api/categories/{id}", s.handleUpdateCategory)
	protected("DELETE /api/categories/{id}", s.handleDeleteCategory)
	protected("POST /api/categories/assign", s.handleAssignCategory)

	protected("GET /api/comparisons", s.handleListComparisons)
	protected("POST /api/comparisons", s.handleCreateComparison)
	protected("GET /api/comparisons/{id}", s.handleGetComparison)
	protected("PUT /api/comparisons/{id}", s.handleUpdateComparison)
	protected("DELETE /api/comparisons/{id}", s.handleDeleteComparison)

	protected("GET /api/market/search", s.handleSearch)
	protected("GET /api/market/company/{id}/chart", s.handleChart)

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeStoreError maps store sentinels onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrDuplicate):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInUse):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[ERROR] store: %v", err)
		writeError(w, http.StatusInternalServerError, "server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}
