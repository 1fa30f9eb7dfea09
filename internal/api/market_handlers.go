package api

import (
	"log"
	"net/http"
	"strconv"
)

const (
	// Window bounds enforced before proxying; the upstream misbehaves on
	// very small windows.
	minChartDays = 7
	maxChartDays = 365

	defaultChartDays = 15
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "query q is required")
		return
	}
	body, err := s.screener.Search(r.Context(), q)
	if err != nil {
		log.Printf("[ERROR] search proxy: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to search companies")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	days := defaultChartDays
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}
	if days < minChartDays {
		days = minChartDays
	}
	if days > maxChartDays {
		days = maxChartDays
	}

	body, status, err := s.screener.Chart(r.Context(), id, days)
	if err != nil {
		log.Printf("[ERROR] chart proxy: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch chart data")
		return
	}
	if status != http.StatusOK {
		// Mirror the upstream status so clients see rate limits as 429s.
		writeError(w, status, "failed to fetch chart data")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
