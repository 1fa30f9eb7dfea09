package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/SambhavSurthi/StockInsight/internal/auth"
	"github.com/SambhavSurthi/StockInsight/internal/model"
	"github.com/SambhavSurthi/StockInsight/internal/store"
)

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.Categories(auth.UserID(r.Context()))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string `json:"name"`
		Color    string `json:"color"`
		ParentID *int64 `json:"parentId"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "category name is required")
		return
	}
	category, err := s.store.CreateCategory(auth.UserID(r.Context()), in.Name, in.Color, in.ParentID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	// parentId is tri-state: absent keeps it, null clears it, a value re-parents.
	var in struct {
		Name     *string         `json:"name"`
		Color    *string         `json:"color"`
		ParentID json.RawMessage `json:"parentId"`
	}
	if !decodeBody(w, r, &in) {
		return
	}

	upd := store.CategoryUpdate{Name: in.Name, Color: in.Color}
	if in.ParentID != nil {
		if string(in.ParentID) == "null" {
			upd.ClearParent = true
		} else {
			var pid int64
			if err := json.Unmarshal(in.ParentID, &pid); err != nil {
				writeError(w, http.StatusBadRequest, "invalid parentId")
				return
			}
			upd.ParentID = &pid
		}
	}

	category, err := s.store.UpdateCategory(auth.UserID(r.Context()), id, upd)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteCategory(auth.UserID(r.Context()), id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "category deleted successfully"})
}

func (s *Server) handleAssignCategory(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ScreenerID int64  `json:"screenerId"`
		CategoryID int64  `json:"categoryId"`
		Type       string `json:"type"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	if in.ScreenerID == 0 || in.CategoryID == 0 {
		writeError(w, http.StatusBadRequest, "screenerId and categoryId are required")
		return
	}
	if in.Type != "portfolio" && in.Type != "future" {
		writeError(w, http.StatusBadRequest, `type must be "portfolio" or "future"`)
		return
	}
	if err := s.store.SetCompanyCategory(auth.UserID(r.Context()), in.ScreenerID, in.CategoryID, in.Type); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "category updated successfully"})
}
