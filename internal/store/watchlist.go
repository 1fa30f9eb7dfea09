package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/SambhavSurthi/StockInsight/internal/model"
)

// Watchlist lists the user's future-analysis companies sorted by name.
func (s *Store) Watchlist(userID int64) ([]model.WatchItem, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, screener_id, name, category_id FROM watchlist WHERE user_id = ? ORDER BY name`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WatchItem
	for rows.Next() {
		var w model.WatchItem
		if err := rows.Scan(&w.ID, &w.UserID, &w.ScreenerID, &w.Name, &w.CategoryID); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// AddWatchItem puts a company on the watchlist. A company already held in
// the portfolio cannot also be watched.
func (s *Store) AddWatchItem(userID, screenerID int64, name string, categoryID int64) (*model.WatchItem, error) {
	if _, err := s.CategoryByID(userID, categoryID); err != nil {
		return nil, fmt.Errorf("category: %w", err)
	}

	var held int64
	err := s.db.QueryRow(
		`SELECT id FROM holdings WHERE user_id = ? AND screener_id = ?`, userID, screenerID).Scan(&held)
	if err == nil {
		return nil, fmt.Errorf("company already in portfolio: %w", ErrDuplicate)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`INSERT INTO watchlist (user_id, screener_id, name, category_id) VALUES (?,?,?,?)`,
		userID, screenerID, name, categoryID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("company already in future analysis: %w", ErrDuplicate)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.WatchItem{ID: id, UserID: userID, ScreenerID: screenerID, Name: name, CategoryID: categoryID}, nil
}

// DeleteWatchItems removes the given companies from the watchlist.
func (s *Store) DeleteWatchItems(userID int64, screenerIDs []int64) error {
	if len(screenerIDs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	query, args := inClause(
		`DELETE FROM watchlist WHERE user_id = ? AND screener_id IN`, userID, screenerIDs)
	_, err := s.db.Exec(query, args...)
	return err
}

// MoveToPortfolio promotes watchlist companies into the portfolio,
// preserving their categories. Companies already held are skipped; the
// selected watchlist entries are removed either way.
func (s *Store) MoveToPortfolio(userID int64, screenerIDs []int64) error {
	if len(screenerIDs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query, args := inClause(
		`SELECT screener_id, name, category_id FROM watchlist WHERE user_id = ? AND screener_id IN`,
		userID, screenerIDs)
	rows, err := tx.Query(query, args...)
	if err != nil {
		return err
	}
	type item struct {
		screenerID, categoryID int64
		name                   string
	}
	var items []item
	for rows.Next() {
		var it item
		if err := rows.Scan(&it.screenerID, &it.name, &it.categoryID); err != nil {
			rows.Close()
			return err
		}
		items = append(items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, it := range items {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO holdings (user_id, screener_id, name, category_id) VALUES (?,?,?,?)`,
			userID, it.screenerID, it.name, it.categoryID); err != nil {
			return err
		}
	}

	query, args = inClause(
		`DELETE FROM watchlist WHERE user_id = ? AND screener_id IN`, userID, screenerIDs)
	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}
	return tx.Commit()
}
