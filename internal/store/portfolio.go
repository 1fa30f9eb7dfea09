package store

import (
	"fmt"
	"strings"

	"github.com/SambhavSurthi/StockInsight/internal/model"
)

// Holdings lists the user's portfolio sorted by company name.
func (s *Store) Holdings(userID int64) ([]model.Holding, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, screener_id, name, category_id FROM holdings WHERE user_id = ? ORDER BY name`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Holding
	for rows.Next() {
		var h model.Holding
		if err := rows.Scan(&h.ID, &h.UserID, &h.ScreenerID, &h.Name, &h.CategoryID); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// AddHolding puts a company into the portfolio. The category must belong
// to the user. If the company sat on the watchlist it is removed from
// there; the two lists are mutually exclusive.
func (s *Store) AddHolding(userID, screenerID int64, name string, categoryID int64) (*model.Holding, error) {
	if _, err := s.CategoryByID(userID, categoryID); err != nil {
		return nil, fmt.Errorf("category: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`INSERT INTO holdings (user_id, screener_id, name, category_id) VALUES (?,?,?,?)`,
		userID, screenerID, name, categoryID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("company already in portfolio: %w", ErrDuplicate)
		}
		return nil, err
	}
	if _, err := s.db.Exec(
		`DELETE FROM watchlist WHERE user_id = ? AND screener_id = ?`, userID, screenerID); err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Holding{ID: id, UserID: userID, ScreenerID: screenerID, Name: name, CategoryID: categoryID}, nil
}

// DeleteHoldings removes the given companies from the portfolio. Unknown
// ids are ignored.
func (s *Store) DeleteHoldings(userID int64, screenerIDs []int64) error {
	if len(screenerIDs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	query, args := inClause(
		`DELETE FROM holdings WHERE user_id = ? AND screener_id IN`, userID, screenerIDs)
	_, err := s.db.Exec(query, args...)
	return err
}

// inClause builds "prefix (?,?,...)" with userID first in args.
func inClause(prefix string, userID int64, ids []int64) (string, []interface{}) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, userID)
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	return prefix + " (" + strings.Join(placeholders, ",") + ")", args
}
