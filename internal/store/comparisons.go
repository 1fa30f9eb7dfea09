package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SambhavSurthi/StockInsight/internal/model"
)

// Comparisons lists the user's saved comparisons, newest first.
func (s *Store) Comparisons(userID int64) ([]model.Comparison, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, name, screener_ids, company_names, kind, created_at
		 FROM comparisons WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Comparison
	for rows.Next() {
		c, err := scanComparison(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// ComparisonByID fetches one saved comparison the user owns.
func (s *Store) ComparisonByID(userID, id int64) (*model.Comparison, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, name, screener_ids, company_names, kind, created_at
		 FROM comparisons WHERE id = ? AND user_id = ?`, id, userID)
	c, err := scanComparison(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// CreateComparison saves a new comparison. The name must be unique per user.
func (s *Store) CreateComparison(c *model.Comparison) (*model.Comparison, error) {
	ids, names, err := encodeComparisonLists(c)
	if err != nil {
		return nil, err
	}
	if c.Kind == "" {
		c.Kind = model.ComparisonMixed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	res, err := s.db.Exec(
		`INSERT INTO comparisons (user_id, name, screener_ids, company_names, kind, created_at)
		 VALUES (?,?,?,?,?,?)`,
		c.UserID, c.Name, ids, names, string(c.Kind), now.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("comparison %q: %w", c.Name, ErrDuplicate)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *c
	out.ID = id
	out.CreatedAt = now
	return &out, nil
}

// UpdateComparison overwrites the stored fields of an existing comparison.
// Zero-value fields keep their stored values.
func (s *Store) UpdateComparison(userID, id int64, upd *model.Comparison) (*model.Comparison, error) {
	c, err := s.ComparisonByID(userID, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != "" && upd.Name != c.Name {
		var existing int64
		err := s.db.QueryRow(
			`SELECT id FROM comparisons WHERE user_id = ? AND name = ? AND id != ?`,
			userID, upd.Name, id).Scan(&existing)
		if err == nil {
			return nil, fmt.Errorf("comparison %q: %w", upd.Name, ErrDuplicate)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		c.Name = upd.Name
	}
	if len(upd.ScreenerIDs) > 0 {
		c.ScreenerIDs = upd.ScreenerIDs
	}
	if len(upd.CompanyNames) > 0 {
		c.CompanyNames = upd.CompanyNames
	}
	if upd.Kind != "" {
		c.Kind = upd.Kind
	}

	ids, names, err := encodeComparisonLists(c)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(
		`UPDATE comparisons SET name = ?, screener_ids = ?, company_names = ?, kind = ?
		 WHERE id = ? AND user_id = ?`,
		c.Name, ids, names, string(c.Kind), id, userID); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteComparison removes a saved comparison.
func (s *Store) DeleteComparison(userID, id int64) error {
	if _, err := s.ComparisonByID(userID, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM comparisons WHERE id = ? AND user_id = ?`, id, userID)
	return err
}

func encodeComparisonLists(c *model.Comparison) (ids, names string, err error) {
	rawIDs, err := json.Marshal(c.ScreenerIDs)
	if err != nil {
		return "", "", err
	}
	rawNames, err := json.Marshal(c.CompanyNames)
	if err != nil {
		return "", "", err
	}
	return string(rawIDs), string(rawNames), nil
}

func scanComparison(scan func(...interface{}) error) (*model.Comparison, error) {
	var c model.Comparison
	var ids, names, kind string
	var createdAt int64
	if err := scan(&c.ID, &c.UserID, &c.Name, &ids, &names, &kind, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(ids), &c.ScreenerIDs); err != nil {
		return nil, fmt.Errorf("decode screener ids: %w", err)
	}
	if err := json.Unmarshal([]byte(names), &c.CompanyNames); err != nil {
		return nil, fmt.Errorf("decode company names: %w", err)
	}
	c.Kind = model.ComparisonKind(kind)
	c.CreatedAt = time.Unix(createdAt, 0)
	return &c, nil
}
