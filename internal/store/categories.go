package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/SambhavSurthi/StockInsight/internal/model"
)

// DefaultCategoryColor is applied when a category is created without one.
const DefaultCategoryColor = "#3b82f6"

// Categories lists the user's categories sorted by name.
func (s *Store) Categories(userID int64) ([]model.Category, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, name, color, parent_id FROM categories WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		var parent sql.NullInt64
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &parent); err != nil {
			return nil, err
		}
		if parent.Valid {
			c.ParentID = &parent.Int64
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CategoryByID fetches one category owned by the user.
func (s *Store) CategoryByID(userID, id int64) (*model.Category, error) {
	var c model.Category
	var parent sql.NullInt64
	err := s.db.QueryRow(
		`SELECT id, user_id, name, color, parent_id FROM categories WHERE id = ? AND user_id = ?`,
		id, userID).Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &parent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if parent.Valid {
		c.ParentID = &parent.Int64
	}
	return &c, nil
}

// CreateCategory inserts a category. The parent, if given, must belong to
// the same user. A duplicate name yields ErrDuplicate.
func (s *Store) CreateCategory(userID int64, name, color string, parentID *int64) (*model.Category, error) {
	if color == "" {
		color = DefaultCategoryColor
	}
	if parentID != nil {
		if _, err := s.CategoryByID(userID, *parentID); err != nil {
			return nil, fmt.Errorf("parent category: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var parent interface{}
	if parentID != nil {
		parent = *parentID
	}
	res, err := s.db.Exec(
		`INSERT INTO categories (user_id, name, color, parent_id) VALUES (?,?,?,?)`,
		userID, name, color, parent)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("category %q: %w", name, ErrDuplicate)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Category{ID: id, UserID: userID, Name: name, Color: color, ParentID: parentID}, nil
}

// CategoryUpdate carries the optional fields of an update. ClearParent
// detaches the category from its parent; it wins over ParentID.
type CategoryUpdate struct {
	Name        *string
	Color       *string
	ParentID    *int64
	ClearParent bool
}

// UpdateCategory applies the given changes to a category the user owns.
func (s *Store) UpdateCategory(userID, id int64, upd CategoryUpdate) (*model.Category, error) {
	c, err := s.CategoryByID(userID, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil && *upd.Name != "" {
		var existing int64
		err := s.db.QueryRow(
			`SELECT id FROM categories WHERE user_id = ? AND name = ? AND id != ?`,
			userID, *upd.Name, id).Scan(&existing)
		if err == nil {
			return nil, fmt.Errorf("category %q: %w", *upd.Name, ErrDuplicate)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		c.Name = *upd.Name
	}
	if upd.Color != nil && *upd.Color != "" {
		c.Color = *upd.Color
	}
	switch {
	case upd.ClearParent:
		c.ParentID = nil
	case upd.ParentID != nil:
		if *upd.ParentID == id {
			return nil, fmt.Errorf("category cannot be its own parent")
		}
		if _, err := s.CategoryByID(userID, *upd.ParentID); err != nil {
			return nil, fmt.Errorf("parent category: %w", err)
		}
		c.ParentID = upd.ParentID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var parent interface{}
	if c.ParentID != nil {
		parent = *c.ParentID
	}
	if _, err := s.db.Exec(
		`UPDATE categories SET name = ?, color = ?, parent_id = ? WHERE id = ? AND user_id = ?`,
		c.Name, c.Color, parent, id, userID); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory removes a category. It refuses while holdings, watchlist
// items or sub-categories still reference it.
func (s *Store) DeleteCategory(userID, id int64) error {
	if _, err := s.CategoryByID(userID, id); err != nil {
		return err
	}

	checks := []struct {
		query string
		what  string
	}{
		{`SELECT COUNT(*) FROM holdings WHERE user_id = ? AND category_id = ?`, "portfolio companies"},
		{`SELECT COUNT(*) FROM watchlist WHERE user_id = ? AND category_id = ?`, "future analysis companies"},
		{`SELECT COUNT(*) FROM categories WHERE user_id = ? AND parent_id = ?`, "sub-categories"},
	}
	for _, check := range checks {
		var n int
		if err := s.db.QueryRow(check.query, userID, id).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("category has %d %s: %w", n, check.what, ErrInUse)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	return err
}

// SetCompanyCategory re-assigns a portfolio or watchlist company to a
// category. kind is "portfolio" or "future".
func (s *Store) SetCompanyCategory(userID, screenerID, categoryID int64, kind string) error {
	if _, err := s.CategoryByID(userID, categoryID); err != nil {
		return fmt.Errorf("category: %w", err)
	}

	var table string
	switch kind {
	case "portfolio":
		table = "holdings"
	case "future":
		table = "watchlist"
	default:
		return fmt.Errorf("invalid kind %q", kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`UPDATE `+table+` SET category_id = ? WHERE user_id = ? AND screener_id = ?`,
		categoryID, userID, screenerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("company %d: %w", screenerID, ErrNotFound)
	}
	return nil
}
