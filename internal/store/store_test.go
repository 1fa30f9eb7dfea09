package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/SambhavSurthi/StockInsight/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedUser(t *testing.T, s *Store, email string) *model.User {
	t.Helper()
	u, err := s.CreateUser(email, "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func seedCategory(t *testing.T, s *Store, userID int64, name string) *model.Category {
	t.Helper()
	c, err := s.CreateCategory(userID, name, "", nil)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

func TestUsers(t *testing.T) {
	s := testStore(t)
	u := seedUser(t, s, "alice@example.com")

	got, err := s.UserByEmail("alice@example.com")
	if err != nil {
		t.Fatalf("by email: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("expected id %d, got %d", u.ID, got.ID)
	}

	if _, err := s.CreateUser("alice@example.com", "other"); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
	if _, err := s.UserByEmail("nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCategories_CRUD(t *testing.T) {
	s := testStore(t)
	u := seedUser(t, s, "alice@example.com")

	c := seedCategory(t, s, u.ID, "Tech")
	if c.Color != DefaultCategoryColor {
		t.Errorf("expected default color, got %q", c.Color)
	}

	if _, err := s.CreateCategory(u.ID, "Tech", "", nil); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for same name, got %v", err)
	}

	// same name under another user is fine
	other := seedUser(t, s, "bob@example.com")
	if _, err := s.CreateCategory(other.ID, "Tech", "", nil); err != nil {
		t.Errorf("same name for another user must work: %v", err)
	}

	// parent must belong to the user
	if _, err := s.CreateCategory(other.ID, "Sub", "", &c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign parent must yield ErrNotFound, got %v", err)
	}

	newName := "Technology"
	upd, err := s.UpdateCategory(u.ID, c.ID, CategoryUpdate{Name: &newName})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if upd.Name != "Technology" {
		t.Errorf("expected renamed category, got %q", upd.Name)
	}

	if _, err := s.UpdateCategory(u.ID, c.ID, CategoryUpdate{ParentID: &c.ID}); err == nil {
		t.Error("a category must not become its own parent")
	}
}

func TestCategories_DeleteBlockedWhileInUse(t *testing.T) {
	s := testStore(t)
	u := seedUser(t, s, "alice@example.com")
	c := seedCategory(t, s, u.ID, "Tech")

	if _, err := s.AddHolding(u.ID, 101, "Acme", c.ID); err != nil {
		t.Fatalf("add holding: %v", err)
	}
	if err := s.DeleteCategory(u.ID, c.ID); !errors.Is(err, ErrInUse) {
		t.Fatalf("expected ErrInUse while a holding references it, got %v", err)
	}

	if err := s.DeleteHoldings(u.ID, []int64{101}); err != nil {
		t.Fatalf("delete holdings: %v", err)
	}

	sub, err := s.CreateCategory(u.ID, "Sub", "", &c.ID)
	if err != nil {
		t.Fatalf("create sub: %v", err)
	}
	if err := s.DeleteCategory(u.ID, c.ID); !errors.Is(err, ErrInUse) {
		t.Fatalf("expected ErrInUse while a sub-category exists, got %v", err)
	}

	if err := s.DeleteCategory(u.ID, sub.ID); err != nil {
		t.Fatalf("delete sub: %v", err)
	}
	if err := s.DeleteCategory(u.ID, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.CategoryByID(u.ID, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestHoldings_AddRemovesWatchItem(t *testing.T) {
	s := testStore(t)
	u := seedUser(t, s, "alice@example.com")
	c := seedCategory(t, s, u.ID, "Tech")

	if _, err := s.AddWatchItem(u.ID, 101, "Acme", c.ID); err != nil {
		t.Fatalf("add watch item: %v", err)
	}
	if _, err := s.AddHolding(u.ID, 101, "Acme", c.ID); err != nil {
		t.Fatalf("add holding: %v", err)
	}

	watch, err := s.Watchlist(u.ID)
	if err != nil {
		t.Fatalf("watchlist: %v", err)
	}
	if len(watch) != 0 {
		t.Errorf("watchlist must be emptied when the company moves to the portfolio, got %d", len(watch))
	}

	if _, err := s.AddHolding(u.ID, 101, "Acme", c.ID); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestWatchlist_RejectsHeldCompanies(t *testing.T) {
	s := testStore(t)
	u := seedUser(t, s, "alice@example.com")
	c := seedCategory(t, s, u.ID, "Tech")

	if _, err := s.AddHolding(u.ID, 101, "Acme", c.ID); err != nil {
		t.Fatalf("add holding: %v", err)
	}
	if _, err := s.AddWatchItem(u.ID, 101, "Acme", c.ID); !errors.Is(err, ErrDuplicate) {
		t.Errorf("a held company must not be watchable, got %v", err)
	}
}

func TestWatchlist_MoveToPortfolio(t *testing.T) {
	s := testStore(t)
	u := seedUser(t, s, "alice@example.com")
	tech := seedCategory(t, s, u.ID, "Tech")
	energy := seedCategory(t, s, u.ID, "Energy")

	if _, err := s.AddWatchItem(u.ID, 101, "Acme", tech.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddWatchItem(u.ID, 102, "Globex", energy.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddWatchItem(u.ID, 103, "Initech", tech.ID); err != nil {
		t.Fatal(err)
	}

	if err := s.MoveToPortfolio(u.ID, []int64{101, 102}); err != nil {
		t.Fatalf("move: %v", err)
	}

	holdings, err := s.Holdings(u.ID)
	if err != nil {
		t.Fatalf("holdings: %v", err)
	}
	if len(holdings) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(holdings))
	}
	// categories travel with the companies
	for _, h := range holdings {
		switch h.ScreenerID {
		case 101:
			if h.CategoryID != tech.ID {
				t.Errorf("Acme must keep its category")
			}
		case 102:
			if h.CategoryID != energy.ID {
				t.Errorf("Globex must keep its category")
			}
		}
	}

	watch, err := s.Watchlist(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(watch) != 1 || watch[0].ScreenerID != 103 {
		t.Errorf("only the unmoved item may remain on the watchlist, got %+v", watch)
	}
}

func TestComparisons_CRUD(t *testing.T) {
	s := testStore(t)
	u := seedUser(t, s, "alice@example.com")

	c, err := s.CreateComparison(&model.Comparison{
		UserID:       u.ID,
		Name:         "Big Tech",
		ScreenerIDs:  []int64{101, 102},
		CompanyNames: []string{"Acme", "Globex"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Kind != model.ComparisonMixed {
		t.Errorf("expected default kind mixed, got %q", c.Kind)
	}

	if _, err := s.CreateComparison(&model.Comparison{
		UserID: u.ID, Name: "Big Tech", ScreenerIDs: []int64{103, 104},
	}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for same name, got %v", err)
	}

	got, err := s.ComparisonByID(u.ID, c.ID)
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if len(got.ScreenerIDs) != 2 || got.ScreenerIDs[0] != 101 {
		t.Errorf("screener ids must round-trip, got %v", got.ScreenerIDs)
	}

	upd, err := s.UpdateComparison(u.ID, c.ID, &model.Comparison{
		ScreenerIDs: []int64{101, 102, 105},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(upd.ScreenerIDs) != 3 {
		t.Errorf("expected 3 ids after update, got %v", upd.ScreenerIDs)
	}
	if upd.Name != "Big Tech" {
		t.Errorf("unset fields must keep their values, got %q", upd.Name)
	}

	// ownership: another user can't see or delete it
	other := seedUser(t, s, "bob@example.com")
	if _, err := s.ComparisonByID(other.ID, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign comparison must be invisible, got %v", err)
	}

	if err := s.DeleteComparison(u.ID, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, err := s.Comparisons(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list after delete, got %d", len(list))
	}
}
