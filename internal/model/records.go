package model

import "time"

// User is a registered account. PasswordHash never leaves the store layer.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Category groups holdings and watchlist items. ParentID is nil for
// top-level categories.
type Category struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"-"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	ParentID *int64 `json:"parentId"`
}

// Holding is a company in the user's portfolio.
type Holding struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"-"`
	ScreenerID int64  `json:"screenerId"`
	Name       string `json:"name"`
	CategoryID int64  `json:"categoryId"`
}

// WatchItem is a company queued for future analysis. Same shape as a
// holding; kept distinct because the product treats the two lists as
// mutually exclusive.
type WatchItem struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"-"`
	ScreenerID int64  `json:"screenerId"`
	Name       string `json:"name"`
	CategoryID int64  `json:"categoryId"`
}

// ComparisonKind classifies where a saved comparison's companies came from.
type ComparisonKind string

const (
	ComparisonPortfolio ComparisonKind = "portfolio"
	ComparisonFuture    ComparisonKind = "future"
	ComparisonMixed     ComparisonKind = "mixed"
)

// Comparison is a saved set of 2-3 companies to compare side by side.
type Comparison struct {
	ID           int64          `json:"id"`
	UserID       int64          `json:"-"`
	Name         string         `json:"name"`
	ScreenerIDs  []int64        `json:"screenerIds"`
	CompanyNames []string       `json:"companyNames"`
	Kind         ComparisonKind `json:"type"`
	CreatedAt    time.Time      `json:"createdAt"`
}
