// Package prefs persists the user's data-view preferences across sessions.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SambhavSurthi/StockInsight/internal/model"
)

// Prefs holds the durable client-side settings. Unlike the price cache,
// these survive restarts.
type Prefs struct {
	Direction model.Direction `json:"direction"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Load reads preferences from a JSON file. Returns defaults (newest-first)
// if the file doesn't exist.
func Load(path string) (*Prefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Prefs{Direction: model.NewestFirst}, nil
		}
		return nil, err
	}
	var p Prefs
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if !p.Direction.Valid() {
		p.Direction = model.NewestFirst
	}
	return &p, nil
}

// Save writes preferences to a JSON file, creating the directory if needed.
func Save(path string, p *Prefs) error {
	if !p.Direction.Valid() {
		return fmt.Errorf("unknown direction %q", p.Direction)
	}
	p.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
