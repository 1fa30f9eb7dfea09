package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SambhavSurthi/StockInsight/internal/model"
)

// apiClient covers the small slice of the REST API the CLI needs: login
// and the two company lists.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *apiClient) login(ctx context.Context, email, password string) error {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/auth/login", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login: status %d", resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("login decode: %w", err)
	}
	c.token = out.Token
	return nil
}

// companies returns portfolio holdings followed by watchlist items.
func (c *apiClient) companies(ctx context.Context) ([]model.CompanyRef, error) {
	var refs []model.CompanyRef
	for _, path := range []string{"/api/portfolio", "/api/future"} {
		var items []struct {
			ScreenerID int64  `json:"screenerId"`
			Name       string `json:"name"`
		}
		if err := c.getJSON(ctx, path, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			refs = append(refs, model.CompanyRef{ScreenerID: it.ScreenerID, Name: it.Name})
		}
	}
	return refs, nil
}

func (c *apiClient) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
