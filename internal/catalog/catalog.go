// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package catalog is an HTTP client for the storefront product catalog.
// Navigation uses it to verify featured product references and to fill in
// product summaries on the public menu.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/shopnav/internal/model"
)

// ErrProductNotFound is returned when the catalog has no product with the id.
var ErrProductNotFound = errors.New("product not found")

// maxConcurrentLookups bounds parallel product requests.
const maxConcurrentLookups = 8

// maxResponseBytes caps how much of a catalog response is read.
const maxResponseBytes = 1 << 20

// Client fetches products from the catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a catalog client for baseURL, e.g. https://shop.example.com/api.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type productImage struct {
	Src string `json:"src"`
}

type productVariant struct {
	Price float64 `json:"price"`
}

type product struct {
	ID       string           `json:"_id"`
	AltID    string           `json:"id"`
	Title    string           `json:"title"`
	Handle   string           `json:"handle"`
	Images   []productImage   `json:"images"`
	Variants []productVariant `json:"variants"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (p product) summary() model.ProductSummary {
	s := model.ProductSummary{ID: p.ID, Title: p.Title, Handle: p.Handle}
	if s.ID == "" {
		s.ID = p.AltID
	}
	if len(p.Images) > 0 {
		s.Image = p.Images[0].Src
	}
	if len(p.Variants) > 0 {
		s.Price = p.Variants[0].Price
	}
	return s
}

// Product fetches one product summary.
func (c *Client) Product(ctx context.Context, id string) (model.ProductSummary, error) {
	endpoint := c.baseURL + "/products/id/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.ProductSummary{}, fmt.Errorf("building catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.ProductSummary{}, fmt.Errorf("fetching product %s: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return model.ProductSummary{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if resp.StatusCode != http.StatusOK {
		return model.ProductSummary{}, fmt.Errorf("fetching product %s: catalog returned %d", id, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&env); err != nil {
		return model.ProductSummary{}, fmt.Errorf("decoding product %s: %w", id, err)
	}
	if !env.Success || len(env.Data) == 0 || string(env.Data) == "null" {
		return model.ProductSummary{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}

	var p product
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return model.ProductSummary{}, fmt.Errorf("decoding product %s: %w", id, err)
	}
	return p.summary(), nil
}

// Products fetches summaries for ids in parallel, keeping the input order.
// Unknown ids are skipped; any other failure aborts the whole lookup.
func (c *Client) Products(ctx context.Context, ids []string) ([]model.ProductSummary, error) {
	results := make([]*model.ProductSummary, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, id := range ids {
		g.Go(func() error {
			p, err := c.Product(gctx, id)
			if errors.Is(err, ErrProductNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = &p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]model.ProductSummary, 0, len(ids))
	for _, p := range results {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

// Missing returns the ids the catalog does not know, in input order.
func (c *Client) Missing(ctx context.Context, ids []string) ([]string, error) {
	found, err := c.Products(ctx, ids)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(found))
	for _, p := range found {
		known[p.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !known[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
