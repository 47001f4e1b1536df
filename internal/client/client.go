// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package client is a Go client for the shopnav admin API. Mutations
// invalidate the attached State so the next read refetches.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/navtree"
	"github.com/olegiv/shopnav/internal/navview"
	"github.com/olegiv/shopnav/internal/service"
	"github.com/olegiv/shopnav/internal/transfer"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// UserAgent is sent with every request.
const UserAgent = "navctl/1.0"

const adminPrefix = "/api/admin"

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

// Admin talks to the admin API with a bearer token.
type Admin struct {
	baseURL    string
	token      string
	httpClient *http.Client
	state      *State
}

// Option configures an Admin.
type Option func(*Admin)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Admin) { a.httpClient = c }
}

// New creates a client for the server at baseURL, e.g. http://localhost:8080.
func New(baseURL, token string, opts ...Option) *Admin {
	a := &Admin{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.state = newState(a)
	return a
}

// State returns the cached view of the collection.
func (a *Admin) State() *State {
	return a.state
}

func (a *Admin) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := a.baseURL + adminPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	return req, nil
}

// do sends a JSON request and decodes the envelope's data into out.
func (a *Admin) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := a.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(req, out)
}

func (a *Admin) send(req *http.Request, out any) error {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isJSON(contentType) {
		return transportError(resp.StatusCode, contentType, raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return transportError(resp.StatusCode, contentType, raw)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		if env.Error == "" && resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return transportError(resp.StatusCode, contentType, raw)
		}
		return envelopeError(resp.StatusCode, env)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

func transportError(status int, contentType string, raw []byte) error {
	if len(raw) > maxErrorBody {
		raw = raw[:maxErrorBody]
	}
	return &TransportError{StatusCode: status, ContentType: contentType, Body: string(raw)}
}

func entryPath(id string) string {
	return "/navigation/" + url.PathEscape(id)
}

// Tree fetches the nested collection.
func (a *Admin) Tree(ctx context.Context) ([]navtree.Node, error) {
	var out []navtree.Node
	err := a.do(ctx, http.MethodGet, "/navigation", nil, nil, &out)
	return out, err
}

// Flat fetches the collection in tree order.
func (a *Admin) Flat(ctx context.Context) ([]model.Entry, error) {
	var out []model.Entry
	err := a.do(ctx, http.MethodGet, "/navigation", url.Values{"flat": {"true"}}, nil, &out)
	return out, err
}

// Get fetches one entry.
func (a *Admin) Get(ctx context.Context, id string) (*model.Entry, error) {
	var out model.Entry
	if err := a.do(ctx, http.MethodGet, entryPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DescendantCount returns how many entries sit below id.
func (a *Admin) DescendantCount(ctx context.Context, id string) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := a.do(ctx, http.MethodGet, entryPath(id)+"/descendants", nil, nil, &out)
	return out.Count, err
}

// View fetches rendered admin rows.
func (a *Admin) View(ctx context.Context, st navview.State) (*navview.View, error) {
	q := url.Values{"mode": {string(st.Mode)}}
	if st.Query != "" {
		q.Set("q", st.Query)
	}
	var expanded []string
	for id, open := range st.Expanded {
		if open {
			expanded = append(expanded, id)
		}
	}
	if len(expanded) > 0 {
		q.Set("expanded", strings.Join(expanded, ","))
	}
	var out navview.View
	if err := a.do(ctx, http.MethodGet, "/navigation/view", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create adds an entry.
func (a *Admin) Create(ctx context.Context, in service.CreateInput) (*model.Entry, error) {
	var out model.Entry
	if err := a.do(ctx, http.MethodPost, "/navigation", nil, in, &out); err != nil {
		return nil, err
	}
	a.state.Invalidate()
	return &out, nil
}

// Update applies a partial update.
func (a *Admin) Update(ctx context.Context, id string, p service.Patch) (*model.Entry, error) {
	var out model.Entry
	if err := a.do(ctx, http.MethodPut, entryPath(id), nil, p, &out); err != nil {
		return nil, err
	}
	a.state.Invalidate()
	return &out, nil
}

// Delete removes id and its subtree and returns how many entries went.
func (a *Admin) Delete(ctx context.Context, id string) (int, error) {
	var out service.DeleteResult
	if err := a.do(ctx, http.MethodDelete, entryPath(id), nil, nil, &out); err != nil {
		return 0, err
	}
	a.state.Invalidate()
	return out.Deleted, nil
}

// Move swaps id with its neighbour in direction dir.
func (a *Admin) Move(ctx context.Context, id string, dir service.Direction) (*service.MoveResult, error) {
	var out service.MoveResult
	if err := a.do(ctx, http.MethodPost, entryPath(id)+"/move", nil, map[string]string{"direction": string(dir)}, &out); err != nil {
		return nil, err
	}
	a.state.Invalidate()
	return &out, nil
}

// Reorder sends a client-computed swap of two siblings.
func (a *Admin) Reorder(ctx context.Context, first, second service.OrderUpdate) ([]model.Entry, error) {
	var out []model.Entry
	body := map[string][]service.OrderUpdate{"items": {first, second}}
	if err := a.do(ctx, http.MethodPost, "/navigation/reorder", nil, body, &out); err != nil {
		return nil, err
	}
	a.state.Invalidate()
	return out, nil
}

// Duplicate copies one entry.
func (a *Admin) Duplicate(ctx context.Context, id string) (*model.Entry, error) {
	var out model.Entry
	if err := a.do(ctx, http.MethodPost, entryPath(id)+"/duplicate", nil, nil, &out); err != nil {
		return nil, err
	}
	a.state.Invalidate()
	return &out, nil
}

// Toggle flips the active flag of one entry.
func (a *Admin) Toggle(ctx context.Context, id string) (*model.Entry, error) {
	var out model.Entry
	if err := a.do(ctx, http.MethodPost, entryPath(id)+"/toggle", nil, nil, &out); err != nil {
		return nil, err
	}
	a.state.Invalidate()
	return &out, nil
}

// Seed loads the default navigation into an empty collection.
func (a *Admin) Seed(ctx context.Context) (*transfer.ImportResult, error) {
	var out transfer.ImportResult
	if err := a.do(ctx, http.MethodPost, "/navigation/seed", nil, nil, &out); err != nil {
		return nil, err
	}
	a.state.Invalidate()
	return &out, nil
}

// Export writes the raw export document to w.
func (a *Admin) Export(ctx context.Context, format transfer.Format, w io.Writer) error {
	req, err := a.newRequest(ctx, http.MethodGet, "/navigation/export", url.Values{"format": {string(format)}}, nil)
	if err != nil {
		return err
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		contentType := resp.Header.Get("Content-Type")
		var env envelope
		if isJSON(contentType) && json.Unmarshal(raw, &env) == nil && env.Error != "" {
			return envelopeError(resp.StatusCode, env)
		}
		return transportError(resp.StatusCode, contentType, raw)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

// Import uploads a document read from r.
func (a *Admin) Import(ctx context.Context, format transfer.Format, r io.Reader, opts transfer.ImportOptions) (*transfer.ImportResult, error) {
	q := url.Values{"format": {string(format)}}
	if opts.Replace {
		q.Set("replace", "true")
	}
	if opts.DryRun {
		q.Set("dryRun", "true")
	}
	req, err := a.newRequest(ctx, http.MethodPost, "/navigation/import", q, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", format.ContentType())

	var out transfer.ImportResult
	if err := a.send(req, &out); err != nil {
		return nil, err
	}
	if !out.DryRun {
		a.state.Invalidate()
	}
	return &out, nil
}
