// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/products/id/")
		w.Header().Set("Content-Type", "application/json")
		switch id {
		case "whey-1":
			_, _ = w.Write([]byte(`{"success":true,"data":{"_id":"whey-1","title":"Gold Whey","handle":"gold-whey","images":[{"src":"/w.jpg"}],"variants":[{"price":59.9}]}}`))
		case "bcaa-1":
			_, _ = w.Write([]byte(`{"success":true,"data":{"_id":"bcaa-1","title":"BCAA","handle":"bcaa"}}`))
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"message":"Product not found"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProduct(t *testing.T) {
	c := New(newCatalogServer(t).URL+"/", time.Second)

	p, err := c.Product(context.Background(), "whey-1")
	if err != nil {
		t.Fatalf("Product: %v", err)
	}
	if p.ID != "whey-1" || p.Title != "Gold Whey" || p.Handle != "gold-whey" || p.Image != "/w.jpg" || p.Price != 59.9 {
		t.Errorf("Product = %+v", p)
	}

	_, err = c.Product(context.Background(), "nope")
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}

	_, err = c.Product(context.Background(), "broken")
	if err == nil || errors.Is(err, ErrProductNotFound) {
		t.Errorf("err = %v, want a server error", err)
	}
}

func TestProductsKeepsOrderAndSkipsUnknown(t *testing.T) {
	c := New(newCatalogServer(t).URL, time.Second)

	got, err := c.Products(context.Background(), []string{"bcaa-1", "nope", "whey-1"})
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(got) != 2 || got[0].ID != "bcaa-1" || got[1].ID != "whey-1" {
		t.Errorf("Products = %+v", got)
	}
}

func TestProductsFailsOnServerError(t *testing.T) {
	c := New(newCatalogServer(t).URL, time.Second)
	if _, err := c.Products(context.Background(), []string{"whey-1", "broken"}); err == nil {
		t.Error("expected an error")
	}
}

func TestMissing(t *testing.T) {
	c := New(newCatalogServer(t).URL, time.Second)

	missing, err := c.Missing(context.Background(), []string{"whey-1", "ghost", "bcaa-1", "phantom"})
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	if len(missing) != 2 || missing[0] != "ghost" || missing[1] != "phantom" {
		t.Errorf("Missing = %v", missing)
	}
}
