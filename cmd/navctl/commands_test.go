// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/shopnav/internal/auth"
	"github.com/olegiv/shopnav/internal/client"
	"github.com/olegiv/shopnav/internal/handler"
	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/navview"
	"github.com/olegiv/shopnav/internal/service"
	"github.com/olegiv/shopnav/internal/testutil"
	"github.com/olegiv/shopnav/internal/version"
)

func TestParseFlagsAroundPositionals(t *testing.T) {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	name := fs.String("name", "", "")
	pos, err := parse(fs, []string{"abc", "-name", "Whey"}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc"}, pos)
	assert.Equal(t, "Whey", *name)

	_, err = parse(flag.NewFlagSet("move", flag.ContinueOnError), []string{"abc"}, 2)
	assert.Error(t, err)
}

func TestPrintView(t *testing.T) {
	entries := []model.Entry{
		{ID: "p", Name: "Protein", Href: "/protein", Type: model.TypeCategory, IsActive: true},
		{ID: "w", Name: "Whey", Href: "/whey", Type: model.TypeSubcategory, Parent: model.StringPtr("p"), IsActive: false},
	}
	st := navview.NewState()
	st.ExpandAll(entries)

	var buf bytes.Buffer
	require.NoError(t, printView(&buf, navview.Render(entries, *st)))
	out := buf.String()
	assert.Contains(t, out, "- Protein")
	assert.Contains(t, out, "    Whey")
	assert.Contains(t, out, "2 entries, 1 roots, 1 inactive")
}

func TestDispatchAgainstServer(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	logger := testutil.TestLoggerSilent()

	tokens, err := auth.NewTokenManager("navctl-test-secret-that-is-long-enough", 0)
	require.NoError(t, err)
	token, err := tokens.Issue("cli", model.RoleAdmin)
	require.NoError(t, err)

	nav := service.NewNavigationService(db, logger)
	srv := httptest.NewServer(handler.NewRouter(handler.Deps{
		Logger:     logger,
		Navigation: handler.NewNavigationHandler(nav, logger),
		Events:     handler.NewEventsHandler(service.NewEventService(db, logger), logger),
		Health:     handler.NewHealthHandler(db, nil, "", version.Info{}),
		Verifier:   tokens,
	}))
	defer srv.Close()

	c := client.New(srv.URL, token, client.WithHTTPClient(srv.Client()))
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, dispatch(ctx, c, []string{"create", "-name", "Offers", "-href", "/offers"}, &out))
	assert.Contains(t, out.String(), "Offers")

	out.Reset()
	require.NoError(t, dispatch(ctx, c, []string{"flat"}, &out))
	assert.Contains(t, out.String(), "1 entries, 1 roots, 0 inactive")

	flat, err := c.State().Flat(ctx)
	require.NoError(t, err)
	require.Len(t, flat, 1)
	id := flat[0].ID

	out.Reset()
	require.NoError(t, dispatch(ctx, c, []string{"toggle", id}, &out))
	assert.Equal(t, "Offers is now inactive\n", out.String())

	out.Reset()
	require.NoError(t, dispatch(ctx, c, []string{"delete", id, "-yes"}, &out))
	assert.Equal(t, "deleted 1 entry\n", out.String())

	err = dispatch(ctx, c, []string{"get", "missing"}, &out)
	assert.True(t, errors.Is(err, service.ErrNotFound))

	assert.ErrorIs(t, dispatch(ctx, c, []string{"bogus"}, &out), errUsage)
}

func TestDescribe(t *testing.T) {
	err := &client.TransportError{StatusCode: 502, ContentType: "text/html"}
	assert.True(t, strings.HasSuffix(describe(err), "(is the server URL right?)"))

	err2 := &client.APIError{StatusCode: 401, Message: "Authentication required"}
	assert.Contains(t, describe(err2), "SHOPNAV_TOKEN")
}
