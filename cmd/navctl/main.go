// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command navctl manages storefront navigation through the admin API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/olegiv/shopnav/internal/client"
)

// Version information - injected at build time via ldflags
var appVersion = "dev"

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, c *client.Admin, args []string, out io.Writer) error
}

var commands = []command{
	{"tree", "tree [-q search] [-all]", runTree},
	{"flat", "flat [-q search]", runFlat},
	{"get", "get <id>", runGet},
	{"create", "create -name N -href H [-type T] [-parent ID] [-inactive]", runCreate},
	{"update", "update <id> [-name N] [-href H] [-badge B] [-parent ID|-root]", runUpdate},
	{"move", "move <id> up|down", runMove},
	{"toggle", "toggle <id>", runToggle},
	{"duplicate", "duplicate <id>", runDuplicate},
	{"delete", "delete <id> [-yes]", runDelete},
	{"seed", "seed", runSeed},
	{"export", "export [-format json|yaml] [-o file]", runExport},
	{"import", "import [-format json|yaml] [-replace] [-dry-run] <file>", runImport},
}

func usage() {
	_, _ = fmt.Fprintf(os.Stderr, "navctl - storefront navigation admin client\n\n")
	_, _ = fmt.Fprintf(os.Stderr, "Usage: navctl [-url URL] [-token TOKEN] <command> [args]\n\n")
	_, _ = fmt.Fprintf(os.Stderr, "Commands:\n")
	for _, c := range commands {
		_, _ = fmt.Fprintf(os.Stderr, "  %s\n", c.usage)
	}
	_, _ = fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
	_, _ = fmt.Fprintf(os.Stderr, "  SHOPNAV_URL      Server base URL (default: http://localhost:8080)\n")
	_, _ = fmt.Fprintf(os.Stderr, "  SHOPNAV_TOKEN    Admin API token (see shopnav -issue-token)\n")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()

	baseURL := flag.String("url", envOr("SHOPNAV_URL", "http://localhost:8080"), "Server base URL")
	token := flag.String("token", os.Getenv("SHOPNAV_TOKEN"), "Admin API token")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("navctl %s\n", appVersion)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := dispatch(ctx, client.New(*baseURL, *token), args, os.Stdout)
	if errors.Is(err, errUsage) {
		usage()
		os.Exit(2)
	}
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", describe(err))
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func dispatch(ctx context.Context, c *client.Admin, args []string, out io.Writer) error {
	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(ctx, c, args[1:], out)
		}
	}
	return errUsage
}
