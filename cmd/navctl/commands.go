// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/olegiv/shopnav/internal/client"
	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/navview"
	"github.com/olegiv/shopnav/internal/service"
	"github.com/olegiv/shopnav/internal/transfer"
	"github.com/olegiv/shopnav/internal/util"
)

// parse runs fs over args and returns the positional arguments, requiring n
// of them. Flags may come before or after the positionals.
func parse(fs *flag.FlagSet, args []string, n int) ([]string, error) {
	fs.SetOutput(io.Discard)
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%s: %w", fs.Name(), err)
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
	if len(positional) != n {
		return nil, fmt.Errorf("%s: expected %d argument(s), got %d", fs.Name(), n, len(positional))
	}
	return positional, nil
}

func runTree(ctx context.Context, c *client.Admin, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("tree", flag.ContinueOnError)
	query := fs.String("q", "", "Search name or href")
	all := fs.Bool("all", true, "Expand every entry")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	entries, err := c.State().Flat(ctx)
	if err != nil {
		return err
	}
	st := navview.NewState()
	st.Query = *query
	if *all {
		st.ExpandAll(entries)
	}
	return printView(out, navview.Render(entries, *st))
}

func runFlat(ctx context.Context, c *client.Admin, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("flat", flag.ContinueOnError)
	query := fs.String("q", "", "Search name or href")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	entries, err := c.State().Flat(ctx)
	if err != nil {
		return err
	}
	return printView(out, navview.Render(entries, navview.State{Mode: navview.ModeFlat, Query: *query}))
}

// printView writes rows as an indented table followed by the stats line.
func printView(out io.Writer, v navview.View) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tTYPE\tORDER\tACTIVE\tHREF\tID")
	for _, r := range v.Rows {
		marker := "  "
		switch {
		case r.HasChildren && r.Expanded:
			marker = "- "
		case r.HasChildren:
			marker = "+ "
		}
		name := strings.Repeat("  ", r.Depth) + marker + r.Entry.Name
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%t\t%s\t%s\n",
			name, r.Entry.Type, r.Entry.Order, r.Entry.IsActive, r.Entry.Href, r.Entry.ID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\n%d entries, %d roots, %d inactive\n", v.Stats.Total, v.Stats.Roots, v.Stats.Inactive)
	return err
}

func printEntry(out io.Writer, e *model.Entry) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	parent := e.ParentID()
	if parent == "" {
		parent = "(root)"
	}
	_, _ = fmt.Fprintf(tw, "ID\t%s\n", e.ID)
	_, _ = fmt.Fprintf(tw, "Name\t%s\n", e.Name)
	_, _ = fmt.Fprintf(tw, "Href\t%s\n", e.Href)
	_, _ = fmt.Fprintf(tw, "Slug\t%s\n", e.Slug)
	_, _ = fmt.Fprintf(tw, "Type\t%s\n", e.Type)
	_, _ = fmt.Fprintf(tw, "Parent\t%s\n", parent)
	_, _ = fmt.Fprintf(tw, "Order\t%d\n", e.Order)
	_, _ = fmt.Fprintf(tw, "Active\t%t\n", e.IsActive)
	if e.Badge != "" {
		_, _ = fmt.Fprintf(tw, "Badge\t%s\n", e.Badge)
	}
	if len(e.FeaturedProducts) > 0 {
		_, _ = fmt.Fprintf(tw, "Products\t%s\n", strings.Join(e.FeaturedProducts, ", "))
	}
	return tw.Flush()
}

func runGet(ctx context.Context, c *client.Admin, args []string, out io.Writer) error {
	pos, err := parse(flag.NewFlagSet("get", flag.ContinueOnError), args, 1)
	if err != nil {
		return err
	}
	e, err := c.Get(ctx, pos[0])
	if err != nil {
		return err
	}
	return printEntry(out, e)
}

func runCreate(ctx context.Context, c *client.Admin, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	name := fs.String("name", "", "Label")
	href := fs.String("href", "", "Link target")
	typ := fs.String("type", string(model.TypeLink), "category|subcategory|link|megamenu")
	parent := fs.String("parent", "", "Parent id (empty for a root entry)")
	inactive := fs.Bool("inactive", false, "Create the entry inactive")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	in := service.CreateInput{Name: *name, Href: *href, Type: model.EntryType(*typ)}
	if *parent != "" {
		in.Parent = parent
	}
	if *inactive {
		active := false
		in.IsActive = &active
	}
	e, err := c.Create(ctx, in)
	if err != nil {
		return err
	}
	return printEntry(out, e)
}

func runUpdate(ctx context.Context, c *client.Admin, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	name := fs.String("name", "", "New label")
	href := fs.String("href", "", "New link target")
	badge := fs.String("badge", "", "New badge text")
	parent := fs.String("parent", "", "Move under this parent")
	root := fs.Bool("root", false, "Move to the root level")
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	var p service.Patch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			p.Name = util.Some(*name)
		case "href":
			p.Href = util.Some(*href)
		case "badge":
			p.Badge = util.Some(*badge)
		case "parent":
			p.Parent = util.Some(*parent)
		}
	})
	if *root {
		p.Parent = util.Null[string]()
	}

	e, err := c.Update(ctx, pos[0], p)
	if err != nil {
		return err
	}
	return printEntry(out, e)
}

func runMove(ctx context.Context, c *client.Admin, args []string, out io.Writer) error {
	pos, err := parse(flag.NewFlagSet("move", flag.ContinueOnError), args, 2)
	if err != nil {
		return err
	}
	res, err := c.Move(ctx, pos[0], service.Direction(pos[1]))
	if err != nil {
		return err
	}
	if !res.Moved {
		_, _ = fmt.Fprintln(out, "already at the edge; nothing moved")
	}
	for _, e := range res.Entries {
		_, _ = fmt.Fprintf(out, "%3d  %s\n", e.Order, e.Name)
	}
	return nil
}

func runToggle(ctx context.Context, c *client.Admin, args []string, out io.Writer) error {
	pos, err := parse(flag.NewFlagSet("toggle", flag.ContinueOnError), args, 1)
	if err != nil {
		return err
	}
	e, err := c.Toggle(ctx, pos[0])
	if err != nil {
		return err
	}
	state := "inactive"
	if e.IsActive {
		state = "active"
	}
	_, err = fmt.Fprintf(out, "%s is now %s\n", e.Name, state)
	return err
}

func runDuplicate(ctx context.Context, c *client.Admin, args []string, out io.Writer) error {
	pos, err := parse(flag.NewFlagSet("duplicate", flag.ContinueOnError), args, 1)
	if err != nil {
		return err
	}
	e, err := c.Duplicate(ctx, pos[0])
	if err != nil {
		return err
	}
	return printEntry(out, e)
}

func runDelete(ctx context.Context, c *client.Admin, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	id := pos[0]

	if !*yes {
		n, err := c.DescendantCount(ctx, id)
		if err != nil {
			return err
		}
		prompt := "Delete this entry?"
		if n > 0 {
			prompt = fmt.Sprintf("Delete this entry and its %d nested item(s)?", n)
		}
		if !confirm(os.Stdin, out, prompt) {
			_, _ = fmt.Fprintln(out, "aborted")
			return nil
		}
	}

	deleted, err := c.Delete(ctx, id)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "deleted %d entr%s\n", deleted, plural(deleted, "y", "ies"))
	return err
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	_, _ = fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func runSeed(ctx context.Context, c *client.Admin, args []string, out io.Writer) error {
	if _, err := parse(flag.NewFlagSet("seed", flag.ContinueOnError), args, 0); err != nil {
		return err
	}
	res, err := c.Seed(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "seeded %d entries\n", res.Created)
	return err
}

func runExport(ctx context.Context, c *client.Admin, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	formatName := fs.String("format", "json", "json|yaml")
	file := fs.String("o", "", "Write to file instead of stdout")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	format, err := transfer.ParseFormat(*formatName)
	if err != nil {
		return err
	}

	w := out
	if *file != "" {
		f, err := os.Create(*file)
		if err != nil {
			return fmt.Errorf("creating %s: %w", *file, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	return c.Export(ctx, format, w)
}

func runImport(ctx context.Context, c *client.Admin, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	formatName := fs.String("format", "", "json|yaml (default: from the file extension)")
	replace := fs.Bool("replace", false, "Replace the current navigation")
	dryRun := fs.Bool("dry-run", false, "Validate only")
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	path := pos[0]

	name := *formatName
	if name == "" && (strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")) {
		name = "yaml"
	}
	format, err := transfer.ParseFormat(name)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	res, err := c.Import(ctx, format, f, transfer.ImportOptions{Replace: *replace, DryRun: *dryRun})
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			for field, msg := range ve.Fields {
				_, _ = fmt.Fprintf(out, "  %s: %s\n", field, msg)
			}
		}
		return err
	}
	verb := "imported"
	if res.DryRun {
		verb = "would import"
	}
	_, err = fmt.Fprintf(out, "%s %d entries (replaced %d)\n", verb, res.Created, res.Replaced)
	return err
}

// describe adds a hint to errors a user can act on.
func describe(err error) string {
	var te *client.TransportError
	if errors.As(err, &te) {
		return fmt.Sprintf("%v (is the server URL right?)", err)
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == 401 {
		return fmt.Sprintf("%v (set SHOPNAV_TOKEN or -token)", err)
	}
	return err.Error()
}
