// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/olegiv/parish-go/internal/client"
	"github.com/olegiv/parish-go/internal/model"
	"github.com/olegiv/parish-go/internal/pagecontent"
)

var errNotSignedIn = errors.New("not signed in as an admin; run: parishctl login -email EMAIL")

// credentials parses -email and -password and reads the password from
// the first line of stdin when the flag is absent.
func (a *app) credentials(name string, args []string) (string, string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	email := fs.String("email", "", "Admin email")
	password := fs.String("password", "", "Admin password (read from stdin when omitted)")
	if err := fs.Parse(args); err != nil {
		return "", "", errUsage
	}
	if *email == "" {
		return "", "", fmt.Errorf("%s: -email is required", name)
	}
	if *password == "" {
		line, err := bufio.NewReader(a.stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", "", fmt.Errorf("reading password: %w", err)
		}
		*password = strings.TrimRight(line, "\r\n")
	}
	return *email, *password, nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	email, password, err := a.credentials("login", args)
	if err != nil {
		return err
	}
	if err := a.gate.Login(ctx, email, password); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.stdout, "Signed in as %s\n", a.gate.Status().Admin.Email)
	return nil
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	email, password, err := a.credentials("register", args)
	if err != nil {
		return err
	}
	if err := a.gate.Register(ctx, email, password); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.stdout, "Registered and signed in as %s\n", a.gate.Status().Admin.Email)
	return nil
}

func cmdLogout(_ context.Context, a *app, _ []string) error {
	if err := a.gate.Logout(); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.stdout, "Signed out")
	return nil
}

func cmdStatus(ctx context.Context, a *app, _ []string) error {
	a.gate.Start(ctx)
	st := a.gate.Status()

	_, _ = fmt.Fprintf(a.stdout, "Session:    %s\n", st.State)
	if st.Admin != nil {
		_, _ = fmt.Fprintf(a.stdout, "Admin:      %s\n", st.Admin.Email)
	}
	_, _ = fmt.Fprintf(a.stdout, "Token file: %s\n", a.tokens.Path())

	health, err := a.client.Health(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(a.stdout, "Server:     unreachable (%v)\n", err)
		return nil
	}
	_, _ = fmt.Fprintf(a.stdout, "Server:     %s\n", health.Status)
	for name, check := range health.Checks {
		_, _ = fmt.Fprintf(a.stdout, "  %-8s  %s %s\n", name, check.Status, check.Message)
	}
	return nil
}

// requireAdmin validates the stored token before a mutation.
func (a *app) requireAdmin(ctx context.Context) error {
	if !a.gate.Start(ctx) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return errNotSignedIn
	}
	return nil
}

func cmdPage(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("page: expected list, get or set")
	}
	switch args[0] {
	case "list":
		return pageList(ctx, a)
	case "get":
		if len(args) != 2 {
			return fmt.Errorf("page get: expected a page name")
		}
		return pageGet(ctx, a, args[1])
	case "set":
		if len(args) < 2 {
			return fmt.Errorf("page set: expected a page name")
		}
		return pageSet(ctx, a, args[1], args[2:])
	default:
		return fmt.Errorf("page: unknown subcommand %q", args[0])
	}
}

func pageName(name string) (pagecontent.PageName, error) {
	if !pagecontent.IsValidPageName(name) {
		names := make([]string, 0, len(pagecontent.AllPageNames))
		for _, n := range pagecontent.AllPageNames {
			names = append(names, string(n))
		}
		return "", fmt.Errorf("unknown page %q (one of %s)", name, strings.Join(names, ", "))
	}
	return pagecontent.PageName(name), nil
}

func pageList(ctx context.Context, a *app) error {
	pages, err := a.client.ListPageContent(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PAGE\tLABEL\tHERO TITLE\tSCHEDULES")
	for _, p := range pages {
		schedules := "-"
		if p.PageName.HasMassTimes() {
			schedules = strconv.Itoa(len(p.SpecialSchedules()))
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.PageName, p.PageName.Label(), p.HeroTitle, schedules)
	}
	return tw.Flush()
}

func pageGet(ctx context.Context, a *app, name string) error {
	page, err := pageName(name)
	if err != nil {
		return err
	}
	content, err := a.client.PageContent(ctx, page)
	if err != nil {
		return err
	}
	return writeJSON(a.stdout, content)
}

// pageSet reads a page document from -file or stdin, normalizes it for the
// target page and saves it.
func pageSet(ctx context.Context, a *app, name string, args []string) error {
	page, err := pageName(name)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("page set", flag.ContinueOnError)
	file := fs.String("file", "-", "JSON document to save, - for stdin")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var data []byte
	if *file == "-" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(*file)
	}
	if err != nil {
		return fmt.Errorf("reading page document: %w", err)
	}
	form, err := pagecontent.NormalizeDocument(data, page)
	if err != nil {
		return err
	}
	if err := form.Validate(page); err != nil {
		return err
	}

	if err := a.requireAdmin(ctx); err != nil {
		return err
	}
	saved, err := a.client.UpdatePageContent(ctx, page, form)
	if err != nil {
		return describe(err)
	}
	return writeJSON(a.stdout, saved)
}

func cmdSacrament(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("sacrament: expected list, toggle or delete")
	}
	sacraments := a.client.Sacraments()

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("sacrament list", flag.ContinueOnError)
		all := fs.Bool("all", false, "Include inactive entries (requires login)")
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}
		var entries []model.CatalogEntry
		var err error
		if *all {
			if err := a.requireAdmin(ctx); err != nil {
				return err
			}
			entries, err = sacraments.ListAll(ctx)
		} else {
			entries, err = sacraments.List(ctx)
		}
		if err != nil {
			return describe(err)
		}
		return writeCatalog(a.stdout, entries)

	case "toggle", "delete":
		if len(args) != 2 {
			return fmt.Errorf("sacrament %s: expected an id", args[0])
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("sacrament %s: invalid id %q", args[0], args[1])
		}
		if err := a.requireAdmin(ctx); err != nil {
			return err
		}
		if args[0] == "delete" {
			if err := sacraments.Delete(ctx, id); err != nil {
				return describe(err)
			}
			_, _ = fmt.Fprintf(a.stdout, "Deleted sacrament %d\n", id)
			return nil
		}
		entry, err := sacraments.Toggle(ctx, id)
		if err != nil {
			return describe(err)
		}
		_, _ = fmt.Fprintf(a.stdout, "Sacrament %d (%s) is now %s\n", entry.ID, entry.Title, activeLabel(entry.IsActive))
		return nil

	default:
		return fmt.Errorf("sacrament: unknown subcommand %q", args[0])
	}
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func writeCatalog(w io.Writer, entries []model.CatalogEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTYPE\tTITLE\tSLUG\tSTATUS")
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Title, e.Slug, activeLabel(e.IsActive))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describe adds field details to validation errors from the API.
func describe(err error) error {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || len(apiErr.Details) == 0 {
		return err
	}
	parts := make([]string, 0, len(apiErr.Details))
	for field, msg := range apiErr.Details {
		parts = append(parts, field+": "+msg)
	}
	return fmt.Errorf("%s (%s)", apiErr.Message, strings.Join(parts, "; "))
}
