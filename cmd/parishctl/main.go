// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command parishctl is the admin client for the parish API. It keeps the
// admin bearer token in a file and edits page content and the catalog.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/olegiv/parish-go/internal/client"
	"github.com/olegiv/parish-go/internal/config"
	"github.com/olegiv/parish-go/internal/session"
	"github.com/olegiv/parish-go/internal/version"
)

// errUsage is returned for malformed command lines. The usage text has
// already been printed.
var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			_, _ = fmt.Fprintln(os.Stderr, "parishctl:", err)
		}
		os.Exit(1)
	}
}

// app is what every command runs against.
type app struct {
	client *client.Client
	tokens *session.FileStore
	gate   *session.Gate
	stdin  io.Reader
	stdout io.Writer
}

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":     {"login -email EMAIL [-password PASSWORD]", cmdLogin},
	"logout":    {"logout", cmdLogout},
	"status":    {"status", cmdStatus},
	"register":  {"register -email EMAIL [-password PASSWORD]", cmdRegister},
	"page":      {"page list | page get NAME | page set NAME [-file FILE]", cmdPage},
	"sacrament": {"sacrament list [-all] | sacrament toggle ID | sacrament delete ID", cmdSacrament},
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	// Load .env if present (development)
	_ = godotenv.Load()

	fs := flag.NewFlagSet("parishctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	apiURL := fs.String("api", "", "API base URL (default $PARISH_API_URL or http://localhost:5000/api)")
	tokenFile := fs.String("token-file", "", "Token file (default $PARISH_TOKEN_FILE or the user config dir)")
	verbose := fs.Bool("verbose", false, "Log requests and failures to stderr")
	showVersion := fs.Bool("version", false, "Show version information")
	fs.Usage = func() { printUsage(fs, stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errUsage
	}
	if *showVersion {
		_, _ = fmt.Fprintf(stdout, "parishctl %s\n", version.Get())
		return nil
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}
	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n", fs.Arg(0))
		fs.Usage()
		return errUsage
	}

	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	if *apiURL != "" {
		cfg.APIURL = strings.TrimRight(*apiURL, "/")
	}
	if *tokenFile != "" {
		cfg.TokenFile = *tokenFile
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	tokens := session.NewFileStore(cfg.TokenFile)
	c := client.New(cfg.APIURL, tokens, client.WithTimeout(cfg.Timeout))
	a := &app{
		client: c,
		tokens: tokens,
		gate:   session.New(c, tokens, logger),
		stdin:  stdin,
		stdout: stdout,
	}
	return cmd.run(ctx, a, fs.Args()[1:])
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	_, _ = fmt.Fprintf(w, "parishctl - parish website admin client\n\n")
	_, _ = fmt.Fprintf(w, "Usage: parishctl [options] COMMAND [args]\n\n")
	_, _ = fmt.Fprintf(w, "Commands:\n")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}

	_, _ = fmt.Fprintf(w, "\nOptions:\n")
	fs.PrintDefaults()
}
