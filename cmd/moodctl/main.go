package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/tigermood/moodcorner/pkg/apiclient"
	"github.com/tigermood/moodcorner/pkg/config"
	"github.com/tigermood/moodcorner/pkg/db"
	"github.com/tigermood/moodcorner/pkg/logging"
	"github.com/tigermood/moodcorner/pkg/tokenstore"
)

type options struct {
	APIURL    string
	SessionDB string
	LogLevel  string
}

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := run(ctx, options{
		APIURL:    cfg.APIBaseURL,
		SessionDB: cfg.SessionDB,
		LogLevel:  config.EnvDefault("MOODCTL_LOG_LEVEL", "error"),
	}, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

// errorf writes a red diagnostic line. color disables itself when output is
// not a terminal or NO_COLOR is set.
var errorf = color.New(color.FgRed).FprintfFunc()

type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func run(ctx context.Context, opts options, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("moodctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.StringVar(&opts.APIURL, "api", opts.APIURL, "API base URL")
	global.StringVar(&opts.SessionDB, "session", opts.SessionDB, "session database file")
	global.Usage = func() { printUsage(stderr, global) }
	if err := global.Parse(args); err != nil {
		return 2
	}

	rest := global.Args()
	if len(rest) == 0 {
		printUsage(stderr, global)
		return 2
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		errorf(stderr, "moodctl: unknown command %q\n", rest[0])
		printUsage(stderr, global)
		return 2
	}

	client, closeStore, err := newClient(opts, stderr)
	if err != nil {
		errorf(stderr, "moodctl: %v\n", err)
		return 1
	}
	defer closeStore()

	out, err := cmd.run(ctx, client, rest[1:])
	if err != nil {
		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(stderr, "moodctl %s: %v\nusage: moodctl %s %s\n", rest[0], err, rest[0], cmd.usage)
			return 2
		}
		if apiclient.IsUnauthorized(err) {
			errorf(stderr, "moodctl %s: %v (run \"moodctl login\")\n", rest[0], err)
			return 1
		}
		errorf(stderr, "moodctl %s: %v\n", rest[0], err)
		return 1
	}

	if out == nil {
		return 0
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		errorf(stderr, "moodctl: write output: %v\n", err)
		return 1
	}
	return 0
}

func newClient(opts options, stderr io.Writer) (*apiclient.Client, func(), error) {
	path := opts.SessionDB
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, nil, fmt.Errorf("locate config dir: %w", err)
		}
		path = filepath.Join(dir, "moodcorner", "session.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create session dir: %w", err)
	}

	gdb, err := db.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	store, err := tokenstore.NewGormStore(gdb)
	if err != nil {
		_ = db.Close(gdb)
		return nil, nil, err
	}

	client, err := apiclient.New(apiclient.Config{
		BaseURL: opts.APIURL,
		Store:   store,
		Logger:  logging.NewWithWriter(stderr, opts.LogLevel),
	})
	if err != nil {
		_ = db.Close(gdb)
		return nil, nil, err
	}
	return client, func() { _ = db.Close(gdb) }, nil
}

func printUsage(w io.Writer, global *flag.FlagSet) {
	fmt.Fprintln(w, "usage: moodctl [flags] <command> [args]")
	fmt.Fprintln(w, "\nflags:")
	global.SetOutput(w)
	global.PrintDefaults()
	fmt.Fprintln(w, "\ncommands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-14s %s\n", name, strings.TrimSpace(commands[name].usage))
	}
}
