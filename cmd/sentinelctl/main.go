package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/sentinel/internal/app"
	"github.com/matheus3301/sentinel/internal/client"
	"github.com/matheus3301/sentinel/internal/config"
	"github.com/matheus3301/sentinel/internal/gate"
	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/logging"
	"github.com/matheus3301/sentinel/internal/outbox"
	"github.com/matheus3301/sentinel/internal/query"
	"github.com/matheus3301/sentinel/internal/session"
	"github.com/matheus3301/sentinel/internal/store"
	"github.com/matheus3301/sentinel/internal/tui/model"
	"go.uber.org/fx"
	"go.uber.org/zap/zapcore"
)

// errUsage marks a command invoked with the wrong arguments.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run())
}

func run() int {
	sessionFlag := flag.String("session", "", "session name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	verboseFlag := flag.Bool("v", false, "log debug output to stderr")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		return 1
	}

	cfg, err := config.Resolve(session.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	sessionName := session.Resolve(*sessionFlag, cfg)
	if err := session.ValidateName(sessionName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	stderrLevel := zapcore.WarnLevel
	if *verboseFlag {
		stderrLevel = zapcore.DebugLevel
	}

	var (
		c      *client.Client
		g      *gate.Gate
		cache  *query.Cache
		sender *outbox.Sender
		db     *store.DB
		l      *i18n.Localizer
		loc    *time.Location
	)
	fxApp := fx.New(
		app.Module(app.Params{
			SessionName: sessionName,
			Program:     "sentinelctl",
			Config:      cfg,
			Logging: logging.Options{
				Stderr:      true,
				StderrLevel: stderrLevel,
				Level:       zapcore.InfoLevel,
			},
		}),
		fx.Populate(&c, &g, &cache, &sender, &db, &l, &loc),
	)
	startCtx, cancelStart := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancelStart()
	if err := fxApp.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
		defer cancel()
		_ = fxApp.Stop(stopCtx)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 4*cfg.RequestTimeout.Duration)
	defer cancel()

	cl := &cli{
		ctx:    ctx,
		client: c,
		gate:   g,
		sender: sender,
		vm:     model.NewViewModel(c, cache, sender, db),
		l:      l,
		loc:    loc,
		json:   *jsonFlag,
	}
	err = cl.dispatch(args[0], args[1:])
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	case err != nil:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: sentinelctl [--session <name>] [--json] [-v] <command> [args]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  login EMAIL PASSWORD              Sign in")
	fmt.Fprintln(os.Stderr, "  register EMAIL PASSWORD NAME      Create an account and sign in")
	fmt.Fprintln(os.Stderr, "  logout                            Sign out")
	fmt.Fprintln(os.Stderr, "  whoami                            Show the signed-in user")
	fmt.Fprintln(os.Stderr, "  find CODE                         Look a user up by code")
	fmt.Fprintln(os.Stderr, "  chats                             List chats")
	fmt.Fprintln(os.Stderr, "  chat-with CODE                    Start a chat with a user")
	fmt.Fprintln(os.Stderr, "  messages CHAT_ID                  Show a chat, grouped by day")
	fmt.Fprintln(os.Stderr, "  send [-image PATH] CHAT_ID TEXT   Send a message")
	fmt.Fprintln(os.Stderr, "  tasks                             List tasks")
	fmt.Fprintln(os.Stderr, "  task-add TITLE [DESCRIPTION]      Create a task")
	fmt.Fprintln(os.Stderr, "  task-start ID                     Start a task")
	fmt.Fprintln(os.Stderr, "  task-done ID                      Complete a task")
	fmt.Fprintln(os.Stderr, "  orders                            List orders")
	fmt.Fprintln(os.Stderr, "  order ITEM=QTY...                 Place an order, e.g. 0.5л=2 Kent=1")
	fmt.Fprintln(os.Stderr, "  sos [LOCATION]                    Raise an SOS alert")
	fmt.Fprintln(os.Stderr, "  sos-list                          List SOS alerts")
	fmt.Fprintln(os.Stderr, "  profile-update [-name N] [-avatar PATH]")
	fmt.Fprintln(os.Stderr, "                                    Edit the profile")
	fmt.Fprintln(os.Stderr, "  route TARGET                      Show where a route target leads")
	fmt.Fprintln(os.Stderr, "  routes                            List the route table")
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}
