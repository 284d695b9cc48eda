package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/sentinel/internal/app"
	"github.com/matheus3301/sentinel/internal/bus"
	"github.com/matheus3301/sentinel/internal/client"
	"github.com/matheus3301/sentinel/internal/config"
	"github.com/matheus3301/sentinel/internal/gate"
	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/lock"
	"github.com/matheus3301/sentinel/internal/logging"
	"github.com/matheus3301/sentinel/internal/outbox"
	"github.com/matheus3301/sentinel/internal/query"
	"github.com/matheus3301/sentinel/internal/session"
	"github.com/matheus3301/sentinel/internal/store"
	"github.com/matheus3301/sentinel/internal/tui"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	os.Exit(run())
}

func run() int {
	sessionFlag := flag.String("session", "", "session name (overrides config default)")
	configFlag := flag.String("config", "", "config file (default ~/.sentinel/config.toml)")
	debugFlag := flag.Bool("debug", false, "write debug records to the session log")
	flag.Parse()

	configPath := *configFlag
	if configPath == "" {
		configPath = session.ConfigPath()
	}
	cfg, err := config.Resolve(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	sessionName := session.Resolve(*sessionFlag, cfg)
	if err := session.ValidateName(sessionName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	level := zapcore.InfoLevel
	if *debugFlag {
		level = zapcore.DebugLevel
	}

	var (
		b      *bus.Bus
		c      *client.Client
		g      *gate.Gate
		cache  *query.Cache
		sender *outbox.Sender
		db     *store.DB
		l      *i18n.Localizer
		loc    *time.Location
		logger *zap.Logger
	)
	fxApp := fx.New(
		app.Module(app.Params{
			SessionName: sessionName,
			Program:     "sentinel",
			Config:      cfg,
			Exclusive:   true,
			Logging:     logging.Options{Level: level},
		}),
		fx.Populate(&b, &c, &g, &cache, &sender, &db, &l, &loc, &logger),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		var held *lock.HeldError
		if errors.As(err, &held) {
			fmt.Fprintf(os.Stderr, "error: %v\nuse --session to open another session\n", held)
			return 1
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ui := tui.NewApp(tui.Deps{
		Client:    c,
		Gate:      g,
		Cache:     cache,
		Outbox:    sender,
		Prefs:     db,
		Bus:       b,
		Localizer: l,
		Location:  loc,
		Logger:    logger,
		Session:   sessionName,
		Refresh:   cfg.RefreshInterval.Duration,
	})
	runErr := ui.Run()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancelStop()
	if err := fxApp.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		return 1
	}
	return 0
}
