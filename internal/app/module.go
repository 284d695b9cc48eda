package app

import (
	"context"
	"time"

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
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Params holds the resolved session configuration passed to the fx module.
type Params struct {
	SessionName string
	Program     string
	Config      *config.Config
	// Exclusive takes the session lock so only one TUI runs per session.
	Exclusive bool
	Logging   logging.Options
}

// Module returns the fx module for a client process, composing all providers
// and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("sentinel",
		fx.Supply(p),
		fx.WithLogger(provideFxLogger),
		fx.Provide(
			provideLogger,
			provideBus,
			provideLock,
			provideStore,
			provideTokens,
			provideClient,
			provideCache,
			provideGate,
			provideSender,
			provideLocalizer,
			provideLocation,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(session.LogPath(p.SessionName), p.SessionName, p.Logging)
}

// provideFxLogger sends fx's own events to the session log at debug level,
// keeping them off the terminal.
func provideFxLogger(logger *zap.Logger) fxevent.Logger {
	l := &fxevent.ZapLogger{Logger: logger.Named("fx")}
	l.UseLogLevel(zapcore.DebugLevel)
	return l
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if !p.Exclusive {
		return nil, nil
	}
	if err := session.EnsureDir(p.SessionName); err != nil {
		return nil, err
	}
	logger.Info("acquiring session lock", zap.String("session", p.SessionName))
	l, err := lock.Acquire(session.LockPath(p.SessionName), p.Program)
	if err != nil {
		return nil, err
	}
	logger.Info("session lock acquired")
	return l, nil
}

func provideStore(p Params, logger *zap.Logger) (*store.DB, error) {
	if err := session.EnsureDir(p.SessionName); err != nil {
		return nil, err
	}
	dbPath := session.DBPath(p.SessionName)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Debug("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideTokens(db *store.DB) client.TokenStore {
	return db
}

func provideClient(p Params, tokens client.TokenStore, b *bus.Bus, logger *zap.Logger) *client.Client {
	return client.New(client.Options{
		BaseURL:     p.Config.BackendURL,
		Timeout:     p.Config.RequestTimeout.Duration,
		ReadRetries: p.Config.ReadRetries,
	}, tokens, b, logger.Named("client"))
}

func provideCache(db *store.DB, b *bus.Bus, logger *zap.Logger) *query.Cache {
	return query.New(db, b, logger.Named("query"))
}

func provideGate(c *client.Client, tokens client.TokenStore, cache *query.Cache, b *bus.Bus, logger *zap.Logger) *gate.Gate {
	return gate.New(c.Auth, tokens, cache, b, logger.Named("gate"))
}

func provideSender(c *client.Client, cache *query.Cache, b *bus.Bus, logger *zap.Logger, loc *time.Location) *outbox.Sender {
	return outbox.NewSender(c.Messages, c.Chats, c, cache, b, logger.Named("outbox"), loc)
}

func provideLocalizer(p Params) *i18n.Localizer {
	return i18n.New(p.Config.Locale)
}

func provideLocation(p Params) *time.Location {
	return p.Config.Location()
}

func registerLifecycle(lc fx.Lifecycle, p Params, lk *lock.Lock, db *store.DB, g *gate.Gate, sender *outbox.Sender, logger *zap.Logger) {
	runCtx, cancel := context.WithCancel(context.Background())
	gateDone := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(gateDone)
				g.Run(runCtx)
			}()
			sender.Start(runCtx)
			logger.Info("client started",
				zap.String("program", p.Program),
				zap.String("backend", p.Config.BackendURL),
			)
			return nil
		},
		OnStop: func(_ context.Context) error {
			sender.Stop()
			cancel()
			<-gateDone
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("client stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
