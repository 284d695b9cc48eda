package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matheus3301/sentinel/internal/client"
	"github.com/matheus3301/sentinel/internal/config"
	"github.com/matheus3301/sentinel/internal/gate"
	"github.com/matheus3301/sentinel/internal/lock"
	"github.com/matheus3301/sentinel/internal/session"
	"github.com/matheus3301/sentinel/internal/store"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func testParams(t *testing.T, backend string, exclusive bool) Params {
	t.Helper()
	t.Setenv("SENTINEL_HOME", t.TempDir())
	cfg := config.Default()
	cfg.BackendURL = backend
	return Params{
		SessionName: "test",
		Program:     "sentinel-test",
		Config:      cfg,
		Exclusive:   exclusive,
	}
}

func TestModuleValidates(t *testing.T) {
	p := testParams(t, "http://127.0.0.1:1", true)
	if err := fx.ValidateApp(Module(p), fx.NopLogger); err != nil {
		t.Fatalf("ValidateApp() error = %v", err)
	}
}

func TestModuleLifecycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/me" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "u1", "full_name": "Анна"})
	}))
	defer srv.Close()

	p := testParams(t, srv.URL, true)
	var (
		g      *gate.Gate
		db     *store.DB
		tokens client.TokenStore
	)
	app := fxtest.New(t, Module(p), fx.NopLogger, fx.Populate(&g, &db, &tokens))
	app.RequireStart()

	// A second TUI on the same session must be refused.
	if _, err := lock.Acquire(session.LockPath(p.SessionName), "other"); err == nil {
		t.Error("session lock should be held while the app runs")
	} else {
		var held *lock.HeldError
		if !errors.As(err, &held) || held.Program != "sentinel-test" {
			t.Errorf("lock error = %v", err)
		}
	}

	if err := tokens.SetToken("opaque"); err != nil {
		t.Fatal(err)
	}
	if err := g.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}
	if g.State() != gate.Authenticated || g.User().FullName != "Анна" {
		t.Errorf("state = %s, user = %+v", g.State(), g.User())
	}

	app.RequireStop()

	l, err := lock.Acquire(session.LockPath(p.SessionName), "after")
	if err != nil {
		t.Fatalf("lock should be free after stop: %v", err)
	}
	_ = l.Release()
}

func TestNonExclusiveSkipsLock(t *testing.T) {
	p := testParams(t, "http://127.0.0.1:1", false)
	app := fxtest.New(t, Module(p), fx.NopLogger)
	app.RequireStart()
	defer app.RequireStop()

	l, err := lock.Acquire(session.LockPath(p.SessionName), "tui")
	if err != nil {
		t.Fatalf("CLI process must not hold the session lock: %v", err)
	}
	_ = l.Release()
}
