package store

import (
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testDB(t)

	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() should report Changed=false")
	}
	if result.Version != 2 {
		t.Errorf("version = %d, want 2 (settings + query_cache)", result.Version)
	}
	if result.Dirty {
		t.Error("schema should not be dirty")
	}
}

func TestSettingRoundTrip(t *testing.T) {
	db := testDB(t)

	if _, ok, err := db.Setting("missing"); err != nil || ok {
		t.Fatalf("Setting(missing) = ok %v, err %v", ok, err)
	}
	if err := db.SetSetting("k", "v1"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetSetting("k", "v2"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := db.Setting("k")
	if err != nil || !ok || v != "v2" {
		t.Errorf("Setting(k) = %q, %v, %v; want v2", v, ok, err)
	}
	if err := db.DeleteSetting("k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := db.Setting("k"); ok {
		t.Error("setting should be gone after delete")
	}
	if err := db.DeleteSetting("k"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestToken(t *testing.T) {
	db := testDB(t)

	tok, err := db.Token()
	if err != nil || tok != "" {
		t.Fatalf("fresh Token() = %q, %v", tok, err)
	}
	if err := db.SetToken("abc"); err != nil {
		t.Fatal(err)
	}
	if tok, _ := db.Token(); tok != "abc" {
		t.Errorf("Token() = %q, want abc", tok)
	}
	if err := db.ClearToken(); err != nil {
		t.Fatal(err)
	}
	if tok, _ := db.Token(); tok != "" {
		t.Errorf("Token() after clear = %q", tok)
	}
}

func TestPreferencesDefaults(t *testing.T) {
	db := testDB(t)

	prefs, err := db.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	if !prefs.Notifications || prefs.DarkMode {
		t.Errorf("defaults = %+v, want notifications on, dark mode off", prefs)
	}

	if err := db.SavePreferences(Preferences{Notifications: false, DarkMode: true}); err != nil {
		t.Fatal(err)
	}
	prefs, _ = db.Preferences()
	if prefs.Notifications || !prefs.DarkMode {
		t.Errorf("saved = %+v", prefs)
	}
}

func TestQueryCache(t *testing.T) {
	db := testDB(t)
	at := time.UnixMilli(1_700_000_000_000)

	for _, key := range []string{"chats", "messages/1", "messages/2", "messagesX", "me_50%"} {
		if err := db.SaveQuery(key, []byte(`[]`), at); err != nil {
			t.Fatal(err)
		}
	}

	body, fetchedAt, ok, err := db.LoadQuery("messages/1")
	if err != nil || !ok {
		t.Fatalf("LoadQuery = ok %v, err %v", ok, err)
	}
	if string(body) != "[]" || !fetchedAt.Equal(at) {
		t.Errorf("LoadQuery = %s at %v", body, fetchedAt)
	}

	if err := db.DeleteQueries("messages"); err != nil {
		t.Fatal(err)
	}
	for key, want := range map[string]bool{
		"chats":      true,
		"messages/1": false,
		"messages/2": false,
		"messagesX":  true,
		"me_50%":     true,
	} {
		if _, _, ok, _ := db.LoadQuery(key); ok != want {
			t.Errorf("%s present = %v, want %v", key, ok, want)
		}
	}

	// LIKE metacharacters in the prefix match literally.
	if err := db.DeleteQueries("me_5"); err != nil {
		t.Fatal(err)
	}
	if _, _, ok, _ := db.LoadQuery("me_50%"); !ok {
		t.Error("me_50% should survive a delete of prefix me_5")
	}

	if err := db.ClearQueries(); err != nil {
		t.Fatal(err)
	}
	if _, _, ok, _ := db.LoadQuery("chats"); ok {
		t.Error("ClearQueries should drop everything")
	}
}
