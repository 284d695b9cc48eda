package store

import (
	"database/sql"
	"errors"
	"strconv"
	"time"
)

const (
	keyToken         = "session.token"
	keyNotifications = "prefs.notifications"
	keyDarkMode      = "prefs.dark_mode"
)

// Setting returns the value stored under key and whether it exists.
func (db *DB) Setting(key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetSetting inserts or replaces a setting.
func (db *DB) SetSetting(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	return err
}

// DeleteSetting removes a setting. Deleting a missing key is not an error.
func (db *DB) DeleteSetting(key string) error {
	_, err := db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	return err
}

// Token returns the stored session token, or "" when logged out.
func (db *DB) Token() (string, error) {
	v, _, err := db.Setting(keyToken)
	return v, err
}

// SetToken stores the session token issued at login or register.
func (db *DB) SetToken(token string) error {
	return db.SetSetting(keyToken, token)
}

// ClearToken forgets the session token.
func (db *DB) ClearToken() error {
	return db.DeleteSetting(keyToken)
}

// Preferences are the local app settings toggles.
type Preferences struct {
	Notifications bool
	DarkMode      bool
}

// Preferences loads the app settings. Notifications default to on, dark mode to off.
func (db *DB) Preferences() (Preferences, error) {
	prefs := Preferences{Notifications: true}
	if v, ok, err := db.Setting(keyNotifications); err != nil {
		return prefs, err
	} else if ok {
		prefs.Notifications, _ = strconv.ParseBool(v)
	}
	if v, ok, err := db.Setting(keyDarkMode); err != nil {
		return prefs, err
	} else if ok {
		prefs.DarkMode, _ = strconv.ParseBool(v)
	}
	return prefs, nil
}

// SavePreferences persists the app settings toggles.
func (db *DB) SavePreferences(p Preferences) error {
	if err := db.SetSetting(keyNotifications, strconv.FormatBool(p.Notifications)); err != nil {
		return err
	}
	return db.SetSetting(keyDarkMode, strconv.FormatBool(p.DarkMode))
}
