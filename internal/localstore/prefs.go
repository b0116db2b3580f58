package localstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/enricosaito/nutri-macros-mobile-sub000/nutrition"
)

// Preference keys.
const (
	KeyUnits         = "units"
	KeyActivityLevel = "activity_level"
	KeyGoal          = "goal"
	KeyTheme         = "theme"
)

// validators normalize a value for its key or reject it. Only known keys can
// be stored.
var validators = map[string]func(string) (string, error){
	// A stored preference is never empty; only calculation input defaults
	// to metric.
	KeyUnits: func(v string) (string, error) {
		if strings.TrimSpace(v) == "" {
			return "", fmt.Errorf("%w: units must be one of: metric, imperial", nutrition.ErrInvalidEnum)
		}
		u, err := nutrition.ParseUnits(v)
		return string(u), err
	},
	KeyActivityLevel: func(v string) (string, error) {
		a, err := nutrition.ParseActivityLevel(v)
		return string(a), err
	},
	KeyGoal: func(v string) (string, error) {
		g, err := nutrition.ParseGoal(v)
		return string(g), err
	},
	KeyTheme: func(v string) (string, error) {
		switch t := strings.ToLower(strings.TrimSpace(v)); t {
		case "light", "dark", "system":
			return t, nil
		default:
			return "", fmt.Errorf("%w: theme %q, must be one of: light, dark, system", nutrition.ErrInvalidEnum, v)
		}
	},
}

// Prefs is the decoded set of stored preferences; unset fields are empty.
type Prefs struct {
	Units         nutrition.Units
	ActivityLevel nutrition.ActivityLevel
	Goal          nutrition.Goal
	Theme         string
}

// Set validates and stores one preference.
func Set(db *sql.DB, key, value string) error {
	key = strings.TrimSpace(strings.ToLower(key))
	validate, ok := validators[key]
	if !ok {
		return fmt.Errorf("unknown preference %q", key)
	}
	v, err := validate(value)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
INSERT INTO preferences(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, v)
	if err != nil {
		return fmt.Errorf("set preference %q: %w", key, err)
	}
	return nil
}

// Get returns one preference and whether it was set.
func Get(db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %q: %w", key, err)
	}
	return value, true, nil
}

// List returns every stored preference.
func List(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM preferences ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preferences: %w", err)
	}
	return out, nil
}

// Load reads all preferences into a Prefs.
func Load(db *sql.DB) (Prefs, error) {
	all, err := List(db)
	if err != nil {
		return Prefs{}, err
	}
	return Prefs{
		Units:         nutrition.Units(all[KeyUnits]),
		ActivityLevel: nutrition.ActivityLevel(all[KeyActivityLevel]),
		Goal:          nutrition.Goal(all[KeyGoal]),
		Theme:         all[KeyTheme],
	}, nil
}
