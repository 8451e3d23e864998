package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"cinema-cli/model"
	"cinema-cli/session"
)

const (
	appDir           = "cinema-cli"
	sessionFile      = "session.json"
	lookupsFile      = "lookups.json"
	maxRecentLookups = 8
)

// sessionRecord mirrors the keys the web client kept in local storage.
type sessionRecord struct {
	Token string     `json:"token"`
	User  string     `json:"user"`
	Role  model.Role `json:"role"`
	Id    int        `json:"id"`
}

type RecentLookup struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type lookupHistory struct {
	Lookups []RecentLookup `json:"lookups"`
}

// Files persists the session under the user config directory. It satisfies
// session.Store.
type Files struct{}

func (Files) LoadSession() (session.Context, error) {
	return LoadSession()
}

func (Files) SaveSession(sess session.Context) error {
	return SaveSession(sess)
}

func (Files) ClearSession() error {
	return ClearSession()
}

func LoadSession() (session.Context, error) {
	path, err := configPath(sessionFile)
	if err != nil {
		return session.Context{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return session.Context{}, nil
		}
		return session.Context{}, err
	}

	var record sessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return session.Context{}, errors.New("invalid session format")
	}
	return session.Context{
		Token:  record.Token,
		UserId: record.Id,
		Name:   record.User,
		Role:   record.Role,
	}, nil
}

func SaveSession(sess session.Context) error {
	path, err := configPath(sessionFile)
	if err != nil {
		return err
	}
	record := sessionRecord{
		Token: sess.Token,
		User:  sess.Name,
		Role:  sess.Role,
		Id:    sess.UserId,
	}
	// The token is a credential: keep the file private to the user.
	return writeJSON(path, record, 0o600)
}

// ClearSession removes the stored session. A missing file is not an error.
func ClearSession() error {
	path, err := configPath(sessionFile)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func LoadRecentLookups() ([]RecentLookup, error) {
	path, err := configPath(lookupsFile)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history lookupHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid lookup history format")
	}
	return history.Lookups, nil
}

// RememberLookup puts a booking search at the front of the history, dropping
// an older identical search.
func RememberLookup(lookup model.BookingLookup) error {
	name := strings.TrimSpace(lookup.Name)
	phone := strings.TrimSpace(lookup.Phone)
	if name == "" && phone == "" {
		return errors.New("name or phone is required")
	}

	history, _ := LoadRecentLookups()
	next := []RecentLookup{{Name: name, Phone: phone}}
	for _, existing := range history {
		if strings.EqualFold(existing.Name, name) && existing.Phone == phone {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentLookups {
			break
		}
	}

	path, err := configPath(lookupsFile)
	if err != nil {
		return err
	}
	return writeJSON(path, lookupHistory{Lookups: next}, 0o644)
}

func writeJSON(path string, value any, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, perm)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}

// LogPath is where the terminal UI writes its log, since stdout belongs to the screen.
func LogPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, "cinema.log"), nil
}
