package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Wpsi1337/exile-tracker/pkg/model"
)

const (
	// MinInterval is the refresh interval floor. Anything lower would hammer
	// the upstream for data that only updates every few minutes.
	MinInterval = 60 * time.Second

	// MinLimit is the display limit floor.
	MinLimit = 1

	defaultLeague   = "Standard"
	defaultCategory = "Currency"
	defaultLimit    = 50
)

// Settings is the user state that survives a restart. Stored as a small JSON
// file next to the binary, not in env, because the dashboard mutates it at
// runtime (category switches, mode toggles, options edits).
type Settings struct {
	Game      model.Game      `json:"game"`
	League    string          `json:"league"`
	Category  string          `json:"category"`
	PriceMode model.PriceMode `json:"price_mode"`
	Interval  int             `json:"interval"`
	Limit     int             `json:"limit"`
}

// Default returns the out-of-the-box settings.
func Default() Settings {
	return Sanitize(Settings{})
}

// Sanitize coerces every field into its valid range: game falls back to poe2,
// price mode must be valid for the game, interval and limit are floored, and
// league/category get trimmed with defaults.
func Sanitize(s Settings) Settings {
	s.Game = model.ParseGame(string(s.Game))
	s.PriceMode = model.ParsePriceMode(string(s.PriceMode), s.Game)
	s.League = strings.TrimSpace(s.League)
	if s.League == "" {
		s.League = defaultLeague
	}
	s.Category = strings.TrimSpace(s.Category)
	if s.Category == "" {
		s.Category = defaultCategory
	}
	if s.Interval < int(MinInterval.Seconds()) {
		s.Interval = int(MinInterval.Seconds())
	}
	if s.Limit < MinLimit {
		s.Limit = defaultLimit
	}
	return s
}

// RefreshInterval returns the interval as a duration.
func (s Settings) RefreshInterval() time.Duration {
	return time.Duration(s.Interval) * time.Second
}

// Store loads and saves settings at a fixed path.
type Store struct {
	logger *zap.Logger
	path   string
}

// NewStore creates a store for path.
func NewStore(logger *zap.Logger, path string) *Store {
	return &Store{logger: logger, path: path}
}

// Exists reports whether a settings file is present, used to decide whether
// to run the first-start setup prompt.
func (st *Store) Exists() bool {
	_, err := os.Stat(st.path)
	return err == nil
}

// Load reads and sanitizes the settings file. A missing file yields defaults;
// a corrupt file is logged and also yields defaults rather than aborting the
// dashboard.
func (st *Store) Load() Settings {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			st.logger.Warn("settings.read_failed", zap.String("path", st.path), zap.Error(err))
		}
		return Default()
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		st.logger.Warn("settings.corrupt_file", zap.String("path", st.path), zap.Error(err))
		return Default()
	}
	return Sanitize(s)
}

// Save sanitizes and writes the settings file, creating parent directories as
// needed.
func (st *Store) Save(s Settings) error {
	s = Sanitize(s)
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if dir := filepath.Dir(st.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	if err := os.WriteFile(st.path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	st.logger.Debug("settings.saved", zap.String("path", st.path))
	return nil
}
