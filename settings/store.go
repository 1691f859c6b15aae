package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/rachao-basket/scoreboard/models"
	"github.com/rachao-basket/scoreboard/utils"
)

// Fixed keys of the local store. The serialized record is opaque; nothing
// else reads it.
const (
	settingsKey = "rc_settings_v1"
	appDateKey  = "rc_app_date_v1"
)

// Store keeps the operator preferences and the selected scoreboard date in a
// local JSON file: read once at startup, written on every change.
type Store struct {
	path string

	mu       sync.RWMutex
	settings models.Settings
	appDate  string
}

type fileRecord struct {
	Settings *models.Settings `json:"rc_settings_v1,omitempty"`
	AppDate  string           `json:"rc_app_date_v1,omitempty"`
}

// Open loads the store from path, falling back to defaults when the file does
// not exist yet. A corrupt file is an error; it is never silently overwritten.
func Open(path string) (*Store, error) {
	s := &Store{
		path:     path,
		settings: models.DefaultSettings(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	var record fileRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	if record.Settings != nil {
		s.settings = *record.Settings
	}
	s.appDate = record.AppDate
	return s, nil
}

func (s *Store) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// AppDate returns the selected scoreboard date, defaulting to today.
func (s *Store) AppDate() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.appDate == "" {
		return utils.TodayISO()
	}
	return s.appDate
}

func (s *Store) SaveSettings(settings models.Settings) error {
	if settings.QuickDurationSeconds <= 0 {
		return errors.New("quick duration must be positive")
	}
	if settings.AlertSeconds < 0 {
		return errors.New("alert threshold must not be negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return s.persistLocked()
}

func (s *Store) SaveAppDate(dateISO string) error {
	if !utils.IsValidDateISO(dateISO) {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", dateISO)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appDate = dateISO
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	settings := s.settings
	record := fileRecord{
		Settings: &settings,
		AppDate:  s.appDate,
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", s.path, err)
	}
	return nil
}
