package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/trailday/internal/trail"
)

const sessionFile = "session.json"

// Session is the state carried from scrape to plan to map.
type Session struct {
	URL         string        `json:"url,omitempty"`
	Trail       *trail.Record `json:"trail,omitempty"`
	Preferences string        `json:"preferences,omitempty"`
	Itinerary   string        `json:"itinerary,omitempty"`
	UpdatedAt   string        `json:"updated_at,omitempty"`
}

// HasTrail reports whether a trail has been scraped.
func (s *Session) HasTrail() bool {
	return s.Trail != nil
}

// HasItinerary reports whether an itinerary has been generated.
func (s *Session) HasItinerary() bool {
	return strings.TrimSpace(s.Itinerary) != ""
}

// SetTrail records a freshly scraped trail. Any itinerary belongs to the
// previous trail and is dropped.
func (s *Session) SetTrail(url string, rec *trail.Record) {
	s.URL = url
	s.Trail = rec
	s.Itinerary = ""
}

// Storage handles persistence of the session file
type Storage struct {
	dataDir string
}

// New creates a new Storage instance, creating dataDir if needed.
func New(dataDir string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

// Dir returns the resolved data directory.
func (s *Storage) Dir() string {
	return s.dataDir
}

// Path returns the session file path.
func (s *Storage) Path() string {
	return filepath.Join(s.dataDir, sessionFile)
}

// Load reads the session. A missing file yields an empty session.
func (s *Storage) Load() (*Session, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return &Session{}, nil
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}
	if session.Trail != nil && session.Trail.Features == nil {
		session.Trail.Features = []string{}
	}
	return &session, nil
}

// Save writes the session and stamps UpdatedAt.
func (s *Storage) Save(session *Session) error {
	session.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		return fmt.Errorf("replacing session: %w", err)
	}
	return nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func (s *Storage) Clear() error {
	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
