package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"leadnavi/internal/models"

	"github.com/rs/zerolog"
)

var (
	ErrNotFound = errors.New("record not found")
)

const (
	customersFile  = "customers.json"
	tagsFile       = "tags.json"
	broadcastsFile = "broadcasts.json"
	settingsFile   = "settings.json"
)

// Store keeps the four JSON documents in memory and writes each one back
// to disk on every mutation. A missing or unreadable file yields an empty
// document so a fresh data directory just works.
type Store struct {
	dir    string
	logger *zerolog.Logger

	customersMu sync.RWMutex
	customers   map[string]*models.Customer

	tagsMu sync.RWMutex
	tags   []models.Tag

	broadcastsMu sync.RWMutex
	broadcasts   []models.Broadcast

	settingsMu sync.RWMutex
	settings   models.Settings
}

func New(dir string, logger *zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{
		dir:       dir,
		logger:    logger,
		customers: make(map[string]*models.Customer),
	}

	s.loadDocument(customersFile, &s.customers)

	var tagDoc struct {
		Tags []models.Tag `json:"tags"`
	}
	s.loadDocument(tagsFile, &tagDoc)
	s.tags = tagDoc.Tags

	var broadcastDoc struct {
		Broadcasts []models.Broadcast `json:"broadcasts"`
	}
	s.loadDocument(broadcastsFile, &broadcastDoc)
	s.broadcasts = broadcastDoc.Broadcasts

	s.loadDocument(settingsFile, &s.settings)

	return s, nil
}

// Dir returns the data directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// loadDocument reads one JSON document into dst. Parse failures are
// logged and leave dst untouched; losing a corrupt file beats refusing
// to start.
func (s *Store) loadDocument(name string, dst interface{}) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("file", name).Msg("read store document")
		}
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Error().Err(err).Str("file", name).Msg("parse store document, starting empty")
	}
}

// flushDocument writes one JSON document, pretty-printed so the files
// stay hand-inspectable.
func (s *Store) flushDocument(name string, src interface{}) error {
	data, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
