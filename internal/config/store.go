package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// ErrDefaultModelNotAvailable rejects updates that would leave the default
// model outside the configured model list.
var ErrDefaultModelNotAvailable = errors.New("default model must be in the list of available models")

// ServiceConfig is the persisted configuration for one upstream endpoint.
type ServiceConfig struct {
	BaseURL      string   `json:"base_url"`
	Models       []string `json:"models"`
	DefaultModel string   `json:"default_model"`
}

// HasModel reports whether name is in the configured model list.
func (c ServiceConfig) HasModel(name string) bool {
	for _, m := range c.Models {
		if m == name {
			return true
		}
	}
	return false
}

// Update is a partial change to a ServiceConfig. Nil fields keep their
// current value.
type Update struct {
	BaseURL      *string  `json:"base_url"`
	Models       []string `json:"models"`
	DefaultModel *string  `json:"default_model"`
}

// TranscriptionDefaults is the first-run configuration for the speech-to-text
// endpoint.
func TranscriptionDefaults(baseURL string) ServiceConfig {
	return ServiceConfig{
		BaseURL:      baseURL,
		Models:       []string{"whisper-1", "distil-whisper-large-v3-en"},
		DefaultModel: "whisper-1",
	}
}

// GenerationDefaults is the first-run configuration for the chat-completion
// endpoint.
func GenerationDefaults(baseURL string) ServiceConfig {
	return ServiceConfig{
		BaseURL:      baseURL,
		Models:       []string{"gpt-4.1-nano", "gpt-4o-mini"},
		DefaultModel: "gpt-4o-mini",
	}
}

// Store keeps one ServiceConfig in memory and mirrors every committed change
// to a JSON file on disk.
type Store struct {
	mu   sync.Mutex
	path string
	cfg  ServiceConfig
}

// NewStore loads the configuration at path, creating the file with the given
// defaults when it does not exist yet.
func NewStore(path string, defaults ServiceConfig) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("[Config] %s not found, creating with defaults", path)
		s.cfg = normalize(defaults)
		if err := s.persist(); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg ServiceConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	s.cfg = normalize(cfg)
	return s, nil
}

// Get returns a copy of the current configuration.
func (s *Store) Get() ServiceConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Apply merges a partial update, validates that the default model stays in
// the model list, and persists the result. On any error the previous
// configuration is kept, in memory and on disk.
func (s *Store) Apply(u Update) (ServiceConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot()
	if u.BaseURL != nil {
		next.BaseURL = *u.BaseURL
	}
	if u.Models != nil {
		next.Models = u.Models
	}
	if u.DefaultModel != nil {
		next.DefaultModel = *u.DefaultModel
	}
	next = normalize(next)

	if !next.HasModel(next.DefaultModel) {
		return ServiceConfig{}, ErrDefaultModelNotAvailable
	}

	prev := s.cfg
	s.cfg = next
	if err := s.persist(); err != nil {
		s.cfg = prev
		return ServiceConfig{}, fmt.Errorf("saving config: %w", err)
	}
	return s.snapshot(), nil
}

func (s *Store) snapshot() ServiceConfig {
	cfg := s.cfg
	cfg.Models = append([]string(nil), s.cfg.Models...)
	return cfg
}

// persist writes the configuration atomically: a temp file in the same
// directory, then a rename over the target.
func (s *Store) persist() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.cfg, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// normalize deduplicates the model list preserving first occurrence order.
func normalize(cfg ServiceConfig) ServiceConfig {
	seen := make(map[string]bool, len(cfg.Models))
	models := make([]string, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		models = append(models, m)
	}
	cfg.Models = models
	return cfg
}
