package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcription_config.json")
	store, err := NewStore(path, TranscriptionDefaults("https://api.openai.com/v1"))
	require.NoError(t, err)
	return store, path
}

func TestNewStoreCreatesFileWithDefaults(t *testing.T) {
	store, path := newTestStore(t)

	cfg := store.Get()
	assert.Equal(t, "https://api.openai.com/v1", cfg.BaseURL)
	assert.Equal(t, []string{"whisper-1", "distil-whisper-large-v3-en"}, cfg.Models)
	assert.Equal(t, "whisper-1", cfg.DefaultModel)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var persisted ServiceConfig
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, cfg, persisted)
}

func TestNewStoreLoadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	existing := ServiceConfig{
		BaseURL:      "http://localhost:9000/v1",
		Models:       []string{"whisper-1"},
		DefaultModel: "whisper-1",
	}
	data, err := json.Marshal(existing)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	store, err := NewStore(path, TranscriptionDefaults("https://api.openai.com/v1"))
	require.NoError(t, err)
	assert.Equal(t, existing, store.Get())
}

func TestNewStoreRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte("{not-json"), 0o644))

	_, err := NewStore(path, GenerationDefaults("https://api.openai.com/v1"))
	assert.Error(t, err)
}

func TestApplyPartialUpdate(t *testing.T) {
	store, _ := newTestStore(t)

	base := "http://localhost:8000/v1"
	cfg, err := store.Apply(Update{BaseURL: &base})
	require.NoError(t, err)

	assert.Equal(t, base, cfg.BaseURL)
	// Untouched fields keep their values.
	assert.Equal(t, "whisper-1", cfg.DefaultModel)
	assert.Equal(t, []string{"whisper-1", "distil-whisper-large-v3-en"}, cfg.Models)
}

func TestApplyRejectsDefaultModelOutsideList(t *testing.T) {
	store, path := newTestStore(t)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	missing := "gpt-4o"
	_, err = store.Apply(Update{DefaultModel: &missing})
	assert.ErrorIs(t, err, ErrDefaultModelNotAvailable)

	// Neither memory nor disk changed.
	assert.Equal(t, "whisper-1", store.Get().DefaultModel)
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestApplyRejectsModelListDroppingDefault(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Apply(Update{Models: []string{"distil-whisper-large-v3-en"}})
	assert.ErrorIs(t, err, ErrDefaultModelNotAvailable)
	assert.Equal(t, []string{"whisper-1", "distil-whisper-large-v3-en"}, store.Get().Models)
}

func TestApplyUpdatesModelsAndDefaultTogether(t *testing.T) {
	store, _ := newTestStore(t)

	def := "large-v3"
	cfg, err := store.Apply(Update{
		Models:       []string{"large-v3", "whisper-1", "large-v3"},
		DefaultModel: &def,
	})
	require.NoError(t, err)
	assert.Equal(t, "large-v3", cfg.DefaultModel)
	// Duplicates collapse, order preserved.
	assert.Equal(t, []string{"large-v3", "whisper-1"}, cfg.Models)
}

func TestGetReturnsCopy(t *testing.T) {
	store, _ := newTestStore(t)

	cfg := store.Get()
	cfg.Models[0] = "mutated"
	assert.Equal(t, "whisper-1", store.Get().Models[0])
}
