package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPartialFileIsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rostercal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timezone: Europe/London\ncycle:\n  length: 10\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Europe/London", cfg.Timezone)
	assert.Equal(t, 10, cfg.Cycle.Length)
	assert.Equal(t, DefaultCycleLabelled, cfg.Cycle.LabelledDays)
	assert.Equal(t, DefaultLabelFormat, cfg.Cycle.LabelFormat)
	assert.Equal(t, DefaultRestCode, cfg.RestCode)
	assert.Equal(t, DefaultOutputPath, cfg.OutputPath)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := map[string]string{
		"labelled exceeds length": "cycle:\n  length: 4\n  labelled_days: 6\n",
		"unknown timezone":        "timezone: Mars/Olympus\n",
		"label without verb":      "cycle:\n  label_format: Day\n",
		"not yaml":                "timezone: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rostercal.yaml")

	cfg := DefaultConfig()
	cfg.Timezone = "America/New_York"
	cfg.Cycle.LabelFormat = "Cycle %d"
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveRejectsBadInput(t *testing.T) {
	assert.Error(t, Save("", DefaultConfig()))
	assert.Error(t, Save(filepath.Join(t.TempDir(), "c.yaml"), nil))
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Dublin", loc.String())
}
