package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // timezone lookups must not depend on the host zoneinfo

	"gopkg.in/yaml.v3"
)

const (
	DefaultTimezone      = "Europe/Dublin"
	DefaultRosterPath    = "roster.txt"
	DefaultShiftsPath    = "shifts.json"
	DefaultOutputPath    = "roster.ics"
	DefaultProductID     = "-//rostercal//roster calendar//EN"
	DefaultRestCode      = "R"
	DefaultCycleLength   = 8
	DefaultCycleLabelled = 6
	DefaultLabelFormat   = "Day %d"
	DefaultLogLevel      = "info"
)

// CycleConfig describes the repeating duty cycle.
type CycleConfig struct {
	// Length is the period of the cycle in days.
	Length int `yaml:"length" json:"length"`
	// LabelledDays is how many leading positions of the cycle get an event.
	// The remaining positions are cycle rest days.
	LabelledDays int `yaml:"labelled_days" json:"labelled_days"`
	// LabelFormat is a fmt format taking the 1-based position.
	LabelFormat string `yaml:"label_format" json:"label_format"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA timezone all shift times are wall-clock in.
	Timezone string `yaml:"timezone" json:"timezone"`

	RosterPath string `yaml:"roster_path" json:"roster_path"`
	ShiftsPath string `yaml:"shifts_path" json:"shifts_path"`
	OutputPath string `yaml:"output_path" json:"output_path"`

	// ProductID is written as the calendar PRODID.
	ProductID string `yaml:"product_id" json:"product_id"`

	// RestCode marks a rest day in the roster string. It is matched exactly.
	RestCode string `yaml:"rest_code" json:"rest_code"`

	Cycle CycleConfig `yaml:"cycle" json:"cycle"`

	LogLevel string `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone:   DefaultTimezone,
		RosterPath: DefaultRosterPath,
		ShiftsPath: DefaultShiftsPath,
		OutputPath: DefaultOutputPath,
		ProductID:  DefaultProductID,
		RestCode:   DefaultRestCode,
		Cycle: CycleConfig{
			Length:       DefaultCycleLength,
			LabelledDays: DefaultCycleLabelled,
			LabelFormat:  DefaultLabelFormat,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.RosterPath == "" {
		c.RosterPath = DefaultRosterPath
	}
	if c.ShiftsPath == "" {
		c.ShiftsPath = DefaultShiftsPath
	}
	if c.OutputPath == "" {
		c.OutputPath = DefaultOutputPath
	}
	if c.ProductID == "" {
		c.ProductID = DefaultProductID
	}
	if c.RestCode == "" {
		c.RestCode = DefaultRestCode
	}
	if c.Cycle.Length <= 0 {
		c.Cycle.Length = DefaultCycleLength
	}
	if c.Cycle.LabelledDays <= 0 {
		c.Cycle.LabelledDays = DefaultCycleLabelled
	}
	if c.Cycle.LabelFormat == "" {
		c.Cycle.LabelFormat = DefaultLabelFormat
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate reports settings that Normalize cannot repair.
func (c *Config) Validate() error {
	if c.Cycle.LabelledDays > c.Cycle.Length {
		return fmt.Errorf("config: cycle.labelled_days (%d) exceeds cycle.length (%d)",
			c.Cycle.LabelledDays, c.Cycle.Length)
	}
	if !strings.Contains(c.Cycle.LabelFormat, "%d") {
		return fmt.Errorf("config: cycle.label_format %q must contain %%d", c.Cycle.LabelFormat)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - An empty path returns the defaults.
//   - Otherwise the file must exist; it is unmarshalled, normalized and
//     validated.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".rostercal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
