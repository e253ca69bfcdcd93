package bookparse

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config tunes archive access. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// MaxEntrySize is the maximum decompressed size of a single archive
	// entry, guarding against zip bombs.
	MaxEntrySize int64 `yaml:"max_entry_size"`

	// EncodingScanBytes is how many leading bytes of a text entry are
	// scanned for an XML encoding declaration.
	EncodingScanBytes int `yaml:"encoding_scan_bytes"`

	// CaseInsensitivePaths enables a case-insensitive fallback when an
	// archive entry is not found by its exact name.
	CaseInsensitivePaths bool `yaml:"case_insensitive_paths"`
}

const (
	defaultMaxEntrySize      int64 = 256 * 1024 * 1024
	defaultEncodingScanBytes       = 200
)

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		MaxEntrySize:         defaultMaxEntrySize,
		EncodingScanBytes:    defaultEncodingScanBytes,
		CaseInsensitivePaths: true,
	}
}

// LoadConfig reads a YAML configuration file. Keys missing from the file
// keep their DefaultConfig values. Environment variables prefixed with
// BOOKPARSE_ override file values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("bookparse: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig is LoadConfig for in-memory YAML.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("bookparse: parse config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	if c.MaxEntrySize <= 0 {
		return fmt.Errorf("%w: max_entry_size must be positive, got %d", ErrInvalidConfig, c.MaxEntrySize)
	}
	if c.EncodingScanBytes <= 0 {
		return fmt.Errorf("%w: encoding_scan_bytes must be positive, got %d", ErrInvalidConfig, c.EncodingScanBytes)
	}
	return nil
}

// applyEnvOverrides applies BOOKPARSE_* environment variables to cfg.
func applyEnvOverrides(cfg *Config) error {
	if val := os.Getenv("BOOKPARSE_MAX_ENTRY_SIZE"); val != "" {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: BOOKPARSE_MAX_ENTRY_SIZE: %v", ErrInvalidConfig, err)
		}
		cfg.MaxEntrySize = n
	}
	if val := os.Getenv("BOOKPARSE_ENCODING_SCAN_BYTES"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: BOOKPARSE_ENCODING_SCAN_BYTES: %v", ErrInvalidConfig, err)
		}
		cfg.EncodingScanBytes = n
	}
	if val := os.Getenv("BOOKPARSE_CASE_INSENSITIVE_PATHS"); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%w: BOOKPARSE_CASE_INSENSITIVE_PATHS: %v", ErrInvalidConfig, err)
		}
		cfg.CaseInsensitivePaths = b
	}
	return nil
}
