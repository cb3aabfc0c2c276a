// Package config loads filescan settings from a project directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mhr3/filescan/lineindex"
	"github.com/mhr3/filescan/query"
	"github.com/mhr3/filescan/search"
)

const (
	KDLFile  = ".filescan.kdl"
	TOMLFile = ".filescan.toml"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Search Search `toml:"search"`
	Files  Files  `toml:"files"`
}

type Search struct {
	MatchCase          bool   `toml:"match_case"`
	Scope              string `toml:"scope"`
	MaxTextExtent      int    `toml:"max_text_extent"`
	CheckIntervalBytes int    `toml:"check_interval_bytes"`
	Workers            int    `toml:"workers"`
}

type Files struct {
	Include     []string `toml:"include"`
	MaxFileSize int64    `toml:"max_file_size"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Search: Search{
			Scope:              query.ScopeLine.String(),
			MaxTextExtent:      lineindex.DefaultMaxTextExtent,
			CheckIntervalBytes: search.DefaultCheckInterval,
			Workers:            runtime.GOMAXPROCS(0),
		},
		Files: Files{
			Include:     []string{"**"},
			MaxFileSize: 64 << 20,
		},
	}
}

// Load reads .filescan.kdl from dir, falling back to .filescan.toml. Without
// either file it returns Default(). Keys missing from a file keep their
// default values.
func Load(dir string) (*Config, error) {
	for _, f := range []struct {
		name  string
		parse func([]byte, *Config) error
	}{
		{KDLFile, parseKDL},
		{TOMLFile, parseTOML},
	} {
		path := filepath.Join(dir, f.name)
		content, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		cfg := Default()
		if err := f.parse(content, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return cfg, nil
	}
	return Default(), nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := query.ParseScope(c.Search.Scope); err != nil {
		return fmt.Errorf("%w: search.scope: %v", ErrInvalid, err)
	}
	if c.Search.MaxTextExtent < 0 {
		return fmt.Errorf("%w: search.max_text_extent must not be negative", ErrInvalid)
	}
	if c.Search.CheckIntervalBytes < 1 {
		return fmt.Errorf("%w: search.check_interval_bytes must be positive", ErrInvalid)
	}
	if c.Search.Workers < 1 {
		return fmt.Errorf("%w: search.workers must be positive", ErrInvalid)
	}
	if c.Files.MaxFileSize < 0 {
		return fmt.Errorf("%w: files.max_file_size must not be negative", ErrInvalid)
	}
	return nil
}

// ScopeValue returns the parsed search scope. The config must be valid.
func (c *Config) ScopeValue() query.Scope {
	s, _ := query.ParseScope(c.Search.Scope)
	return s
}
