package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

func parseTOML(content []byte, cfg *Config) error {
	if err := toml.Unmarshal(content, cfg); err != nil {
		return fmt.Errorf("failed to parse TOML config: %w", err)
	}
	return nil
}
