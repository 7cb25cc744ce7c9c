package counter

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/tailored-agentic-units/flux/store"
)

const defaultStep = 1

// Config holds counter initialization parameters.
type Config struct {
	Initial int          `json:"initial,omitempty" env:"FLUX_COUNTER_INITIAL"`
	Step    int          `json:"step,omitempty"    env:"FLUX_COUNTER_STEP"`
	Store   store.Config `json:"store"`
}

// DefaultConfig returns a counter starting at zero that moves by one.
func DefaultConfig() Config {
	return Config{
		Step:  defaultStep,
		Store: store.Config{Name: "counter", Observer: "slog"},
	}
}

// Validate rejects a config the counter cannot run with.
func (c *Config) Validate() error {
	if c.Step <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidStep, c.Step)
	}
	return nil
}

// LoadConfig reads a JSON config file over the defaults. Fields absent from
// the file keep their default; fields present replace it, zero included.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseEnv overrides c with the FLUX_* environment variables that are set.
func (c *Config) ParseEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return c.Validate()
}
