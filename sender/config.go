package sender

import (
	"errors"
	"fmt"
	"io"
	"os"

	yaml "gopkg.in/yaml.v2"
)

const (
	// DefaultMessageCount is one more than the number of data datagrams sent per run.
	DefaultMessageCount = 1024

	// DefaultMessageLen is the size of every datagram.
	DefaultMessageLen = 1024

	// DefaultStopRepeat is how many times the stop datagram is sent.
	DefaultStopRepeat = 8
)

// Config represents a sender configuration.
type Config struct {
	MessageCount int `yaml:"messageCount"`
	MessageLen   int `yaml:"messageLen"`
	StopRepeat   int `yaml:"stopRepeat"`

	// HopLimit sets the IPv6 unicast hop limit of outgoing datagrams; zero keeps the system default.
	HopLimit int `yaml:"hopLimit"`
}

// DefaultConfig returns the configuration a bare invocation runs with.
func DefaultConfig() Config {
	return Config{
		MessageCount: DefaultMessageCount,
		MessageLen:   DefaultMessageLen,
		StopRepeat:   DefaultStopRepeat,
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close() // nolint: errcheck

	// an empty file keeps the defaults
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// DataCount is the number of data datagrams a run sends.
func (cfg Config) DataCount() int {
	return cfg.MessageCount - 1
}

// Sends is the number of send operations a successful run performs.
func (cfg Config) Sends() int {
	return cfg.DataCount() + cfg.StopRepeat
}

// Validate checks that the configuration describes a sendable sequence.
func (cfg Config) Validate() error {
	if cfg.MessageCount < 1 {
		return fmt.Errorf("messageCount must be at least 1, got %d", cfg.MessageCount)
	}
	if cfg.MessageLen < 1 {
		return fmt.Errorf("messageLen must be at least 1, got %d", cfg.MessageLen)
	}
	if cfg.StopRepeat < 0 {
		return fmt.Errorf("stopRepeat must not be negative, got %d", cfg.StopRepeat)
	}
	if cfg.HopLimit < 0 || cfg.HopLimit > 255 {
		return fmt.Errorf("hopLimit must be within 0-255, got %d", cfg.HopLimit)
	}

	return nil
}
