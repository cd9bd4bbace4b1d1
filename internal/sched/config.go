package sched

import (
	"os"
	"time"

	yaml "github.com/goccy/go-yaml"

	"ticksched/internal/hal"
)

// Config mirrors config.yml
type Config struct {
	TickMS        float64 `yaml:"tick_ms"`        // 62.5 (1/16 s) by default
	MaxTasks      int     `yaml:"max_tasks"`      // 4 by default
	StackSize     int     `yaml:"stack_size"`     // bytes per private stack, 128 by default
	InitialCursor int     `yaml:"initial_cursor"` // first slot scanned, 0 by default
	History       int     `yaml:"history"`        // decisions kept in the trace ring
	LogLevel      string  `yaml:"log_level"`
	CSVPath       string  `yaml:"csv_path"` // empty disables CSV event logging
}

// DefaultConfig is four tasks with 128-byte stacks on a 1/16 s tick.
func DefaultConfig() Config {
	return Config{
		TickMS:        62.5,
		MaxTasks:      4,
		StackSize:     128,
		InitialCursor: 0,
		History:       64,
		LogLevel:      "info",
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only
func Load(path string) Config {
	if path == "" {
		return DefaultConfig()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig()
	}
	cfg, err := Parse(data)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// Parse decodes YAML on top of the defaults and clamps what makes no sense.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}
	cfg.clamp()
	return cfg, nil
}

func (c *Config) clamp() {
	def := DefaultConfig()
	if c.TickMS <= 0 {
		c.TickMS = def.TickMS
	}
	if c.MaxTasks <= 0 {
		c.MaxTasks = def.MaxTasks
	}
	// the launch frame has to fit
	if c.StackSize < hal.FrameSize {
		c.StackSize = def.StackSize
	}
	if c.InitialCursor < 0 {
		c.InitialCursor = 0
	}
	if c.History <= 0 {
		c.History = def.History
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// Quantum is the wall-clock length of one tick.
func (c Config) Quantum() time.Duration {
	return time.Duration(c.TickMS * float64(time.Millisecond))
}
