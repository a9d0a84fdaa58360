// Package config loads the planner's tunables from a YAML file with
// flag-layered overrides: a file-then-flag layering, flags always
// winning.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gokanplan/gokanplan/pkg/search"
	"github.com/gokanplan/gokanplan/pkg/state"
)

// Config bundles every knob a planning run needs beyond the task itself.
type Config struct {
	Search    SearchConfig    `yaml:"search"`
	Grounding GroundingConfig `yaml:"grounding"`
	Debug     bool            `yaml:"debug"`
}

// SearchConfig selects the open list's ordering and the heuristic, and
// bounds a run's wall-clock and state budget.
type SearchConfig struct {
	// Algorithm is "astar" or "gbfs".
	Algorithm string `yaml:"algorithm"`
	// Heuristic is "blind" or "goalcount".
	Heuristic string        `yaml:"heuristic"`
	MaxStates int           `yaml:"max_states"`
	MaxTime   time.Duration `yaml:"max_time"`
}

// GroundingConfig toggles the fork/join parallel rule grounder.
type GroundingConfig struct {
	Parallel bool `yaml:"parallel"`
	Workers  int  `yaml:"workers"`
}

// Default returns a Config with the settings a first run should use:
// A★ with the goal-count heuristic, sequential grounding, no budgets.
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			Algorithm: "astar",
			Heuristic: "goalcount",
		},
		Grounding: GroundingConfig{
			Parallel: false,
			Workers:  1,
		},
	}
}

// Validate reports whether c's fields name things this package knows how
// to resolve.
func (c *Config) Validate() error {
	switch c.Search.Algorithm {
	case "astar", "gbfs":
	default:
		return fmt.Errorf("config: unknown search.algorithm %q", c.Search.Algorithm)
	}
	switch c.Search.Heuristic {
	case "blind", "goalcount":
	default:
		return fmt.Errorf("config: unknown search.heuristic %q", c.Search.Heuristic)
	}
	if c.Search.MaxStates < 0 {
		return fmt.Errorf("config: search.max_states must be non-negative")
	}
	if c.Grounding.Workers < 0 {
		return fmt.Errorf("config: grounding.workers must be non-negative")
	}
	return nil
}

// LoadFile reads and parses path as YAML over top of Default().
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Merge overlays other's non-zero fields onto c, other taking precedence.
// Used to layer CLI flag values (parsed into a Config of their own) on
// top of a file-loaded Config.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Search.Algorithm != "" {
		c.Search.Algorithm = other.Search.Algorithm
	}
	if other.Search.Heuristic != "" {
		c.Search.Heuristic = other.Search.Heuristic
	}
	if other.Search.MaxStates != 0 {
		c.Search.MaxStates = other.Search.MaxStates
	}
	if other.Search.MaxTime != 0 {
		c.Search.MaxTime = other.Search.MaxTime
	}
	if other.Grounding.Workers != 0 {
		c.Grounding.Workers = other.Grounding.Workers
	}
	c.Grounding.Parallel = c.Grounding.Parallel || other.Grounding.Parallel
	c.Debug = c.Debug || other.Debug
}

// Algorithm resolves Search.Algorithm to its search.Algorithm value.
func (c *Config) Algorithm() search.Algorithm {
	if c.Search.Algorithm == "gbfs" {
		return search.GBFS
	}
	return search.AStar
}

// Heuristic builds the search.Heuristic named by Search.Heuristic over
// idx's dense atom numbering.
func (c *Config) Heuristic(idx *state.Indexer) search.Heuristic {
	if c.Search.Heuristic == "blind" {
		return search.Blind{}
	}
	return search.NewGoalCount(idx)
}

// Budgets resolves Search's budget fields to a search.Budgets.
func (c *Config) Budgets() search.Budgets {
	return search.Budgets{MaxStates: c.Search.MaxStates, MaxTime: c.Search.MaxTime}
}
