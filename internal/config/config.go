package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/lytics/confl"

	"github.com/geange/fsm"
	"github.com/geange/fsm/internal/table"
)

// Config for the fsm command. Every field may be omitted from the file; the
// defaults are those of Default.
type Config struct {
	LogLevel         string `json:"log_level"`          // [debug,info,warn,error]
	StatePrefix      string `json:"state_prefix"`       // NFA states built from regexes and grammars
	DFAStatePrefix   string `json:"dfa_state_prefix"`   // subset construction
	MooreStatePrefix string `json:"moore_state_prefix"` // mealy-to-moore
	MinStatePrefix   string `json:"min_state_prefix"`   // minimization
	MealyLayout      string `json:"mealy_layout"`       // by-header or by-rows, for written Mealy tables
	Pretty           bool   `json:"pretty"`             // also draw results as bordered tables
}

var logLevels = []string{"debug", "info", "warn", "error", "fatal", "none"}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel:         "info",
		StatePrefix:      "q",
		DFAStatePrefix:   "S",
		MooreStatePrefix: "R",
		MinStatePrefix:   "s",
		MealyLayout:      table.MealyByHeader.String(),
	}
}

// LoadConfigFromFile Read a Confl formatted config file from disk
func LoadConfigFromFile(filename string) (*Config, error) {
	confBytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	c, err := LoadConfig(string(confBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return c, nil
}

// LoadConfig load a confl formatted config held in a string. Environment
// variables are expanded first; missing keys keep their defaults.
func LoadConfig(conf string) (*Config, error) {
	c := Default()
	if _, err := confl.Decode(os.ExpandEnv(conf), c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the enumerated fields.
func (c *Config) Validate() error {
	if !slices.Contains(logLevels, c.LogLevel) {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	if _, err := c.Layout(); err != nil {
		return err
	}
	return nil
}

// Layout returns the table layout for written Mealy machines.
func (c *Config) Layout() (table.Layout, error) {
	switch c.MealyLayout {
	case "", table.MealyByHeader.String():
		return table.MealyByHeader, nil
	case table.MealyByRows.String():
		return table.MealyByRows, nil
	}
	return table.MealyByHeader, fmt.Errorf("unknown mealy_layout %q", c.MealyLayout)
}

// NFA returns the naming options for automata built from regexes and grammars.
func (c *Config) NFA() []fsm.Option {
	return []fsm.Option{fsm.WithStatePrefix(c.StatePrefix)}
}

// DFA returns the naming options for subset construction.
func (c *Config) DFA() []fsm.Option {
	return []fsm.Option{fsm.WithStatePrefix(c.DFAStatePrefix)}
}

// Moore returns the naming options for Mealy to Moore conversion.
func (c *Config) Moore() []fsm.Option {
	return []fsm.Option{fsm.WithStatePrefix(c.MooreStatePrefix)}
}

// Min returns the naming options for minimization.
func (c *Config) Min() []fsm.Option {
	return []fsm.Option{fsm.WithStatePrefix(c.MinStatePrefix)}
}
