// Package commands implements the cmx-regs CLI commands.
package commands

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/clockmatrix/idt8a3xxxx-go/pkg/regmap"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitValidation   = 2
)

// Config is the optional YAML configuration file shared by all commands.
type Config struct {
	// PageMode is the page-select convention: "single" or "wide".
	PageMode regmap.PageMode `yaml:"pageMode"`

	// Description is a register description to use instead of the built-in
	// table.
	Description string `yaml:"description"`

	// LogLevel is the slog level: debug, info, warn or error.
	LogLevel string `yaml:"logLevel"`
}

// LoadConfig reads a configuration file. An empty path returns defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Config{LogLevel: "warn"}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// globalFlags are accepted by every command and override the config file.
type globalFlags struct {
	config      string
	description string
	pageMode    string
	logLevel    string
}

func (g *globalFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&g.config, "config", "", "YAML config file")
	fs.StringVar(&g.description, "description", "", "Register description YAML (default: built-in table)")
	fs.StringVar(&g.pageMode, "page-mode", "", "Page-select mode (single, wide)")
	fs.StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// env is the resolved runtime environment of a command.
type env struct {
	cfg    Config
	table  *regmap.Table
	logger *slog.Logger
}

// resolve merges the config file with flags, sets up logging and loads the
// register table.
func (g *globalFlags) resolve(stderr io.Writer) (*env, error) {
	cfg, err := LoadConfig(g.config)
	if err != nil {
		return nil, err
	}
	if g.description != "" {
		cfg.Description = g.description
	}
	if g.pageMode != "" {
		mode, err := regmap.ParsePageMode(g.pageMode)
		if err != nil {
			return nil, err
		}
		cfg.PageMode = mode
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	table := regmap.Default()
	if cfg.Description != "" {
		table, err = regmap.LoadFile(cfg.Description)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded register description", "path", cfg.Description, "registers", table.Len())
	}

	return &env{cfg: cfg, table: table, logger: logger}, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelWarn, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// parseAddress parses a 16-bit register address such as 0xc1b0.
func parseAddress(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return uint16(v), nil
}
