// Package config loads gonewton settings from defaults, a YAML file, the
// environment and command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/njchilds90/gonewton"
)

const (
	// EnvPrefix marks environment variables read by Load.
	EnvPrefix = "GONEWTON_"
	// DefaultFile is looked up in the working directory when no file is given.
	DefaultFile = "gonewton.yaml"
)

// Output formats.
const (
	OutputText  = "text"
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config holds every setting the CLI and the tool server use.
type Config struct {
	Epsilon      float64      `koanf:"epsilon"`
	X0           float64      `koanf:"x0"`
	MaxSteps     int          `koanf:"max_steps"`
	Coefficients []float64    `koanf:"coefficients"`
	Trace        bool         `koanf:"trace"`
	Output       string       `koanf:"output"`
	Verbose      bool         `koanf:"verbose"`
	Server       ServerConfig `koanf:"server"`

	// File is the configuration file that was read, if any.
	File string `koanf:"-"`
}

// ServerConfig configures the tool server.
type ServerConfig struct {
	Port int `koanf:"port"`
}

// Defaults reproduces the classic demo: 2x³+5x²+3x−7 solved from x0 = -100.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"epsilon":      1e-6,
		"x0":           -100.0,
		"max_steps":    gonewton.DefaultMaxSteps,
		"coefficients": []float64{2, 5, 3, -7},
		"trace":        false,
		"output":       OutputText,
		"verbose":      false,
		"server.port":  8080,
	}
}

// Default returns the built-in settings without consulting files, the
// environment or flags.
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		panic(fmt.Sprintf("config: loading defaults: %v", err))
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		panic(fmt.Sprintf("config: decoding defaults: %v", err))
	}
	return &cfg
}

// flagKeys maps flag names whose config key is not the snake_case form.
var flagKeys = map[string]string{
	"coeffs": "coefficients",
	"port":   "server.port",
}

// Load merges, lowest to highest precedence: defaults, the YAML file
// (cfgFile, or DefaultFile when present), GONEWTON_* environment variables
// and flags that were explicitly set.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// GONEWTON_MAX_STEPS -> max_steps, GONEWTON_SERVER_PORT -> server.port
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	return &cfg, nil
}

// envValue maps a variable to its key. List keys take comma-separated
// values: GONEWTON_COEFFICIENTS="3,5,-7".
func envValue(name, value string) (string, interface{}) {
	key := envKey(name)
	if key != "coefficients" {
		return key, value
	}
	if strings.TrimSpace(value) == "" {
		return key, []string{}
	}
	parts := strings.Split(value, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return key, parts
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "server_"); ok {
		return "server." + rest
	}
	return key
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// Validate checks the values Solve and the server would otherwise reject
// later with a less helpful message.
func (c *Config) Validate() error {
	if !(c.Epsilon > 0) {
		return fmt.Errorf("epsilon must be > 0, got %g: %w", c.Epsilon, gonewton.ErrInvalidArgument)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("max_steps must be >= 0, got %d: %w", c.MaxSteps, gonewton.ErrInvalidArgument)
	}
	switch c.Output {
	case OutputText, OutputTable, OutputJSON:
	default:
		return fmt.Errorf("unknown output format %q (want text|table|json): %w", c.Output, gonewton.ErrInvalidArgument)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d: %w", c.Server.Port, gonewton.ErrInvalidArgument)
	}
	return nil
}

// Expr builds the polynomial described by Coefficients.
func (c *Config) Expr() gonewton.Expr { return gonewton.Polynomial(c.Coefficients...) }

// SolveOptions converts the numeric settings into gonewton options.
func (c *Config) SolveOptions() gonewton.Options {
	return gonewton.Options{Epsilon: c.Epsilon, X0: c.X0, MaxSteps: c.MaxSteps}
}
