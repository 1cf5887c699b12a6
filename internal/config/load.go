package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Options for loading config.
type Options struct {
	// ConfigPath overrides the default config file location.
	ConfigPath string
	// Overrides apply last (flags > env > file > defaults). Nil means no
	// CLI overrides.
	Overrides *Overrides
	// SkipValidate is used by `config print` so an invalid file can still
	// be inspected.
	SkipValidate bool
}

// Overrides holds CLI flag values that take precedence over env/file/
// defaults. Only non-nil fields are applied.
type Overrides struct {
	DefaultToolchain *string
	StateDir         *string
	TimeoutSeconds   *int
	MaxOutputBytes   *int
	Verbose          *bool
}

// Load builds config with precedence: defaults → config file → environment →
// Overrides. Dotenv files are loaded first so their values participate as
// environment; explicit env always wins over dotenv.
func Load(opts Options) (Config, error) {
	cfg := Default()

	for _, path := range []string{".env.local", ".env"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return Config{}, fmt.Errorf("failed loading %s: %w", path, err)
		}
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = DefaultConfigFile
	}
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
			return Config{}, fmt.Errorf("malformed config file %s: %w", configPath, err)
		}
	} else if opts.ConfigPath != "" {
		// an explicitly named config file must exist
		return Config{}, fmt.Errorf("cannot read config file %s: %w", configPath, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if opts.Overrides != nil {
		applyOverrides(&cfg, opts.Overrides)
	}

	if !opts.SkipValidate {
		if err := Validate(cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("CARGO_MCP_DEFAULT_TOOLCHAIN"); v != "" {
		cfg.DefaultToolchain = v
	}
	if v := os.Getenv("CARGO_MCP_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv("CARGO_MCP_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CARGO_MCP_TIMEOUT_SECONDS must be an integer: %q", v)
		}
		cfg.TimeoutSeconds = n
	}
	if v := os.Getenv("CARGO_MCP_MAX_OUTPUT_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CARGO_MCP_MAX_OUTPUT_BYTES must be an integer: %q", v)
		}
		cfg.MaxOutputBytes = n
	}
	if v := os.Getenv("CARGO_MCP_VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CARGO_MCP_VERBOSE must be a boolean: %q", v)
		}
		cfg.Verbose = b
	}
	return nil
}

func applyOverrides(cfg *Config, o *Overrides) {
	if o.DefaultToolchain != nil {
		cfg.DefaultToolchain = *o.DefaultToolchain
	}
	if o.StateDir != nil {
		cfg.StateDir = *o.StateDir
	}
	if o.TimeoutSeconds != nil {
		cfg.TimeoutSeconds = *o.TimeoutSeconds
	}
	if o.MaxOutputBytes != nil {
		cfg.MaxOutputBytes = *o.MaxOutputBytes
	}
	if o.Verbose != nil {
		cfg.Verbose = *o.Verbose
	}
}
