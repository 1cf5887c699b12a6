package config

import (
	"fmt"
	"strings"
)

// Validate rejects configurations that could not produce a well-formed argv
// or executor. Called by Load unless SkipValidate is set.
func Validate(cfg Config) error {
	if tc := cfg.DefaultToolchain; tc != "" {
		if strings.ContainsAny(tc, " \t\n") {
			return fmt.Errorf("default_toolchain must not contain whitespace: %q", tc)
		}
		if strings.HasPrefix(tc, "-") || strings.HasPrefix(tc, "+") {
			return fmt.Errorf("default_toolchain must not start with %q", tc[:1])
		}
	}
	if cfg.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must be >= 0, got %d", cfg.TimeoutSeconds)
	}
	if cfg.MaxOutputBytes < 0 {
		return fmt.Errorf("max_output_bytes must be >= 0, got %d", cfg.MaxOutputBytes)
	}
	return nil
}
