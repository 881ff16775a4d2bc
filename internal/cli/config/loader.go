package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config file names, in lookup order.
const (
	ConfigFileName    = "texdag.yaml"
	ConfigFileNameAlt = "texdag.yml"
)

// maxUpwardSearchLevels limits how far up the directory tree to search
// for a config file.
const maxUpwardSearchLevels = 10

// Package-level koanf instance and config file tracking.
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// GetCurrentConfig returns the config loaded by the last LoadConfig
// call, or nil before any load.
func GetCurrentConfig() *Config {
	return currentConfig
}

// GetConfigFileUsed returns the config file loaded by the last
// LoadConfig call, or empty when none was found.
func GetConfigFileUsed() string {
	return configFileUsed
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// findConfigFile finds the config file to use.
// Priority: explicit path > ./texdag.yaml > ./texdag.yml > upward search.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	if _, err := os.Stat(ConfigFileNameAlt); err == nil {
		return ConfigFileNameAlt
	}
	if cwd, err := os.Getwd(); err == nil {
		if root := findProjectRootUpward(cwd); root != "" {
			return configIn(root)
		}
	}
	return ""
}

// configIn returns the config file path inside dir, or empty.
func configIn(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findProjectRootUpward searches upward from startDir for a texdag
// config file. Returns empty string if not found within
// maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configIn(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// LoadConfig loads configuration from file, environment variables, and
// flags. Precedence (highest to lowest): flags > env vars > config
// file > defaults.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for a fresh load
	k = koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"aux":               "",
		"refs":              DefaultRefs(),
		"future_refs":       DefaultFutureRefs(),
		"excluded_prefixes": DefaultExcludedPrefixes(),
		"environments":      DefaultEnvironments(),
		"proof_markers":     DefaultProofMarkers(),
		"verbose":           false,
		"output":            DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables: TEXDAG_PROOF_MARKERS -> proof_markers
	if err := k.Load(env.Provider("TEXDAG_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "TEXDAG_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority); only flags the user actually set.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// Paths given as flags are relative to the CWD; pin them down
	// before config-file-relative resolution.
	var flagAux string
	if flags != nil && flags.Changed("aux") {
		if v, _ := flags.GetString("aux"); v != "" {
			flagAux, _ = filepath.Abs(v)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Source paths from the config file are relative to the file.
	if configFileUsed != "" {
		base := filepath.Dir(configFileUsed)
		cfg.Aux = resolvePathRelativeTo(cfg.Aux, base)
		for i, src := range cfg.Sources {
			cfg.Sources[i] = resolvePathRelativeTo(src, base)
		}
	}
	if flagAux != "" {
		cfg.Aux = flagAux
	}

	currentConfig = &cfg
	return &cfg, nil
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not
// absolute. Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
