// Package config loads and validates zonegit configuration.
//
// Settings come from three layers, each overriding the previous: built-in
// defaults, an optional YAML file (.zonegit.yml at the repository root by
// convention), and ZONEGIT_* environment variables. The merged result is
// normalized by Validate before use.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v8"
	"gopkg.in/yaml.v3"

	"github.com/jroosing/zonegit/internal/match"
)

// ConfigFileName is the conventional per-repository config file.
const ConfigFileName = ".zonegit.yml"

const defaultCheckerTimeout = 30 * time.Second

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Repo: RepoConfig{
			Dir:  ".",
			Mode: ModeAuto,
		},
		Files: FilesConfig{
			Patterns: append([]string(nil), match.DefaultPatterns...),
		},
		Checker: CheckerConfig{
			Command:  "named-checkzone",
			Args:     []string{"-k", "fail"},
			Timeout:  defaultCheckerTimeout.String(),
			Fallback: FallbackBuiltin,
		},
		Run: RunConfig{
			Jobs: 4,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(".git", "zonegit.db"),
		},
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8053,
		},
	}
}

// ResolveConfigPath picks the config file to load: an explicit path wins,
// then $ZONEGIT_CONFIG, then the repository's own .zonegit.yml if present.
// An empty result means defaults plus environment only.
func ResolveConfigPath(explicit, repoRoot string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv("ZONEGIT_CONFIG"); p != "" {
		return p
	}
	if repoRoot != "" {
		p := filepath.Join(repoRoot, ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load builds the configuration from defaults, the YAML file at path (if
// any), and the environment, then validates it. An unreadable explicit
// path is an error; an empty path just skips the file layer.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes the configuration and rejects values nothing can be
// done with.
func (cfg *Config) Validate() error {
	if cfg.Repo.Dir == "" {
		cfg.Repo.Dir = "."
	}
	cfg.Repo.Mode = strings.ToLower(strings.TrimSpace(cfg.Repo.Mode))
	switch cfg.Repo.Mode {
	case "":
		cfg.Repo.Mode = ModeAuto
	case ModeAuto, ModeHook, ModeCI:
	default:
		return fmt.Errorf("repo.mode must be %s, %s or %s", ModeAuto, ModeHook, ModeCI)
	}

	if len(cfg.Files.Patterns) == 0 {
		cfg.Files.Patterns = append([]string(nil), match.DefaultPatterns...)
	}
	if _, err := match.New(cfg.Files.Patterns); err != nil {
		return err
	}

	if cfg.Checker.Command == "" {
		cfg.Checker.Command = "named-checkzone"
	}
	if cfg.Checker.Args == nil {
		cfg.Checker.Args = []string{"-k", "fail"}
	}
	if cfg.Checker.Timeout == "" {
		cfg.Checker.Timeout = defaultCheckerTimeout.String()
	}
	if _, err := time.ParseDuration(cfg.Checker.Timeout); err != nil {
		return fmt.Errorf("checker.timeout: %w", err)
	}
	cfg.Checker.Fallback = strings.ToLower(strings.TrimSpace(cfg.Checker.Fallback))
	switch cfg.Checker.Fallback {
	case "":
		cfg.Checker.Fallback = FallbackBuiltin
	case FallbackBuiltin, FallbackNone:
	default:
		return fmt.Errorf("checker.fallback must be %s or %s", FallbackBuiltin, FallbackNone)
	}

	if cfg.Run.Jobs <= 0 {
		cfg.Run.Jobs = 4
	}

	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(".git", "zonegit.db")
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return errors.New(`logging.format must be "text" or "json"`)
	}
	if cfg.Logging.Extra == nil {
		cfg.Logging.Extra = map[string]string{}
	}

	if cfg.API.Host == "" {
		cfg.API.Host = "127.0.0.1"
	}
	if cfg.API.Enabled {
		if cfg.API.Port <= 0 || cfg.API.Port > 65535 {
			return errors.New("api.port must be 1..65535")
		}
	}
	return nil
}

// CheckerTimeout returns the parsed per-file checker ceiling. Validate
// guarantees the string parses.
func (cfg *Config) CheckerTimeout() time.Duration {
	d, err := time.ParseDuration(cfg.Checker.Timeout)
	if err != nil {
		return defaultCheckerTimeout
	}
	return d
}

// HistoryPath resolves the ledger location against the repository root.
func (cfg *Config) HistoryPath(repoRoot string) string {
	if filepath.IsAbs(cfg.History.Path) {
		return cfg.History.Path
	}
	return filepath.Join(repoRoot, cfg.History.Path)
}
