package config

// Run modes. Auto lets the binary decide from its invocation context:
// running as .git/hooks/pre-commit means hook mode, otherwise ci.
const (
	ModeAuto = "auto"
	ModeHook = "hook"
	ModeCI   = "ci"
)

// RepoConfig locates the repository and selects the validation mode.
type RepoConfig struct {
	Dir  string `yaml:"dir" json:"dir" env:"ZONEGIT_REPO_DIR"`
	Mode string `yaml:"mode" json:"mode" env:"ZONEGIT_MODE"`
}

// FilesConfig controls which paths count as zone files.
type FilesConfig struct {
	Patterns []string `yaml:"patterns" json:"patterns" env:"ZONEGIT_FILE_PATTERNS" envSeparator:","`
}

// CheckerConfig controls the external syntax checker.
type CheckerConfig struct {
	Command  string   `yaml:"command" json:"command" env:"ZONEGIT_CHECKER"`
	Args     []string `yaml:"args" json:"args"`
	Timeout  string   `yaml:"timeout" json:"timeout" env:"ZONEGIT_CHECKER_TIMEOUT"` // e.g. "30s"
	Fallback string   `yaml:"fallback" json:"fallback" env:"ZONEGIT_CHECKER_FALLBACK"`
	Disabled bool     `yaml:"disabled" json:"disabled" env:"ZONEGIT_CHECKER_DISABLED"`
}

// Fallback strategies when the checker binary is missing.
const (
	FallbackBuiltin = "builtin"
	FallbackNone    = "none"
)

// RunConfig bounds the validation worker pool.
type RunConfig struct {
	Jobs int `yaml:"jobs" json:"jobs" env:"ZONEGIT_JOBS"`
}

// HistoryConfig controls the run ledger.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled" env:"ZONEGIT_HISTORY"`
	Path    string `yaml:"path" json:"path" env:"ZONEGIT_HISTORY_PATH"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string            `yaml:"level" json:"level" env:"ZONEGIT_LOG_LEVEL"`
	Format     string            `yaml:"format" json:"format" env:"ZONEGIT_LOG_FORMAT"` // "text" or "json"
	IncludePID bool              `yaml:"include_pid" json:"include_pid" env:"ZONEGIT_LOG_PID"`
	Extra      map[string]string `yaml:"extra" json:"extra,omitempty"`
}

// APIConfig contains report API settings.
//
// Note: APIKey is a secret and must not be echoed by API endpoints.
type APIConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled" env:"ZONEGIT_API"`
	Host    string `yaml:"host" json:"host" env:"ZONEGIT_API_HOST"`
	Port    int    `yaml:"port" json:"port" env:"ZONEGIT_API_PORT"`
	APIKey  string `yaml:"api_key" json:"api_key,omitempty" env:"ZONEGIT_API_KEY"`
}

// Config is the root configuration structure.
type Config struct {
	Repo    RepoConfig    `yaml:"repo" json:"repo"`
	Files   FilesConfig   `yaml:"files" json:"files"`
	Checker CheckerConfig `yaml:"checker" json:"checker"`
	Run     RunConfig     `yaml:"run" json:"run"`
	History HistoryConfig `yaml:"history" json:"history"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	API     APIConfig     `yaml:"api" json:"api"`
}
