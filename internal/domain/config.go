package domain

import "fmt"

// BackendType identifies the content repository implementation.
type BackendType string

const (
	BackendFS     BackendType = "fs"
	BackendSQLite BackendType = "sqlite"
)

// ValidBackends enumerates all recognized backends.
var ValidBackends = []BackendType{BackendFS, BackendSQLite}

// DefaultMaxResults is the single-page ceiling on retrieved candidates.
// Larger subtrees are truncated and reported, never paginated.
const DefaultMaxResults = 100000

// Config holds the tool configuration loaded from .contentmod.yaml.
type Config struct {
	Backend    BackendType  `yaml:"backend"     json:"backend"`
	Root       string       `yaml:"root"        json:"root,omitempty"`
	DSN        string       `yaml:"dsn"         json:"dsn,omitempty"`
	MaxResults int          `yaml:"max_results" json:"max_results"`
	Journal    *bool        `yaml:"journal,omitempty" json:"journal,omitempty"`
	Git        GitConfig    `yaml:"git"         json:"git"`
	Server     ServerConfig `yaml:"server"      json:"server"`
	Log        LogConfig    `yaml:"log"         json:"log"`
}

// GitConfig controls per-node git commits for the fs backend.
type GitConfig struct {
	Commit      bool   `yaml:"commit"       json:"commit"`
	AuthorName  string `yaml:"author_name"  json:"author_name,omitempty"`
	AuthorEmail string `yaml:"author_email" json:"author_email,omitempty"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Addr   string `yaml:"addr"    json:"addr"`
	APIKey string `yaml:"api_key" json:"-"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"  json:"level"`
	Format string `yaml:"format" json:"format"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Backend:    BackendFS,
		Root:       "content",
		MaxResults: DefaultMaxResults,
		Git: GitConfig{
			AuthorName:  "contentmod",
			AuthorEmail: "contentmod@localhost",
		},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info", Format: "console"},
	}
}

// JournalEnabled reports whether runs are recorded. On unless disabled.
func (c Config) JournalEnabled() bool {
	return c.Journal == nil || *c.Journal
}

var validLogLevels = []string{"debug", "info", "warn", "error"}
var validLogFormats = []string{"json", "console"}

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	// 1. backend must be known
	if !isValidBackend(c.Backend) {
		return fmt.Errorf("unknown backend %q (valid: fs, sqlite)", c.Backend)
	}

	// 2. each backend needs its location
	switch c.Backend {
	case BackendFS:
		if c.Root == "" {
			return fmt.Errorf("root must be set for the fs backend")
		}
	case BackendSQLite:
		if c.DSN == "" {
			return fmt.Errorf("dsn must be set for the sqlite backend")
		}
		if c.Git.Commit {
			return fmt.Errorf("git.commit is only supported by the fs backend")
		}
	}

	// 3. the page ceiling must be positive
	if c.MaxResults <= 0 {
		return fmt.Errorf("max_results must be > 0 (got %d)", c.MaxResults)
	}

	// 4. logging
	if c.Log.Level != "" && !contains(validLogLevels, c.Log.Level) {
		return fmt.Errorf("unknown log.level %q (valid: debug, info, warn, error)", c.Log.Level)
	}
	if c.Log.Format != "" && !contains(validLogFormats, c.Log.Format) {
		return fmt.Errorf("unknown log.format %q (valid: json, console)", c.Log.Format)
	}

	return nil
}

func isValidBackend(b BackendType) bool {
	for _, v := range ValidBackends {
		if v == b {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
