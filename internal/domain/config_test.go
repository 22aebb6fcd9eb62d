package domain_test

import (
	"testing"

	"github.com/abdidvp/contentmod/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, domain.BackendFS, cfg.Backend)
	assert.Equal(t, 100000, cfg.MaxResults)
	assert.True(t, cfg.JournalEnabled())
}

func TestConfig_JournalDisabled(t *testing.T) {
	off := false
	cfg := domain.DefaultConfig()
	cfg.Journal = &off
	assert.False(t, cfg.JournalEnabled())
}

func TestConfig_Validate_UnknownBackend(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Backend = "jcr"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

func TestConfig_Validate_SQLiteNeedsDSN(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Backend = domain.BackendSQLite
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "dsn")
}

func TestConfig_Validate_GitCommitOnlyForFS(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Backend = domain.BackendSQLite
	cfg.DSN = "content.db"
	cfg.Git.Commit = true
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "git.commit")
}

func TestConfig_Validate_MaxResults(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.MaxResults = 0
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_results")
}

func TestConfig_Validate_LogLevel(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Log.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg.Log.Level = "debug"
	cfg.Log.Format = "xml"
	assert.Error(t, cfg.Validate())
}
