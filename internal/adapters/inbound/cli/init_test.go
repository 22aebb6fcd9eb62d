package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/contentmod/internal/adapters/inbound/cli"
	"github.com/abdidvp/contentmod/internal/adapters/outbound/config"
	"github.com/abdidvp/contentmod/internal/domain"
)

func TestInitCmd_CreatesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(tmpDir, ".contentmod.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: fs")
	assert.Contains(t, string(data), "git:")

	cfg, err := config.New().Load(tmpDir)
	require.NoError(t, err, "generated config must load")
	assert.Equal(t, domain.BackendFS, cfg.Backend)
}

func TestInitCmd_SQLiteBackend(t *testing.T) {
	tmpDir := t.TempDir()

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir, "--backend", "sqlite"})
	require.NoError(t, root.Execute())

	cfg, err := config.New().Load(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, domain.BackendSQLite, cfg.Backend)
	assert.Equal(t, filepath.Join(tmpDir, "content.db"), cfg.DSN)
}

func TestInitCmd_FailsIfExists(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".contentmod.yaml"), []byte("existing"), 0644))

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir})
	err := root.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".contentmod.yaml"), []byte("old"), 0644))

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir, "--force"})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(tmpDir, ".contentmod.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend:")
	assert.NotEqual(t, "old", string(data))
}

func TestInitCmd_InvalidBackend(t *testing.T) {
	tmpDir := t.TempDir()

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir, "--backend", "jcr"})
	err := root.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}
