package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvLog, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sub", DefaultDBName), cfg.DBPath)
	assert.Equal(t, DefaultSlotKey, cfg.SlotKey)
	assert.Equal(t, "", cfg.LogPath)
	assert.Equal(t, "a", cfg.Keys.Add)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "db_path")
	assert.Contains(t, string(data), DefaultDBName)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreateReadsFileAndFillsGaps(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvLog, "")
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	body := `
db_path = "/var/lib/tasks.db"
log_path = "taskboard.log"

[keys]
add = "n"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/tasks.db", cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "taskboard.log"), cfg.LogPath)
	assert.Equal(t, DefaultSlotKey, cfg.SlotKey)
	assert.Equal(t, "n", cfg.Keys.Add)
	assert.Equal(t, "q", cfg.Keys.Quit)
	assert.Equal(t, "esc", cfg.Keys.Cancel)
}

func TestLoadOrCreateRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("db_path = ["), 0o644))
	_, err := LoadOrCreate(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDB, "file:memdb?mode=memory")
	t.Setenv(EnvLog, "/tmp/tb.log")
	cfg, err := LoadOrCreate(filepath.Join(dir, DefaultConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, "file:memdb?mode=memory", cfg.DBPath)
	assert.Equal(t, "/tmp/tb.log", cfg.LogPath)
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/tb.toml")
	assert.Equal(t, "/etc/tb.toml", ResolveConfigPath())

	t.Setenv(EnvConfig, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", AppName, DefaultConfigFileName), ResolveConfigPath())
}

func TestLoadEnvWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, LoadEnv())
}

func TestLoadEnvReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TASKBOARD_TEST_VALUE=from-dotenv\n"), 0o644))
	chdir(t, dir)
	t.Setenv("TASKBOARD_TEST_VALUE", "")
	os.Unsetenv("TASKBOARD_TEST_VALUE")
	require.NoError(t, LoadEnv())
	assert.Equal(t, "from-dotenv", os.Getenv("TASKBOARD_TEST_VALUE"))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
