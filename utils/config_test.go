package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"database": {"host": "db.local", "port": 3307, "user": "wa", "password": "secret", "dbname": "history"},
		"server": {"port": 9090},
		"archive": {"root": "/var/backup"},
		"sync": {"include_media": false, "message_types": ["conversation"], "max_messages": 50}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/var/backup", cfg.Archive.Root)
	assert.False(t, cfg.Sync.IncludeMedia)
	assert.Equal(t, []string{"conversation"}, cfg.Sync.MessageTypes)
	assert.Equal(t, 50, cfg.Sync.MaxMessages)
	// Sections absent from the file keep their defaults.
	assert.Equal(t, "data/whatsmeow.db", cfg.Archive.SessionDB)
	assert.Equal(t, 2, cfg.Session.ReconnectIntervalSeconds)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "localhost", Port: 3306, User: "root", Password: "pw", DBName: "history"}
	assert.Equal(t, "root:pw@tcp(localhost:3306)/history?parseTime=true", cfg.GetDSN())
}

func TestSanitizePathComponent(t *testing.T) {
	assert.Equal(t, "5511999998765", SanitizePathComponent("5511999998765"))
	assert.Equal(t, "a_b_c_d", SanitizePathComponent(`a/b\c:d`))
	assert.Equal(t, "x_y", SanitizePathComponent("x|y"))
}
