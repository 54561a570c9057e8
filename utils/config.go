package utils

import (
	"encoding/json"
	"fmt"
	"os"
)

// Database connection settings for the structured store.
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
}

// HTTP status API settings.
type ServerConfig struct {
	Port int `json:"port"`
}

// Archive locations: the backup root plus the local databases used by the
// session layer and the name cache.
type ArchiveConfig struct {
	Root        string `json:"root"`
	SessionDB   string `json:"session_db"`
	NameCacheDB string `json:"name_cache_db"`
}

// Sync policy settings. ContactsFile points to an optional newline-delimited
// allow-list; a missing file is not an error.
type SyncConfig struct {
	IncludeMedia  bool     `json:"include_media"`
	IncludeGroups bool     `json:"include_groups"`
	MessageTypes  []string `json:"message_types"`
	ContactsFile  string   `json:"contacts_file"`
	MaxMessages   int      `json:"max_messages"`
}

// Session reconnect settings. MaxReconnectAttempts of zero retries forever.
type SessionConfig struct {
	MaxReconnectAttempts     uint64 `json:"max_reconnect_attempts"`
	ReconnectIntervalSeconds int    `json:"reconnect_interval_seconds"`
}

type Config struct {
	Database DatabaseConfig `json:"database"`
	Server   ServerConfig   `json:"server"`
	Archive  ArchiveConfig  `json:"archive"`
	Sync     SyncConfig     `json:"sync"`
	Session  SessionConfig  `json:"session"`
}

// LoadConfig reads the JSON configuration file.
func LoadConfig(filePath string) (*Config, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer file.Close()

	config := DefaultConfig()
	if err := json.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("decoding config file: %w", err)
	}

	return config, nil
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			User:     "root",
			Password: "password",
			DBName:   "whatsapp_history",
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Archive: ArchiveConfig{
			Root:        "data/backup",
			SessionDB:   "data/whatsmeow.db",
			NameCacheDB: "data/names.db",
		},
		Sync: SyncConfig{
			IncludeMedia:  true,
			IncludeGroups: false,
			ContactsFile:  "includeList.txt",
		},
		Session: SessionConfig{
			ReconnectIntervalSeconds: 2,
		},
	}
}

// GetDSN returns the MySQL connection string for the structured store.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}
