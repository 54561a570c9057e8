package migrate

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	waLog "go.mau.fi/whatsmeow/util/log"

	"github.com/ricardojlrufino/whatsapp-history-exporter/db"
	"github.com/ricardojlrufino/whatsapp-history-exporter/models"
)

// ErrArchiveNotFound is returned when the archive root does not exist.
var ErrArchiveNotFound = errors.New("archive directory not found")

// ChatStats summarizes one migrated conversation.
type ChatStats struct {
	Processed int
}

// ProgressFunc reports per-conversation progress during a migration run.
type ProgressFunc func(chatID string, processed int)

// Migrator walks the archive and merges every stored envelope into the
// structured store.
type Migrator struct {
	store *db.Store
	log   waLog.Logger
}

func New(store *db.Store, log waLog.Logger) *Migrator {
	return &Migrator{store: store, log: log}
}

// MigrateAll migrates every conversation directory under root. Each envelope
// file is read, normalized and upserted keyed by its message identifier, so
// repeated runs never duplicate records. Unreadable or malformed files are
// logged and skipped without aborting the run.
//
// The walk runs inside a single transaction, but the transaction scopes the
// connection rather than providing all-or-nothing semantics: skipped files
// are simply absent from the commit. The store connection is closed on every
// exit path.
func (m *Migrator) MigrateAll(root string, onProgress ProgressFunc) (map[string]ChatStats, error) {
	defer m.store.Close()

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrArchiveNotFound, root)
	}

	tx, err := m.store.Begin()
	if err != nil {
		return nil, fmt.Errorf("opening transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading archive root: %w", err)
	}

	stats := make(map[string]ChatStats)
	for _, entry := range entries {
		// Plain files at the root (conversation metadata) are not chats.
		if !entry.IsDir() {
			continue
		}
		chatID := entry.Name()
		m.log.Infof("Processing chat: %s", chatID)

		processed := m.migrateChat(tx, chatID, filepath.Join(root, chatID))
		stats[chatID] = ChatStats{Processed: processed}
		if onProgress != nil {
			onProgress(chatID, processed)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing migration: %w", err)
	}
	committed = true

	return stats, nil
}

// migrateChat processes every envelope file of one conversation. Failures
// are contained at file granularity.
func (m *Migrator) migrateChat(tx *sql.Tx, chatID, dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		m.log.Errorf("Cannot read chat directory %s: %v", dir, err)
		return 0
	}

	processed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		env, err := readEnvelope(path)
		if err != nil {
			m.log.Warnf("Skipping %s: %v", path, err)
			continue
		}

		if err := m.store.UpsertMessage(tx, Normalize(chatID, env)); err != nil {
			m.log.Warnf("Skipping %s: %v", path, err)
			continue
		}
		processed++
	}

	return processed
}

func readEnvelope(path string) (*models.MessageEnvelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading envelope: %w", err)
	}

	var env models.MessageEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parsing envelope: %w", err)
	}
	return &env, nil
}
