package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	waLog "go.mau.fi/whatsmeow/util/log"

	"github.com/ricardojlrufino/whatsapp-history-exporter/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("sqlite3", filepath.Join(t.TempDir(), "store.db"), waLog.Noop)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.InitSchema())
	return store
}

func record(id, chatID, text string) *models.Message {
	return &models.Message{
		MessageID: id,
		Timestamp: time.Date(2023, 11, 14, 19, 13, 20, 0, time.UTC),
		ChatID:    chatID,
		Type:      "conversation",
		Text:      text,
	}
}

func TestUpsertInsertsAndReplaces(t *testing.T) {
	store := testStore(t)

	tx, err := store.Begin()
	require.NoError(t, err)
	require.NoError(t, store.UpsertMessage(tx, record("M1", "5511999998765", "first")))
	require.NoError(t, store.UpsertMessage(tx, record("M1", "5511999998765", "second")))
	require.NoError(t, tx.Commit())

	count, err := store.CountMessages()
	require.NoError(t, err)
	assert.Equal(t, 1, count, "same message_id must not duplicate")

	msgs, err := store.LoadChatMessages("5511999998765")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "second", msgs[0].Text, "replace must keep the latest write")
}

func TestLoadChatMessagesOrdersByTimestamp(t *testing.T) {
	store := testStore(t)

	older := record("M1", "5511999998765", "older")
	older.Timestamp = older.Timestamp.Add(-time.Hour)
	newer := record("M2", "5511999998765", "newer")

	tx, err := store.Begin()
	require.NoError(t, err)
	require.NoError(t, store.UpsertMessage(tx, newer))
	require.NoError(t, store.UpsertMessage(tx, older))
	require.NoError(t, tx.Commit())

	msgs, err := store.LoadChatMessages("5511999998765")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "M1", msgs[0].MessageID)
	assert.Equal(t, "M2", msgs[1].MessageID)
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	store := testStore(t)
	assert.NoError(t, store.InitSchema())
}
