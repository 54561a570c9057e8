package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	waLog "go.mau.fi/whatsmeow/util/log"

	"github.com/ricardojlrufino/whatsapp-history-exporter/models"
	"github.com/ricardojlrufino/whatsapp-history-exporter/utils"
)

// ChatsFileName is the archive-wide conversation metadata file. Each history
// batch overwrites it wholesale; last write wins.
const ChatsFileName = "conversations.json"

// Writer persists envelopes and their media under per-conversation
// directories. Writes are keyed by message identifier with overwrite
// semantics, so persisting the same message twice is idempotent.
type Writer struct {
	root string
	log  waLog.Logger
}

func NewWriter(root string, log waLog.Logger) *Writer {
	return &Writer{root: root, log: log}
}

// Root returns the archive root directory.
func (w *Writer) Root() string {
	return w.root
}

// ChatDir returns the conversation directory for a JID. Conversations are
// keyed by the part before the domain separator, as the migration engine
// expects.
func (w *Writer) ChatDir(jid string) string {
	id := jid
	if i := strings.Index(id, "@"); i >= 0 {
		id = id[:i]
	}
	return filepath.Join(w.root, utils.SanitizePathComponent(id))
}

// Persist writes the envelope under its message identifier and, when the
// policy allows it, the media payload next to it. A media failure is logged
// and swallowed; it never aborts the message write. The two writes are not
// coupled: a crash in between leaves a state that heals on retry because
// both files are keyed by the same identifier.
func (w *Writer) Persist(env *models.MessageEnvelope, fetch MediaFetch, policy models.SyncPolicy) error {
	dir := w.ChatDir(env.Key.RemoteJID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating chat directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing message %s: %w", env.Key.ID, err)
	}

	msgFile := filepath.Join(dir, env.Key.ID+".json")
	if err := os.WriteFile(msgFile, data, 0644); err != nil {
		return fmt.Errorf("writing message %s: %w", env.Key.ID, err)
	}
	w.log.Debugf("Message saved: %s", msgFile)

	if policy.IncludeMedia {
		w.persistMedia(dir, env, fetch)
	}

	return nil
}

func (w *Writer) persistMedia(dir string, env *models.MessageEnvelope, fetch MediaFetch) {
	blob, err := ExtractMedia(env, fetch)
	if err != nil {
		w.log.Warnf("Media download failed for %s: %v", env.Key.ID, err)
		return
	}
	if blob == nil {
		return
	}

	mediaFile := filepath.Join(dir, blob.FileName)
	if err := os.WriteFile(mediaFile, blob.Data, 0644); err != nil {
		w.log.Warnf("Failed to save media %s: %v", mediaFile, err)
		return
	}
	w.log.Debugf("Media saved: %s", mediaFile)
}

// SaveChats overwrites the conversation metadata file with the delivered
// batch. No merging with previous content is attempted.
func (w *Writer) SaveChats(chats []models.Chat) error {
	if err := os.MkdirAll(w.root, 0755); err != nil {
		return fmt.Errorf("creating archive root %s: %w", w.root, err)
	}

	data, err := json.MarshalIndent(chats, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing conversation metadata: %w", err)
	}

	chatsFile := filepath.Join(w.root, ChatsFileName)
	if err := os.WriteFile(chatsFile, data, 0644); err != nil {
		return fmt.Errorf("writing conversation metadata: %w", err)
	}
	w.log.Infof("Conversation metadata saved: %s (%d chats)", chatsFile, len(chats))

	return nil
}
