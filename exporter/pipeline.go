package exporter

import (
	waLog "go.mau.fi/whatsmeow/util/log"

	"github.com/ricardojlrufino/whatsapp-history-exporter/archive"
	"github.com/ricardojlrufino/whatsapp-history-exporter/models"
)

// Incoming pairs an envelope with the media fetch hook bound to its source
// protocol event.
type Incoming struct {
	Envelope *models.MessageEnvelope
	Fetch    archive.MediaFetch
}

// Pipeline funnels protocol events through the filter into the archive
// writer. Batches are processed in delivery order; deduplication is left to
// the identifier-keyed writes.
type Pipeline struct {
	Writer *archive.Writer
	Policy models.SyncPolicy
	Log    waLog.Logger

	// Notify, when set, is called after every successful archive write.
	Notify func(env *models.MessageEnvelope)
}

// HandleHistoryBatch processes one bulk history delivery: every envelope is
// filtered against the policy, survivors are persisted, and the conversation
// metadata batch overwrites the archive-wide metadata file. When the policy
// caps messages per batch, the remainder of the batch is skipped once the
// cap is hit.
func (p *Pipeline) HandleHistoryBatch(batch []Incoming, chats []models.Chat) {
	p.Log.Infof("Received history of %d messages and %d chats", len(batch), len(chats))

	kept := 0
	for _, in := range batch {
		if p.Policy.MaxMessages > 0 && kept >= p.Policy.MaxMessages {
			p.Log.Infof("Message limit of %d reached, skipping the rest of the batch", p.Policy.MaxMessages)
			break
		}
		if !ShouldKeep(in.Envelope, p.Policy, p.Log) {
			continue
		}
		if failed := p.persist(in); failed {
			continue
		}
		kept++
	}

	if err := p.Writer.SaveChats(chats); err != nil {
		p.Log.Errorf("Failed to save conversation metadata: %v", err)
	}
}

// HandleLiveBatch persists newly arrived messages. Live messages bypass the
// sync policy; only the presence of a conversation identifier is checked.
func (p *Pipeline) HandleLiveBatch(batch []Incoming) {
	for _, in := range batch {
		if in.Envelope.Key.RemoteJID == "" {
			continue
		}
		p.persist(in)
	}
}

// persist writes one message, reporting failure as a contained, per-message
// error. It returns true when the write failed.
func (p *Pipeline) persist(in Incoming) bool {
	if err := p.Writer.Persist(in.Envelope, in.Fetch, p.Policy); err != nil {
		p.Log.Errorf("Failed to archive message %s: %v", in.Envelope.Key.ID, err)
		return true
	}
	if p.Notify != nil {
		p.Notify(in.Envelope)
	}
	return false
}
