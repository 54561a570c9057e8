package migrate

import (
	"strings"
	"time"

	"github.com/ricardojlrufino/whatsapp-history-exporter/models"
)

// timestampOffset corrects protocol timestamps to the target timezone
// (UTC-3). The offset is fixed, not DST-aware.
const timestampOffset = -3 * time.Hour

// Normalize decodes an archived envelope into its canonical record. The
// record type is the content-kind key with the generic "Message" suffix
// stripped; text is derived per kind.
func Normalize(chatID string, env *models.MessageEnvelope) *models.Message {
	kind := env.Kind()

	var text string
	switch kind {
	case models.KindConversation:
		text = env.Message.Conversation
	case models.KindExtendedText:
		text = env.Message.ExtendedTextMessage.Text
	case models.KindImage:
		text = "[imagem] " + env.Message.ImageMessage.Caption
	case models.KindVideo:
		text = "[video] " + env.Message.VideoMessage.Caption
	case models.KindAudio:
		text = "[audio]"
	case models.KindDocument:
		text = "[document] " + env.Message.DocumentMessage.FileName
	case models.KindSticker, models.KindUnknown:
		// no text representation
	}

	return &models.Message{
		MessageID: env.Key.ID,
		Timestamp: time.Unix(env.MessageTimestamp, 0).UTC().Add(timestampOffset),
		ChatID:    chatID,
		FromMe:    env.Key.FromMe,
		Type:      strings.TrimSuffix(kind.String(), "Message"),
		Text:      text,
		HasMedia:  kind.HasMedia(),
	}
}
