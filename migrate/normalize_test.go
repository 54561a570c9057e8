package migrate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ricardojlrufino/whatsapp-history-exporter/models"
)

func archivedEnvelope(content *models.MessageContent) *models.MessageEnvelope {
	return &models.MessageEnvelope{
		Key:              models.MessageKey{RemoteJID: "5511999998765@s.whatsapp.net", FromMe: true, ID: "MSG1"},
		MessageTimestamp: 1700000000,
		Message:          content,
	}
}

func TestNormalizeCorrectsTimestamp(t *testing.T) {
	rec := Normalize("5511999998765", archivedEnvelope(&models.MessageContent{Conversation: "hi"}))

	direct := time.Unix(1700000000, 0).UTC()
	assert.Equal(t, direct.Add(-3*time.Hour), rec.Timestamp)
}

func TestNormalizeContentDispatch(t *testing.T) {
	tests := []struct {
		name      string
		content   *models.MessageContent
		wantType  string
		wantText  string
		wantMedia bool
	}{
		{
			"conversation",
			&models.MessageContent{Conversation: "plain text"},
			"conversation", "plain text", false,
		},
		{
			"extended text",
			&models.MessageContent{ExtendedTextMessage: &models.ExtendedTextContent{Text: "with link"}},
			"extendedText", "with link", false,
		},
		{
			"image with caption",
			&models.MessageContent{ImageMessage: &models.ImageContent{Caption: "sunset"}},
			"image", "[imagem] sunset", true,
		},
		{
			"image without caption",
			&models.MessageContent{ImageMessage: &models.ImageContent{}},
			"image", "[imagem] ", true,
		},
		{
			"video",
			&models.MessageContent{VideoMessage: &models.VideoContent{Caption: "clip"}},
			"video", "[video] clip", true,
		},
		{
			"audio",
			&models.MessageContent{AudioMessage: &models.AudioContent{}},
			"audio", "[audio]", true,
		},
		{
			"document",
			&models.MessageContent{DocumentMessage: &models.DocumentContent{FileName: "report.pdf"}},
			"document", "[document] report.pdf", true,
		},
		{
			"sticker",
			&models.MessageContent{StickerMessage: &models.StickerContent{}},
			"sticker", "", true,
		},
		{
			"unrecognized",
			nil,
			"unknown", "", false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Normalize("5511999998765", archivedEnvelope(tt.content))
			assert.Equal(t, tt.wantType, rec.Type)
			assert.Equal(t, tt.wantText, rec.Text)
			assert.Equal(t, tt.wantMedia, rec.HasMedia)
		})
	}
}

func TestNormalizeCopiesIdentity(t *testing.T) {
	rec := Normalize("5511999998765", archivedEnvelope(&models.MessageContent{Conversation: "hi"}))

	assert.Equal(t, "MSG1", rec.MessageID)
	assert.Equal(t, "5511999998765", rec.ChatID)
	assert.True(t, rec.FromMe)
}
