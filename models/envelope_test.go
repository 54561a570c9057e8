package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentKindDispatch(t *testing.T) {
	tests := []struct {
		name    string
		content *MessageContent
		want    ContentKind
	}{
		{"nil content", nil, KindUnknown},
		{"empty content", &MessageContent{}, KindUnknown},
		{"conversation", &MessageContent{Conversation: "hi"}, KindConversation},
		{"extended text", &MessageContent{ExtendedTextMessage: &ExtendedTextContent{Text: "hi"}}, KindExtendedText},
		{"image", &MessageContent{ImageMessage: &ImageContent{}}, KindImage},
		{"video", &MessageContent{VideoMessage: &VideoContent{}}, KindVideo},
		{"audio", &MessageContent{AudioMessage: &AudioContent{}}, KindAudio},
		{"document", &MessageContent{DocumentMessage: &DocumentContent{}}, KindDocument},
		{"sticker", &MessageContent{StickerMessage: &StickerContent{}}, KindSticker},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.content.Kind())
		})
	}
}

func TestContentKindHasMedia(t *testing.T) {
	assert.False(t, KindConversation.HasMedia())
	assert.False(t, KindExtendedText.HasMedia())
	assert.False(t, KindUnknown.HasMedia())
	assert.True(t, KindImage.HasMedia())
	assert.True(t, KindVideo.HasMedia())
	assert.True(t, KindAudio.HasMedia())
	assert.True(t, KindDocument.HasMedia())
	assert.True(t, KindSticker.HasMedia())
}

func TestEnvelopeDecodesArchivedForm(t *testing.T) {
	raw := `{
		"key": {"remoteJid": "5511999998765@s.whatsapp.net", "fromMe": false, "id": "3EB0A9253"},
		"messageTimestamp": 1700000000,
		"pushName": "Ricardo",
		"message": {"documentMessage": {"fileName": "report.pdf", "mimetype": "application/pdf"}}
	}`

	var env MessageEnvelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))

	assert.Equal(t, "3EB0A9253", env.Key.ID)
	assert.Equal(t, "5511999998765@s.whatsapp.net", env.Key.RemoteJID)
	assert.False(t, env.Key.FromMe)
	assert.Equal(t, int64(1700000000), env.MessageTimestamp)
	assert.Equal(t, KindDocument, env.Kind())
	assert.Equal(t, "report.pdf", env.Message.DocumentMessage.FileName)
}
