package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"

	"github.com/ricardojlrufino/whatsapp-history-exporter/models"
)

func messageEvent(t *testing.T, msg *waE2E.Message) *events.Message {
	t.Helper()
	chat, err := types.ParseJID("5511999998765@s.whatsapp.net")
	require.NoError(t, err)
	return &events.Message{
		Info: types.MessageInfo{
			MessageSource: types.MessageSource{Chat: chat, IsFromMe: true},
			ID:            "3EB0A9253",
			PushName:      "Ricardo",
			Timestamp:     time.Unix(1700000000, 0),
		},
		Message: msg,
	}
}

func TestFromEventConversation(t *testing.T) {
	env := FromEvent(messageEvent(t, &waE2E.Message{
		Conversation: proto.String("hello there"),
	}))

	assert.Equal(t, "3EB0A9253", env.Key.ID)
	assert.Equal(t, "5511999998765@s.whatsapp.net", env.Key.RemoteJID)
	assert.True(t, env.Key.FromMe)
	assert.Equal(t, int64(1700000000), env.MessageTimestamp)
	assert.Equal(t, "Ricardo", env.PushName)
	assert.Equal(t, models.KindConversation, env.Kind())
	assert.Equal(t, "hello there", env.Message.Conversation)
}

func TestFromEventExtendedText(t *testing.T) {
	env := FromEvent(messageEvent(t, &waE2E.Message{
		ExtendedTextMessage: &waE2E.ExtendedTextMessage{Text: proto.String("formatted")},
	}))

	assert.Equal(t, models.KindExtendedText, env.Kind())
	assert.Equal(t, "formatted", env.Message.ExtendedTextMessage.Text)
}

func TestFromEventImageWithCaption(t *testing.T) {
	env := FromEvent(messageEvent(t, &waE2E.Message{
		ImageMessage: &waE2E.ImageMessage{
			Caption:  proto.String("sunset"),
			Mimetype: proto.String("image/jpeg"),
		},
	}))

	assert.Equal(t, models.KindImage, env.Kind())
	assert.Equal(t, "sunset", env.Message.ImageMessage.Caption)
	assert.Equal(t, "image/jpeg", env.Message.ImageMessage.Mimetype)
}

func TestFromEventDocument(t *testing.T) {
	env := FromEvent(messageEvent(t, &waE2E.Message{
		DocumentMessage: &waE2E.DocumentMessage{
			FileName: proto.String("report.pdf"),
			Mimetype: proto.String("application/pdf"),
		},
	}))

	assert.Equal(t, models.KindDocument, env.Kind())
	assert.Equal(t, "report.pdf", env.Message.DocumentMessage.FileName)
}

func TestFromEventUnrecognizedContent(t *testing.T) {
	env := FromEvent(messageEvent(t, &waE2E.Message{
		ContactMessage: &waE2E.ContactMessage{DisplayName: proto.String("Someone")},
	}))

	assert.Equal(t, models.KindUnknown, env.Kind())
	assert.Nil(t, env.Message)
}

func TestFromEventNilMessage(t *testing.T) {
	env := FromEvent(messageEvent(t, nil))
	assert.Equal(t, models.KindUnknown, env.Kind())
}
