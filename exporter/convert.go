package exporter

import (
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/ricardojlrufino/whatsapp-history-exporter/models"
)

// FromEvent converts a whatsmeow message event into the envelope form the
// archive stores. The envelope keeps only the closed set of content kinds;
// anything else decodes as an unrecognized payload.
func FromEvent(evt *events.Message) *models.MessageEnvelope {
	return &models.MessageEnvelope{
		Key: models.MessageKey{
			RemoteJID: evt.Info.Chat.String(),
			FromMe:    evt.Info.IsFromMe,
			ID:        evt.Info.ID,
		},
		MessageTimestamp: evt.Info.Timestamp.Unix(),
		PushName:         evt.Info.PushName,
		Message:          contentFromProto(evt.Message),
	}
}

func contentFromProto(msg *waE2E.Message) *models.MessageContent {
	switch {
	case msg == nil:
		return nil
	case msg.GetConversation() != "":
		return &models.MessageContent{Conversation: msg.GetConversation()}
	case msg.GetExtendedTextMessage() != nil:
		return &models.MessageContent{ExtendedTextMessage: &models.ExtendedTextContent{
			Text: msg.GetExtendedTextMessage().GetText(),
		}}
	case msg.GetImageMessage() != nil:
		return &models.MessageContent{ImageMessage: &models.ImageContent{
			Caption:  msg.GetImageMessage().GetCaption(),
			Mimetype: msg.GetImageMessage().GetMimetype(),
		}}
	case msg.GetVideoMessage() != nil:
		return &models.MessageContent{VideoMessage: &models.VideoContent{
			Caption:  msg.GetVideoMessage().GetCaption(),
			Mimetype: msg.GetVideoMessage().GetMimetype(),
		}}
	case msg.GetAudioMessage() != nil:
		return &models.MessageContent{AudioMessage: &models.AudioContent{
			Mimetype: msg.GetAudioMessage().GetMimetype(),
			PTT:      msg.GetAudioMessage().GetPTT(),
		}}
	case msg.GetDocumentMessage() != nil:
		return &models.MessageContent{DocumentMessage: &models.DocumentContent{
			FileName: msg.GetDocumentMessage().GetFileName(),
			Mimetype: msg.GetDocumentMessage().GetMimetype(),
		}}
	case msg.GetStickerMessage() != nil:
		return &models.MessageContent{StickerMessage: &models.StickerContent{
			Mimetype: msg.GetStickerMessage().GetMimetype(),
		}}
	default:
		return nil
	}
}
