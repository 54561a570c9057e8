package models

// ContentKind identifies the single payload carried by a message envelope.
// The set is closed; envelopes carrying anything else decode as KindUnknown.
type ContentKind int

const (
	KindUnknown ContentKind = iota
	KindConversation
	KindExtendedText
	KindImage
	KindVideo
	KindAudio
	KindDocument
	KindSticker
)

// String returns the wire key of the content kind, as it appears in the
// archived JSON envelope.
func (k ContentKind) String() string {
	switch k {
	case KindConversation:
		return "conversation"
	case KindExtendedText:
		return "extendedTextMessage"
	case KindImage:
		return "imageMessage"
	case KindVideo:
		return "videoMessage"
	case KindAudio:
		return "audioMessage"
	case KindDocument:
		return "documentMessage"
	case KindSticker:
		return "stickerMessage"
	default:
		return "unknown"
	}
}

// HasMedia reports whether the kind carries a binary payload.
func (k ContentKind) HasMedia() bool {
	switch k {
	case KindImage, KindVideo, KindAudio, KindDocument, KindSticker:
		return true
	}
	return false
}

// MessageKey identifies a message within a conversation.
type MessageKey struct {
	RemoteJID string `json:"remoteJid"`
	FromMe    bool   `json:"fromMe"`
	ID        string `json:"id"`
}

type ExtendedTextContent struct {
	Text string `json:"text,omitempty"`
}

type ImageContent struct {
	Caption  string `json:"caption,omitempty"`
	Mimetype string `json:"mimetype,omitempty"`
}

type VideoContent struct {
	Caption  string `json:"caption,omitempty"`
	Mimetype string `json:"mimetype,omitempty"`
}

type AudioContent struct {
	Mimetype string `json:"mimetype,omitempty"`
	PTT      bool   `json:"ptt,omitempty"`
}

type DocumentContent struct {
	FileName string `json:"fileName,omitempty"`
	Mimetype string `json:"mimetype,omitempty"`
}

type StickerContent struct {
	Mimetype string `json:"mimetype,omitempty"`
}

// MessageContent is the union of payload kinds. A well-formed envelope has
// exactly one field set; Kind resolves the first one in wire order.
type MessageContent struct {
	Conversation        string               `json:"conversation,omitempty"`
	ExtendedTextMessage *ExtendedTextContent `json:"extendedTextMessage,omitempty"`
	ImageMessage        *ImageContent        `json:"imageMessage,omitempty"`
	VideoMessage        *VideoContent        `json:"videoMessage,omitempty"`
	AudioMessage        *AudioContent        `json:"audioMessage,omitempty"`
	DocumentMessage     *DocumentContent     `json:"documentMessage,omitempty"`
	StickerMessage      *StickerContent      `json:"stickerMessage,omitempty"`
}

// Kind returns the content kind of the payload.
func (c *MessageContent) Kind() ContentKind {
	switch {
	case c == nil:
		return KindUnknown
	case c.Conversation != "":
		return KindConversation
	case c.ExtendedTextMessage != nil:
		return KindExtendedText
	case c.ImageMessage != nil:
		return KindImage
	case c.VideoMessage != nil:
		return KindVideo
	case c.AudioMessage != nil:
		return KindAudio
	case c.DocumentMessage != nil:
		return KindDocument
	case c.StickerMessage != nil:
		return KindSticker
	default:
		return KindUnknown
	}
}

// MessageEnvelope is one raw protocol message as delivered by the messaging
// layer. It is immutable after construction: the pipeline only reads it and
// serializes it into the archive.
type MessageEnvelope struct {
	Key              MessageKey      `json:"key"`
	MessageTimestamp int64           `json:"messageTimestamp"`
	PushName         string          `json:"pushName,omitempty"`
	Message          *MessageContent `json:"message,omitempty"`
}

// Kind returns the content kind of the envelope payload.
func (m *MessageEnvelope) Kind() ContentKind {
	return m.Message.Kind()
}
