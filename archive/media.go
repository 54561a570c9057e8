package archive

import (
	"fmt"

	"github.com/ricardojlrufino/whatsapp-history-exporter/models"
)

// MediaFetch retrieves the binary payload of a media message from the
// protocol layer. The session layer binds one per incoming event.
type MediaFetch func(env *models.MessageEnvelope) ([]byte, error)

// MediaBlob is a downloaded payload tagged with its target file name.
type MediaBlob struct {
	FileName string
	Data     []byte
}

// mediaExtensions maps downloadable content kinds to archive file extensions.
// Stickers are media but are not downloaded.
var mediaExtensions = map[models.ContentKind]string{
	models.KindDocument: ".doc",
	models.KindImage:    ".jpg",
	models.KindVideo:    ".mp4",
	models.KindAudio:    ".ogg",
}

// ExtractMedia downloads the payload of a media envelope and names it after
// the message identifier. It returns nil for kinds that carry no
// downloadable payload, and an error when the fetch itself fails; the caller
// treats that error as recoverable.
func ExtractMedia(env *models.MessageEnvelope, fetch MediaFetch) (*MediaBlob, error) {
	ext, ok := mediaExtensions[env.Kind()]
	if !ok || fetch == nil {
		return nil, nil
	}

	data, err := fetch(env)
	if err != nil {
		return nil, fmt.Errorf("fetching media for %s: %w", env.Key.ID, err)
	}

	return &MediaBlob{FileName: env.Key.ID + ext, Data: data}, nil
}
