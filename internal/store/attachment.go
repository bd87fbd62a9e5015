package store

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/balkashynov/dotask/internal/models"
)

// DefaultMaxAttachmentSize is the largest file accepted as an attachment
const DefaultMaxAttachmentSize int64 = 2 << 20

var ErrAttachmentTooLarge = errors.New("attachment is too large")

// NewFileAttachment embeds data as a data URI. Files over limit are rejected
// with ErrAttachmentTooLarge and nothing is attached.
func NewFileAttachment(name string, data []byte, limit int64) (models.Attachment, error) {
	size := int64(len(data))
	if err := CheckAttachmentSize(name, size, limit); err != nil {
		return models.Attachment{}, err
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	return models.Attachment{
		Name:     filepath.Base(name),
		Kind:     models.AttachmentFile,
		URL:      "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
		Size:     size,
	}, nil
}

// CheckAttachmentSize returns ErrAttachmentTooLarge when size exceeds limit.
// A non-positive limit means DefaultMaxAttachmentSize.
func CheckAttachmentSize(name string, size, limit int64) error {
	if limit <= 0 {
		limit = DefaultMaxAttachmentSize
	}
	if size > limit {
		return fmt.Errorf("%w: %s is %s, the limit is %s",
			ErrAttachmentTooLarge, name, humanSize(size), humanSize(limit))
	}
	return nil
}

// NewLinkAttachment wraps a URL. The name defaults to the URL itself.
func NewLinkAttachment(name, url string) models.Attachment {
	if strings.TrimSpace(name) == "" {
		name = url
	}
	return models.Attachment{
		Name: name,
		Kind: models.AttachmentLink,
		URL:  url,
	}
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
