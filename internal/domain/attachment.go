package domain

import (
	"errors"
	"fmt"
	"strings"
)

// MaxAttachmentBytes caps the size of one chat attachment.
const MaxAttachmentBytes = 4 << 20

// ErrUnsupportedAttachment reports an attachment that is not an image or PDF,
// is empty, or is too large.
var ErrUnsupportedAttachment = errors.New("unsupported attachment")

// Attachment is a file sent inline with a chat message.
type Attachment struct {
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// Validate accepts images and PDFs up to MaxAttachmentBytes.
func (a Attachment) Validate() error {
	mime := strings.ToLower(strings.TrimSpace(a.MIMEType))
	if !strings.HasPrefix(mime, "image/") && mime != "application/pdf" {
		return fmt.Errorf("%w: type %q", ErrUnsupportedAttachment, a.MIMEType)
	}
	if len(a.Data) == 0 {
		return fmt.Errorf("%w: empty file", ErrUnsupportedAttachment)
	}
	if len(a.Data) > MaxAttachmentBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrUnsupportedAttachment, len(a.Data), MaxAttachmentBytes)
	}
	return nil
}
