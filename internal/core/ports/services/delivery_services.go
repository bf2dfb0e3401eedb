package services

import (
	"context"
	"io"
)

// Attachment is one file carried by an outgoing email.
type Attachment struct {
	Filename string
	MimeType string
	Content  io.Reader
}

// Deliverer sends email on behalf of the application. Implementations depend
// on an external relay, so callers bound each Send with a context timeout.
// The transport is constructor-injected; there is no package-level client.
type Deliverer interface {
	Send(ctx context.Context, to string, subject string, htmlBody string, attachments []Attachment) error
}
