package model

import (
	"context"
	"errors"
	"time"
)

// Message is one incoming chat message observed during a continuation window.
type Message struct {
	ID      string
	ReplyTo string // platform id of the message this one replies to, empty when not a reply
	Text    string
}

// Attachment is a single binary input accompanying a prompt (image or audio).
type Attachment struct {
	Data     []byte
	MIMEType string
}

var (
	// ErrNoReply signals a wait attempt that produced no usable message.
	// The engine treats it as recoverable and retries within its budget.
	ErrNoReply = errors.New("transport: no reply received")
	// ErrWaitTimeout signals the per-attempt timeout elapsed.
	ErrWaitTimeout = errors.New("transport: wait timed out")
	// ErrStopped signals the transport explicitly ended the window.
	ErrStopped = errors.New("transport: conversation stopped")
)

// Messenger delivers outgoing messages. Every sent message reports its
// platform message id, which continuation uses as the reply anchor.
type Messenger interface {
	SendText(ctx context.Context, text string) (string, error)
	SendImage(ctx context.Context, data []byte, mimeType string) (string, error)
}

// ReplyWaiter is the transport's reply-wait primitive: one bounded attempt to
// observe the next incoming message.
type ReplyWaiter interface {
	Wait(ctx context.Context, timeout time.Duration) (*Message, error)
}

// Renderer turns model text into image artifacts: markdown rendering for
// long-form output, plain text for diagnostics.
type Renderer interface {
	MarkdownToImage(ctx context.Context, md string, width int) ([]byte, error)
	TextToImage(ctx context.Context, text string) ([]byte, error)
}
