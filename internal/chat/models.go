package chat

import "errors"

var (
	ErrNotFound     = errors.New("message not found")
	ErrForbidden    = errors.New("not allowed")
	ErrInvalidInput = errors.New("invalid message")
)

const (
	StatusSent = "sent"
	StatusRead = "read"
)

// Message is one direct message between two users. Image holds a blob-store
// key when the message carries a picture. Deleted messages keep their row so
// conversations don't reflow; the body is blanked instead.
type Message struct {
	ID         string `json:"id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Body       string `json:"body,omitempty"`
	Image      string `json:"image,omitempty"`
	Status     string `json:"status"`
	Edited     bool   `json:"edited,omitempty"`
	Deleted    bool   `json:"deleted,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}
