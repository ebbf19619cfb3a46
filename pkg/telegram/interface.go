// Package telegram defines the subset of the Telegram Bot API used by the
// cleaning bot: long polling for updates, sending replies and downloading
// user supplied documents.
package telegram

import (
	"context"
	"time"
)

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// User is the sender of a message.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
}

// Document is a file attached to a message.
type Document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}

// Message is an incoming chat message. Only one of Text or Document is usually set.
type Message struct {
	ID       int64     `json:"message_id"`
	Chat     Chat      `json:"chat"`
	From     *User     `json:"from,omitempty"`
	Text     string    `json:"text,omitempty"`
	Caption  string    `json:"caption,omitempty"`
	Document *Document `json:"document,omitempty"`
}

// Update is a single event returned by getUpdates.
type Update struct {
	ID      int64    `json:"update_id"`
	Message *Message `json:"message,omitempty"`
}

// Upload is an outgoing document.
type Upload struct {
	Name    string // Name is the file name shown to the user.
	Data    []byte // Data is the file content.
	Caption string // Caption is an optional text shown below the document.
}

// Client is the abstraction over the Bot API.
//
//go:generate mockgen -package mocktelegram -source=interface.go -destination=mock/mocktelegram.go *
type Client interface {
	// Updates long polls for updates with an ID of at least offset, waiting up to timeout.
	Updates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error)
	// SendMessage sends a plain text message to the chat.
	SendMessage(ctx context.Context, chatID int64, text string) error
	// SendDocument uploads a document to the chat.
	SendDocument(ctx context.Context, chatID int64, doc Upload) error
	// File downloads the content of a file, failing with ErrTooLarge above limit bytes.
	File(ctx context.Context, fileID string, limit int64) ([]byte, error)
}
