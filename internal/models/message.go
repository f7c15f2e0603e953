package models

import (
	"strconv"
	"time"
)

// Message is an immutable entry in a chat. Text is opaque to the engine; it
// may be ciphertext that a display layer decrypts.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	SenderID  string    `json:"senderId"`
	Timestamp time.Time `json:"timestamp"`
	ImageURL  string    `json:"imageUrl,omitempty"`
}

// DisplayText returns the message text, or the "Image" placeholder for
// image-only messages.
func (m Message) DisplayText() string {
	if m.Text == "" && m.ImageURL != "" {
		return "Image"
	}
	return m.Text
}

// NextMessageID derives a creation-time token that is strictly greater than
// the id of the chat's current tail. IDs only need to be unique and
// increasing within one chat, not globally.
func (c Chat) NextMessageID(at time.Time) string {
	id := at.UnixNano()
	if n := len(c.Messages); n > 0 {
		if prev, err := strconv.ParseInt(c.Messages[n-1].ID, 10, 64); err == nil && prev >= id {
			id = prev + 1
		}
	}
	return strconv.FormatInt(id, 10)
}
