package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"cloudtalk/internal/models"
)

var (
	ErrChatNotFound   = errors.New("chat not found")
	ErrNotParticipant = errors.New("not a chat participant")
	ErrSelfChat       = errors.New("cannot chat with yourself")
	ErrEmptyMessage   = errors.New("message has no text or image")
)

// StartChat finds or creates the chat for an unordered pair of users.
// Uniqueness per pair is best-effort: the transform re-checks against the
// store's latest snapshot, which dedupes sequential local calls, but two
// concurrent creates from different processes remain last-writer-wins.
func (e *Engine) StartChat(ctx context.Context, uid, otherUID string) (models.Chat, error) {
	if uid == otherUID {
		return models.Chat{}, ErrSelfChat
	}

	doc, ok := e.store.Current()
	if !ok {
		return models.Chat{}, ErrNotLoaded
	}
	if chat, found := doc.ChatBetween(uid, otherUID); found {
		return chat, nil
	}

	created := models.Chat{
		ID:           uuid.NewString(),
		Users:        []string{uid, otherUID},
		Messages:     []models.Message{},
		UnreadCounts: map[string]int{},
		CreatedAt:    time.Now().UTC(),
	}
	err := e.Apply(ctx, func(doc models.Document) models.Document {
		if _, found := doc.ChatBetween(uid, otherUID); found {
			return doc
		}
		doc.Chats = append(doc.Chats, created)
		return doc
	})
	if err != nil {
		return models.Chat{}, err
	}

	doc, _ = e.store.Current()
	chat, found := doc.ChatBetween(uid, otherUID)
	if !found {
		return models.Chat{}, ErrChatNotFound
	}
	return chat, nil
}

// SendMessage appends a message to a chat, refreshes the lastMessage cache
// and bumps the other participant's unread counter.
func (e *Engine) SendMessage(ctx context.Context, chatID, senderID, text, imageURL string) (models.Message, error) {
	if text == "" && imageURL == "" {
		return models.Message{}, ErrEmptyMessage
	}

	doc, ok := e.store.Current()
	if !ok {
		return models.Message{}, ErrNotLoaded
	}
	chat, found := doc.ChatByID(chatID)
	if !found {
		return models.Message{}, ErrChatNotFound
	}
	if !chat.HasParticipant(senderID) {
		return models.Message{}, ErrNotParticipant
	}

	now := time.Now().UTC()
	msg := models.Message{
		ID:        chat.NextMessageID(now),
		Text:      text,
		SenderID:  senderID,
		Timestamp: now,
		ImageURL:  imageURL,
	}

	err := e.Apply(ctx, func(doc models.Document) models.Document {
		for i := range doc.Chats {
			if doc.Chats[i].ID != chatID {
				continue
			}
			c := &doc.Chats[i]
			c.Messages = append(c.Messages, msg)
			c.LastMessage = &models.LastMessage{Text: msg.DisplayText(), Timestamp: msg.Timestamp}
			if c.UnreadCounts == nil {
				c.UnreadCounts = map[string]int{}
			}
			if other := c.OtherParticipant(senderID); other != "" {
				c.UnreadCounts[other]++
			}
			break
		}
		return doc
	})
	if err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// MarkChatRead zeroes uid's unread counter, as happens when the chat is
// opened.
func (e *Engine) MarkChatRead(ctx context.Context, chatID, uid string) error {
	doc, ok := e.store.Current()
	if !ok {
		return ErrNotLoaded
	}
	chat, found := doc.ChatByID(chatID)
	if !found {
		return ErrChatNotFound
	}
	if !chat.HasParticipant(uid) {
		return ErrNotParticipant
	}
	if chat.Unread(uid) == 0 {
		return nil
	}

	return e.Apply(ctx, func(doc models.Document) models.Document {
		for i := range doc.Chats {
			if doc.Chats[i].ID == chatID && doc.Chats[i].UnreadCounts != nil {
				doc.Chats[i].UnreadCounts[uid] = 0
			}
		}
		return doc
	})
}
