package models

import (
	"sort"
	"time"
)

// Chat is a private conversation between exactly two users.
type Chat struct {
	ID           string         `json:"id"`
	Users        []string       `json:"users"`
	Messages     []Message      `json:"messages"`
	LastMessage  *LastMessage   `json:"lastMessage,omitempty"`
	UnreadCounts map[string]int `json:"unreadCounts,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// LastMessage is a derived cache of the tail of Messages, kept consistent by
// every mutation that appends a message.
type LastMessage struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// HasParticipant reports whether uid is one of the two chat members.
func (c Chat) HasParticipant(uid string) bool {
	for _, u := range c.Users {
		if u == uid {
			return true
		}
	}
	return false
}

// OtherParticipant returns the member that is not uid. Empty string when uid
// is not a participant.
func (c Chat) OtherParticipant(uid string) string {
	if !c.HasParticipant(uid) {
		return ""
	}
	for _, u := range c.Users {
		if u != uid {
			return u
		}
	}
	return ""
}

// Unread returns the unread counter for uid, zero when absent.
func (c Chat) Unread(uid string) int {
	return c.UnreadCounts[uid]
}

// SortedMessages returns the messages in chronological order. The stored
// order is not guaranteed, so consumers sort before display.
func (c Chat) SortedMessages() []Message {
	msgs := make([]Message, len(c.Messages))
	copy(msgs, c.Messages)
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	return msgs
}

func (c Chat) clone() Chat {
	out := c
	out.Users = make([]string, len(c.Users))
	copy(out.Users, c.Users)
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	if c.LastMessage != nil {
		last := *c.LastMessage
		out.LastMessage = &last
	}
	if c.UnreadCounts != nil {
		out.UnreadCounts = make(map[string]int, len(c.UnreadCounts))
		for uid, n := range c.UnreadCounts {
			out.UnreadCounts[uid] = n
		}
	}
	return out
}
