package models

import "strings"

// Document is the root object synchronized with the remote store. The whole
// thing travels as one JSON blob on every fetch and put.
type Document struct {
	Users []User `json:"users"`
	Chats []Chat `json:"chats"`
}

// User is a directory entry created once at first login.
type User struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
}

// EmptyDocument returns a document with non-nil slices so it serializes as
// {"users":[],"chats":[]} rather than nulls.
func EmptyDocument() Document {
	return Document{Users: []User{}, Chats: []Chat{}}
}

// Clone returns a structurally independent deep copy. Snapshots handed to
// diffing or to transforms must never alias the stored document.
func (d Document) Clone() Document {
	out := Document{
		Users: make([]User, len(d.Users)),
		Chats: make([]Chat, len(d.Chats)),
	}
	copy(out.Users, d.Users)
	for i, chat := range d.Chats {
		out.Chats[i] = chat.clone()
	}
	return out
}

// UserByUID looks up a user in the directory.
func (d Document) UserByUID(uid string) (User, bool) {
	for _, u := range d.Users {
		if u.UID == uid {
			return u, true
		}
	}
	return User{}, false
}

// UserByName looks up a user by display name, case-insensitively.
func (d Document) UserByName(displayName string) (User, bool) {
	for _, u := range d.Users {
		if strings.EqualFold(u.DisplayName, displayName) {
			return u, true
		}
	}
	return User{}, false
}

// ChatByID looks up a chat by id.
func (d Document) ChatByID(id string) (Chat, bool) {
	for _, c := range d.Chats {
		if c.ID == id {
			return c, true
		}
	}
	return Chat{}, false
}

// ChatBetween finds the chat for an unordered pair of participants.
func (d Document) ChatBetween(uidA, uidB string) (Chat, bool) {
	for _, c := range d.Chats {
		if c.HasParticipant(uidA) && c.HasParticipant(uidB) {
			return c, true
		}
	}
	return Chat{}, false
}
