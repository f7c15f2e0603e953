package engine

import (
	"cloudtalk/internal/events"
	"cloudtalk/internal/models"
)

// diff compares the previous snapshot against a freshly fetched document and
// produces the notifications worth surfacing to currentUID. Comparison is by
// chat id and unread counter only, never a deep content diff. Changes the
// local session authored are already present in previous (the optimistic
// write landed there first), so they produce nothing here.
func diff(previous, fresh models.Document, currentUID, openChatID string) []events.Notification {
	var out []events.Notification

	for _, chat := range fresh.Chats {
		if !chat.HasParticipant(currentUID) {
			continue
		}

		prevChat, existed := previous.ChatByID(chat.ID)
		if !existed {
			other := chat.OtherParticipant(currentUID)
			out = append(out, events.Notification{
				Kind:     events.KindNewChat,
				ChatID:   chat.ID,
				FromUID:  other,
				FromName: displayName(fresh, other),
			})
			continue
		}

		if chat.Unread(currentUID) <= prevChat.Unread(currentUID) {
			continue
		}
		if chat.ID == openChatID {
			continue
		}

		msgs := chat.SortedMessages()
		if len(msgs) == 0 {
			continue
		}
		last := msgs[len(msgs)-1]
		if last.SenderID == currentUID {
			continue
		}

		out = append(out, events.Notification{
			Kind:     events.KindNewMessage,
			ChatID:   chat.ID,
			FromUID:  last.SenderID,
			FromName: displayName(fresh, last.SenderID),
			Text:     last.DisplayText(),
		})
	}

	return out
}

func displayName(doc models.Document, uid string) string {
	if u, ok := doc.UserByUID(uid); ok {
		return u.DisplayName
	}
	return "Unknown User"
}
