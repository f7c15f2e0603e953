package engine

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"cloudtalk/internal/models"
)

// ResolveUser finds or creates the directory entry for a display name, used
// once at session start. Lookup is case-insensitive, so "Alice" and "alice"
// resolve to the same user. Requires the document to be loaded, or loadable.
func (e *Engine) ResolveUser(ctx context.Context, displayName string) (models.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return models.User{}, fmt.Errorf("display name is empty")
	}

	doc, ok := e.store.Current()
	if !ok {
		if err := e.Load(ctx); err != nil {
			return models.User{}, err
		}
		doc, _ = e.store.Current()
	}

	if user, found := doc.UserByName(displayName); found {
		return user, nil
	}

	created := newUser(displayName)
	err := e.Apply(ctx, func(doc models.Document) models.Document {
		// Re-check inside the transform; a concurrent resolve may have
		// appended the same name since our read.
		if _, found := doc.UserByName(displayName); found {
			return doc
		}
		doc.Users = append(doc.Users, created)
		return doc
	})
	if err != nil {
		return models.User{}, err
	}

	doc, _ = e.store.Current()
	user, found := doc.UserByName(displayName)
	if !found {
		return models.User{}, fmt.Errorf("user %q vanished after create", displayName)
	}
	return user, nil
}

func newUser(displayName string) models.User {
	handle := strings.ToLower(strings.Join(strings.Fields(displayName), "."))
	return models.User{
		UID:         uuid.NewString(),
		DisplayName: displayName,
		Email:       handle + "@cloudtalk.local",
		PhotoURL:    "https://api.dicebear.com/7.x/initials/svg?seed=" + url.QueryEscape(displayName),
	}
}
