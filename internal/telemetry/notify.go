package telemetry

import (
	"context"
	"log"
	"time"

	"cloudtalk/internal/events"
)

// Publisher publishes notification events.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// NotificationEmitter mirrors engine notifications onto the event bus so
// other consumers (push relays, analytics) can react to them.
type NotificationEmitter struct {
	publisher   Publisher
	routingKey  string
	service     string
	environment string
}

// NotificationEnvelope is the versioned wire form of a notification event.
type NotificationEnvelope struct {
	SchemaVersion int                 `json:"schema_version"`
	EventType     string              `json:"event_type"`
	OccurredAt    string              `json:"occurred_at"`
	Service       string              `json:"service"`
	Environment   string              `json:"environment"`
	UserID        string              `json:"user_id"`
	Payload       NotificationPayload `json:"payload"`
}

type NotificationPayload struct {
	Kind     string `json:"kind"`
	ChatID   string `json:"chat_id"`
	FromUID  string `json:"from_uid"`
	FromName string `json:"from_name"`
	Text     string `json:"text,omitempty"`
}

// NewNotificationEmitter builds an emitter.
func NewNotificationEmitter(publisher Publisher, routingKey, service, environment string) *NotificationEmitter {
	return &NotificationEmitter{
		publisher:   publisher,
		routingKey:  routingKey,
		service:     service,
		environment: environment,
	}
}

// Emit publishes one notification on behalf of userID. Publish failures are
// logged; notification delivery is best-effort by design.
func (e *NotificationEmitter) Emit(ctx context.Context, userID string, n events.Notification) {
	if e == nil || e.publisher == nil {
		return
	}

	envelope := NotificationEnvelope{
		SchemaVersion: 1,
		EventType:     "chat_notification",
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		UserID:        userID,
		Payload: NotificationPayload{
			Kind:     string(n.Kind),
			ChatID:   n.ChatID,
			FromUID:  n.FromUID,
			FromName: n.FromName,
			Text:     n.Text,
		},
	}

	if err := e.publisher.Publish(ctx, e.routingKey, envelope); err != nil {
		log.Printf("notification publish failed: %v", err)
	}
}
