package stream

import (
	"Petrel/internal/model"
	"Petrel/internal/pkg/redis"
	"context"
	log "log/slog"

	"github.com/goccy/go-json"
)

// Events ride the redis pub/sub bus; each websocket connection subscribes to
// the channels of the timelines it watches.

const (
	userChannelPrefix = "stream:user:"
	LocalChannel      = "stream:local"
)

const (
	EventNote        = "note"
	EventNoteUpdated = "noteUpdated"
	EventNoteDeleted = "noteDeleted"
)

type Event struct {
	Type string      `json:"type"`
	Body interface{} `json:"body"`
}

func UserChannel(userID string) string {
	return userChannelPrefix + userID
}

func publish(ctx context.Context, channel string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.ErrorContext(ctx, "marshal stream event failed", "type", event.Type, "err", err)
		return
	}
	if err := redis.Publish(ctx, channel, payload); err != nil {
		log.ErrorContext(ctx, "publish stream event failed", "channel", channel, "err", err)
	}
}

// PublishNote pushes a new note to each feed owner's channel, and to the
// instance-wide channel when the note is local and public.
func PublishNote(ctx context.Context, n *model.Note, feedUserIDs []string) {
	event := Event{Type: EventNote, Body: n}
	for _, userID := range feedUserIDs {
		publish(ctx, UserChannel(userID), event)
	}
	if n.IsLocal() && n.Visibility == model.VisibilityPublic {
		publish(ctx, LocalChannel, event)
	}
}

func PublishNoteUpdated(ctx context.Context, n *model.Note) {
	publish(ctx, UserChannel(n.UserID), Event{Type: EventNoteUpdated, Body: n})
}

func PublishNoteDeleted(ctx context.Context, noteID, userID string) {
	publish(ctx, UserChannel(userID), Event{
		Type: EventNoteDeleted,
		Body: map[string]string{"id": noteID},
	})
}
