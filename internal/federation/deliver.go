package federation

import (
	"Petrel/internal/api/config"
	"Petrel/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

const activityContentType = "application/activity+json"

// Deliverer pushes activities to remote inboxes. Delivery is fire and forget:
// a dead remote is its own problem, the local write already happened.
type Deliverer struct {
	client  *resty.Client
	relays  []string
	users   repository.UserRepo
	follows repository.FollowingRepo
}

func NewDeliverer(cfg config.FederationConfig, users repository.UserRepo, follows repository.FollowingRepo) *Deliverer {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Content-Type", activityContentType)

	return &Deliverer{
		client:  client,
		relays:  cfg.Relays,
		users:   users,
		follows: follows,
	}
}

// DeliverToFollowers posts to each remote follower's inbox, collapsing
// followers behind the same shared inbox into one request.
func (d *Deliverer) DeliverToFollowers(ctx context.Context, authorID string, activity Activity) {
	followerIDs, err := d.follows.ListFollowerIDs(ctx, authorID)
	if err != nil {
		log.ErrorContext(ctx, "resolve followers for delivery failed", "author", authorID, "err", err)
		return
	}
	followers, err := d.users.GetUsersByIDs(ctx, followerIDs)
	if err != nil {
		log.ErrorContext(ctx, "load followers for delivery failed", "author", authorID, "err", err)
		return
	}

	inboxes := map[string]struct{}{}
	for _, u := range followers {
		if u.IsLocal() {
			continue
		}
		inbox := u.SharedInbox
		if inbox == "" {
			inbox = u.Inbox
		}
		if inbox == "" {
			continue
		}
		inboxes[inbox] = struct{}{}
	}

	for inbox := range inboxes {
		d.post(ctx, inbox, activity)
	}
}

func (d *Deliverer) DeliverToRelays(ctx context.Context, activity Activity) {
	for _, relay := range d.relays {
		d.post(ctx, relay, activity)
	}
}

func (d *Deliverer) post(ctx context.Context, inbox string, activity Activity) {
	resp, err := d.client.R().
		SetContext(ctx).
		SetBody(activity).
		Post(inbox)
	if err != nil {
		log.ErrorContext(ctx, "delivery failed", "inbox", inbox, "err", err)
		return
	}
	if resp.IsError() {
		log.ErrorContext(ctx, "delivery rejected", "inbox", inbox, "status", resp.StatusCode())
	}
}
