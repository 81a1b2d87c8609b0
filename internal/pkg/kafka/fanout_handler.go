package kafka

import (
	"Petrel/internal/model"
	"Petrel/internal/pkg/stream"
	"Petrel/internal/repository"
	"Petrel/internal/store"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// FanoutHandler consumes feed maintenance tasks. Per-copy write failures are
// logged inside the store and never retried; only failures to resolve the
// task itself (note lookup, follower lookup) bounce the message.
type FanoutHandler struct {
	notes   store.NoteStore
	follows repository.FollowingRepo
	users   repository.UserRepo

	publish func(ctx context.Context, n *model.Note, feedUserIDs []string)
}

func NewFanoutHandler(notes store.NoteStore, follows repository.FollowingRepo, users repository.UserRepo) *FanoutHandler {
	return &FanoutHandler{notes: notes, follows: follows, users: users, publish: stream.PublishNote}
}

func (h *FanoutHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("fanout consumer setup")
	return nil
}

func (h *FanoutHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("fanout consumer cleanup")
	return nil
}

func (h *FanoutHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	err := pullMessageBatch(session, claim, h.logic)
	if err != nil {
		log.Error("process batch error", "err", err)
		return err
	}
	return nil
}

func (h *FanoutHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var task FanoutTask
	if err := json.Unmarshal(msg.Value, &task); err != nil {
		// A message that never parses never will; drop it.
		log.Error("unparsable task dropped", "offset", msg.Offset, "err", err)
		return nil
	}

	switch task.Type {
	case TaskHomeFanout:
		return h.handleFanout(ctx, &task)
	case TaskHomeRefresh:
		return h.handleRefresh(ctx, &task)
	case TaskRenoteCount:
		return h.notes.PropagateRenoteCount(ctx, task.NoteID, task.Count, task.Score)
	case TaskRepliesCount:
		return h.notes.PropagateRepliesCount(ctx, task.NoteID, task.Count)
	case TaskHomeDelete:
		return h.handleDelete(ctx, &task)
	default:
		log.Error("unknown task type dropped", "task", task.ID, "type", task.Type)
		return nil
	}
}

func (h *FanoutHandler) handleFanout(ctx context.Context, task *FanoutTask) error {
	n, err := h.notes.GetNoteByID(ctx, task.NoteID)
	if err != nil {
		return err
	}
	if n == nil {
		// Deleted before the task ran; nothing to copy.
		log.Info("fanout target gone", "task", task.ID, "note", task.NoteID)
		return nil
	}

	feedUserIDs, err := h.localFeedOwners(ctx, n)
	if err != nil {
		return err
	}
	if err := h.notes.InsertHomeFeedCopies(ctx, n, feedUserIDs); err != nil {
		return err
	}
	h.publish(ctx, n, feedUserIDs)
	return nil
}

func (h *FanoutHandler) handleRefresh(ctx context.Context, task *FanoutTask) error {
	n, err := h.notes.GetNoteByID(ctx, task.NoteID)
	if err != nil {
		return err
	}
	if n == nil {
		log.Info("refresh target gone", "task", task.ID, "note", task.NoteID)
		return nil
	}
	return h.notes.RefreshHomeFeedCopies(ctx, n)
}

func (h *FanoutHandler) handleDelete(ctx context.Context, task *FanoutTask) error {
	notes := make([]*model.Note, len(task.Notes))
	for i, ref := range task.Notes {
		notes[i] = ref.Note()
	}
	return h.notes.DeleteHomeFeedCopies(ctx, task.FeedUserIDs, notes)
}

// localFeedOwners resolves who gets a feed copy: the author plus every local
// follower, or for a specified note the author plus its addressed and
// mentioned users. Home feeds are only materialized for local users.
func (h *FanoutHandler) localFeedOwners(ctx context.Context, n *model.Note) ([]string, error) {
	var audienceIDs []string
	if n.Visibility == model.VisibilitySpecified {
		seen := make(map[string]struct{}, len(n.VisibleUserIDs)+len(n.Mentions))
		for _, id := range append(append([]string{}, n.VisibleUserIDs...), n.Mentions...) {
			if id == "" || id == n.UserID {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			audienceIDs = append(audienceIDs, id)
		}
	} else {
		followerIDs, err := h.follows.ListFollowerIDs(ctx, n.UserID)
		if err != nil {
			return nil, err
		}
		audienceIDs = followerIDs
	}

	audience, err := h.users.GetUsersByIDs(ctx, audienceIDs)
	if err != nil {
		return nil, err
	}

	owners := make([]string, 0, len(audience)+1)
	if n.IsLocal() {
		owners = append(owners, n.UserID)
	}
	for _, u := range audience {
		if u.IsLocal() {
			owners = append(owners, u.ID)
		}
	}
	return owners, nil
}
