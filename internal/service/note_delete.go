package service

import (
	"Petrel/internal/api/config"
	"Petrel/internal/federation"
	"Petrel/internal/model"
	"Petrel/internal/pkg/kafka"
	"Petrel/internal/pkg/stream"
	"context"
	log "log/slog"
)

// DeleteNote removes a note and everything hanging off it: direct replies and
// quote renotes cascade, transitively. Pure renotes of the deleted note are
// left alone; they resolve to nothing and render as gone.
func (s *noteServiceImpl) DeleteNote(ctx context.Context, userID, noteID string) error {
	root, err := s.notes.GetNoteByID(ctx, noteID)
	if err != nil {
		return err
	}
	if root == nil {
		return ErrNoteNotFound
	}
	if root.UserID != userID {
		return ErrNotAuthor
	}

	cascade, err := s.resolveCascade(ctx, root)
	if err != nil {
		return err
	}

	s.decrementParentCounters(ctx, root)

	if err := s.notes.DeleteNotes(ctx, cascade); err != nil {
		return err
	}

	s.enqueueFeedDeletes(ctx, cascade)

	ids := make([]string, len(cascade))
	localIDs := make([]string, 0, len(cascade))
	for i, n := range cascade {
		ids[i] = n.ID
		if n.IsLocal() {
			localIDs = append(localIDs, n.ID)
		}
	}

	if err := s.aux.DeleteByNoteIDs(ctx, ids); err != nil {
		log.ErrorContext(ctx, "aux row cleanup failed", "note", root.ID, "err", err)
	}
	if len(localIDs) > 0 {
		if err := s.noteES.DeleteNotes(ctx, localIDs); err != nil {
			log.ErrorContext(ctx, "search index cleanup failed", "note", root.ID, "err", err)
		}
	}

	stream.PublishNoteDeleted(ctx, root.ID, root.UserID)

	for _, n := range cascade {
		if !n.IsLocal() || n.LocalOnly {
			continue
		}
		activity := federation.RenderDelete(config.Cfg.Server.URL, n)
		if n.IsPureRenote() {
			activity = federation.RenderUndoAnnounce(config.Cfg.Server.URL, n)
		}
		s.deliverOut(ctx, n, activity)
	}

	return nil
}

// resolveCascade collects the deletion set with a worklist and a visited set,
// so reply cycles in corrupt data cannot loop forever.
func (s *noteServiceImpl) resolveCascade(ctx context.Context, root *model.Note) ([]*model.Note, error) {
	visited := map[string]struct{}{root.ID: {}}
	result := []*model.Note{root}
	work := []*model.Note{root}

	for len(work) > 0 {
		n := work[0]
		work = work[1:]

		replies, err := s.notes.RepliesOf(ctx, n.ID)
		if err != nil {
			return nil, err
		}
		renotes, err := s.notes.RenotesOf(ctx, n.ID)
		if err != nil {
			return nil, err
		}

		children := replies
		for _, r := range renotes {
			if !r.IsPureRenote() {
				children = append(children, r)
			}
		}

		for _, child := range children {
			if _, seen := visited[child.ID]; seen {
				continue
			}
			visited[child.ID] = struct{}{}
			result = append(result, child)
			work = append(work, child)
		}
	}
	return result, nil
}

// decrementParentCounters undoes the root's contribution to its targets.
// A renote only counts once per user, so the renote counter drops only when
// this was the user's last renote of the target.
func (s *noteServiceImpl) decrementParentCounters(ctx context.Context, root *model.Note) {
	if root.RenoteID != "" {
		same, err := s.notes.CountSameRenotes(ctx, root.UserID, root.RenoteID, root.ID)
		if err != nil {
			log.ErrorContext(ctx, "same renote count failed", "note", root.ID, "err", err)
		} else if same == 0 {
			target, err := s.notes.GetNoteByID(ctx, root.RenoteID)
			if err != nil {
				log.ErrorContext(ctx, "renote target lookup failed", "note", root.RenoteID, "err", err)
			} else if target != nil {
				count := max(target.RenoteCount-1, 0)
				score := max(target.Score-1, 0)
				if err := s.notes.UpdateRenoteCount(ctx, target, count, score); err != nil {
					log.ErrorContext(ctx, "renote count decrement failed", "note", target.ID, "err", err)
				}
				s.enqueue(&kafka.FanoutTask{
					Type: kafka.TaskRenoteCount, NoteID: target.ID, Count: count, Score: score,
				})
			}
		}
	}

	if root.ReplyID != "" {
		parent, err := s.notes.GetNoteByID(ctx, root.ReplyID)
		if err != nil {
			log.ErrorContext(ctx, "reply target lookup failed", "note", root.ReplyID, "err", err)
			return
		}
		if parent == nil {
			return
		}
		count := max(parent.RepliesCount-1, 0)
		if err := s.notes.UpdateRepliesCount(ctx, parent, count); err != nil {
			log.ErrorContext(ctx, "replies count decrement failed", "note", parent.ID, "err", err)
		}
		s.enqueue(&kafka.FanoutTask{
			Type: kafka.TaskRepliesCount, NoteID: parent.ID, Count: count,
		})
	}
}

// enqueueFeedDeletes ships one delete task covering the whole cascade. Feed
// copies can be held by addressed users of specified notes and by users who
// have since unfollowed, so the task targets every local user's feed rather
// than the authors' current followers.
func (s *noteServiceImpl) enqueueFeedDeletes(ctx context.Context, cascade []*model.Note) {
	owners, err := s.users.ListLocalUserIDs(ctx)
	if err != nil {
		log.ErrorContext(ctx, "local user lookup failed", "note", cascade[0].ID, "err", err)
		return
	}

	refs := make([]kafka.NoteRef, len(cascade))
	for i, n := range cascade {
		refs[i] = kafka.NewNoteRef(n)
	}

	s.enqueue(&kafka.FanoutTask{
		Type:        kafka.TaskHomeDelete,
		NoteID:      refs[0].ID,
		FeedUserIDs: owners,
		Notes:       refs,
	})
}
