package service

import (
	"Petrel/internal/api/config"
	"Petrel/internal/api/dto"
	"Petrel/internal/federation"
	"Petrel/internal/model"
	"Petrel/internal/pkg/es"
	"Petrel/internal/pkg/kafka"
	"Petrel/internal/pkg/util"
	"Petrel/internal/repository"
	"Petrel/internal/store"
	"context"
	log "log/slog"
	"time"
)

type NoteService interface {
	CreateNote(ctx context.Context, userID string, req *dto.NoteCreateDTO) (*model.Note, error)
	GetNote(ctx context.Context, noteID string) (*model.Note, error)
	EditNote(ctx context.Context, userID, noteID string, req *dto.NoteEditDTO) (*model.Note, error)
	DeleteNote(ctx context.Context, userID, noteID string) error
}

type noteServiceImpl struct {
	notes    store.NoteStore
	users    repository.UserRepo
	aux      repository.NoteAuxRepo
	noteES   es.NoteRepo
	producer kafka.TaskProducer
	deliver  *federation.Deliverer
}

func NewNoteService(
	notes store.NoteStore,
	users repository.UserRepo,
	aux repository.NoteAuxRepo,
	noteES es.NoteRepo,
	producer kafka.TaskProducer,
	deliver *federation.Deliverer,
) NoteService {
	return &noteServiceImpl{
		notes:    notes,
		users:    users,
		aux:      aux,
		noteES:   noteES,
		producer: producer,
		deliver:  deliver,
	}
}

var visibilityRank = map[string]int{
	model.VisibilityPublic:    0,
	model.VisibilityHome:      1,
	model.VisibilityFollowers: 2,
	model.VisibilitySpecified: 3,
}

// narrowerVisibility picks the more restrictive of two visibility values. A
// renote never widens the audience of its target.
func narrowerVisibility(a, b string) string {
	if visibilityRank[b] > visibilityRank[a] {
		return b
	}
	return a
}

// CreateNote performs the canonical write, then hands feed fan-out to the
// task queue. When this returns, the note exists; the copies catch up.
func (s *noteServiceImpl) CreateNote(ctx context.Context, userID string, req *dto.NoteCreateDTO) (*model.Note, error) {
	author, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, ErrUserNotFound
	}
	if author.IsSuspended {
		return nil, ErrUserSuspended
	}

	if req.Text == "" && req.RenoteID == "" && len(req.Files) == 0 && req.Poll == nil {
		return nil, ErrParamInvalid
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = model.VisibilityPublic
	}
	// Silenced users cannot post to the public timeline.
	if author.IsSilenced && visibility == model.VisibilityPublic {
		visibility = model.VisibilityHome
	}

	now := time.Now().UTC()
	n := &model.Note{
		ID:             util.GenID(now),
		CreatedAt:      now,
		UserID:         author.ID,
		UserHost:       author.Host,
		Visibility:     visibility,
		Text:           req.Text,
		CW:             req.CW,
		LocalOnly:      req.LocalOnly,
		ChannelID:      req.ChannelID,
		Files:          req.Files,
		VisibleUserIDs: req.VisibleUserIDs,
		Mentions:       req.Mentions,
		Tags:           req.Tags,
		HasPoll:        req.Poll != nil,
		Poll:           req.Poll,
		Reactions:      map[string]int{},
	}
	if author.IsLocal() {
		n.URI = config.Cfg.Server.URL + "/notes/" + n.ID
		n.URL = n.URI
	}

	var renoteTarget, replyTarget *model.Note

	if req.RenoteID != "" {
		renoteTarget, err = s.notes.GetNoteByID(ctx, req.RenoteID)
		if err != nil {
			return nil, err
		}
		if renoteTarget == nil {
			return nil, ErrRenoteTargetGone
		}
		if renoteTarget.IsPureRenote() {
			return nil, ErrPureRenoteOfRenote
		}
		// Only the author may boost a followers-only note; specified notes
		// are never boostable.
		if renoteTarget.Visibility == model.VisibilitySpecified ||
			(renoteTarget.Visibility == model.VisibilityFollowers && renoteTarget.UserID != author.ID) {
			return nil, ErrRenoteTooPrivate
		}
		n.RenoteID = renoteTarget.ID
		n.RenoteUserID = renoteTarget.UserID
		n.RenoteUserHost = renoteTarget.UserHost
		n.RenoteText = renoteTarget.Text
		n.RenoteCW = renoteTarget.CW
		n.RenoteFiles = renoteTarget.Files
		n.Visibility = narrowerVisibility(n.Visibility, renoteTarget.Visibility)
		n.LocalOnly = n.LocalOnly || renoteTarget.LocalOnly
	}

	if req.ReplyID != "" {
		replyTarget, err = s.notes.GetNoteByID(ctx, req.ReplyID)
		if err != nil {
			return nil, err
		}
		if replyTarget == nil {
			return nil, ErrReplyTargetGone
		}
		if replyTarget.IsPureRenote() {
			return nil, ErrParamInvalid
		}
		n.ReplyID = replyTarget.ID
		n.ReplyUserID = replyTarget.UserID
		n.ReplyUserHost = replyTarget.UserHost
		n.ReplyText = replyTarget.Text
		n.ReplyCW = replyTarget.CW
		n.ReplyFiles = replyTarget.Files
		n.LocalOnly = n.LocalOnly || replyTarget.LocalOnly
	}

	if err := s.notes.CreateNote(ctx, n); err != nil {
		return nil, err
	}

	s.enqueue(&kafka.FanoutTask{Type: kafka.TaskHomeFanout, NoteID: n.ID})

	if renoteTarget != nil {
		count := renoteTarget.RenoteCount + 1
		score := renoteTarget.Score + 1
		if err := s.notes.UpdateRenoteCount(ctx, renoteTarget, count, score); err != nil {
			log.ErrorContext(ctx, "renote count update failed", "note", renoteTarget.ID, "err", err)
		}
		s.enqueue(&kafka.FanoutTask{
			Type: kafka.TaskRenoteCount, NoteID: renoteTarget.ID, Count: count, Score: score,
		})
	}
	if replyTarget != nil {
		count := replyTarget.RepliesCount + 1
		if err := s.notes.UpdateRepliesCount(ctx, replyTarget, count); err != nil {
			log.ErrorContext(ctx, "replies count update failed", "note", replyTarget.ID, "err", err)
		}
		s.enqueue(&kafka.FanoutTask{
			Type: kafka.TaskRepliesCount, NoteID: replyTarget.ID, Count: count,
		})
	}

	if n.IsLocal() && !n.IsPureRenote() {
		if err := s.noteES.IndexNote(ctx, es.NoteToES(n)); err != nil {
			log.ErrorContext(ctx, "note indexing failed", "note", n.ID, "err", err)
		}
	}

	// Stream events for the new note fire from the fan-out worker, which
	// knows the resolved feed owners.

	if n.IsLocal() && !n.LocalOnly {
		activity := federation.RenderCreate(config.Cfg.Server.URL, n)
		if n.IsPureRenote() {
			activity = federation.RenderAnnounce(config.Cfg.Server.URL, n)
		}
		s.deliverOut(ctx, n, activity)
	}

	return n, nil
}

func (s *noteServiceImpl) GetNote(ctx context.Context, noteID string) (*model.Note, error) {
	n, err := s.notes.GetNoteByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNoteNotFound
	}
	return n, nil
}

func (s *noteServiceImpl) enqueue(task *kafka.FanoutTask) {
	if err := s.producer.Enqueue(task); err != nil {
		log.Error("task enqueue failed", "type", task.Type, "note", task.NoteID, "err", err)
	}
}

// deliverOut federates an activity without blocking the caller.
func (s *noteServiceImpl) deliverOut(ctx context.Context, n *model.Note, activity federation.Activity) {
	bg := context.WithoutCancel(ctx)
	go func() {
		s.deliver.DeliverToFollowers(bg, n.UserID, activity)
		if n.Visibility == model.VisibilityPublic {
			s.deliver.DeliverToRelays(bg, activity)
		}
	}()
}
