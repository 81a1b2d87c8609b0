package service

import (
	"Petrel/internal/api/config"
	"Petrel/internal/api/dto"
	"Petrel/internal/federation"
	"Petrel/internal/model"
	"Petrel/internal/pkg/es"
	"Petrel/internal/pkg/kafka"
	"Petrel/internal/pkg/stream"
	"context"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
)

// EditNote rewrites a note in place. Visibility is part of the row identity
// and can never change; a pure renote has nothing to edit. The pre-edit
// content is appended to the edit history before the rewrite lands.
func (s *noteServiceImpl) EditNote(ctx context.Context, userID, noteID string, req *dto.NoteEditDTO) (*model.Note, error) {
	n, err := s.notes.GetNoteByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNoteNotFound
	}
	if n.UserID != userID {
		return nil, ErrNotAuthor
	}
	if n.IsPureRenote() {
		return nil, ErrRenoteNotEditable
	}
	if req.Visibility != "" && req.Visibility != n.Visibility {
		return nil, ErrVisibilityChange
	}
	if req.Text == "" && len(req.Files) == 0 && req.Poll == nil {
		return nil, ErrParamInvalid
	}

	snapshotAt := n.CreatedAt
	if n.UpdatedAt != nil {
		snapshotAt = *n.UpdatedAt
	}
	var snapshot model.NoteEdit
	if err := copier.Copy(&snapshot, n); err != nil {
		return nil, err
	}
	snapshot.UpdatedAt = snapshotAt
	n.EditHistory = append(n.EditHistory, snapshot)

	now := time.Now().UTC()
	n.Text = req.Text
	n.CW = req.CW
	n.Files = req.Files
	n.Poll = req.Poll
	n.HasPoll = req.Poll != nil
	n.UpdatedAt = &now

	if err := s.notes.UpdateNote(ctx, n); err != nil {
		return nil, err
	}

	s.enqueue(&kafka.FanoutTask{Type: kafka.TaskHomeRefresh, NoteID: n.ID})

	if n.IsLocal() {
		if err := s.noteES.IndexNote(ctx, es.NoteToES(n)); err != nil {
			log.ErrorContext(ctx, "note reindexing failed", "note", n.ID, "err", err)
		}
	}

	stream.PublishNoteUpdated(ctx, n)

	if n.IsLocal() && !n.LocalOnly {
		s.deliverOut(ctx, n, federation.RenderUpdate(config.Cfg.Server.URL, n))
	}

	return n, nil
}
