package service

import (
	"Petrel/internal/api/dto"
	"Petrel/internal/model"
	"Petrel/internal/pkg/kafka"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEditNoteAppendsExactlyOneHistoryEntry(t *testing.T) {
	n := noteBy("alice", "first draft", time.Now().UTC().Add(-time.Hour))
	f := newFixture(t, map[string]*model.User{"alice": localUser("alice")}, n)

	edited, err := f.svc.EditNote(context.Background(), "alice", n.ID, &dto.NoteEditDTO{Text: "second draft"})
	require.NoError(t, err)

	require.Equal(t, "second draft", edited.Text)
	require.NotNil(t, edited.UpdatedAt)
	require.Len(t, edited.EditHistory, 1)
	require.Equal(t, "first draft", edited.EditHistory[0].Text)

	// A second edit snapshots the state the first edit produced.
	edited, err = f.svc.EditNote(context.Background(), "alice", n.ID, &dto.NoteEditDTO{Text: "third draft"})
	require.NoError(t, err)
	require.Len(t, edited.EditHistory, 2)
	require.Equal(t, "second draft", edited.EditHistory[1].Text)

	refreshTasks := f.producer.ofType(kafka.TaskHomeRefresh)
	require.Len(t, refreshTasks, 2)
	require.Equal(t, n.ID, refreshTasks[0].NoteID)
}

func TestEditNoteOnlyByAuthor(t *testing.T) {
	n := noteBy("alice", "mine", time.Now().UTC().Add(-time.Hour))
	f := newFixture(t, map[string]*model.User{"alice": localUser("alice"), "bob": localUser("bob")}, n)

	_, err := f.svc.EditNote(context.Background(), "bob", n.ID, &dto.NoteEditDTO{Text: "stolen"})
	require.ErrorIs(t, err, ErrNotAuthor)
}

func TestEditNoteVisibilityIsImmutable(t *testing.T) {
	n := noteBy("alice", "text", time.Now().UTC().Add(-time.Hour))
	n.Visibility = model.VisibilityHome
	f := newFixture(t, map[string]*model.User{"alice": localUser("alice")}, n)

	_, err := f.svc.EditNote(context.Background(), "alice", n.ID, &dto.NoteEditDTO{
		Text: "text", Visibility: model.VisibilityPublic,
	})
	require.ErrorIs(t, err, ErrVisibilityChange)

	// Restating the current visibility is allowed.
	_, err = f.svc.EditNote(context.Background(), "alice", n.ID, &dto.NoteEditDTO{
		Text: "new text", Visibility: model.VisibilityHome,
	})
	require.NoError(t, err)
}

func TestEditPureRenoteRejected(t *testing.T) {
	target := noteBy("bob", "original", time.Now().UTC().Add(-2*time.Hour))
	pure := noteBy("alice", "", time.Now().UTC().Add(-time.Hour))
	pure.RenoteID = target.ID
	f := newFixture(t, map[string]*model.User{"alice": localUser("alice")}, target, pure)

	_, err := f.svc.EditNote(context.Background(), "alice", pure.ID, &dto.NoteEditDTO{Text: "x"})
	require.ErrorIs(t, err, ErrRenoteNotEditable)
}

func TestEditMissingNote(t *testing.T) {
	f := newFixture(t, map[string]*model.User{"alice": localUser("alice")})

	_, err := f.svc.EditNote(context.Background(), "alice", "missing", &dto.NoteEditDTO{Text: "x"})
	require.ErrorIs(t, err, ErrNoteNotFound)
}
