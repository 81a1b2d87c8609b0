package service

import (
	"Petrel/internal/api/dto"
	"Petrel/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalOnlyDropsRemoteAuthors(t *testing.T) {
	at := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	local := noteBy("alice", "from here", at)
	remote := noteBy("bob", "from elsewhere", at)
	remote.UserHost = "far.example.com"

	passthrough := func(_ context.Context, notes []*model.Note) ([]*model.Note, error) {
		return notes, nil
	}

	kept, err := localOnly(passthrough)(context.Background(), []*model.Note{local, remote})
	require.NoError(t, err)
	require.Len(t, kept, 1)
	require.Equal(t, local.ID, kept[0].ID)
}

func TestLocalOnlyRunsInnerFilterOnNarrowedBatch(t *testing.T) {
	at := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	remote := noteBy("bob", "from elsewhere", at)
	remote.UserHost = "far.example.com"

	var seen int
	counting := func(_ context.Context, notes []*model.Note) ([]*model.Note, error) {
		seen = len(notes)
		return notes, nil
	}

	kept, err := localOnly(counting)(context.Background(), []*model.Note{remote})
	require.NoError(t, err)
	require.Empty(t, kept)
	require.Zero(t, seen)
}

func TestHomeTimelineRequiresViewer(t *testing.T) {
	f := newFixture(t, map[string]*model.User{})
	svc := NewTimelineService(f.store, nil, f.noteES)

	_, err := svc.HomeTimeline(context.Background(), "", &dto.TimelineQueryDTO{Limit: 20})
	require.ErrorIs(t, err, UnauthorizedError)
}
