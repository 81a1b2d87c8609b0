package kafka

import (
	"Petrel/internal/model"
	"Petrel/internal/repository"
	"Petrel/internal/store"
	"context"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

type fanoutStore struct {
	store.NoteStore
	notes    map[string]*model.Note
	inserted map[string][]string
}

func (s *fanoutStore) GetNoteByID(_ context.Context, id string) (*model.Note, error) {
	return s.notes[id], nil
}

func (s *fanoutStore) InsertHomeFeedCopies(_ context.Context, n *model.Note, feedUserIDs []string) error {
	s.inserted[n.ID] = feedUserIDs
	return nil
}

type fanoutFollows struct {
	repository.FollowingRepo
	followers map[string][]string
}

func (r *fanoutFollows) ListFollowerIDs(_ context.Context, userID string) ([]string, error) {
	return r.followers[userID], nil
}

type fanoutUsers struct {
	repository.UserRepo
	users map[string]*model.User
}

func (r *fanoutUsers) GetUsersByIDs(_ context.Context, ids []string) ([]*model.User, error) {
	var out []*model.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type capturedPublish struct {
	note   *model.Note
	owners []string
}

func newFanoutHarness(followers map[string][]string, users map[string]*model.User, notes ...*model.Note) (*FanoutHandler, *fanoutStore, *[]capturedPublish) {
	st := &fanoutStore{notes: map[string]*model.Note{}, inserted: map[string][]string{}}
	for _, n := range notes {
		st.notes[n.ID] = n
	}
	h := NewFanoutHandler(st, &fanoutFollows{followers: followers}, &fanoutUsers{users: users})

	published := &[]capturedPublish{}
	h.publish = func(_ context.Context, n *model.Note, feedUserIDs []string) {
		*published = append(*published, capturedPublish{note: n, owners: feedUserIDs})
	}
	return h, st, published
}

func fanoutMessage(t *testing.T, task *FanoutTask) *sarama.ConsumerMessage {
	t.Helper()
	payload, err := json.Marshal(task)
	require.NoError(t, err)
	return &sarama.ConsumerMessage{Value: payload}
}

func TestFanoutWritesAndPublishesToFeedOwners(t *testing.T) {
	n := &model.Note{
		ID: "n1", UserID: "alice", CreatedAt: time.Now().UTC(),
		Visibility: model.VisibilityPublic,
	}
	users := map[string]*model.User{
		"bob": {ID: "bob"},
		"rem": {ID: "rem", Host: "far.example.com"},
	}
	h, st, published := newFanoutHarness(
		map[string][]string{"alice": {"bob", "rem"}}, users, n)

	err := h.logic(context.Background(), fanoutMessage(t, &FanoutTask{Type: TaskHomeFanout, NoteID: "n1"}))
	require.NoError(t, err)

	// Remote followers hold no materialized feed.
	require.ElementsMatch(t, []string{"alice", "bob"}, st.inserted["n1"])

	require.Len(t, *published, 1)
	require.Equal(t, "n1", (*published)[0].note.ID)
	require.ElementsMatch(t, []string{"alice", "bob"}, (*published)[0].owners)
}

func TestFanoutSpecifiedNoteTargetsAddressees(t *testing.T) {
	n := &model.Note{
		ID: "n2", UserID: "alice", CreatedAt: time.Now().UTC(),
		Visibility:     model.VisibilitySpecified,
		VisibleUserIDs: []string{"bob"},
		Mentions:       []string{"carol"},
	}
	users := map[string]*model.User{
		"bob":   {ID: "bob"},
		"carol": {ID: "carol"},
		"dave":  {ID: "dave"},
	}
	h, st, published := newFanoutHarness(
		map[string][]string{"alice": {"dave"}}, users, n)

	err := h.logic(context.Background(), fanoutMessage(t, &FanoutTask{Type: TaskHomeFanout, NoteID: "n2"}))
	require.NoError(t, err)

	// Followers are not the audience of a specified note.
	require.ElementsMatch(t, []string{"alice", "bob", "carol"}, st.inserted["n2"])
	require.Len(t, *published, 1)
	require.ElementsMatch(t, []string{"alice", "bob", "carol"}, (*published)[0].owners)
}

func TestFanoutTargetGoneIsNotRetried(t *testing.T) {
	h, st, published := newFanoutHarness(nil, nil)

	err := h.logic(context.Background(), fanoutMessage(t, &FanoutTask{Type: TaskHomeFanout, NoteID: "missing"}))
	require.NoError(t, err)
	require.Empty(t, st.inserted)
	require.Empty(t, *published)
}
