package service

import (
	"Petrel/internal/model"
	"Petrel/internal/pkg/kafka"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeleteNoteCascade(t *testing.T) {
	now := time.Now().UTC()
	users := map[string]*model.User{
		"alice": localUser("alice"), "bob": localUser("bob"),
		"carol": localUser("carol"), "dave": localUser("dave"),
	}

	root := noteBy("alice", "root", now.Add(-4*time.Hour))

	quote := noteBy("bob", "hot take", now.Add(-3*time.Hour))
	quote.RenoteID = root.ID
	quote.RenoteUserID = "alice"

	pure := noteBy("carol", "", now.Add(-2*time.Hour))
	pure.RenoteID = root.ID
	pure.RenoteUserID = "alice"

	reply := noteBy("dave", "me too", now.Add(-time.Hour))
	reply.ReplyID = root.ID
	reply.ReplyUserID = "alice"

	replyToQuote := noteBy("alice", "thanks", now.Add(-30*time.Minute))
	replyToQuote.ReplyID = quote.ID
	replyToQuote.ReplyUserID = "bob"

	f := newFixture(t, users, root, quote, pure, reply, replyToQuote)

	err := f.svc.DeleteNote(context.Background(), "alice", root.ID)
	require.NoError(t, err)

	// Replies and quotes cascade, transitively.
	require.ElementsMatch(t,
		[]string{root.ID, quote.ID, reply.ID, replyToQuote.ID},
		f.store.deletedIDs)

	// The pure renote survives and now points at nothing.
	remaining, _ := f.store.GetNoteByID(context.Background(), pure.ID)
	require.NotNil(t, remaining)

	// Aux rows and search documents go with the cascade.
	require.ElementsMatch(t,
		[]string{root.ID, quote.ID, reply.ID, replyToQuote.ID},
		f.aux.deleted)
	require.ElementsMatch(t,
		[]string{root.ID, quote.ID, reply.ID, replyToQuote.ID},
		f.noteES.deleted)

	// One feed cleanup task sweeping every local user's feed.
	deleteTasks := f.producer.ofType(kafka.TaskHomeDelete)
	require.Len(t, deleteTasks, 1)
	require.ElementsMatch(t, []string{"alice", "bob", "carol", "dave"}, deleteTasks[0].FeedUserIDs)

	taskIDs := make([]string, len(deleteTasks[0].Notes))
	for i, ref := range deleteTasks[0].Notes {
		taskIDs[i] = ref.ID
	}
	require.ElementsMatch(t,
		[]string{root.ID, quote.ID, reply.ID, replyToQuote.ID},
		taskIDs)
}

func TestDeleteSpecifiedNoteSweepsAddresseeFeeds(t *testing.T) {
	users := map[string]*model.User{
		"alice": localUser("alice"), "bob": localUser("bob"),
	}

	secret := noteBy("alice", "just for you", time.Now().UTC().Add(-time.Hour))
	secret.Visibility = model.VisibilitySpecified
	secret.VisibleUserIDs = []string{"bob"}

	f := newFixture(t, users, secret)

	err := f.svc.DeleteNote(context.Background(), "alice", secret.ID)
	require.NoError(t, err)

	// Bob never followed alice, but holds a feed copy as an addressee; the
	// cleanup task must reach his feed too.
	deleteTasks := f.producer.ofType(kafka.TaskHomeDelete)
	require.Len(t, deleteTasks, 1)
	require.Contains(t, deleteTasks[0].FeedUserIDs, "bob")
}

func TestDeleteNoteOnlyByAuthor(t *testing.T) {
	n := noteBy("alice", "mine", time.Now().UTC().Add(-time.Hour))
	f := newFixture(t, map[string]*model.User{"alice": localUser("alice"), "bob": localUser("bob")}, n)

	err := f.svc.DeleteNote(context.Background(), "bob", n.ID)
	require.ErrorIs(t, err, ErrNotAuthor)
	require.Empty(t, f.store.deletedIDs)
}

func TestDeleteLastRenoteDecrementsCounter(t *testing.T) {
	now := time.Now().UTC()
	target := noteBy("bob", "original", now.Add(-2*time.Hour))
	target.RenoteCount = 1
	target.Score = 1

	renote := noteBy("alice", "", now.Add(-time.Hour))
	renote.RenoteID = target.ID

	f := newFixture(t, map[string]*model.User{"alice": localUser("alice"), "bob": localUser("bob")}, target, renote)

	err := f.svc.DeleteNote(context.Background(), "alice", renote.ID)
	require.NoError(t, err)

	require.Equal(t, [2]int{0, 0}, f.store.renoteCounts[target.ID])
	tasks := f.producer.ofType(kafka.TaskRenoteCount)
	require.Len(t, tasks, 1)
	require.Equal(t, 0, tasks[0].Count)
}

func TestDeleteRenoteKeepsCounterWhileOthersRemain(t *testing.T) {
	now := time.Now().UTC()
	target := noteBy("bob", "original", now.Add(-3*time.Hour))
	target.RenoteCount = 2

	first := noteBy("alice", "", now.Add(-2*time.Hour))
	first.RenoteID = target.ID
	second := noteBy("alice", "", now.Add(-time.Hour))
	second.RenoteID = target.ID

	f := newFixture(t, map[string]*model.User{"alice": localUser("alice"), "bob": localUser("bob")}, target, first, second)

	err := f.svc.DeleteNote(context.Background(), "alice", first.ID)
	require.NoError(t, err)

	// Alice still renotes the target, so its counter stands.
	require.NotContains(t, f.store.renoteCounts, target.ID)
}

func TestDeleteCounterNeverGoesNegative(t *testing.T) {
	now := time.Now().UTC()
	target := noteBy("bob", "original", now.Add(-2*time.Hour))
	// Already drifted to zero.
	target.RenoteCount = 0
	target.Score = 0

	renote := noteBy("alice", "", now.Add(-time.Hour))
	renote.RenoteID = target.ID

	f := newFixture(t, map[string]*model.User{"alice": localUser("alice"), "bob": localUser("bob")}, target, renote)

	err := f.svc.DeleteNote(context.Background(), "alice", renote.ID)
	require.NoError(t, err)
	require.Equal(t, [2]int{0, 0}, f.store.renoteCounts[target.ID])
}

func TestDeleteReplyDecrementsParent(t *testing.T) {
	now := time.Now().UTC()
	parent := noteBy("bob", "parent", now.Add(-2*time.Hour))
	parent.RepliesCount = 1

	reply := noteBy("alice", "child", now.Add(-time.Hour))
	reply.ReplyID = parent.ID

	f := newFixture(t, map[string]*model.User{"alice": localUser("alice"), "bob": localUser("bob")}, parent, reply)

	err := f.svc.DeleteNote(context.Background(), "alice", reply.ID)
	require.NoError(t, err)
	require.Equal(t, 0, f.store.repliesCounts[parent.ID])
}
