package timeline

import (
	"Petrel/internal/model"
	"testing"

	"github.com/stretchr/testify/require"
)

func ids(notes []*model.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func TestFilterVisibilityAnonymous(t *testing.T) {
	notes := []*model.Note{
		{ID: "pub", Visibility: model.VisibilityPublic},
		{ID: "home", Visibility: model.VisibilityHome},
		{ID: "fol", Visibility: model.VisibilityFollowers},
		{ID: "dm", Visibility: model.VisibilitySpecified, VisibleUserIDs: []string{"viewer"}},
	}

	got := filterVisibility(notes, "", nil)
	require.Equal(t, []string{"pub", "home"}, ids(got))
}

func TestFilterVisibilityViewer(t *testing.T) {
	followees := map[string]struct{}{"friend": {}}
	notes := []*model.Note{
		{ID: "pub", UserID: "x", Visibility: model.VisibilityPublic},
		{ID: "home", UserID: "x", Visibility: model.VisibilityHome},
		{ID: "fol-followed", UserID: "friend", Visibility: model.VisibilityFollowers},
		{ID: "fol-stranger", UserID: "stranger", Visibility: model.VisibilityFollowers},
		{ID: "fol-reply-to-viewer", UserID: "stranger", Visibility: model.VisibilityFollowers, ReplyID: "r", ReplyUserID: "viewer"},
		{ID: "own", UserID: "viewer", Visibility: model.VisibilitySpecified},
		{ID: "dm-addressed", UserID: "x", Visibility: model.VisibilitySpecified, VisibleUserIDs: []string{"viewer"}},
		{ID: "dm-mentioned", UserID: "x", Visibility: model.VisibilitySpecified, Mentions: []string{"viewer"}},
		{ID: "dm-other", UserID: "x", Visibility: model.VisibilitySpecified, VisibleUserIDs: []string{"y"}},
	}

	got := filterVisibility(notes, "viewer", followees)
	require.Equal(t,
		[]string{"pub", "home", "fol-followed", "fol-reply-to-viewer", "own", "dm-addressed", "dm-mentioned"},
		ids(got))
}

func TestFilterChannel(t *testing.T) {
	notes := []*model.Note{
		{ID: "plain"},
		{ID: "followed", ChannelID: "ch1"},
		{ID: "other", ChannelID: "ch2"},
	}

	got := filterChannel(notes, "viewer", map[string]struct{}{"ch1": {}})
	require.Equal(t, []string{"plain", "followed"}, ids(got))

	got = filterChannel(notes, "", nil)
	require.Equal(t, []string{"plain"}, ids(got))
}

func TestFilterReply(t *testing.T) {
	notes := []*model.Note{
		{ID: "top", UserID: "x"},
		{ID: "self-reply", UserID: "x", ReplyID: "r", ReplyUserID: "x"},
		{ID: "to-viewer", UserID: "x", ReplyID: "r", ReplyUserID: "viewer"},
		{ID: "by-viewer", UserID: "viewer", ReplyID: "r", ReplyUserID: "y"},
		{ID: "third-party", UserID: "x", ReplyID: "r", ReplyUserID: "y"},
	}

	got := filterReply(notes, "viewer", false)
	require.Equal(t, []string{"top", "self-reply", "to-viewer", "by-viewer"}, ids(got))

	got = filterReply(notes, "viewer", true)
	require.Len(t, got, len(notes))
}

func TestFilterReplyAnonymousIgnoresWithReplies(t *testing.T) {
	notes := []*model.Note{
		{ID: "top", UserID: "x"},
		{ID: "self-reply", UserID: "x", ReplyID: "r", ReplyUserID: "x"},
		{ID: "third-party", UserID: "x", ReplyID: "r", ReplyUserID: "y"},
	}

	for _, withReplies := range []bool{false, true} {
		got := filterReply(notes, "", withReplies)
		require.Equal(t, []string{"top", "self-reply"}, ids(got))
	}
}

func TestFilterBlocked(t *testing.T) {
	blocked := map[string]struct{}{"enemy": {}}
	notes := []*model.Note{
		{ID: "fine", UserID: "x"},
		{ID: "authored", UserID: "enemy"},
		{ID: "renoting", UserID: "x", RenoteID: "r", RenoteUserID: "enemy"},
		{ID: "replying", UserID: "x", ReplyID: "r", ReplyUserID: "enemy"},
		{ID: "own", UserID: "viewer", ReplyID: "r", ReplyUserID: "enemy"},
	}

	got := filterBlocked(notes, "viewer", blocked)
	require.Equal(t, []string{"fine", "own"}, ids(got))
}

func TestFilterMuted(t *testing.T) {
	mutedUsers := map[string]struct{}{"loud": {}}
	mutedInstances := map[string]struct{}{"bad.example": {}}
	notes := []*model.Note{
		{ID: "fine", UserID: "x"},
		{ID: "muted-author", UserID: "loud"},
		{ID: "muted-renote", UserID: "x", RenoteID: "r", RenoteUserID: "loud"},
		{ID: "muted-host", UserID: "x", UserHost: "bad.example"},
		{ID: "muted-renote-host", UserID: "x", RenoteID: "r", RenoteUserHost: "bad.example"},
	}

	got := filterMuted(notes, mutedUsers, mutedInstances)
	require.Equal(t, []string{"fine"}, ids(got))
}

func TestFilterMutedRenotes(t *testing.T) {
	muted := map[string]struct{}{"booster": {}}
	notes := []*model.Note{
		{ID: "pure", UserID: "booster", RenoteID: "r"},
		{ID: "quote", UserID: "booster", RenoteID: "r", Text: "hot take"},
		{ID: "original", UserID: "booster", Text: "hello"},
		{ID: "own-boost", UserID: "viewer", RenoteID: "r"},
	}

	got := filterMutedRenotes(notes, "viewer", muted)
	require.Equal(t, []string{"quote", "original", "own-boost"}, ids(got))
}

func TestFilterSuspended(t *testing.T) {
	notes := []*model.Note{
		{ID: "fine", UserID: "x"},
		{ID: "gone", UserID: "banned"},
	}

	got := filterSuspended(notes, map[string]struct{}{"banned": {}})
	require.Equal(t, []string{"fine"}, ids(got))
}

// Applying the same stage to its own output changes nothing.
func TestFilterStagesIdempotent(t *testing.T) {
	followees := map[string]struct{}{"friend": {}}
	blocked := map[string]struct{}{"enemy": {}}
	notes := []*model.Note{
		{ID: "a", UserID: "friend", Visibility: model.VisibilityFollowers},
		{ID: "b", UserID: "x", Visibility: model.VisibilityPublic},
		{ID: "c", UserID: "enemy", Visibility: model.VisibilityPublic},
		{ID: "d", UserID: "x", Visibility: model.VisibilityHome, ReplyID: "r", ReplyUserID: "y"},
	}

	once := filterVisibility(notes, "viewer", followees)
	once = filterReply(once, "viewer", false)
	once = filterBlocked(once, "viewer", blocked)

	twice := filterVisibility(once, "viewer", followees)
	twice = filterReply(twice, "viewer", false)
	twice = filterBlocked(twice, "viewer", blocked)

	require.Equal(t, ids(once), ids(twice))
}
