package scylla

import (
	"Petrel/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseNoteDefaultsOptionalColumns(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	// A row missing every optional column must come back with zero values,
	// not an error.
	note := ParseNote(map[string]interface{}{
		"id":         "98ab12cd00aa",
		"created_at": created,
		"user_id":    "u1",
		"visibility": model.VisibilityPublic,
	})

	require.Equal(t, "98ab12cd00aa", note.ID)
	require.Equal(t, created, note.CreatedAt)
	require.Empty(t, note.Text)
	require.Empty(t, note.UserHost)
	require.False(t, note.LocalOnly)
	require.Zero(t, note.RenoteCount)
	require.Zero(t, note.RepliesCount)
	require.Empty(t, note.Files)
	require.Empty(t, note.VisibleUserIDs)
	require.Empty(t, note.Mentions)
	require.NotNil(t, note.Reactions)
	require.Empty(t, note.Reactions)
	require.Empty(t, note.EditHistory)
	require.Nil(t, note.Poll)
	require.Nil(t, note.UpdatedAt)
}

func TestParseNoteGarbageJSONColumns(t *testing.T) {
	note := ParseNote(map[string]interface{}{
		"id":        "x",
		"files":     "{not json",
		"poll":      "also not json",
		"note_edit": "[",
	})

	require.Empty(t, note.Files)
	require.Nil(t, note.Poll)
	require.Empty(t, note.EditHistory)
}

func TestNoteParamsRoundTrip(t *testing.T) {
	created := time.Date(2026, 5, 6, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	n := &model.Note{
		ID:         "abcd1234wxyz",
		CreatedAt:  created,
		UserID:     "author",
		UserHost:   "remote.example",
		Visibility: model.VisibilityHome,
		Text:       "hello",
		CW:         "cw",
		Files: []model.DriveFile{
			{ID: "f1", Type: "image/png", URL: "https://files/f1.png", Width: 10, Height: 20},
		},
		VisibleUserIDs: []string{"v1"},
		Mentions:       []string{"m1", "m2"},
		Emojis:         []string{},
		Tags:           []string{"tag"},
		Reactions:      map[string]int{"⭐": 2},
		EditHistory: []model.NoteEdit{
			{Text: "old", UpdatedAt: created},
		},
		UpdatedAt: &updated,
	}

	params := NoteParams(n)
	require.Len(t, params, 37)

	// Rebuild a row the way MapScan would shape it and confirm content
	// fields survive.
	row := map[string]interface{}{
		"created_at_date":  params[0],
		"created_at":       params[1],
		"id":               params[2],
		"visibility":       params[3],
		"content":          params[4],
		"cw":               params[5],
		"local_only":       params[6],
		"renote_count":     params[7],
		"replies_count":    params[8],
		"uri":              params[9],
		"url":              params[10],
		"score":            params[11],
		"files":            params[12],
		"visible_user_ids": params[13],
		"mentions":         params[14],
		"emojis":           params[15],
		"tags":             params[16],
		"has_poll":         params[17],
		"poll":             params[18],
		"channel_id":       params[19],
		"user_id":          params[20],
		"user_host":        params[21],
		"reply_id":         params[22],
		"reply_user_id":    params[23],
		"reply_user_host":  params[24],
		"reply_content":    params[25],
		"reply_cw":         params[26],
		"reply_files":      params[27],
		"renote_id":        params[28],
		"renote_user_id":   params[29],
		"renote_user_host": params[30],
		"renote_content":   params[31],
		"renote_cw":        params[32],
		"renote_files":     params[33],
		"reactions":        params[34],
		"note_edit":        params[35],
		"updated_at":       params[36],
	}

	got := ParseNote(row)
	require.Equal(t, n.ID, got.ID)
	require.Equal(t, n.Text, got.Text)
	require.Equal(t, n.CW, got.CW)
	require.Equal(t, n.Files, got.Files)
	require.Equal(t, n.Mentions, got.Mentions)
	require.Equal(t, n.Reactions, got.Reactions)
	require.Len(t, got.EditHistory, 1)
	require.Equal(t, "old", got.EditHistory[0].Text)
	require.Equal(t, updated, *got.UpdatedAt)
}

func TestHomeFeedParamsPrependOwner(t *testing.T) {
	n := &model.Note{ID: "n1", CreatedAt: time.Now().UTC(), UserID: "a"}

	params := HomeFeedParams("owner", n)
	require.Len(t, params, 38)
	require.Equal(t, "owner", params[0])
	require.Equal(t, "n1", params[3])
}
