package scylla

import (
	"Petrel/internal/model"
	"time"

	"github.com/goccy/go-json"
)

// Rows come back as column maps. Optional columns default to their zero
// value on read instead of failing: a stored row missing a field is recovered
// locally, never surfaced as an error.

func asString(row map[string]interface{}, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}

func asBool(row map[string]interface{}, key string) bool {
	if v, ok := row[key].(bool); ok {
		return v
	}
	return false
}

func asInt(row map[string]interface{}, key string) int {
	switch v := row[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	}
	return 0
}

func asTime(row map[string]interface{}, key string) time.Time {
	if v, ok := row[key].(time.Time); ok {
		return v.UTC()
	}
	return time.Time{}
}

func asTimePtr(row map[string]interface{}, key string) *time.Time {
	if v, ok := row[key].(time.Time); ok && !v.IsZero() {
		t := v.UTC()
		return &t
	}
	return nil
}

func asStringSlice(row map[string]interface{}, key string) []string {
	if v, ok := row[key].([]string); ok {
		return v
	}
	return []string{}
}

func asIntMap(row map[string]interface{}, key string) map[string]int {
	if v, ok := row[key].(map[string]int); ok {
		return v
	}
	return map[string]int{}
}

func asFiles(row map[string]interface{}, key string) []model.DriveFile {
	raw := asString(row, key)
	if raw == "" {
		return []model.DriveFile{}
	}
	var files []model.DriveFile
	if err := json.Unmarshal([]byte(raw), &files); err != nil {
		return []model.DriveFile{}
	}
	return files
}

func asPoll(row map[string]interface{}, key string) *model.Poll {
	raw := asString(row, key)
	if raw == "" {
		return nil
	}
	var poll model.Poll
	if err := json.Unmarshal([]byte(raw), &poll); err != nil {
		return nil
	}
	return &poll
}

func asEditHistory(row map[string]interface{}, key string) []model.NoteEdit {
	raw := asString(row, key)
	if raw == "" {
		return []model.NoteEdit{}
	}
	var edits []model.NoteEdit
	if err := json.Unmarshal([]byte(raw), &edits); err != nil {
		return []model.NoteEdit{}
	}
	return edits
}

// ParseNote maps one note row to the domain record.
func ParseNote(row map[string]interface{}) *model.Note {
	return &model.Note{
		ID:        asString(row, "id"),
		CreatedAt: asTime(row, "created_at"),
		UserID:    asString(row, "user_id"),
		UserHost:  asString(row, "user_host"),

		Visibility: asString(row, "visibility"),
		Text:       asString(row, "content"),
		CW:         asString(row, "cw"),
		LocalOnly:  asBool(row, "local_only"),
		URI:        asString(row, "uri"),
		URL:        asString(row, "url"),

		RenoteCount:  asInt(row, "renote_count"),
		RepliesCount: asInt(row, "replies_count"),
		Score:        asInt(row, "score"),

		Files:          asFiles(row, "files"),
		VisibleUserIDs: asStringSlice(row, "visible_user_ids"),
		Mentions:       asStringSlice(row, "mentions"),
		Emojis:         asStringSlice(row, "emojis"),
		Tags:           asStringSlice(row, "tags"),

		HasPoll: asBool(row, "has_poll"),
		Poll:    asPoll(row, "poll"),

		ChannelID: asString(row, "channel_id"),

		ReplyID:       asString(row, "reply_id"),
		ReplyUserID:   asString(row, "reply_user_id"),
		ReplyUserHost: asString(row, "reply_user_host"),
		ReplyText:     asString(row, "reply_content"),
		ReplyCW:       asString(row, "reply_cw"),
		ReplyFiles:    asFiles(row, "reply_files"),

		RenoteID:       asString(row, "renote_id"),
		RenoteUserID:   asString(row, "renote_user_id"),
		RenoteUserHost: asString(row, "renote_user_host"),
		RenoteText:     asString(row, "renote_content"),
		RenoteCW:       asString(row, "renote_cw"),
		RenoteFiles:    asFiles(row, "renote_files"),

		Reactions:   asIntMap(row, "reactions"),
		EditHistory: asEditHistory(row, "note_edit"),
		UpdatedAt:   asTimePtr(row, "updated_at"),
	}
}

// ParseHomeFeedEntry maps one home_timeline row to the domain record.
func ParseHomeFeedEntry(row map[string]interface{}) *model.HomeFeedEntry {
	return &model.HomeFeedEntry{
		FeedUserID: asString(row, "feed_user_id"),
		Note:       *ParseNote(row),
	}
}

func marshalJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// NoteParams flattens a note into the insert statement's parameter order.
func NoteParams(n *model.Note) []interface{} {
	var poll string
	if n.Poll != nil {
		poll = marshalJSON(n.Poll)
	}
	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	return []interface{}{
		n.CreatedAtDate(),
		n.CreatedAt,
		n.ID,
		n.Visibility,
		n.Text,
		n.CW,
		n.LocalOnly,
		n.RenoteCount,
		n.RepliesCount,
		n.URI,
		n.URL,
		n.Score,
		marshalJSON(n.Files),
		n.VisibleUserIDs,
		n.Mentions,
		n.Emojis,
		n.Tags,
		n.HasPoll,
		poll,
		n.ChannelID,
		n.UserID,
		n.UserHost,
		n.ReplyID,
		n.ReplyUserID,
		n.ReplyUserHost,
		n.ReplyText,
		n.ReplyCW,
		marshalJSON(n.ReplyFiles),
		n.RenoteID,
		n.RenoteUserID,
		n.RenoteUserHost,
		n.RenoteText,
		n.RenoteCW,
		marshalJSON(n.RenoteFiles),
		n.Reactions,
		marshalJSON(n.EditHistory),
		updatedAt,
	}
}

// HomeFeedParams flattens a feed copy: the feed owner key followed by the
// same columns as the canonical row.
func HomeFeedParams(feedUserID string, n *model.Note) []interface{} {
	return append([]interface{}{feedUserID}, NoteParams(n)...)
}
