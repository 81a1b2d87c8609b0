package scylla

// The storage engine supports exactly this catalog of parameterized
// statements, one per entity and access pattern. Dynamic query construction
// is not allowed; the pagination engine only appends cursor bounds and a row
// limit to the base selects below.

// QueryLimit is the hard upper bound of rows one range query may return. It
// is not a page size: the pagination engine keeps walking partitions until
// the caller's limit or the partition-scan bound is reached.
const QueryLimit = 1000

const noteColumns = `
	created_at_date,
	created_at,
	id,
	visibility,
	content,
	cw,
	local_only,
	renote_count,
	replies_count,
	uri,
	url,
	score,
	files,
	visible_user_ids,
	mentions,
	emojis,
	tags,
	has_poll,
	poll,
	channel_id,
	user_id,
	user_host,
	reply_id,
	reply_user_id,
	reply_user_host,
	reply_content,
	reply_cw,
	reply_files,
	renote_id,
	renote_user_id,
	renote_user_host,
	renote_content,
	renote_cw,
	renote_files,
	reactions,
	note_edit,
	updated_at`

// NoteQueries is the statement set for the canonical note table and its
// lookup tables.
type NoteQueries struct {
	Insert string

	SelectByDate     string
	SelectByID       string
	SelectByIDs      string
	SelectByURI      string
	SelectByUserID   string
	SelectByRenoteID string
	SelectByReplyID  string

	Delete string

	UpdateRenoteCount  string
	UpdateRepliesCount string
}

// HomeTimelineQueries is the statement set for per-follower feed copies.
type HomeTimelineQueries struct {
	Insert string

	SelectByUser   string
	SelectByNoteID string

	Delete string

	UpdateRenoteCount  string
	UpdateRepliesCount string
}

var Note = NoteQueries{
	Insert: `INSERT INTO note (` + noteColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,

	SelectByDate:     `SELECT * FROM note WHERE created_at_date = ?`,
	SelectByID:       `SELECT * FROM note_by_id WHERE id = ?`,
	SelectByIDs:      `SELECT * FROM note_by_id WHERE id IN ?`,
	SelectByURI:      `SELECT * FROM note_by_uri WHERE uri = ?`,
	SelectByUserID:   `SELECT * FROM note_by_user_id WHERE user_id = ?`,
	SelectByRenoteID: `SELECT * FROM note_by_renote_id WHERE renote_id = ?`,
	SelectByReplyID:  `SELECT * FROM note_by_reply_id WHERE reply_id = ?`,

	Delete: `DELETE FROM note WHERE created_at_date = ? AND created_at = ? AND user_id = ?`,

	UpdateRenoteCount: `UPDATE note SET
		renote_count = ?,
		score = ?
		WHERE created_at_date = ? AND created_at = ? AND user_id = ? IF EXISTS`,
	UpdateRepliesCount: `UPDATE note SET
		replies_count = ?
		WHERE created_at_date = ? AND created_at = ? AND user_id = ? IF EXISTS`,
}

var HomeTimeline = HomeTimelineQueries{
	Insert: `INSERT INTO home_timeline (feed_user_id, ` + noteColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,

	SelectByUser:   `SELECT * FROM home_timeline WHERE feed_user_id = ? AND created_at_date = ?`,
	SelectByNoteID: `SELECT * FROM home_timeline_by_id WHERE id = ?`,

	Delete: `DELETE FROM home_timeline WHERE feed_user_id = ? AND created_at_date = ? AND created_at = ? AND user_id = ?`,

	UpdateRenoteCount: `UPDATE home_timeline SET
		renote_count = ?,
		score = ?
		WHERE feed_user_id = ? AND created_at_date = ? AND created_at = ? AND user_id = ?`,
	UpdateRepliesCount: `UPDATE home_timeline SET
		replies_count = ?
		WHERE feed_user_id = ? AND created_at_date = ? AND created_at = ? AND user_id = ?`,
}
