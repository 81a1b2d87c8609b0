package kafka

import (
	"Petrel/internal/model"
	"time"
)

// Feed maintenance rides through the task topic so a crashed worker picks up
// where it left off. The canonical note row is always written before its task
// is enqueued; the copies may lag but never lead.
type TaskType string

const (
	// TaskHomeFanout copies a freshly created note into follower feeds.
	TaskHomeFanout TaskType = "home_fanout"
	// TaskHomeRefresh rewrites existing feed copies after an edit.
	TaskHomeRefresh TaskType = "home_refresh"
	// TaskRenoteCount and TaskRepliesCount push counter changes into copies.
	TaskRenoteCount  TaskType = "renote_count"
	TaskRepliesCount TaskType = "replies_count"
	// TaskHomeDelete removes feed copies of deleted notes.
	TaskHomeDelete TaskType = "home_delete"
)

// NoteRef carries just enough of a deleted note to address its feed copies
// after the canonical row is gone.
type NoteRef struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
}

func NewNoteRef(n *model.Note) NoteRef {
	return NoteRef{ID: n.ID, CreatedAt: n.CreatedAt, UserID: n.UserID}
}

func (r NoteRef) Note() *model.Note {
	return &model.Note{ID: r.ID, CreatedAt: r.CreatedAt, UserID: r.UserID}
}

type FanoutTask struct {
	ID     string   `json:"id"`
	Type   TaskType `json:"type"`
	NoteID string   `json:"note_id"`

	// Count fields, set for the counter tasks.
	Count int `json:"count,omitempty"`
	Score int `json:"score,omitempty"`

	// Delete payload, resolved at enqueue time while the rows still exist.
	FeedUserIDs []string  `json:"feed_user_ids,omitempty"`
	Notes       []NoteRef `json:"notes,omitempty"`
}
