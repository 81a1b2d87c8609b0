package store

import (
	"Petrel/internal/api/config"
	"Petrel/internal/model"
	"context"
	log "log/slog"
	"time"

	"gorm.io/gorm"
)

// FilterFunc narrows a fetched batch in memory. The wide-column backend
// cannot filter server-side, so every read path runs one of these after
// retrieval. Filters must be idempotent and side-effect free.
type FilterFunc func(ctx context.Context, notes []*model.Note) ([]*model.Note, error)

// Pagination is the cursor window of one page request. Ids beat dates when
// both are present and the more restrictive bound wins.
type Pagination struct {
	SinceID   string
	UntilID   string
	SinceDate *time.Time
	UntilDate *time.Time
	Limit     int
}

// NoteStore is the storage-facing interface of the timeline store. Exactly
// one implementation is selected at process start: the wide-column backend
// when the scylla configuration section is present, the relational fallback
// otherwise. They are never mixed per request.
type NoteStore interface {
	CreateNote(ctx context.Context, n *model.Note) error
	GetNoteByID(ctx context.Context, id string) (*model.Note, error)
	GetNotesByIDs(ctx context.Context, ids []string) ([]*model.Note, error)
	GetNoteByURI(ctx context.Context, uri string) (*model.Note, error)
	// UpdateNote rewrites the canonical row. The row key (partition date,
	// creation time, author) never changes; everything else is upserted.
	UpdateNote(ctx context.Context, n *model.Note) error
	UpdateRenoteCount(ctx context.Context, target *model.Note, count, score int) error
	UpdateRepliesCount(ctx context.Context, target *model.Note, count int) error
	DeleteNotes(ctx context.Context, notes []*model.Note) error

	ListByDate(ctx context.Context, pg Pagination, filter FilterFunc) ([]*model.Note, error)
	ListByUser(ctx context.Context, userID string, pg Pagination, filter FilterFunc) ([]*model.Note, error)
	ListRenotes(ctx context.Context, renoteID string, pg Pagination, filter FilterFunc) ([]*model.Note, error)
	ListHomeFeed(ctx context.Context, feedUserID string, pg Pagination, filter FilterFunc) ([]*model.Note, error)

	RepliesOf(ctx context.Context, noteID string) ([]*model.Note, error)
	RenotesOf(ctx context.Context, noteID string) ([]*model.Note, error)
	CountSameRenotes(ctx context.Context, userID, renoteID, excludeID string) (int, error)

	// Home-feed propagation, driven by the fan-out queue workers.
	InsertHomeFeedCopies(ctx context.Context, n *model.Note, feedUserIDs []string) error
	RefreshHomeFeedCopies(ctx context.Context, n *model.Note) error
	PropagateRenoteCount(ctx context.Context, noteID string, count, score int) error
	PropagateRepliesCount(ctx context.Context, noteID string, count int) error
	DeleteHomeFeedCopies(ctx context.Context, feedUserIDs []string, notes []*model.Note) error
}

// SelectBackend picks the note store implementation for this process.
func SelectBackend(cfg *config.Config, db *gorm.DB) NoteStore {
	if cfg.Scylla != nil {
		log.Info("Note storage backend: scylla", "keyspace", cfg.Scylla.Keyspace)
		return NewScyllaStore(cfg.Scylla)
	}
	log.Info("Note storage backend: relational fallback")
	return NewGormStore(db)
}
