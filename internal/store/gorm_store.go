package store

import (
	"Petrel/internal/model"
	"Petrel/internal/pkg/scylla"
	"context"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GormStore is the relational fallback. Timelines are computed with joins at
// read time, so there are no per-follower copies and the propagation methods
// are no-ops.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateNote(ctx context.Context, n *model.Note) error {
	err := s.db.WithContext(ctx).Create(n).Error
	if isDuplicateError(err) {
		// Remote deliveries are at-least-once; a replayed create is not an
		// error.
		return nil
	}
	return errors.Wrap(err, "insert note")
}

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return false
}

func (s *GormStore) GetNoteByID(ctx context.Context, id string) (*model.Note, error) {
	var n model.Note
	err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select note by id")
	}
	return &n, nil
}

func (s *GormStore) GetNotesByIDs(ctx context.Context, ids []string) ([]*model.Note, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var notes []*model.Note
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&notes).Error
	if err != nil {
		return nil, errors.Wrap(err, "select notes by ids")
	}
	return notes, nil
}

func (s *GormStore) GetNoteByURI(ctx context.Context, uri string) (*model.Note, error) {
	var n model.Note
	err := s.db.WithContext(ctx).First(&n, "uri = ?", uri).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select note by uri")
	}
	return &n, nil
}

func (s *GormStore) UpdateNote(ctx context.Context, n *model.Note) error {
	return errors.Wrap(s.db.WithContext(ctx).Save(n).Error, "rewrite note")
}

func (s *GormStore) UpdateRenoteCount(ctx context.Context, target *model.Note, count, score int) error {
	err := s.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ?", target.ID).
		Updates(map[string]interface{}{"renote_count": count, "score": score}).Error
	return errors.Wrap(err, "update renote count")
}

func (s *GormStore) UpdateRepliesCount(ctx context.Context, target *model.Note, count int) error {
	err := s.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ?", target.ID).
		Update("replies_count", count).Error
	return errors.Wrap(err, "update replies count")
}

func (s *GormStore) DeleteNotes(ctx context.Context, notes []*model.Note) error {
	ids := make([]string, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	return errors.Wrap(s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Note{}).Error, "delete notes")
}

func (s *GormStore) ListByDate(ctx context.Context, pg Pagination, filter FilterFunc) ([]*model.Note, error) {
	return s.list(ctx, pg, filter, func(q *gorm.DB) *gorm.DB { return q })
}

func (s *GormStore) ListByUser(ctx context.Context, userID string, pg Pagination, filter FilterFunc) ([]*model.Note, error) {
	return s.list(ctx, pg, filter, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	})
}

func (s *GormStore) ListRenotes(ctx context.Context, renoteID string, pg Pagination, filter FilterFunc) ([]*model.Note, error) {
	return s.list(ctx, pg, filter, func(q *gorm.DB) *gorm.DB {
		return q.Where("renote_id = ?", renoteID)
	})
}

func (s *GormStore) ListHomeFeed(ctx context.Context, feedUserID string, pg Pagination, filter FilterFunc) ([]*model.Note, error) {
	return s.list(ctx, pg, filter, func(q *gorm.DB) *gorm.DB {
		return q.Where(
			"user_id = ? OR user_id IN (SELECT followee_id FROM followings WHERE follower_id = ?)",
			feedUserID, feedUserID,
		)
	})
}

// list pulls batches ordered by creation time descending and filters them in
// memory, matching the wide-column read path's semantics.
func (s *GormStore) list(ctx context.Context, pg Pagination, filter FilterFunc, scope func(*gorm.DB) *gorm.DB) ([]*model.Note, error) {
	until, since := resolveWindow(pg, time.Now().UTC())

	found := []*model.Note{}
	for len(found) < pg.Limit {
		q := scope(s.db.WithContext(ctx).Model(&model.Note{})).
			Where("created_at < ?", until)
		if since != nil {
			q = q.Where("created_at > ?", *since)
		}

		var batch []*model.Note
		err := q.Order("created_at DESC").Limit(scylla.QueryLimit).Find(&batch).Error
		if err != nil {
			return nil, errors.Wrap(err, "list notes")
		}
		if len(batch) == 0 {
			break
		}

		kept := batch
		if filter != nil {
			kept, err = filter(ctx, batch)
			if err != nil {
				return nil, err
			}
		}
		found = append(found, kept...)
		until = batch[len(batch)-1].CreatedAt

		if len(batch) < scylla.QueryLimit {
			break
		}
	}

	if len(found) > pg.Limit {
		found = found[:pg.Limit]
	}
	return found, nil
}

func (s *GormStore) RepliesOf(ctx context.Context, noteID string) ([]*model.Note, error) {
	var notes []*model.Note
	err := s.db.WithContext(ctx).Where("reply_id = ?", noteID).Find(&notes).Error
	if err != nil {
		return nil, errors.Wrap(err, "select replies")
	}
	return notes, nil
}

func (s *GormStore) RenotesOf(ctx context.Context, noteID string) ([]*model.Note, error) {
	var notes []*model.Note
	err := s.db.WithContext(ctx).Where("renote_id = ?", noteID).Find(&notes).Error
	if err != nil {
		return nil, errors.Wrap(err, "select renotes")
	}
	return notes, nil
}

func (s *GormStore) CountSameRenotes(ctx context.Context, userID, renoteID, excludeID string) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Note{}).
		Where("user_id = ? AND renote_id = ? AND id <> ?", userID, renoteID, excludeID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "count same renotes")
	}
	return int(count), nil
}

// The relational backend has no denormalized copies to maintain.

func (s *GormStore) InsertHomeFeedCopies(context.Context, *model.Note, []string) error {
	return nil
}

func (s *GormStore) RefreshHomeFeedCopies(context.Context, *model.Note) error {
	return nil
}

func (s *GormStore) PropagateRenoteCount(context.Context, string, int, int) error {
	return nil
}

func (s *GormStore) PropagateRepliesCount(context.Context, string, int) error {
	return nil
}

func (s *GormStore) DeleteHomeFeedCopies(context.Context, []string, []*model.Note) error {
	return nil
}
