package store

import (
	"Petrel/internal/api/config"
	"Petrel/internal/model"
	"Petrel/internal/pkg/scylla"
	"context"
	log "log/slog"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
)

// rowQuerier is the thin seam between the store and the driver. Production
// wraps the shared gocql session; tests inject a fake so the pagination
// engine runs without a cluster.
type rowQuerier interface {
	QueryRows(ctx context.Context, stmt string, params ...interface{}) ([]map[string]interface{}, error)
	Exec(ctx context.Context, stmt string, params ...interface{}) error
	// ExecCAS runs a conditional statement and reports whether it applied.
	ExecCAS(ctx context.Context, stmt string, params ...interface{}) (bool, error)
}

type sessionQuerier struct {
	session *gocql.Session
}

func (s *sessionQuerier) QueryRows(ctx context.Context, stmt string, params ...interface{}) ([]map[string]interface{}, error) {
	iter := s.session.Query(stmt, params...).WithContext(ctx).Iter()
	var rows []map[string]interface{}
	for {
		row := map[string]interface{}{}
		if !iter.MapScan(row) {
			break
		}
		rows = append(rows, row)
	}
	return rows, iter.Close()
}

func (s *sessionQuerier) Exec(ctx context.Context, stmt string, params ...interface{}) error {
	return s.session.Query(stmt, params...).WithContext(ctx).Exec()
}

func (s *sessionQuerier) ExecCAS(ctx context.Context, stmt string, params ...interface{}) (bool, error) {
	applied, err := s.session.Query(stmt, params...).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	return applied, err
}

// ScyllaStore serves notes from the wide-column backend through the fixed
// statement catalog.
type ScyllaStore struct {
	q             rowQuerier
	maxPartitions int
}

func NewScyllaStore(cfg *config.ScyllaConfig) *ScyllaStore {
	return &ScyllaStore{
		q:             &sessionQuerier{session: scylla.Session},
		maxPartitions: scylla.SparseTimelineDays(cfg),
	}
}

func (s *ScyllaStore) CreateNote(ctx context.Context, n *model.Note) error {
	if err := s.q.Exec(ctx, scylla.Note.Insert, scylla.NoteParams(n)...); err != nil {
		return errors.Wrap(err, "insert note")
	}
	return nil
}

func (s *ScyllaStore) GetNoteByID(ctx context.Context, id string) (*model.Note, error) {
	rows, err := s.q.QueryRows(ctx, scylla.Note.SelectByID, id)
	if err != nil {
		return nil, errors.Wrap(err, "select note by id")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return scylla.ParseNote(rows[0]), nil
}

func (s *ScyllaStore) GetNotesByIDs(ctx context.Context, ids []string) ([]*model.Note, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.q.QueryRows(ctx, scylla.Note.SelectByIDs, ids)
	if err != nil {
		return nil, errors.Wrap(err, "select notes by ids")
	}
	return parseRows(rows), nil
}

func (s *ScyllaStore) GetNoteByURI(ctx context.Context, uri string) (*model.Note, error) {
	rows, err := s.q.QueryRows(ctx, scylla.Note.SelectByURI, uri)
	if err != nil {
		return nil, errors.Wrap(err, "select note by uri")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return scylla.ParseNote(rows[0]), nil
}

// UpdateNote is an upsert over the existing row key, which is how the
// wide-column backend rewrites content in place.
func (s *ScyllaStore) UpdateNote(ctx context.Context, n *model.Note) error {
	if err := s.q.Exec(ctx, scylla.Note.Insert, scylla.NoteParams(n)...); err != nil {
		return errors.Wrap(err, "rewrite note")
	}
	return nil
}

func (s *ScyllaStore) UpdateRenoteCount(ctx context.Context, target *model.Note, count, score int) error {
	// Conditioned on the row still existing; a vanished target is a no-op.
	_, err := s.q.ExecCAS(ctx, scylla.Note.UpdateRenoteCount,
		count, score, target.CreatedAtDate(), target.CreatedAt, target.UserID)
	if err != nil {
		return errors.Wrap(err, "update renote count")
	}
	return nil
}

func (s *ScyllaStore) UpdateRepliesCount(ctx context.Context, target *model.Note, count int) error {
	_, err := s.q.ExecCAS(ctx, scylla.Note.UpdateRepliesCount,
		count, target.CreatedAtDate(), target.CreatedAt, target.UserID)
	if err != nil {
		return errors.Wrap(err, "update replies count")
	}
	return nil
}

func (s *ScyllaStore) DeleteNotes(ctx context.Context, notes []*model.Note) error {
	for _, n := range notes {
		if err := s.q.Exec(ctx, scylla.Note.Delete, n.CreatedAtDate(), n.CreatedAt, n.UserID); err != nil {
			return errors.Wrapf(err, "delete note %s", n.ID)
		}
	}
	return nil
}

func (s *ScyllaStore) RepliesOf(ctx context.Context, noteID string) ([]*model.Note, error) {
	rows, err := s.q.QueryRows(ctx, scylla.Note.SelectByReplyID, noteID)
	if err != nil {
		return nil, errors.Wrap(err, "select replies")
	}
	return parseRows(rows), nil
}

func (s *ScyllaStore) RenotesOf(ctx context.Context, noteID string) ([]*model.Note, error) {
	rows, err := s.q.QueryRows(ctx, scylla.Note.SelectByRenoteID, noteID)
	if err != nil {
		return nil, errors.Wrap(err, "select renotes")
	}
	return parseRows(rows), nil
}

func (s *ScyllaStore) CountSameRenotes(ctx context.Context, userID, renoteID, excludeID string) (int, error) {
	renotes, err := s.RenotesOf(ctx, renoteID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range renotes {
		if n.UserID == userID && n.ID != excludeID {
			count++
		}
	}
	return count, nil
}

func (s *ScyllaStore) InsertHomeFeedCopies(ctx context.Context, n *model.Note, feedUserIDs []string) error {
	for _, feedUserID := range feedUserIDs {
		if err := s.q.Exec(ctx, scylla.HomeTimeline.Insert, scylla.HomeFeedParams(feedUserID, n)...); err != nil {
			// Copy failures are transient inconsistency, healed by the next
			// write to the same note.
			log.Error("home feed copy failed", "note", n.ID, "feed_user", feedUserID, "err", err)
		}
	}
	return nil
}

func (s *ScyllaStore) RefreshHomeFeedCopies(ctx context.Context, n *model.Note) error {
	entries, err := s.homeFeedCopies(ctx, n.ID)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := s.q.Exec(ctx, scylla.HomeTimeline.Insert, scylla.HomeFeedParams(entry.FeedUserID, n)...); err != nil {
			log.Error("home feed refresh failed", "note", n.ID, "feed_user", entry.FeedUserID, "err", err)
		}
	}
	return nil
}

func (s *ScyllaStore) PropagateRenoteCount(ctx context.Context, noteID string, count, score int) error {
	entries, err := s.homeFeedCopies(ctx, noteID)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		err := s.q.Exec(ctx, scylla.HomeTimeline.UpdateRenoteCount,
			count, score, entry.FeedUserID, entry.CreatedAtDate(), entry.CreatedAt, entry.UserID)
		if err != nil {
			log.Error("renote count propagation failed", "note", noteID, "feed_user", entry.FeedUserID, "err", err)
		}
	}
	return nil
}

func (s *ScyllaStore) PropagateRepliesCount(ctx context.Context, noteID string, count int) error {
	entries, err := s.homeFeedCopies(ctx, noteID)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		err := s.q.Exec(ctx, scylla.HomeTimeline.UpdateRepliesCount,
			count, entry.FeedUserID, entry.CreatedAtDate(), entry.CreatedAt, entry.UserID)
		if err != nil {
			log.Error("replies count propagation failed", "note", noteID, "feed_user", entry.FeedUserID, "err", err)
		}
	}
	return nil
}

func (s *ScyllaStore) DeleteHomeFeedCopies(ctx context.Context, feedUserIDs []string, notes []*model.Note) error {
	for _, feedUserID := range feedUserIDs {
		for _, n := range notes {
			err := s.q.Exec(ctx, scylla.HomeTimeline.Delete,
				feedUserID, n.CreatedAtDate(), n.CreatedAt, n.UserID)
			if err != nil {
				log.Error("home feed delete failed", "note", n.ID, "feed_user", feedUserID, "err", err)
			}
		}
	}
	return nil
}

func (s *ScyllaStore) homeFeedCopies(ctx context.Context, noteID string) ([]*model.HomeFeedEntry, error) {
	rows, err := s.q.QueryRows(ctx, scylla.HomeTimeline.SelectByNoteID, noteID)
	if err != nil {
		return nil, errors.Wrap(err, "select home feed copies")
	}
	entries := make([]*model.HomeFeedEntry, len(rows))
	for i, row := range rows {
		entries[i] = scylla.ParseHomeFeedEntry(row)
	}
	return entries, nil
}

func parseRows(rows []map[string]interface{}) []*model.Note {
	notes := make([]*model.Note, len(rows))
	for i, row := range rows {
		notes[i] = scylla.ParseNote(row)
	}
	return notes
}
