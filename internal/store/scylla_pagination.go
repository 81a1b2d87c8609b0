package store

import (
	"Petrel/internal/model"
	"Petrel/internal/pkg/scylla"
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// pageQuery describes one paginated access pattern: a base select with its
// partition equality, and the parameters for a given until bound. The
// pagination engine only ever appends cursor bounds and the row cap.
type pageQuery struct {
	base   string
	params func(until time.Time) []interface{}
}

func byDateQuery() pageQuery {
	return pageQuery{
		base: scylla.Note.SelectByDate,
		params: func(until time.Time) []interface{} {
			return []interface{}{dateOf(until), until}
		},
	}
}

func byUserQuery(userID string) pageQuery {
	return pageQuery{
		base: scylla.Note.SelectByUserID,
		params: func(until time.Time) []interface{} {
			return []interface{}{userID, until}
		},
	}
}

func byRenoteQuery(renoteID string) pageQuery {
	return pageQuery{
		base: scylla.Note.SelectByRenoteID,
		params: func(until time.Time) []interface{} {
			return []interface{}{renoteID, until}
		},
	}
}

func homeFeedQuery(feedUserID string) pageQuery {
	return pageQuery{
		base: scylla.HomeTimeline.SelectByUser,
		params: func(until time.Time) []interface{} {
			return []interface{}{feedUserID, dateOf(until), until}
		},
	}
}

func (s *ScyllaStore) ListByDate(ctx context.Context, pg Pagination, filter FilterFunc) ([]*model.Note, error) {
	return s.paginate(ctx, pg, byDateQuery(), filter)
}

func (s *ScyllaStore) ListByUser(ctx context.Context, userID string, pg Pagination, filter FilterFunc) ([]*model.Note, error) {
	return s.paginate(ctx, pg, byUserQuery(userID), filter)
}

func (s *ScyllaStore) ListRenotes(ctx context.Context, renoteID string, pg Pagination, filter FilterFunc) ([]*model.Note, error) {
	return s.paginate(ctx, pg, byRenoteQuery(renoteID), filter)
}

func (s *ScyllaStore) ListHomeFeed(ctx context.Context, feedUserID string, pg Pagination, filter FilterFunc) ([]*model.Note, error) {
	return s.paginate(ctx, pg, homeFeedQuery(feedUserID), filter)
}

// paginate walks day partitions backwards in time, one range query in
// flight at a time, until the page is full, the partition-scan bound is hit,
// or the window closes. A filter that rejects an entire batch does not end
// the walk; only the bounds do.
func (s *ScyllaStore) paginate(ctx context.Context, pg Pagination, pq pageQuery, filter FilterFunc) ([]*model.Note, error) {
	until, since := resolveWindow(pg, time.Now().UTC())

	query := pq.base + ` AND created_at < ?`
	if since != nil {
		query += ` AND created_at > ?`
	}
	query += fmt.Sprintf(` LIMIT %d`, scylla.QueryLimit)

	found := []*model.Note{}
	scannedPartitions := 0

	for len(found) < pg.Limit && scannedPartitions < s.maxPartitions {
		params := pq.params(until)
		if since != nil {
			params = append(params, *since)
		}

		rows, err := s.q.QueryRows(ctx, query, params...)
		if err != nil {
			return nil, errors.Wrap(err, "pagination query")
		}

		if len(rows) > 0 {
			notes := parseRows(rows)
			kept := notes
			if filter != nil {
				kept, err = filter(ctx, notes)
				if err != nil {
					return nil, err
				}
			}
			found = append(found, kept...)
			until = notes[len(notes)-1].CreatedAt
		}

		if len(rows) < scylla.QueryLimit {
			// Partition exhausted; move to the day before.
			scannedPartitions++
			until = previousPartitionEnd(until)
			if since != nil && until.Before(*since) {
				break
			}
		}
	}

	if len(found) > pg.Limit {
		found = found[:pg.Limit]
	}
	return found, nil
}
