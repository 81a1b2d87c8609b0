package service

import (
	"Petrel/internal/api/dto"
	"Petrel/internal/model"
	"Petrel/internal/pkg/es"
	"Petrel/internal/store"
	"Petrel/internal/timeline"
	"context"
	"time"
)

type TimelineService interface {
	HomeTimeline(ctx context.Context, viewerID string, q *dto.TimelineQueryDTO) ([]*model.Note, error)
	LocalTimeline(ctx context.Context, viewerID string, q *dto.TimelineQueryDTO) ([]*model.Note, error)
	GlobalTimeline(ctx context.Context, viewerID string, q *dto.TimelineQueryDTO) ([]*model.Note, error)
	UserTimeline(ctx context.Context, viewerID, targetUserID string, q *dto.TimelineQueryDTO) ([]*model.Note, error)
	NoteRenotes(ctx context.Context, viewerID, noteID string, q *dto.TimelineQueryDTO) ([]*model.Note, error)
	SearchNotes(ctx context.Context, viewerID string, q *dto.SearchQueryDTO) ([]*model.Note, error)
}

type timelineServiceImpl struct {
	notes    store.NoteStore
	pipeline *timeline.Pipeline
	noteES   es.NoteRepo
}

func NewTimelineService(notes store.NoteStore, pipeline *timeline.Pipeline, noteES es.NoteRepo) TimelineService {
	return &timelineServiceImpl{notes: notes, pipeline: pipeline, noteES: noteES}
}

func toPagination(q *dto.TimelineQueryDTO) store.Pagination {
	pg := store.Pagination{
		SinceID: q.SinceID,
		UntilID: q.UntilID,
		Limit:   q.Limit,
	}
	if q.SinceDate > 0 {
		t := time.UnixMilli(q.SinceDate).UTC()
		pg.SinceDate = &t
	}
	if q.UntilDate > 0 {
		t := time.UnixMilli(q.UntilDate).UTC()
		pg.UntilDate = &t
	}
	return pg
}

func (s *timelineServiceImpl) HomeTimeline(ctx context.Context, viewerID string, q *dto.TimelineQueryDTO) ([]*model.Note, error) {
	if viewerID == "" {
		return nil, UnauthorizedError
	}
	filter := s.pipeline.Filter(timeline.ViewerOptions{ViewerID: viewerID, WithReplies: q.WithReplies})
	return s.notes.ListHomeFeed(ctx, viewerID, toPagination(q), filter)
}

func (s *timelineServiceImpl) LocalTimeline(ctx context.Context, viewerID string, q *dto.TimelineQueryDTO) ([]*model.Note, error) {
	filter := s.pipeline.Filter(timeline.ViewerOptions{ViewerID: viewerID, WithReplies: q.WithReplies})
	return s.notes.ListByDate(ctx, toPagination(q), localOnly(filter))
}

func (s *timelineServiceImpl) GlobalTimeline(ctx context.Context, viewerID string, q *dto.TimelineQueryDTO) ([]*model.Note, error) {
	filter := s.pipeline.Filter(timeline.ViewerOptions{ViewerID: viewerID, WithReplies: q.WithReplies})
	return s.notes.ListByDate(ctx, toPagination(q), filter)
}

// localOnly narrows a batch to notes authored on this instance before the
// viewer filter runs.
func localOnly(next store.FilterFunc) store.FilterFunc {
	return func(ctx context.Context, notes []*model.Note) ([]*model.Note, error) {
		kept := make([]*model.Note, 0, len(notes))
		for _, n := range notes {
			if n.IsLocal() {
				kept = append(kept, n)
			}
		}
		return next(ctx, kept)
	}
}

func (s *timelineServiceImpl) UserTimeline(ctx context.Context, viewerID, targetUserID string, q *dto.TimelineQueryDTO) ([]*model.Note, error) {
	filter := s.pipeline.Filter(timeline.ViewerOptions{ViewerID: viewerID, WithReplies: q.WithReplies})
	return s.notes.ListByUser(ctx, targetUserID, toPagination(q), filter)
}

func (s *timelineServiceImpl) NoteRenotes(ctx context.Context, viewerID, noteID string, q *dto.TimelineQueryDTO) ([]*model.Note, error) {
	filter := s.pipeline.Filter(timeline.ViewerOptions{ViewerID: viewerID, WithReplies: true})
	return s.notes.ListRenotes(ctx, noteID, toPagination(q), filter)
}

// SearchNotes resolves hits from the search index back to live rows; anything
// deleted since indexing just drops out.
func (s *timelineServiceImpl) SearchNotes(ctx context.Context, viewerID string, q *dto.SearchQueryDTO) ([]*model.Note, error) {
	hits, err := s.noteES.SearchNotes(ctx, q.Query, q.From, q.Size)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}

	notes, err := s.notes.GetNotesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.Note, len(notes))
	for _, n := range notes {
		byID[n.ID] = n
	}
	ordered := make([]*model.Note, 0, len(hits))
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			ordered = append(ordered, n)
		}
	}

	filter := s.pipeline.Filter(timeline.ViewerOptions{ViewerID: viewerID, WithReplies: true})
	return filter(ctx, ordered)
}
