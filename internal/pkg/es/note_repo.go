package es

import (
	"context"
	"errors"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/goccy/go-json"
)

type NoteRepo interface {
	IndexNote(ctx context.Context, note *NoteES) error
	DeleteNotes(ctx context.Context, ids []string) error
	SearchNotes(ctx context.Context, queryText string, from, size int) ([]*NoteES, error)
}

type NoteRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewNoteRepo(client *elasticsearch.TypedClient) NoteRepo {
	return &NoteRepoImpl{client: client}
}

func (s *NoteRepoImpl) IndexNote(ctx context.Context, note *NoteES) error {
	_, err := s.client.Index(NoteIndex).
		Id(note.ID).
		Document(note).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == ConflictCode {
			return nil
		}
		return err
	}
	return nil
}

// DeleteNotes removes the documents for a whole cascade in one pass. Missing
// documents are fine; remote notes are never indexed.
func (s *NoteRepoImpl) DeleteNotes(ctx context.Context, ids []string) error {
	for _, id := range ids {
		_, err := s.client.Delete(NoteIndex, id).Do(ctx)
		if err != nil {
			var e *types.ElasticsearchError
			if errors.As(err, &e) && e.Status == NotFoundCode {
				continue
			}
			return err
		}
	}
	return nil
}

func (s *NoteRepoImpl) SearchNotes(ctx context.Context, queryText string, from, size int) ([]*NoteES, error) {
	resp, err := s.client.Search().
		Index(NoteIndex).
		From(from).
		Size(size).
		Query(&types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:  queryText,
				Fields: []string{"text", "cw", "tags"},
			},
		}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"created_at": {Order: &sortorder.Desc},
		}}).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	notes := make([]*NoteES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var n NoteES
		if err := json.Unmarshal(hit.Source_, &n); err != nil {
			continue
		}
		notes = append(notes, &n)
	}
	return notes, nil
}
