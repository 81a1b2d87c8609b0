package service

import (
	"Petrel/internal/api/config"
	"Petrel/internal/federation"
	"Petrel/internal/model"
	"Petrel/internal/pkg/es"
	"Petrel/internal/pkg/kafka"
	"Petrel/internal/pkg/redis"
	"Petrel/internal/pkg/util"
	"Petrel/internal/store"
	"context"
	"os"
	"testing"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

func TestMain(m *testing.M) {
	config.Cfg = &config.Config{
		Server: config.ServerConfig{URL: "https://petrel.test", Host: "petrel.test"},
	}
	// Stream publishes hit this client and fail fast; the service treats that
	// as a logged event loss, not an error.
	redis.Rdb = redisv9.NewClient(&redisv9.Options{Addr: "127.0.0.1:1", DialTimeout: 10 * time.Millisecond})
	os.Exit(m.Run())
}

// fakeNoteStore is an in-memory NoteStore covering the paths the services
// exercise.
type fakeNoteStore struct {
	notes         map[string]*model.Note
	deletedIDs    []string
	renoteCounts  map[string][2]int
	repliesCounts map[string]int
}

func newFakeNoteStore(notes ...*model.Note) *fakeNoteStore {
	s := &fakeNoteStore{
		notes:         map[string]*model.Note{},
		renoteCounts:  map[string][2]int{},
		repliesCounts: map[string]int{},
	}
	for _, n := range notes {
		s.notes[n.ID] = n
	}
	return s
}

func (s *fakeNoteStore) CreateNote(_ context.Context, n *model.Note) error {
	s.notes[n.ID] = n
	return nil
}

func (s *fakeNoteStore) GetNoteByID(_ context.Context, id string) (*model.Note, error) {
	return s.notes[id], nil
}

func (s *fakeNoteStore) GetNotesByIDs(_ context.Context, ids []string) ([]*model.Note, error) {
	var out []*model.Note
	for _, id := range ids {
		if n, ok := s.notes[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *fakeNoteStore) GetNoteByURI(_ context.Context, uri string) (*model.Note, error) {
	for _, n := range s.notes {
		if n.URI == uri {
			return n, nil
		}
	}
	return nil, nil
}

func (s *fakeNoteStore) UpdateNote(_ context.Context, n *model.Note) error {
	s.notes[n.ID] = n
	return nil
}

func (s *fakeNoteStore) UpdateRenoteCount(_ context.Context, target *model.Note, count, score int) error {
	s.renoteCounts[target.ID] = [2]int{count, score}
	return nil
}

func (s *fakeNoteStore) UpdateRepliesCount(_ context.Context, target *model.Note, count int) error {
	s.repliesCounts[target.ID] = count
	return nil
}

func (s *fakeNoteStore) DeleteNotes(_ context.Context, notes []*model.Note) error {
	for _, n := range notes {
		delete(s.notes, n.ID)
		s.deletedIDs = append(s.deletedIDs, n.ID)
	}
	return nil
}

func (s *fakeNoteStore) ListByDate(context.Context, store.Pagination, store.FilterFunc) ([]*model.Note, error) {
	return nil, nil
}

func (s *fakeNoteStore) ListByUser(context.Context, string, store.Pagination, store.FilterFunc) ([]*model.Note, error) {
	return nil, nil
}

func (s *fakeNoteStore) ListRenotes(context.Context, string, store.Pagination, store.FilterFunc) ([]*model.Note, error) {
	return nil, nil
}

func (s *fakeNoteStore) ListHomeFeed(context.Context, string, store.Pagination, store.FilterFunc) ([]*model.Note, error) {
	return nil, nil
}

func (s *fakeNoteStore) RepliesOf(_ context.Context, noteID string) ([]*model.Note, error) {
	var out []*model.Note
	for _, n := range s.notes {
		if n.ReplyID == noteID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *fakeNoteStore) RenotesOf(_ context.Context, noteID string) ([]*model.Note, error) {
	var out []*model.Note
	for _, n := range s.notes {
		if n.RenoteID == noteID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *fakeNoteStore) CountSameRenotes(_ context.Context, userID, renoteID, excludeID string) (int, error) {
	count := 0
	for _, n := range s.notes {
		if n.UserID == userID && n.RenoteID == renoteID && n.ID != excludeID {
			count++
		}
	}
	return count, nil
}

func (s *fakeNoteStore) InsertHomeFeedCopies(context.Context, *model.Note, []string) error {
	return nil
}

func (s *fakeNoteStore) RefreshHomeFeedCopies(context.Context, *model.Note) error {
	return nil
}

func (s *fakeNoteStore) PropagateRenoteCount(context.Context, string, int, int) error {
	return nil
}

func (s *fakeNoteStore) PropagateRepliesCount(context.Context, string, int) error {
	return nil
}

func (s *fakeNoteStore) DeleteHomeFeedCopies(context.Context, []string, []*model.Note) error {
	return nil
}

type fakeProducer struct {
	tasks []*kafka.FanoutTask
}

func (p *fakeProducer) Enqueue(task *kafka.FanoutTask) error {
	p.tasks = append(p.tasks, task)
	return nil
}

func (p *fakeProducer) Close() error { return nil }

func (p *fakeProducer) ofType(t kafka.TaskType) []*kafka.FanoutTask {
	var out []*kafka.FanoutTask
	for _, task := range p.tasks {
		if task.Type == t {
			out = append(out, task)
		}
	}
	return out
}

type fakeNoteES struct {
	indexed []string
	deleted []string
}

func (e *fakeNoteES) IndexNote(_ context.Context, note *es.NoteES) error {
	e.indexed = append(e.indexed, note.ID)
	return nil
}

func (e *fakeNoteES) DeleteNotes(_ context.Context, ids []string) error {
	e.deleted = append(e.deleted, ids...)
	return nil
}

func (e *fakeNoteES) SearchNotes(context.Context, string, int, int) ([]*es.NoteES, error) {
	return nil, nil
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetUsersByIDs(_ context.Context, ids []string) ([]*model.User, error) {
	var out []*model.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ListLocalUserIDs(context.Context) ([]string, error) {
	var out []string
	for id, u := range r.users {
		if u.IsLocal() {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ListSuspendedIDs(context.Context) ([]string, error) { return nil, nil }

type fakeFollowingRepo struct {
	followers map[string][]string
}

func (r *fakeFollowingRepo) ListFollowerIDs(_ context.Context, userID string) ([]string, error) {
	return r.followers[userID], nil
}

func (r *fakeFollowingRepo) ListFolloweeIDs(context.Context, string) ([]string, error) {
	return nil, nil
}

func (r *fakeFollowingRepo) ListChannelFollowIDs(context.Context, string) ([]string, error) {
	return nil, nil
}

type fakeAuxRepo struct {
	deleted []string
}

func (r *fakeAuxRepo) DeleteByNoteIDs(_ context.Context, noteIDs []string) error {
	r.deleted = append(r.deleted, noteIDs...)
	return nil
}

type fixture struct {
	svc      NoteService
	store    *fakeNoteStore
	producer *fakeProducer
	noteES   *fakeNoteES
	aux      *fakeAuxRepo
}

func newFixture(t *testing.T, users map[string]*model.User, notes ...*model.Note) *fixture {
	t.Helper()

	st := newFakeNoteStore(notes...)
	producer := &fakeProducer{}
	noteES := &fakeNoteES{}
	aux := &fakeAuxRepo{}
	userRepo := &fakeUserRepo{users: users}
	followRepo := &fakeFollowingRepo{followers: map[string][]string{}}
	deliver := federation.NewDeliverer(config.FederationConfig{}, userRepo, followRepo)

	return &fixture{
		svc:      NewNoteService(st, userRepo, aux, noteES, producer, deliver),
		store:    st,
		producer: producer,
		noteES:   noteES,
		aux:      aux,
	}
}

func localUser(id string) *model.User {
	return &model.User{ID: id, Username: id}
}

func noteBy(userID, text string, at time.Time) *model.Note {
	return &model.Note{
		ID:         util.GenID(at),
		CreatedAt:  at,
		UserID:     userID,
		Visibility: model.VisibilityPublic,
		Text:       text,
	}
}
