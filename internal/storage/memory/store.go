// Package memory is an in-process storage.Store used for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hongminglow/learnhub-be/internal/models"
	"github.com/hongminglow/learnhub-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps every record in maps guarded by a single mutex.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users       map[int64]models.User
	phones      map[string]int64
	courses     map[int64]models.Course
	tutorials   map[int64]models.Tutorial
	discussions map[int64]models.Discussion

	nextUser, nextCourse, nextTutorial, nextDiscussion int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:         time.Now,
		users:       make(map[int64]models.User),
		phones:      make(map[string]int64),
		courses:     make(map[int64]models.Course),
		tutorials:   make(map[int64]models.Tutorial),
		discussions: make(map[int64]models.Discussion),
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() {}

// CreateUser assigns the next id, rejecting duplicate phones with storage.ErrAlreadyExists.
func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.phones[user.Phone]; ok {
		return models.User{}, storage.ErrAlreadyExists
	}
	s.nextUser++
	user.ID = s.nextUser
	user.CreatedAt = s.now().UTC()
	s.users[user.ID] = user
	s.phones[user.Phone] = user.ID
	return user, nil
}

func (s *Store) FindByPhone(_ context.Context, phone string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.phones[phone]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) FindByID(_ context.Context, id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

// DeleteUser removes a user and the discussions they authored. It mirrors an
// administrative removal; no API route calls it.
func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	delete(s.phones, user.Phone)
	for did, d := range s.discussions {
		if d.Author.ID == id {
			delete(s.discussions, did)
		}
	}
	return nil
}

func (s *Store) CountUsers(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func (s *Store) ListCourses(context.Context) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) FindCourse(_ context.Context, id int64) (models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return models.Course{}, storage.ErrNotFound
	}
	return c, nil
}

func (s *Store) CreateCourse(_ context.Context, c models.Course) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCourse++
	c.ID = s.nextCourse
	c.CreatedAt = s.now().UTC()
	s.courses[c.ID] = c
	return c, nil
}

func (s *Store) ListTutorials(context.Context) ([]models.Tutorial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Tutorial, 0, len(s.tutorials))
	for _, t := range s.tutorials {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) FindTutorial(_ context.Context, id int64) (models.Tutorial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tutorials[id]
	if !ok {
		return models.Tutorial{}, storage.ErrNotFound
	}
	return t, nil
}

func (s *Store) CreateTutorial(_ context.Context, t models.Tutorial) (models.Tutorial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTutorial++
	t.ID = s.nextTutorial
	t.CreatedAt = s.now().UTC()
	s.tutorials[t.ID] = t
	return t, nil
}

// ListDiscussions returns one page, newest first, and the total count.
func (s *Store) ListDiscussions(_ context.Context, offset, limit int) ([]models.Discussion, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]models.Discussion, 0, len(s.discussions))
	for _, d := range s.discussions {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := len(all)
	if offset < 0 || offset >= total {
		return []models.Discussion{}, total, nil
	}
	end := offset + limit
	if limit < 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *Store) FindDiscussion(_ context.Context, id int64) (models.Discussion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.discussions[id]
	if !ok {
		return models.Discussion{}, storage.ErrNotFound
	}
	return d, nil
}

func (s *Store) CreateDiscussion(_ context.Context, d models.Discussion) (models.Discussion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	author, ok := s.users[d.Author.ID]
	if !ok {
		return models.Discussion{}, storage.ErrNotFound
	}
	s.nextDiscussion++
	d.ID = s.nextDiscussion
	d.Author = models.Author{ID: author.ID, Phone: author.Phone}
	d.CreatedAt = s.now().UTC()
	s.discussions[d.ID] = d
	return d, nil
}

func (s *Store) DeleteDiscussion(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.discussions[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.discussions, id)
	return nil
}

func (s *Store) CountDiscussions(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.discussions), nil
}
