package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hongminglow/learnhub-be/internal/apperr"
	"github.com/hongminglow/learnhub-be/internal/logging"
	"github.com/hongminglow/learnhub-be/internal/models"
	"github.com/hongminglow/learnhub-be/internal/storage"
	"github.com/hongminglow/learnhub-be/internal/validation"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is one slice of a newest-first listing.
type Page struct {
	Discussions []models.Discussion
	Page        int
	Limit       int
	Total       int
	Pages       int
}

// ContentService serves courses, tutorials and community discussions.
type ContentService struct {
	store storage.ContentStore
	log   logging.Logger
}

// NewContentService constructs the service over store.
func NewContentService(store storage.ContentStore, log logging.Logger) *ContentService {
	return &ContentService{store: store, log: log}
}

// Courses lists every course.
func (s *ContentService) Courses(ctx context.Context) ([]models.Course, error) {
	list, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}

// Course returns one course or a not found error.
func (s *ContentService) Course(ctx context.Context, id int64) (models.Course, error) {
	c, err := s.store.FindCourse(ctx, id)
	return c, lookupErr(err, "course not found")
}

// Tutorials lists every tutorial.
func (s *ContentService) Tutorials(ctx context.Context) ([]models.Tutorial, error) {
	list, err := s.store.ListTutorials(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}

// Tutorial returns one tutorial or a not found error.
func (s *ContentService) Tutorial(ctx context.Context, id int64) (models.Tutorial, error) {
	t, err := s.store.FindTutorial(ctx, id)
	return t, lookupErr(err, "tutorial not found")
}

// Discussions returns one page; page and limit are clamped to sane bounds.
func (s *ContentService) Discussions(ctx context.Context, page, limit int) (Page, error) {
	page, limit = ClampPage(page, limit)
	list, total, err := s.store.ListDiscussions(ctx, (page-1)*limit, limit)
	if err != nil {
		return Page{}, apperr.Internal(err)
	}
	return Page{
		Discussions: list,
		Page:        page,
		Limit:       limit,
		Total:       total,
		Pages:       (total + limit - 1) / limit,
	}, nil
}

// Discussion returns one discussion or a not found error.
func (s *ContentService) Discussion(ctx context.Context, id int64) (models.Discussion, error) {
	d, err := s.store.FindDiscussion(ctx, id)
	return d, lookupErr(err, "discussion not found")
}

// CreateDiscussion opens a topic authored by the principal.
func (s *ContentService) CreateDiscussion(ctx context.Context, author models.Principal, title, content string) (models.Discussion, error) {
	input := validation.NewDiscussion{Title: strings.TrimSpace(title), Content: strings.TrimSpace(content)}
	if err := validation.Struct(input); err != nil {
		return models.Discussion{}, err
	}
	created, err := s.store.CreateDiscussion(ctx, models.Discussion{
		Title:   input.Title,
		Content: input.Content,
		Author:  models.Author{ID: author.ID, Phone: author.Phone},
	})
	if err != nil {
		return models.Discussion{}, apperr.Internal(fmt.Errorf("create discussion: %w", err))
	}
	s.log.Info(ctx, "discussion created", "discussion_id", created.ID, "author_id", author.ID)
	return created, nil
}

// DeleteDiscussion removes a topic; only its author may do so.
func (s *ContentService) DeleteDiscussion(ctx context.Context, caller models.Principal, id int64) error {
	d, err := s.store.FindDiscussion(ctx, id)
	if err != nil {
		return lookupErr(err, "discussion not found")
	}
	if d.Author.ID != caller.ID {
		return apperr.Forbidden("only the author may delete this discussion")
	}
	if err := s.store.DeleteDiscussion(ctx, id); err != nil {
		return lookupErr(err, "discussion not found")
	}
	s.log.Info(ctx, "discussion deleted", "discussion_id", id, "author_id", caller.ID)
	return nil
}

// ClampPage applies the listing defaults: page >= 1, limit in [1, MaxPageSize].
func ClampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	// keep (page-1)*limit inside int
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return page, limit
}

func lookupErr(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return apperr.NotFound(notFound)
	default:
		return apperr.Internal(err)
	}
}
