package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/learnhub-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore is the credential store consulted by login and token verification.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByPhone(ctx context.Context, phone string) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// ContentStore persists courses, tutorials and community discussions.
type ContentStore interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	FindCourse(ctx context.Context, id int64) (models.Course, error)
	CreateCourse(ctx context.Context, course models.Course) (models.Course, error)

	ListTutorials(ctx context.Context) ([]models.Tutorial, error)
	FindTutorial(ctx context.Context, id int64) (models.Tutorial, error)
	CreateTutorial(ctx context.Context, tutorial models.Tutorial) (models.Tutorial, error)

	// ListDiscussions returns newest-first discussions and the total count.
	ListDiscussions(ctx context.Context, offset, limit int) ([]models.Discussion, int, error)
	FindDiscussion(ctx context.Context, id int64) (models.Discussion, error)
	CreateDiscussion(ctx context.Context, discussion models.Discussion) (models.Discussion, error)
	DeleteDiscussion(ctx context.Context, id int64) error
	CountDiscussions(ctx context.Context) (int, error)
}

// Store is the full data-access handle injected into services.
type Store interface {
	UserStore
	ContentStore
	Ping(ctx context.Context) error
	Close()
}
