package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/learnhub-be/internal/models"
	"github.com/hongminglow/learnhub-be/internal/storage"
)

const (
	courseColumns     = `id, title, description, level, duration, image_url, created_at`
	tutorialColumns   = `id, title, description, category, author, published_on, read_time, image_url, created_at`
	discussionColumns = `d.id, d.title, d.content, u.id, u.phone, d.created_at`
)

// ListCourses returns every course in id order.
func (s *Store) ListCourses(ctx context.Context) ([]models.Course, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return collect(rows, scanCourse)
}

func (s *Store) FindCourse(ctx context.Context, id int64) (models.Course, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
	course, err := scanCourse(row)
	return course, notFound(err)
}

// CreateCourse inserts a course and returns it with its id.
func (s *Store) CreateCourse(ctx context.Context, c models.Course) (models.Course, error) {
	const query = `
		INSERT INTO courses (title, description, level, duration, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + courseColumns
	created, err := scanCourse(s.pool.QueryRow(ctx, query, c.Title, c.Description, c.Level, c.Duration, c.ImageURL))
	if err != nil {
		return models.Course{}, fmt.Errorf("insert course: %w", err)
	}
	return created, nil
}

// ListTutorials returns every tutorial in id order.
func (s *Store) ListTutorials(ctx context.Context) ([]models.Tutorial, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+tutorialColumns+` FROM tutorials ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tutorials: %w", err)
	}
	return collect(rows, scanTutorial)
}

func (s *Store) FindTutorial(ctx context.Context, id int64) (models.Tutorial, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+tutorialColumns+` FROM tutorials WHERE id = $1`, id)
	tutorial, err := scanTutorial(row)
	return tutorial, notFound(err)
}

func (s *Store) CreateTutorial(ctx context.Context, t models.Tutorial) (models.Tutorial, error) {
	const query = `
		INSERT INTO tutorials (title, description, category, author, published_on, read_time, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + tutorialColumns
	created, err := scanTutorial(s.pool.QueryRow(ctx, query, t.Title, t.Description, t.Category, t.Author, t.PublishedOn, t.ReadTime, t.ImageURL))
	if err != nil {
		return models.Tutorial{}, fmt.Errorf("insert tutorial: %w", err)
	}
	return created, nil
}

// ListDiscussions returns one page of discussions, newest first, with the total count.
func (s *Store) ListDiscussions(ctx context.Context, offset, limit int) ([]models.Discussion, int, error) {
	const query = `
		SELECT ` + discussionColumns + `
		FROM discussions d
		JOIN users u ON u.id = d.author_id
		ORDER BY d.created_at DESC, d.id DESC
		OFFSET $1 LIMIT $2`
	rows, err := s.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list discussions: %w", err)
	}
	list, err := collect(rows, scanDiscussion)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.CountDiscussions(ctx)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *Store) FindDiscussion(ctx context.Context, id int64) (models.Discussion, error) {
	const query = `
		SELECT ` + discussionColumns + `
		FROM discussions d
		JOIN users u ON u.id = d.author_id
		WHERE d.id = $1`
	discussion, err := scanDiscussion(s.pool.QueryRow(ctx, query, id))
	return discussion, notFound(err)
}

// CreateDiscussion inserts a discussion and returns it with its author.
func (s *Store) CreateDiscussion(ctx context.Context, d models.Discussion) (models.Discussion, error) {
	const query = `
		WITH inserted AS (
			INSERT INTO discussions (title, content, author_id)
			VALUES ($1, $2, $3)
			RETURNING id, title, content, author_id, created_at
		)
		SELECT d.id, d.title, d.content, u.id, u.phone, d.created_at
		FROM inserted d
		JOIN users u ON u.id = d.author_id`
	created, err := scanDiscussion(s.pool.QueryRow(ctx, query, d.Title, d.Content, d.Author.ID))
	if err != nil {
		return models.Discussion{}, fmt.Errorf("insert discussion: %w", err)
	}
	return created, nil
}

// DeleteDiscussion removes a discussion, returning storage.ErrNotFound when absent.
func (s *Store) DeleteDiscussion(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM discussions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete discussion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) CountDiscussions(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM discussions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count discussions: %w", err)
	}
	return n, nil
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanCourse(row pgx.Row) (models.Course, error) {
	var c models.Course
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Level, &c.Duration, &c.ImageURL, &c.CreatedAt)
	return c, err
}

func scanTutorial(row pgx.Row) (models.Tutorial, error) {
	var t models.Tutorial
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &t.Author, &t.PublishedOn, &t.ReadTime, &t.ImageURL, &t.CreatedAt)
	return t, err
}

func scanDiscussion(row pgx.Row) (models.Discussion, error) {
	var d models.Discussion
	err := row.Scan(&d.ID, &d.Title, &d.Content, &d.Author.ID, &d.Author.Phone, &d.CreatedAt)
	return d, err
}
