// Package seed loads the starter catalogue and demo discussions.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hongminglow/learnhub-be/internal/auth"
	"github.com/hongminglow/learnhub-be/internal/models"
	"github.com/hongminglow/learnhub-be/internal/storage"
)

// SystemPhone owns the seeded discussions. Its password is random, so the
// account cannot be logged into.
const SystemPhone = "00000000000"

// Result counts what a run inserted.
type Result struct {
	AuthorID    int64
	Courses     int
	Tutorials   int
	Discussions int
}

var courses = []models.Course{
	{
		Title:       "Bitcoin Fundamentals",
		Description: "Learn what bitcoin is, where it came from and how it works",
		Level:       "Beginner",
		Duration:    "3 hours",
		ImageURL:    "https://images.learnhub.dev/courses/bitcoin-basics.png",
	},
	{
		Title:       "How Blockchains Work",
		Description: "A deeper look at the core ideas and mechanics behind blockchains",
		Level:       "Intermediate",
		Duration:    "5 hours",
		ImageURL:    "https://images.learnhub.dev/courses/blockchain-technology.png",
	},
}

var tutorials = []models.Tutorial{
	{
		Title:       "Storing Bitcoin Safely",
		Description: "Wallet types and the security trade-offs between them",
		Category:    "Security",
		Author:      "Blockchain Specialist",
		PublishedOn: "2025-09-15",
		ReadTime:    "8 min",
		ImageURL:    "https://images.learnhub.dev/tutorials/wallet-security.png",
	},
	{
		Title:       "Bitcoin Trading Basics",
		Description: "Placing your first buy and sell orders on an exchange",
		Category:    "Trading",
		Author:      "Crypto Analyst",
		PublishedOn: "2025-09-10",
		ReadTime:    "12 min",
		ImageURL:    "https://images.learnhub.dev/tutorials/trading-basics.png",
	},
}

var discussions = []models.Discussion{
	{Title: "Bitcoin just broke $100k. Hold or take profit?", Content: "Share your view."},
	{Title: "Beginner question: how do I pick a safe wallet?", Content: "Tell us what wallet you use and why."},
}

// Run seeds the store. The system author is reused when it already exists, and
// each content group is only inserted into an empty table, so reruns are safe.
func Run(ctx context.Context, store storage.Store) (Result, error) {
	var res Result

	author, err := systemAuthor(ctx, store)
	if err != nil {
		return res, err
	}
	res.AuthorID = author.ID

	existingCourses, err := store.ListCourses(ctx)
	if err != nil {
		return res, fmt.Errorf("list courses: %w", err)
	}
	if len(existingCourses) == 0 {
		for _, c := range courses {
			if _, err := store.CreateCourse(ctx, c); err != nil {
				return res, fmt.Errorf("create course %q: %w", c.Title, err)
			}
			res.Courses++
		}
	}

	existingTutorials, err := store.ListTutorials(ctx)
	if err != nil {
		return res, fmt.Errorf("list tutorials: %w", err)
	}
	if len(existingTutorials) == 0 {
		for _, t := range tutorials {
			if _, err := store.CreateTutorial(ctx, t); err != nil {
				return res, fmt.Errorf("create tutorial %q: %w", t.Title, err)
			}
			res.Tutorials++
		}
	}

	count, err := store.CountDiscussions(ctx)
	if err != nil {
		return res, fmt.Errorf("count discussions: %w", err)
	}
	if count == 0 {
		for _, d := range discussions {
			d.Author = models.Author{ID: author.ID, Phone: author.Phone}
			if _, err := store.CreateDiscussion(ctx, d); err != nil {
				return res, fmt.Errorf("create discussion %q: %w", d.Title, err)
			}
			res.Discussions++
		}
	}

	return res, nil
}

func systemAuthor(ctx context.Context, store storage.UserStore) (models.User, error) {
	user, err := store.FindByPhone(ctx, SystemPhone)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, fmt.Errorf("find system author: %w", err)
	}

	hash, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		return models.User{}, fmt.Errorf("hash system password: %w", err)
	}
	user, err = store.CreateUser(ctx, models.User{Phone: SystemPhone, PasswordHash: hash})
	if err != nil {
		return models.User{}, fmt.Errorf("create system author: %w", err)
	}
	return user, nil
}
