package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hongminglow/learnhub-be/internal/logging"
	"github.com/hongminglow/learnhub-be/internal/seed"
	"github.com/hongminglow/learnhub-be/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	log := logging.New(os.Stdout, os.Getenv("LOG_LEVEL"), false)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	store, err := postgres.NewStore(ctx, dbURL)
	if err != nil {
		log.Error(ctx, "connect to database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	res, err := seed.Run(ctx, store)
	if err != nil {
		log.Error(ctx, "seed failed", "error", err)
		store.Close()
		os.Exit(1)
	}

	log.Info(ctx, "seed completed",
		"author_id", res.AuthorID,
		"courses", res.Courses,
		"tutorials", res.Tutorials,
		"discussions", res.Discussions,
	)
}
