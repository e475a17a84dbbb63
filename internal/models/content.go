package models

import "time"

// Course is a structured learning track.
type Course struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Level       string    `json:"level"`
	Duration    string    `json:"duration"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Tutorial is a standalone article.
type Tutorial struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Author      string    `json:"author"`
	PublishedOn string    `json:"date"`
	ReadTime    string    `json:"readTime"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Author is the public view of a discussion's creator.
type Author struct {
	ID    int64  `json:"id"`
	Phone string `json:"phone"`
}

// Discussion is a community forum topic.
type Discussion struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}
