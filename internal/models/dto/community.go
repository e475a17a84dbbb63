package dto

import "github.com/hongminglow/learnhub-be/internal/models"

// CreateDiscussionRequest is the body of POST /api/community/discussions.
type CreateDiscussionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DiscussionView decorates a discussion with caller-relative fields.
type DiscussionView struct {
	models.Discussion
	Mine *bool `json:"mine,omitempty"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// DiscussionList is one page of discussions.
type DiscussionList struct {
	Discussions []DiscussionView `json:"discussions"`
	Pagination  Pagination       `json:"pagination"`
}
