package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/learnhub-be/internal/http/respond"
	"github.com/hongminglow/learnhub-be/internal/logging"
	"github.com/hongminglow/learnhub-be/internal/service"
)

// ContentHandler serves the read-only course and tutorial catalogue.
type ContentHandler struct {
	content *service.ContentService
	log     logging.Logger
}

// NewContentHandler constructs the course and tutorial handler.
func NewContentHandler(content *service.ContentService, log logging.Logger) *ContentHandler {
	return &ContentHandler{content: content, log: log}
}

// Register mounts the read-only content routes.
func (h *ContentHandler) Register(r chi.Router) {
	r.Get("/courses", h.handleCourses)
	r.Get("/courses/{id}", h.handleCourse)
	r.Get("/tutorials", h.handleTutorials)
	r.Get("/tutorials/{id}", h.handleTutorial)
}

func (h *ContentHandler) handleCourses(w http.ResponseWriter, r *http.Request) {
	list, err := h.content.Courses(r.Context())
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

func (h *ContentHandler) handleCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	course, err := h.content.Course(r.Context(), id)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, course)
}

func (h *ContentHandler) handleTutorials(w http.ResponseWriter, r *http.Request) {
	list, err := h.content.Tutorials(r.Context())
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

func (h *ContentHandler) handleTutorial(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	tutorial, err := h.content.Tutorial(r.Context(), id)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, tutorial)
}
