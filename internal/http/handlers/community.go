package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/learnhub-be/internal/http/respond"
	"github.com/hongminglow/learnhub-be/internal/logging"
	"github.com/hongminglow/learnhub-be/internal/middleware"
	"github.com/hongminglow/learnhub-be/internal/models"
	"github.com/hongminglow/learnhub-be/internal/models/dto"
	"github.com/hongminglow/learnhub-be/internal/service"
)

// CommunityHandler serves the discussion board. Reading is public; writing
// needs a session.
type CommunityHandler struct {
	content *service.ContentService
	session *middleware.Session
	log     logging.Logger
}

// NewCommunityHandler constructs the discussion handler.
func NewCommunityHandler(content *service.ContentService, session *middleware.Session, log logging.Logger) *CommunityHandler {
	return &CommunityHandler{content: content, session: session, log: log}
}

// Register mounts the discussion routes. Reads are open, writes need a session.
func (h *CommunityHandler) Register(r chi.Router) {
	r.Route("/community/discussions", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.session.Optional)
			r.Get("/", h.handleList)
			r.Get("/{id}", h.handleGet)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.session.Require)
			r.Post("/", h.handleCreate)
			r.Delete("/{id}", h.handleDelete)
		})
	})
}

func (h *CommunityHandler) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := h.content.Discussions(r.Context(), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	principal, ok := middleware.PrincipalFromContext(r.Context())
	views := make([]dto.DiscussionView, 0, len(page.Discussions))
	for _, d := range page.Discussions {
		views = append(views, view(d, principal, ok))
	}
	respond.JSON(w, http.StatusOK, dto.DiscussionList{
		Discussions: views,
		Pagination: dto.Pagination{
			Page:  page.Page,
			Limit: page.Limit,
			Total: page.Total,
			Pages: page.Pages,
		},
	})
}

func (h *CommunityHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	d, err := h.content.Discussion(r.Context(), id)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	principal, ok := middleware.PrincipalFromContext(r.Context())
	respond.JSON(w, http.StatusOK, view(d, principal, ok))
}

func (h *CommunityHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDiscussionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, h.log, err)
		return
	}
	principal, _ := middleware.PrincipalFromContext(r.Context())
	created, err := h.content.CreateDiscussion(r.Context(), principal, req.Title, req.Content)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, view(created, principal, true))
}

func (h *CommunityHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	principal, _ := middleware.PrincipalFromContext(r.Context())
	if err := h.content.DeleteDiscussion(r.Context(), principal, id); err != nil {
		fail(w, r, h.log, err)
		return
	}
	respond.NoContent(w)
}

func view(d models.Discussion, caller models.Principal, identified bool) dto.DiscussionView {
	v := dto.DiscussionView{Discussion: d}
	if identified {
		mine := d.Author.ID == caller.ID
		v.Mine = &mine
	}
	return v
}
