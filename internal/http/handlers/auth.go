package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/learnhub-be/internal/http/respond"
	"github.com/hongminglow/learnhub-be/internal/logging"
	"github.com/hongminglow/learnhub-be/internal/middleware"
	"github.com/hongminglow/learnhub-be/internal/models/dto"
	"github.com/hongminglow/learnhub-be/internal/service"
)

// AuthHandler owns the register/login/me/logout endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	session *middleware.Session
	log     logging.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(auth *service.AuthService, session *middleware.Session, log logging.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, session: session, log: log}
}

// Register attaches auth routes under /auth.
func (h *AuthHandler) Register(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
		r.Get("/me", h.handleMe)
		r.With(h.session.Require).Post("/logout", h.handleLogout)
	})
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, h.log, err)
		return
	}
	created, err := h.auth.Register(r.Context(), req.Phone, req.Password)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, dto.NewRegisterResponse(created))
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, h.log, err)
		return
	}
	res, err := h.auth.Login(r.Context(), req.Phone, req.Password)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.LoginResponse{
		Token: res.Token,
		User:  dto.PublicUser{ID: res.User.ID, Phone: res.User.Phone},
	})
}

// handleMe verifies the token itself so a deleted user is a 404 rather than
// the 401 the session middleware would give.
func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context(), middleware.BearerToken(r))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.MeResponse{User: dto.NewRegisterResponse(user)})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())
	if err := h.auth.Logout(r.Context(), principal); err != nil {
		fail(w, r, h.log, err)
		return
	}
	respond.NoContent(w)
}
