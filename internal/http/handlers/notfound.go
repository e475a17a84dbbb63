package handlers

import (
	"net/http"

	"github.com/hongminglow/learnhub-be/internal/http/respond"
)

type notFoundBody struct {
	Message string `json:"message"`
	Path    string `json:"path"`
	Method  string `json:"method"`
}

// NotFound answers requests for unknown endpoints.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusNotFound, notFoundBody{
		Message: "endpoint not found",
		Path:    r.URL.Path,
		Method:  r.Method,
	})
}

// MethodNotAllowed answers known paths hit with the wrong verb.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusMethodNotAllowed, notFoundBody{
		Message: "method not allowed",
		Path:    r.URL.Path,
		Method:  r.Method,
	})
}
