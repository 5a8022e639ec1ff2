package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	middlewarePkg "github.com/paulhq/paul-assistant/internal/middleware"
)

// NewRouter wires HTTP routes to the chat service. The Recoverer keeps a
// panicking request from taking the process down; failures surface as
// structured error responses instead.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	h.RegisterRoutes(r)

	return r
}
