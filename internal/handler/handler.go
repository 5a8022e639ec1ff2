package handler

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	chatservice "github.com/paulhq/paul-assistant/internal/service/chat"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Handler maps the HTTP surface onto the chat service.
type Handler struct {
	chatSvc *chatservice.Service
	log     zerolog.Logger
	tmpl    *template.Template
}

// New builds the handler; template parsing happens once at startup.
func New(chatSvc *chatservice.Service, log zerolog.Logger) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		log:     log.With().Str("component", "handler").Logger(),
		tmpl:    template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// RegisterRoutes attaches every endpoint to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleHome)
	r.Get("/new-conversation", h.handleNewConversation)
	r.Post("/query", h.handleQuery)
	r.Post("/submit-query", h.handleSubmitQuery)
	r.Get("/conversation/{conversationID}", h.handleConversation)
	r.Get("/clear-history", h.handleClearHistory)
	r.Get("/api/health", h.handleHealth)

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
}
