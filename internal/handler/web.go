package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/paulhq/paul-assistant/internal/model/chat"
	chatservice "github.com/paulhq/paul-assistant/internal/service/chat"
	"github.com/paulhq/paul-assistant/pkg/utils"
)

const assistantName = "Paul"

type pageData struct {
	AssistantName  string
	UserID         string
	ConversationID string
	History        []chat.Message
	Query          string
	Response       string
}

// handleHome renders the conversational UI with the current history,
// assigning identity cookies on first contact.
func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	userID, conversationID := identity(w, r)

	h.render(w, pageData{
		AssistantName:  assistantName,
		UserID:         userID,
		ConversationID: conversationID,
		History:        h.chatSvc.History(conversationID),
	})
}

// handleNewConversation issues a fresh conversation cookie and bounces the
// client back to the home page.
func (h *Handler) handleNewConversation(w http.ResponseWriter, r *http.Request) {
	setCookie(w, conversationCookieName, uuid.NewString(), conversationCookieMaxAge)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleSubmitQuery runs a turn from the HTML form and re-renders the page.
func (h *Handler) handleSubmitQuery(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	query := r.PostFormValue("query")
	if query == "" {
		utils.RespondError(w, http.StatusBadRequest, "query is required")
		return
	}

	userID, conversationID := identity(w, r)

	reply, history, err := h.chatSvc.Converse(r.Context(), conversationID, query, chatservice.FormRetryPolicy)
	if err != nil {
		status, detail := upstreamFailure(err)
		h.log.Error().Err(err).Str("conversation_id", conversationID).Msg("form turn failed")
		utils.RespondError(w, status, detail)
		return
	}

	h.render(w, pageData{
		AssistantName:  assistantName,
		UserID:         userID,
		ConversationID: conversationID,
		History:        history,
		Query:          query,
		Response:       reply,
	})
}

func (h *Handler) render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		h.log.Error().Err(err).Msg("failed to render page")
	}
}
