package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatservice "github.com/paulhq/paul-assistant/internal/service/chat"
	"github.com/paulhq/paul-assistant/internal/service/completion"
	"github.com/paulhq/paul-assistant/pkg/utils"
)

// handleQuery serves the JSON conversation endpoint. Identifiers in the
// body override cookie-assigned ones.
func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Query          string `json:"query"`
		UserID         string `json:"user_id"`
		ConversationID string `json:"conversation_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Query == "" {
		utils.RespondError(w, http.StatusBadRequest, "query is required")
		return
	}

	_, conversationID := identity(w, r)
	if payload.ConversationID != "" {
		conversationID = payload.ConversationID
	}

	reply, history, err := h.chatSvc.Converse(r.Context(), conversationID, payload.Query, chatservice.QueryRetryPolicy)
	if err != nil {
		status, detail := upstreamFailure(err)
		h.log.Error().Err(err).Str("conversation_id", conversationID).Msg("query turn failed")
		utils.RespondError(w, status, detail)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"response":        reply,
		"conversation_id": conversationID,
		"history":         history,
	})
}

// handleConversation returns the stored transcript for an identifier.
func (h *Handler) handleConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"conversation_id": conversationID,
		"history":         h.chatSvc.History(conversationID),
	})
}

// handleClearHistory drops the cookie-identified conversation.
func (h *Handler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	_, conversationID := identity(w, r)
	h.chatSvc.Clear(conversationID)

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Conversation history cleared",
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// upstreamFailure maps a turn error to a response status and detail. An
// upstream status passes through; transport and timeout failures map to
// gateway errors.
func upstreamFailure(err error) (int, string) {
	var upstream *completion.UpstreamError
	if errors.As(err, &upstream) {
		switch {
		case upstream.Timeout:
			return http.StatusGatewayTimeout, upstream.Error()
		case upstream.StatusCode != 0:
			return upstream.StatusCode, upstream.Error()
		default:
			return http.StatusBadGateway, upstream.Error()
		}
	}
	return http.StatusInternalServerError, "internal error"
}
