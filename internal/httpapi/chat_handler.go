package httpapi

import (
	"net/http"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/chat"
)

type chatRequest struct {
	Query   string         `json:"query"`
	History []chat.Message `json:"history"`
}

func (h *Handler) ChatGreeting(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.d.Chat.Greeting())
}

// Chat always answers 200 with some text once the query is present; model
// failures turn into the canned offline reply.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, r, http.StatusBadRequest, "query is required")
		return
	}

	text := h.d.Chat.Recommend(r.Context(), req.Query, req.History)
	writeJSON(w, http.StatusOK, chat.Message{Role: chat.RoleModel, Text: text})
}
