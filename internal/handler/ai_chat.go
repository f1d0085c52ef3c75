package handler

import (
	"net/http"
	"strings"

	"github.com/vanek-ai/backend/internal/domain"
)

type aiChatRequest struct {
	Message string            `json:"message"`
	History []domain.ChatTurn `json:"history"`
}

// AIChat serves the free, best-effort chat flow. Provider failures
// never surface to the user: the reply is always 200 with
// conversational content.
func (h *Handler) AIChat(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		preflight(w, "POST, OPTIONS")
		return
	case http.MethodPost:
	default:
		Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req aiChatRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		Error(w, http.StatusBadRequest, "Message required")
		return
	}

	reply := h.completion.Generate(r.Context(), req.History, req.Message)
	JSON(w, http.StatusOK, map[string]string{"response": reply})
}
