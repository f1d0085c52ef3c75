package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/vanek-ai/backend/internal/domain"
)

type appendMessageRequest struct {
	SessionID string  `json:"sessionId"`
	MessageID string  `json:"messageId"`
	Sender    string  `json:"sender"`
	Text      string  `json:"text"`
	HasFile   bool    `json:"hasFile"`
	FileName  *string `json:"fileName"`
	ImageURL  *string `json:"imageUrl"`
}

type messageRow struct {
	ID        string  `json:"id"`
	Sender    string  `json:"sender"`
	Text      string  `json:"text"`
	HasFile   bool    `json:"hasFile"`
	FileName  *string `json:"fileName"`
	ImageURL  *string `json:"imageUrl"`
	Timestamp string  `json:"timestamp"`
}

// Messages serves the message store: POST appends a turn, GET lists a
// session's log in creation order.
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		preflight(w, "POST, GET, OPTIONS")
	case http.MethodPost:
		h.appendMessage(w, r)
	case http.MethodGet:
		h.listMessages(w, r)
	default:
		Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *Handler) appendMessage(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		Error(w, http.StatusInternalServerError, "Database not configured")
		return
	}

	var req appendMessageRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	err := h.store.Append(r.Context(), domain.PersistedMessage{
		SessionID: req.SessionID,
		MessageID: req.MessageID,
		Sender:    req.Sender,
		Text:      req.Text,
		HasFile:   req.HasFile,
		FileName:  req.FileName,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			Error(w, http.StatusBadRequest, "Missing required fields")
			return
		}
		slog.Error("append message", "error", err, "session_id", req.SessionID)
		Error(w, http.StatusInternalServerError, "Failed to save message")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"messageId": req.MessageID,
	})
}

func (h *Handler) listMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		Error(w, http.StatusBadRequest, "sessionId required")
		return
	}

	if h.store == nil {
		Error(w, http.StatusInternalServerError, "Database not configured")
		return
	}

	messages, err := h.store.List(r.Context(), sessionID)
	if err != nil {
		slog.Error("list messages", "error", err, "session_id", sessionID)
		Error(w, http.StatusInternalServerError, "Failed to load messages")
		return
	}

	rows := make([]messageRow, 0, len(messages))
	for _, m := range messages {
		rows = append(rows, messageRow{
			ID:        m.MessageID,
			Sender:    m.Sender,
			Text:      m.Text,
			HasFile:   m.HasFile,
			FileName:  m.FileName,
			ImageURL:  m.ImageURL,
			Timestamp: m.CreatedAt.Format(time.RFC3339),
		})
	}

	JSON(w, http.StatusOK, map[string]interface{}{"messages": rows})
}
