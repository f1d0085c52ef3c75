package handler

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/vanek-ai/backend/internal/audio"
	"github.com/vanek-ai/backend/internal/config"
	"github.com/vanek-ai/backend/internal/domain"
	"github.com/vanek-ai/backend/internal/service"
)

type chatRequest struct {
	Message       string               `json:"message"`
	History       []domain.ChatTurn    `json:"history"`
	Image         string               `json:"image"`
	AudioAnalysis *domain.AudioSummary `json:"audioAnalysis"`
	File          string               `json:"file"`
	FileType      string               `json:"fileType"`
	FileName      string               `json:"fileName"`
}

type chatResponse struct {
	Reply     string `json:"reply"`
	RequestID string `json:"request_id"`
}

// Chat serves the API-key-gated chat flow. Attachments are resolved
// into a single tagged state before the provider call; provider errors
// surface as 500 with the provider's text.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		preflight(w, "GET, POST, OPTIONS")
		return
	case http.MethodPost:
	default:
		Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if !h.cfg.HasOpenAI() {
		Error(w, http.StatusInternalServerError, "OpenAI API key not configured")
		return
	}

	var req chatRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Message) == "" && req.File == "" {
		Error(w, http.StatusBadRequest, "Message or file required")
		return
	}

	message, att := resolveAttachment(req)

	reply, err := h.assistant.Reply(r.Context(), att, req.History, message)
	if err != nil {
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	JSON(w, http.StatusOK, chatResponse{Reply: reply, RequestID: uuid.NewString()})
}

// resolveAttachment decides the attachment state once. A raw file
// upload takes precedence: images become vision parts, audio is
// analyzed server-side, and anything readable as text is inlined into
// the message. Without an upload the marker-based classifier applies.
func resolveAttachment(req chatRequest) (string, domain.AttachmentContext) {
	message := req.Message

	if req.File != "" && req.FileType != "" {
		switch {
		case strings.HasPrefix(req.FileType, "image/"):
			return message, domain.AttachmentContext{
				Kind:     domain.AttachmentImage,
				ImageRef: fmt.Sprintf("data:%s;base64,%s", req.FileType, req.File),
			}
		case strings.HasPrefix(req.FileType, "audio/"):
			summary := audio.Analyze(req.File, req.FileType, req.FileName)
			return message, domain.AttachmentContext{
				Kind:  domain.AttachmentAudio,
				Audio: &summary,
			}
		default:
			decoded, err := base64.StdEncoding.DecodeString(req.File)
			if err != nil {
				message += fmt.Sprintf("\n\n(Не удалось прочитать файл: %v)", err)
				return message, domain.AttachmentContext{
					Kind:     domain.AttachmentOtherFile,
					FileName: req.FileName,
					FileType: req.FileType,
				}
			}
			if len(decoded) > config.MaxInlineFileBytes {
				decoded = decoded[:config.MaxInlineFileBytes]
			}
			message += "\n\nСодержимое файла:\n" + string(decoded)
			return message, domain.AttachmentContext{Kind: domain.AttachmentNone}
		}
	}

	return message, service.ClassifyAttachment(req.Message, req.Image, req.AudioAnalysis, req.FileName, req.FileType)
}
