package handler

import (
	"net/http"
	"strings"
)

type aiImageRequest struct {
	Prompt string `json:"prompt"`
	// "url" (default) returns a direct generation link; "base64"
	// fetches the rendered image and returns it inline.
	ResponseFormat string `json:"responseFormat"`
}

// AIImage serves image generation requests.
func (h *Handler) AIImage(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		preflight(w, "POST, OPTIONS")
		return
	case http.MethodPost:
	default:
		Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req aiImageRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		Error(w, http.StatusBadRequest, "Prompt required")
		return
	}

	if req.ResponseFormat == "base64" {
		image, err := h.imagen.GenerateBase64(r.Context(), req.Prompt)
		if err != nil {
			Error(w, http.StatusInternalServerError, "Generation failed: "+err.Error())
			return
		}
		JSON(w, http.StatusOK, map[string]string{"image": image})
		return
	}

	JSON(w, http.StatusOK, map[string]string{"imageUrl": h.imagen.GenerateURL(req.Prompt)})
}
