// Package handler provides the HTTP handlers of the assistant API.
// Every handler is stateless: parse the request, validate, make at
// most one outbound call, reshape the result into JSON.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vanek-ai/backend/internal/config"
	"github.com/vanek-ai/backend/internal/repository"
	"github.com/vanek-ai/backend/internal/service"
)

// Handler holds the dependencies shared by all routes.
type Handler struct {
	cfg        *config.Config
	completion *service.CompletionService
	assistant  *service.AssistantService
	imagen     *service.ImageService
	store      repository.Store
}

// Deps contains everything required to construct a Handler. Store and
// Assistant may be nil when their configuration is absent; the
// affected routes then answer 500 per request.
type Deps struct {
	Cfg        *config.Config
	Completion *service.CompletionService
	Assistant  *service.AssistantService
	Imagen     *service.ImageService
	Store      repository.Store
}

// New creates a Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		cfg:        deps.Cfg,
		completion: deps.Completion,
		assistant:  deps.Assistant,
		imagen:     deps.Imagen,
		store:      deps.Store,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// preflight answers a CORS preflight for a route allowing the given
// methods.
func preflight(w http.ResponseWriter, methods string) {
	w.Header().Set("Access-Control-Allow-Methods", methods)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-Id")
	w.Header().Set("Access-Control-Max-Age", "86400")
	w.WriteHeader(http.StatusOK)
}

// decode parses a JSON request body.
func decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
