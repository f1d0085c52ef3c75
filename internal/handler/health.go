package handler

import "net/http"

// Health reports liveness and, when a store is configured, its
// reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	status := map[string]string{"status": "ok"}
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			JSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "ok"
	}

	JSON(w, http.StatusOK, status)
}
