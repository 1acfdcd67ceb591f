package httpapi

import (
	"net/http"
	"time"

	"jobwatch-engine/internal/events"
)

type HealthHandler struct {
	Hub *events.Hub
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	}
	if h.Hub != nil {
		subs, dropped := h.Hub.Stats()
		body["sse_subscribers"] = subs
		body["sse_dropped"] = dropped
	}
	WriteJSON(w, http.StatusOK, body)
}
