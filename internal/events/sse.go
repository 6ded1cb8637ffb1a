package events

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/araquari-cbm/stationhub/internal/platform/httpx"
)

const heartbeatInterval = 25 * time.Second

// SSEHandler streams change notifications to the browser over Server-Sent
// Events. Any authenticated user may subscribe; the events carry collection
// names only, never record data.
type SSEHandler struct {
	client *redis.Client
	logger *slog.Logger
}

func NewSSEHandler(client *redis.Client, logger *slog.Logger) *SSEHandler {
	return &SSEHandler{client: client, logger: logger}
}

func (h *SSEHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	pubsub := h.client.Subscribe(ctx, Channel)
	defer func() { _ = pubsub.Close() }()

	// Heartbeats keep intermediaries from closing an idle stream.
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", msg.Payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
