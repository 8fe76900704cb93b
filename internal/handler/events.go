package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"snaphunt/internal/logging"
	"snaphunt/pkg/httpx"
)

const heartbeatInterval = 15 * time.Second

// streamEvents pushes task changes to the client as server-sent events.
// Each completion shows up as one "task" event; comment lines keep the
// connection warm in between.
func (h *Handler) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpx.WriteError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events, cancel := h.completer.Subscribe(16)
	defer cancel()

	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	log := logging.FromContext(r.Context())
	log.Debug("event stream opened")
	defer log.Debug("event stream closed")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case ev, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(completeResponse{
				Task:    toTaskResponse(ev.Task),
				Outcome: string(ev.Outcome),
				Notice:  ev.Notice,
			})
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: task\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
