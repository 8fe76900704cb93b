package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"snaphunt/internal/hunt"
	"snaphunt/internal/media"
)

func TestEventStreamDeliversCompletions(t *testing.T) {
	te := setup(t, hunt.EnvSandbox, &media.Picker{Library: okLibrary()}, nil)
	srv := httptest.NewServer(te.mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/events", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read greeting: %v", err)
	}
	if !strings.HasPrefix(line, ":") {
		t.Fatalf("greeting = %q, want a comment line", line)
	}

	// Trigger a completion while the stream is open.
	id := te.tasks[0].ID
	post, err := http.Post(srv.URL+"/v1/tasks/"+id+"/complete", "application/json",
		strings.NewReader(`{"source":"library"}`))
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusOK {
		t.Fatalf("complete status = %d", post.StatusCode)
	}

	var data string
	for {
		line, err = reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		if strings.HasPrefix(line, "data: ") {
			data = strings.TrimSuffix(strings.TrimPrefix(line, "data: "), "\n")
			break
		}
	}

	var ev completeResponse
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		t.Fatalf("decode event %q: %v", data, err)
	}
	if ev.Task.ID != id || ev.Outcome != "completed" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Task.Location == nil {
		t.Error("event task missing location")
	}
}
