// Package handler exposes the hunt over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"snaphunt/internal/geo"
	"snaphunt/internal/hunt"
	"snaphunt/internal/logging"
	"snaphunt/internal/mapview"
	"snaphunt/internal/media"
	"snaphunt/internal/registry"
	"snaphunt/internal/workflow"
	"snaphunt/pkg/httpx"
)

const maxUploadBytes = 32 << 20

// Handler serves the task endpoints.
type Handler struct {
	completer *workflow.Completer
	registry  hunt.Registry
	log       logrus.FieldLogger
	region    mapview.Region

	inflightMu sync.Mutex
	inflight   map[string]struct{}
}

// Options carries the presentation defaults.
type Options struct {
	// MapRegion is the viewport shown for tasks without a location.
	MapRegion mapview.Region
}

// New wires a Handler.
func New(completer *workflow.Completer, reg hunt.Registry, log logrus.FieldLogger, opts Options) *Handler {
	return &Handler{
		completer: completer,
		registry:  reg,
		log:       log,
		region:    opts.MapRegion,
		inflight:  make(map[string]struct{}),
	}
}

// RegisterRoutes attaches the task endpoints to mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/tasks", h.listTasks)
	mux.HandleFunc("GET /v1/tasks/{id}", h.getTask)
	mux.HandleFunc("POST /v1/tasks/{id}/complete", h.completeTask)
	mux.HandleFunc("GET /v1/tasks/{id}/photo", h.getPhoto)
	mux.HandleFunc("GET /v1/tasks/{id}/map", h.getMap)
	mux.HandleFunc("GET /v1/events", h.streamEvents)
	mux.HandleFunc("GET /healthz", h.healthz)
}

type photoResponse struct {
	Name    string    `json:"name"`
	Source  string    `json:"source"`
	Bytes   int       `json:"bytes"`
	TakenAt time.Time `json:"taken_at"`
}

type taskResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Completed   bool            `json:"completed"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Photo       *photoResponse  `json:"photo,omitempty"`
	Location    *geo.Coordinate `json:"location,omitempty"`
}

type completeResponse struct {
	Task    taskResponse `json:"task"`
	Outcome string       `json:"outcome"`
	Notice  string       `json:"notice,omitempty"`
}

func toTaskResponse(t hunt.Task) taskResponse {
	resp := taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CompletedAt: t.CompletedAt,
		Location:    t.Location,
	}
	if t.Photo != nil {
		resp.Photo = &photoResponse{
			Name:    t.Photo.Name,
			Source:  t.Photo.Source.String(),
			Bytes:   len(t.Photo.Data),
			TakenAt: t.Photo.TakenAt,
		}
	}
	return resp
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks := h.registry.List(r.Context())
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	logging.FromContext(r.Context()).WithField("count", len(out)).Debug("tasks listed")
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

// completeRequest is the JSON body of a completion attempt.
type completeRequest struct {
	Source string `json:"source"`
}

func (h *Handler) completeTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	log := logging.FromContext(r.Context()).WithField("task_id", id)

	src, upload, badRequest := parseCompleteRequest(r)
	if badRequest != "" {
		log.WithField("reason", badRequest).Debug("completion request rejected")
		httpx.WriteError(w, http.StatusBadRequest, badRequest)
		return
	}

	// One completion interaction per task at a time.
	if !h.beginCompletion(id) {
		httpx.WriteError(w, http.StatusConflict, "completion already in progress for this task")
		return
	}
	defer h.endCompletion(id)

	var (
		res workflow.Result
		err error
	)
	if upload != nil {
		res, err = h.completer.CompleteWith(r.Context(), id, src, upload)
	} else {
		res, err = h.completer.Complete(r.Context(), id, src)
	}
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "task not found")
		case errors.Is(err, media.ErrSourceUnavailable):
			httpx.WriteError(w, http.StatusConflict, workflow.UnavailableMessage(src))
		default:
			log.WithError(err).Error("completion attempt failed")
			httpx.WriteError(w, http.StatusInternalServerError, "could not complete task")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, completeResponse{
		Task:    toTaskResponse(res.Task),
		Outcome: string(res.Outcome),
		Notice:  res.Notice,
	})
}

// parseCompleteRequest pulls the evidence source, and for multipart bodies
// the uploaded photo, out of the request. A nil acquirer means the
// server-side capture flow runs.
func parseCompleteRequest(r *http.Request) (media.Source, media.Acquirer, string) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return 0, nil, "malformed multipart body"
		}
		src := media.Library
		if sv := r.FormValue("source"); sv != "" {
			var err error
			if src, err = media.ParseSource(sv); err != nil {
				return 0, nil, "unknown source"
			}
		}
		file, header, err := r.FormFile("photo")
		if errors.Is(err, http.ErrMissingFile) {
			return src, nil, ""
		}
		if err != nil {
			return 0, nil, "malformed photo upload"
		}
		if src != media.Library {
			file.Close()
			return 0, nil, "an uploaded photo must use the library source"
		}
		return src, uploadAcquirer(file, header.Filename), ""
	}

	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return 0, nil, "malformed request body"
	}
	if req.Source == "" {
		return media.Library, nil, ""
	}
	src, err := media.ParseSource(req.Source)
	if err != nil {
		return 0, nil, "unknown source"
	}
	return src, nil, ""
}

// uploadAcquirer treats an uploaded file as the user's library pick.
func uploadAcquirer(file io.ReadCloser, name string) media.Acquirer {
	pick := media.FromReader(file, name)
	return &media.Picker{Library: media.CaptureFunc(func(ctx context.Context) (*media.Photo, error) {
		defer file.Close()
		return pick.Capture(ctx)
	})}
}

func (h *Handler) getPhoto(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}
	if task.Photo == nil {
		httpx.WriteError(w, http.StatusNotFound, "no photo attached")
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(task.Photo.Data))
	w.Header().Set("Content-Disposition", `inline; filename="`+task.Photo.Name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(task.Photo.Data)
}

func (h *Handler) getMap(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}
	data, err := mapview.ForTask(task, h.region).GeoJSON()
	if err != nil {
		logging.FromContext(r.Context()).WithError(err).Error("map render failed")
		httpx.WriteError(w, http.StatusInternalServerError, "could not render map")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// loadTask fetches the task in the path, writing the error response itself
// when the lookup fails.
func (h *Handler) loadTask(w http.ResponseWriter, r *http.Request) (hunt.Task, bool) {
	task, err := h.registry.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "task not found")
		} else {
			logging.FromContext(r.Context()).WithError(err).Error("task lookup failed")
			httpx.WriteError(w, http.StatusInternalServerError, "could not load task")
		}
		return hunt.Task{}, false
	}
	return task, true
}

func (h *Handler) beginCompletion(id string) bool {
	h.inflightMu.Lock()
	defer h.inflightMu.Unlock()
	if _, busy := h.inflight[id]; busy {
		return false
	}
	h.inflight[id] = struct{}{}
	return true
}

func (h *Handler) endCompletion(id string) {
	h.inflightMu.Lock()
	delete(h.inflight, id)
	h.inflightMu.Unlock()
}
