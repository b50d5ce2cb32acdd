package handler

import (
	"context"
	"net/http"

	"admin-console/internal/apiclient"
	"admin-console/internal/websocket"
)

type backendProber interface {
	Probe(ctx context.Context) apiclient.BackendStatus
}

// SystemHandler serves the console's own diagnostics and the event stream.
type SystemHandler struct {
	prober backendProber
	hub    *websocket.Hub
}

func NewSystemHandler(prober backendProber, hub *websocket.Hub) *SystemHandler {
	return &SystemHandler{prober: prober, hub: hub}
}

func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *SystemHandler) BackendStatus(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.prober.Probe(r.Context()), nil)
}

func (h *SystemHandler) Events(w http.ResponseWriter, r *http.Request) {
	websocket.Serve(h.hub, w, r)
}
