package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/camwatch/internal/camera"
)

// handleHealth returns service liveness.
//
// GET /api/v1/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "camwatch",
		"version": s.version,
	})
}

// handleListDevices returns every discovered device with its current
// detection status.
//
// GET /api/v1/devices
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices := s.engine.ListDevices()
	writeJSON(w, http.StatusOK, map[string]any{
		"devices": devices,
		"count":   len(devices),
	})
}

// handleGetDeviceStatus returns the cached detection status for one device.
//
// GET /api/v1/devices/{id}/status
func (s *Server) handleGetDeviceStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	status, err := s.engine.GetDeviceStatus(id)
	if err != nil {
		if errors.Is(err, camera.ErrDeviceNotFound) {
			writeNotFound(w, "device not found: "+id)
			return
		}
		writeInternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":     id,
		"status": status,
	})
}

// setDetectionRequest is the body for detection toggles.
type setDetectionRequest struct {
	Enabled *bool `json:"enabled"`
}

// handleSetDetection toggles a detection feature on a device.
//
// PUT /api/v1/devices/{id}/detection/{mode}   mode: line | field
func (s *Server) handleSetDetection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	mode := chi.URLParam(r, "mode")

	var req setDetectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if req.Enabled == nil {
		writeBadRequest(w, "missing field: enabled")
		return
	}

	var err error
	switch mode {
	case camera.FeatureKeyLine:
		err = s.engine.SetLineDetection(r.Context(), id, *req.Enabled)
	case camera.FeatureKeyField:
		err = s.engine.SetFieldDetection(r.Context(), id, *req.Enabled)
	default:
		writeBadRequest(w, "unknown detection mode: "+mode)
		return
	}

	if err != nil {
		if errors.Is(err, camera.ErrDeviceNotFound) {
			writeNotFound(w, "device not found: "+id)
			return
		}
		writeUpstreamError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"mode":    mode,
		"enabled": *req.Enabled,
	})
}

// handleGetImage renders and serves an annotated snapshot.
//
// GET /api/v1/devices/{id}/image?width=&height=
func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	width, ok := queryDimension(w, r, "width")
	if !ok {
		return
	}
	height, ok := queryDimension(w, r, "height")
	if !ok {
		return
	}

	img, err := s.renderer.Render(r.Context(), id, width, height)
	if err != nil {
		if errors.Is(err, camera.ErrDeviceNotFound) {
			writeNotFound(w, "device not found: "+id)
			return
		}
		writeUpstreamError(w, err.Error())
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Best-effort write to response; connection may be closed
	w.Write(img.Data)
}

// handleReload re-runs device discovery over the configured fleet.
//
// POST /api/v1/system/reload
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Reload(r.Context()); err != nil {
		writeUpstreamError(w, err.Error())
		return
	}

	devices := s.engine.ListDevices()
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "reloaded",
		"count":  len(devices),
	})
}

// queryDimension parses an optional positive integer query parameter,
// writing a 400 and returning ok=false when it is malformed.
func queryDimension(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		writeBadRequest(w, "invalid "+name+": "+raw)
		return 0, false
	}
	return v, true
}
