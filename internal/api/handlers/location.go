package handlers

import (
	"net/http"

	"map-weather-service/internal/adapters/mapview"
	"map-weather-service/internal/api/dto"
	"map-weather-service/internal/domain"
)

type FixReporter interface {
	ReportFix(c domain.Coordinate) bool
	Lost()
}

type PermissionSetter interface {
	Set(granted bool)
}

type CameraReader interface {
	Snapshot() mapview.Viewport
}

// LocationHandler receives device location updates and permission answers.
type LocationHandler struct {
	Screen     Screen
	Tracker    FixReporter
	Permission PermissionSetter
	Camera     CameraReader
}

// Fix records a device position report. The first accepted fix triggers a lookup.
func (h *LocationHandler) Fix(w http.ResponseWriter, r *http.Request) {
	var req dto.FixRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	c, ok := coordinateFrom(w, r, req.Lat, req.Lon)
	if !ok {
		return
	}

	if !h.Tracker.ReportFix(c) {
		writeError(w, r, http.StatusConflict, domain.MsgPermissionRequired)
		return
	}
	writeJSON(w, r, http.StatusAccepted, map[string]bool{"accepted": true})
}

// LoseFix clears the current position, as when the device loses its signal.
func (h *LocationHandler) LoseFix(w http.ResponseWriter, r *http.Request) {
	h.Tracker.Lost()
	w.WriteHeader(http.StatusNoContent)
}

// SetPermission records the user's answer to the location permission prompt.
func (h *LocationHandler) SetPermission(w http.ResponseWriter, r *http.Request) {
	var req dto.PermissionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Granted == nil {
		writeError(w, r, http.StatusBadRequest, "granted is required")
		return
	}

	h.Permission.Set(*req.Granted)
	if !h.Screen.OnPermissionResult(r.Context(), *req.Granted) {
		writeError(w, r, http.StatusServiceUnavailable, "screen is shutting down")
		return
	}
	writeJSON(w, r, http.StatusAccepted, map[string]bool{"granted": *req.Granted})
}

func (h *LocationHandler) CameraSnapshot(w http.ResponseWriter, r *http.Request) {
	vp := h.Camera.Snapshot()
	writeJSON(w, r, http.StatusOK, dto.CameraResponse{
		Lat:      vp.Center.Lat,
		Lon:      vp.Center.Lon,
		Zoom:     vp.Zoom,
		Animated: vp.Animated,
	})
}
