package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"map-weather-service/internal/adapters/presentation"
	"map-weather-service/internal/api/dto"
	"map-weather-service/internal/domain"
)

// Screen is the set of user actions the HTTP surface can trigger.
type Screen interface {
	HandleTap(ctx context.Context, c domain.Coordinate) bool
	HandleSearch(ctx context.Context, city string) bool
	HandleLocateMe(ctx context.Context) bool
	OnPermissionResult(ctx context.Context, granted bool) bool
}

// Feed exposes what has been presented to the user.
type Feed interface {
	Last() uint64
	Since(after uint64) []presentation.Presentation
	Wait(ctx context.Context, after uint64) ([]presentation.Presentation, error)
}

// LookupHandler turns HTTP requests into screen actions.
// With ?wait=true the response carries the first presentation that follows the action.
type LookupHandler struct {
	Screen  Screen
	Feed    Feed
	MaxWait time.Duration
}

func (h *LookupHandler) Tap(w http.ResponseWriter, r *http.Request) {
	var req dto.TapRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	c, ok := coordinateFrom(w, r, req.Lat, req.Lon)
	if !ok {
		return
	}

	after := h.Feed.Last()
	h.respond(w, r, after, h.Screen.HandleTap(r.Context(), c))
}

func (h *LookupHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req dto.SearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	after := h.Feed.Last()
	if !h.Screen.HandleSearch(r.Context(), req.City) {
		writeError(w, r, http.StatusBadRequest, "city is required")
		return
	}
	h.respond(w, r, after, true)
}

func (h *LookupHandler) LocateMe(w http.ResponseWriter, r *http.Request) {
	after := h.Feed.Last()
	h.respond(w, r, after, h.Screen.HandleLocateMe(r.Context()))
}

// Presentations lists presentations after the given cursor, long-polling when ?wait is set.
func (h *LookupHandler) Presentations(w http.ResponseWriter, r *http.Request) {
	var after uint64
	if s := r.URL.Query().Get("after"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "after must be a non-negative integer")
			return
		}
		after = v
	}

	wait := time.Duration(0)
	if s := r.URL.Query().Get("wait"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d < 0 {
			writeError(w, r, http.StatusBadRequest, "wait must be a duration such as 5s")
			return
		}
		wait = min(d, h.MaxWait)
	}

	items := h.Feed.Since(after)
	if len(items) == 0 && wait > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), wait)
		defer cancel()
		if got, err := h.Feed.Wait(ctx, after); err == nil {
			items = got
		}
	}

	writeJSON(w, r, http.StatusOK, dto.PresentationsResponse{
		Presentations: items,
		Last:          h.Feed.Last(),
	})
}

func (h *LookupHandler) respond(w http.ResponseWriter, r *http.Request, after uint64, accepted bool) {
	if !accepted {
		writeError(w, r, http.StatusServiceUnavailable, "screen is shutting down")
		return
	}

	if r.URL.Query().Get("wait") != "true" {
		writeJSON(w, r, http.StatusAccepted, dto.AcceptedResponse{Accepted: true, After: after})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.MaxWait)
	defer cancel()

	items, err := h.Feed.Wait(ctx, after)
	if err != nil {
		writeJSON(w, r, http.StatusAccepted, dto.AcceptedResponse{Accepted: true, After: after})
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PresentationsResponse{
		Presentations: items[:1],
		Last:          items[0].Seq,
	})
}

func coordinateFrom(w http.ResponseWriter, r *http.Request, lat, lon *float64) (domain.Coordinate, bool) {
	if lat == nil || lon == nil {
		writeError(w, r, http.StatusBadRequest, "lat and lon are required")
		return domain.Coordinate{}, false
	}

	c, err := domain.NewCoordinate(*lat, *lon)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "lat must be within [-90, 90] and lon within [-180, 180]")
		return domain.Coordinate{}, false
	}
	return c, true
}
